package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/luccarvs/PlaylistImport-API/internal/domain"
	"github.com/luccarvs/PlaylistImport-API/internal/ports"
)

// Service implements ports.ImportService. Each import run is a single
// serial loop over the fetched tracks; the limiter throttles catalog
// searches to respect upstream rate limits. Runs for different sessions
// may execute concurrently, isolated by their session keys in the
// progress tracker.
type Service struct {
	source   ports.SourceClient
	resolver *Resolver
	store    ports.PlaylistStore
	progress ports.ProgressTracker
	limiter  *rate.Limiter
	logger   *log.Logger
}

// NewService creates the import service. searchRate is the maximum
// catalog searches per second; values <= 0 fall back to 5. A nil logger
// discards output.
func NewService(
	source ports.SourceClient,
	catalog ports.CatalogSearcher,
	store ports.PlaylistStore,
	progress ports.ProgressTracker,
	searchRate float64,
	logger *log.Logger,
) *Service {
	if searchRate <= 0 {
		searchRate = 5
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Service{
		source:   source,
		resolver: NewResolver(catalog),
		store:    store,
		progress: progress,
		limiter:  rate.NewLimiter(rate.Limit(searchRate), 1),
		logger:   logger,
	}
}

// Import runs the full pipeline: validate, fetch, resolve the target
// playlist, then process each track in order, updating the progress
// tracker before every item. Per-item failures are recorded and never
// stop the loop; only invalid input, a fetch failure, or a failed
// playlist creation abort the run.
func (s *Service) Import(ctx context.Context, req domain.ImportRequest) (*domain.ImportOutcome, error) {
	if req.SourcePlaylistID == "" {
		return nil, fmt.Errorf("%w: source playlist id is required", domain.ErrInvalidInput)
	}
	if !req.CreateNewPlaylist && req.TargetPlaylistID == "" {
		return nil, fmt.Errorf("%w: target playlist id is required", domain.ErrInvalidInput)
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = "import_" + uuid.NewString()
	}

	logger := s.logger.With("session", sessionID, "source_playlist", req.SourcePlaylistID)

	logger.Info("fetching source playlist tracks")
	tracks, err := s.source.FetchPlaylistTracks(ctx, req.AccessToken, req.SourcePlaylistID)
	if err != nil {
		logger.Error("source fetch failed", "err", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceFetch, err)
	}
	logger.Info("fetched source tracks", "count", len(tracks))

	playlistID := req.TargetPlaylistID
	if req.CreateNewPlaylist {
		name := req.PlaylistName
		if name == "" {
			name = "Imported from Spotify"
		}
		description := "Imported from Spotify on " + time.Now().Format("2006-01-02")

		created, err := s.store.CreatePlaylist(ctx, req.UserID, name, description)
		if err != nil {
			logger.Error("playlist creation failed", "err", err)
			return nil, fmt.Errorf("failed to create playlist: %w", err)
		}
		playlistID = created.ID
	}

	// Clear on every exit path so an aborted run never leaves a stale
	// session behind for pollers.
	defer s.progress.Clear(sessionID)

	result := &domain.ImportResult{
		Total:  len(tracks),
		Errors: []domain.ImportError{},
	}
	var reasons []string

	record := func(track, reason string) {
		result.TotalErrors++
		if len(result.Errors) < domain.MaxReportedErrors {
			result.Errors = append(result.Errors, domain.ImportError{Track: track, Reason: reason})
			reasons = append(reasons, track+": "+reason)
		}
	}

	for i, track := range tracks {
		label := track.Label()

		s.progress.Set(sessionID, domain.ProgressSnapshot{
			Current:      i + 1,
			Total:        len(tracks),
			Imported:     result.Imported,
			Failed:       result.Failed,
			Skipped:      result.Skipped,
			CurrentTrack: label,
			Errors:       reasons,
		})

		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		song, err := s.resolver.Resolve(ctx, track)
		if err != nil {
			result.Failed++
			record(label, err.Error())
			logger.Debug("track not resolved", "track", label, "reason", err)
			continue
		}

		_, err = s.store.AddSong(ctx, playlistID, *song)
		switch {
		case errors.Is(err, domain.ErrDuplicateSong):
			result.Skipped++
			record(label, "already in playlist")
		case err != nil:
			result.Failed++
			record(label, "database error: "+err.Error())
			logger.Warn("failed to store track", "track", label, "err", err)
		default:
			result.Imported++
		}
	}

	logger.Info("import complete",
		"total", result.Total,
		"imported", result.Imported,
		"failed", result.Failed,
		"skipped", result.Skipped,
	)

	return &domain.ImportOutcome{
		PlaylistID: playlistID,
		SessionID:  sessionID,
		Results:    result,
	}, nil
}

// Progress returns the live snapshot for an in-flight import session.
func (s *Service) Progress(sessionID string) (domain.ProgressSnapshot, error) {
	return s.progress.Get(sessionID)
}

func (s *Service) ListPlaylists(ctx context.Context, userID string) ([]domain.Playlist, error) {
	return s.store.ListPlaylists(ctx, userID)
}

func (s *Service) PlaylistSongs(ctx context.Context, playlistID string) ([]domain.PlaylistEntry, error) {
	if _, err := s.store.GetPlaylist(ctx, playlistID); err != nil {
		return nil, err
	}
	return s.store.GetSongs(ctx, playlistID)
}

var _ ports.ImportService = (*Service)(nil)
