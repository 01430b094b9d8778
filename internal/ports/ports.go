package ports

import (
	"context"

	"github.com/luccarvs/PlaylistImport-API/internal/domain"
)

// SourceClient fetches playlist contents from the source streaming
// platform. This is the ingestion-side driven port.
type SourceClient interface {
	// FetchPlaylistTracks pages through the playlist-tracks endpoint
	// until exhausted and returns the importable entries in playlist
	// order. Local and unresolvable entries are filtered out. A
	// non-success page response fails the whole fetch.
	FetchPlaylistTracks(ctx context.Context, token string, playlistID string) ([]domain.ForeignTrack, error)
}

// CatalogSearcher queries the internal music catalog, returning ranked
// candidates for a free-text query.
type CatalogSearcher interface {
	Search(ctx context.Context, query string) ([]domain.Song, error)
}

// PlaylistStore persists playlists and playlist-song membership with a
// dense, zero-based position per playlist.
type PlaylistStore interface {
	CreatePlaylist(ctx context.Context, userID string, name string, description string) (*domain.Playlist, error)

	// GetPlaylist returns domain.ErrPlaylistNotFound for an unknown id.
	GetPlaylist(ctx context.Context, id string) (*domain.Playlist, error)

	// ListPlaylists returns the user's playlists with song counts,
	// newest first.
	ListPlaylists(ctx context.Context, userID string) ([]domain.Playlist, error)

	// AddSong appends the song at the next free position and returns
	// the assigned position. Returns domain.ErrDuplicateSong without
	// mutation when the song is already in the playlist. Position
	// assignment is atomic against concurrent writers.
	AddSong(ctx context.Context, playlistID string, song domain.Song) (int, error)

	// GetSongs returns the playlist membership ordered by position.
	GetSongs(ctx context.Context, playlistID string) ([]domain.PlaylistEntry, error)

	// RemoveSong deletes one membership row and closes the resulting
	// position gap.
	RemoveSong(ctx context.Context, playlistID string, songID string) error

	DeletePlaylist(ctx context.Context, id string) error
}

// ProgressTracker is the keyed, process-wide store of live import
// progress. Writes are last-write-wins per session key; a Get for an
// unknown or cleared session returns domain.ErrSessionNotFound.
type ProgressTracker interface {
	Set(sessionID string, snapshot domain.ProgressSnapshot)
	Get(sessionID string) (domain.ProgressSnapshot, error)
	Clear(sessionID string)
}

// SessionVerifier resolves a caller identity from a bearer token. Token
// issuance and refresh belong to the external auth provider.
type SessionVerifier interface {
	// Verify returns the caller's user id, or
	// domain.ErrNotAuthenticated for a missing or rejected token.
	Verify(ctx context.Context, token string) (string, error)
}

// ImportService is the driving port for the playlist import pipeline.
type ImportService interface {
	// Import runs the full pipeline: fetch, resolve, insert, with
	// per-item progress updates under the request's session id.
	Import(ctx context.Context, req domain.ImportRequest) (*domain.ImportOutcome, error)

	// Progress returns the live snapshot for an in-flight import.
	Progress(sessionID string) (domain.ProgressSnapshot, error)

	ListPlaylists(ctx context.Context, userID string) ([]domain.Playlist, error)
	PlaylistSongs(ctx context.Context, playlistID string) ([]domain.PlaylistEntry, error)
}
