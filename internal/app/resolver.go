package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/luccarvs/PlaylistImport-API/internal/domain"
	"github.com/luccarvs/PlaylistImport-API/internal/ports"
)

// Resolution failure reasons, surfaced verbatim in the import error list.
var (
	errInvalidQuery    = errors.New("invalid search query")
	errNotFound        = errors.New("not found in catalog")
	errInvalidSongData = errors.New("invalid song data returned")
)

// Resolver converts a foreign track into a catalog song via free-text
// search. Accuracy is bounded by the catalog's ranking: the first
// candidate wins.
type Resolver struct {
	catalog ports.CatalogSearcher
}

// NewResolver creates a resolver over the given catalog searcher.
func NewResolver(catalog ports.CatalogSearcher) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve searches the catalog for "<artist> <title>" (title-only when
// the artist is missing) and returns the top candidate. All failure
// modes come back as errors carrying the user-facing reason.
func (r *Resolver) Resolve(ctx context.Context, track domain.ForeignTrack) (*domain.Song, error) {
	query := strings.TrimSpace(track.Artist + " " + track.Title)
	if query == "" {
		return nil, errInvalidQuery
	}

	songs, err := r.catalog.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	if len(songs) == 0 {
		return nil, errNotFound
	}

	song := songs[0]
	if song.ID == "" {
		return nil, errInvalidSongData
	}
	return &song, nil
}
