package domain

import "time"

// ForeignTrack is a track reference fetched from the source streaming
// platform, not yet resolved against the internal catalog.
type ForeignTrack struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Artist  string `json:"artist"`
	IsLocal bool   `json:"is_local"`
}

// Label returns the "<title> by <artist>" form used in progress updates
// and error reports.
func (t ForeignTrack) Label() string {
	if t.Artist == "" {
		return t.Title
	}
	return t.Title + " by " + t.Artist
}

// Song is a playable track known to the internal catalog service.
type Song struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album,omitempty"`
	URL        string `json:"url"`
	PreviewURL string `json:"preview_url,omitempty"`
	Image      string `json:"image,omitempty"`
	Duration   string `json:"duration,omitempty"`
	Year       string `json:"year,omitempty"`
}

// Playlist is a user-owned collection of catalog songs.
type Playlist struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	SongCount   int       `json:"song_count"`
}

// PlaylistEntry is one membership row: a song at a position within a
// playlist. Positions are dense, zero-based, and unique per playlist,
// as is the (playlist, song) pair.
type PlaylistEntry struct {
	PlaylistID string `json:"playlist_id"`
	SongID     string `json:"song_id"`
	Position   int    `json:"position"`
	Song       Song   `json:"song"`
}

// ImportRequest contains all information needed to import a source
// playlist into an internal playlist.
type ImportRequest struct {
	SourcePlaylistID  string `json:"sourcePlaylistId" binding:"required"`
	PlaylistName      string `json:"playlistName,omitempty"`
	CreateNewPlaylist bool   `json:"createNewPlaylist"`
	TargetPlaylistID  string `json:"targetPlaylistId,omitempty"`
	SessionID         string `json:"sessionId,omitempty"`

	// Filled in by the HTTP layer from the verified session and the
	// source-platform token, never by the client body.
	UserID      string `json:"-"`
	AccessToken string `json:"-"`
}

// MaxReportedErrors caps the per-track error list carried by
// ImportResult and ProgressSnapshot. The counters stay exact; only the
// detail list is truncated to bound response size.
const MaxReportedErrors = 100

// ImportError describes why a single track failed or was skipped.
type ImportError struct {
	Track  string `json:"track"`
	Reason string `json:"reason"`
}

// ImportResult summarizes a completed import run. Errors holds at most
// MaxReportedErrors entries; TotalErrors is the uncapped count.
type ImportResult struct {
	Total       int           `json:"total"`
	Imported    int           `json:"imported"`
	Failed      int           `json:"failed"`
	Skipped     int           `json:"skipped"`
	TotalErrors int           `json:"total_errors"`
	Errors      []ImportError `json:"errors"`
}

// ImportOutcome is what a successful import call returns to the caller.
type ImportOutcome struct {
	PlaylistID string        `json:"playlistId"`
	SessionID  string        `json:"sessionId"`
	Results    *ImportResult `json:"results"`
}

// ProgressSnapshot is the pollable state of an in-flight import run,
// overwritten once per processed item. Invariants: Current <= Total and
// Imported + Failed + Skipped <= Current.
type ProgressSnapshot struct {
	Current      int      `json:"current"`
	Total        int      `json:"total"`
	Imported     int      `json:"imported"`
	Failed       int      `json:"failed"`
	Skipped      int      `json:"skipped"`
	CurrentTrack string   `json:"currentTrack"`
	Errors       []string `json:"errors"`
}
