package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/luccarvs/PlaylistImport-API/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS playlists (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_playlists_user ON playlists(user_id);

CREATE TABLE IF NOT EXISTS playlist_songs (
	playlist_id TEXT NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
	song_id     TEXT NOT NULL,
	song_data   TEXT NOT NULL,
	position    INTEGER NOT NULL,
	UNIQUE (playlist_id, song_id),
	UNIQUE (playlist_id, position)
);
`

// Store implements ports.PlaylistStore on a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at the specified path and
// applies the schema. The path can be ":memory:" for an in-memory
// database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Serialize writers; position assignment relies on the MAX+1
	// subselect and the unique constraints below.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) CreatePlaylist(ctx context.Context, userID string, name string, description string) (*domain.Playlist, error) {
	playlist := &domain.Playlist{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO playlists (id, user_id, name, description, created_at) VALUES (?, ?, ?, ?, ?)`,
		playlist.ID, playlist.UserID, playlist.Name, playlist.Description, playlist.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}

	return playlist, nil
}

func (s *Store) GetPlaylist(ctx context.Context, id string) (*domain.Playlist, error) {
	var p domain.Playlist
	err := s.db.QueryRowContext(ctx,
		`SELECT p.id, p.user_id, p.name, p.description, p.created_at, COUNT(ps.song_id)
		 FROM playlists p
		 LEFT JOIN playlist_songs ps ON ps.playlist_id = p.id
		 WHERE p.id = ?
		 GROUP BY p.id`,
		id,
	).Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.CreatedAt, &p.SongCount)
	if err == sql.ErrNoRows {
		return nil, domain.ErrPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}
	return &p, nil
}

func (s *Store) ListPlaylists(ctx context.Context, userID string) ([]domain.Playlist, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.id, p.user_id, p.name, p.description, p.created_at, COUNT(ps.song_id)
		 FROM playlists p
		 LEFT JOIN playlist_songs ps ON ps.playlist_id = p.id
		 WHERE p.user_id = ?
		 GROUP BY p.id
		 ORDER BY p.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	defer rows.Close()

	var playlists []domain.Playlist
	for rows.Next() {
		var p domain.Playlist
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.CreatedAt, &p.SongCount); err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		playlists = append(playlists, p)
	}
	return playlists, rows.Err()
}

// AddSong appends the song at the next free position. The position is
// computed and inserted in a single statement so concurrent writers to
// the same playlist cannot observe the same maximum; UNIQUE constraints
// back the membership and ordering invariants.
func (s *Store) AddSong(ctx context.Context, playlistID string, song domain.Song) (int, error) {
	if _, err := s.GetPlaylist(ctx, playlistID); err != nil {
		return 0, err
	}

	data, err := json.Marshal(song)
	if err != nil {
		return 0, fmt.Errorf("failed to encode song: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO playlist_songs (playlist_id, song_id, song_data, position)
		 SELECT ?, ?, ?, COALESCE(MAX(position) + 1, 0)
		 FROM playlist_songs WHERE playlist_id = ?`,
		playlistID, song.ID, string(data), playlistID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "playlist_songs.song_id") {
			return 0, domain.ErrDuplicateSong
		}
		return 0, fmt.Errorf("failed to insert playlist song: %w", err)
	}

	var position int
	err = s.db.QueryRowContext(ctx,
		`SELECT position FROM playlist_songs WHERE playlist_id = ? AND song_id = ?`,
		playlistID, song.ID,
	).Scan(&position)
	if err != nil {
		return 0, fmt.Errorf("failed to read assigned position: %w", err)
	}

	return position, nil
}

func (s *Store) GetSongs(ctx context.Context, playlistID string) ([]domain.PlaylistEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT song_id, song_data, position FROM playlist_songs
		 WHERE playlist_id = ? ORDER BY position ASC`,
		playlistID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist songs: %w", err)
	}
	defer rows.Close()

	var entries []domain.PlaylistEntry
	for rows.Next() {
		entry := domain.PlaylistEntry{PlaylistID: playlistID}
		var data string
		if err := rows.Scan(&entry.SongID, &data, &entry.Position); err != nil {
			return nil, fmt.Errorf("failed to scan playlist song: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &entry.Song); err != nil {
			return nil, fmt.Errorf("failed to decode song data: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// RemoveSong deletes the membership row and shifts the rows behind it
// down by one, keeping positions dense.
func (s *Store) RemoveSong(ctx context.Context, playlistID string, songID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var position int
	err = tx.QueryRowContext(ctx,
		`SELECT position FROM playlist_songs WHERE playlist_id = ? AND song_id = ?`,
		playlistID, songID,
	).Scan(&position)
	if err == sql.ErrNoRows {
		return domain.ErrPlaylistNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to find playlist song: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM playlist_songs WHERE playlist_id = ? AND song_id = ?`,
		playlistID, songID,
	); err != nil {
		return fmt.Errorf("failed to remove playlist song: %w", err)
	}

	// The negate-then-flip dance keeps the UNIQUE(playlist_id, position)
	// constraint satisfied at every step of the shift.
	if _, err := tx.ExecContext(ctx,
		`UPDATE playlist_songs SET position = -position - 1
		 WHERE playlist_id = ? AND position > ?`,
		playlistID, position,
	); err != nil {
		return fmt.Errorf("failed to shift positions: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE playlist_songs SET position = -position - 2
		 WHERE playlist_id = ? AND position < 0`,
		playlistID,
	); err != nil {
		return fmt.Errorf("failed to shift positions: %w", err)
	}

	return tx.Commit()
}

func (s *Store) DeletePlaylist(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM playlists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrPlaylistNotFound
	}
	return nil
}
