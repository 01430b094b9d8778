package domain

import "errors"

var (
	// Input validation errors
	ErrInvalidInput = errors.New("invalid input")

	// Authentication errors
	ErrNotAuthenticated = errors.New("not authenticated")

	// Pipeline errors
	ErrSourceFetch     = errors.New("failed to fetch source playlist")
	ErrSessionNotFound = errors.New("import session not found")

	// Storage errors
	ErrPlaylistNotFound = errors.New("playlist not found")
	ErrDuplicateSong    = errors.New("song already in playlist")
)
