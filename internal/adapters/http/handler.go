package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/luccarvs/PlaylistImport-API/internal/domain"
	"github.com/luccarvs/PlaylistImport-API/internal/ports"
)

// Handler holds the HTTP handlers for the playlist import API.
type Handler struct {
	service ports.ImportService
	auth    ports.SessionVerifier
}

// NewHandler creates a new HTTP handler with the given import service
// and session verifier.
func NewHandler(service ports.ImportService, auth ports.SessionVerifier) *Handler {
	return &Handler{service: service, auth: auth}
}

// RegisterRoutes sets up all API routes on the given Gin engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.POST("/import", h.Import)
	r.GET("/import-progress", h.ImportProgress)
	r.GET("/playlists", h.ListPlaylists)
	r.GET("/playlists/:id/songs", h.PlaylistSongs)
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ImportResponse is the success envelope for POST /import.
type ImportResponse struct {
	Success    bool                 `json:"success"`
	PlaylistID string               `json:"playlistId"`
	SessionID  string               `json:"sessionId"`
	Results    *domain.ImportResult `json:"results"`
}

// Health returns a simple health check response.
//
//	@Summary		Health check
//	@Description	Returns the health status of the API
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Import runs a playlist import from the source platform.
//
//	@Summary		Import a source-platform playlist
//	@Description	Fetches every track of the source playlist, resolves each one against the
//	@Description	internal catalog, and inserts the matches into the target playlist with
//	@Description	deduplication and stable ordering. Per-track progress is pollable at
//	@Description	/import-progress under the returned session id. The error list in the
//	@Description	result is capped at 100 entries; total_errors carries the exact count.
//	@Tags			import
//	@Accept			json
//	@Produce		json
//	@Param			request	body		domain.ImportRequest	true	"Import request"
//	@Success		200		{object}	ImportResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/import [post]
func (h *Handler) Import(c *gin.Context) {
	userID, ok := h.authenticate(c)
	if !ok {
		return
	}

	accessToken := sourceToken(c)
	if accessToken == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error: "not connected to Spotify",
		})
		return
	}

	var req domain.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid request body",
			Details: err.Error(),
		})
		return
	}
	req.UserID = userID
	req.AccessToken = accessToken

	outcome, err := h.service.Import(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid input",
				Details: err.Error(),
			})
		case errors.Is(err, domain.ErrPlaylistNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "playlist not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "failed to import playlist",
				Details: err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, ImportResponse{
		Success:    true,
		PlaylistID: outcome.PlaylistID,
		SessionID:  outcome.SessionID,
		Results:    outcome.Results,
	})
}

// ImportProgress returns the live progress of an import session.
//
//	@Summary		Poll import progress
//	@Description	Returns the current progress snapshot for an in-flight import. A 404 means
//	@Description	the session is unknown or the import already finished.
//	@Tags			import
//	@Produce		json
//	@Param			sessionId	query		string	true	"Import session id"
//	@Success		200	{object}	domain.ProgressSnapshot
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/import-progress [get]
func (h *Handler) ImportProgress(c *gin.Context) {
	sessionID := c.Query("sessionId")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "query parameter 'sessionId' is required",
		})
		return
	}

	snapshot, err := h.service.Progress(sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "progress not found",
		})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// ListPlaylists returns the authenticated caller's playlists.
//
//	@Summary		List playlists
//	@Description	Returns the caller's playlists with song counts, newest first.
//	@Tags			playlists
//	@Produce		json
//	@Success		200	{array}		domain.Playlist
//	@Failure		401	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/playlists [get]
func (h *Handler) ListPlaylists(c *gin.Context) {
	userID, ok := h.authenticate(c)
	if !ok {
		return
	}

	playlists, err := h.service.ListPlaylists(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "failed to list playlists",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, playlists)
}

// PlaylistSongs returns a playlist's membership ordered by position.
//
//	@Summary		List playlist songs
//	@Description	Returns the playlist's songs ordered by their zero-based position.
//	@Tags			playlists
//	@Produce		json
//	@Param			id	path		string	true	"Playlist id"
//	@Success		200	{array}		domain.PlaylistEntry
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/playlists/{id}/songs [get]
func (h *Handler) PlaylistSongs(c *gin.Context) {
	if _, ok := h.authenticate(c); !ok {
		return
	}

	entries, err := h.service.PlaylistSongs(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrPlaylistNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "playlist not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "failed to list playlist songs",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, entries)
}

// authenticate resolves the caller identity from the Authorization
// header, writing a 401 response when verification fails.
func (h *Handler) authenticate(c *gin.Context) (string, bool) {
	userID, err := h.auth.Verify(c.Request.Context(), extractToken(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error: "unauthorized",
		})
		return "", false
	}
	return userID, true
}

// sourceToken retrieves the source-platform access token, preferring
// the cookie set by the connect flow over the explicit header.
func sourceToken(c *gin.Context) string {
	if cookie, err := c.Cookie("spotify_access_token"); err == nil && cookie != "" {
		return cookie
	}
	return c.GetHeader("X-Spotify-Token")
}

// extractToken retrieves the Bearer token from the Authorization header.
func extractToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if len(auth) > 7 && auth[:7] == "Bearer " {
		return auth[7:]
	}
	return auth
}
