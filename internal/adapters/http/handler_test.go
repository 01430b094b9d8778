package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/luccarvs/PlaylistImport-API/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -- Mock service ------------------------------------------------------------

type mockImportService struct {
	outcome   *domain.ImportOutcome
	snapshot  domain.ProgressSnapshot
	playlists []domain.Playlist
	entries   []domain.PlaylistEntry
	err       error

	gotRequest domain.ImportRequest
}

func (m *mockImportService) Import(_ context.Context, req domain.ImportRequest) (*domain.ImportOutcome, error) {
	m.gotRequest = req
	if m.err != nil {
		return nil, m.err
	}
	return m.outcome, nil
}

func (m *mockImportService) Progress(_ string) (domain.ProgressSnapshot, error) {
	if m.err != nil {
		return domain.ProgressSnapshot{}, m.err
	}
	return m.snapshot, nil
}

func (m *mockImportService) ListPlaylists(_ context.Context, _ string) ([]domain.Playlist, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.playlists, nil
}

func (m *mockImportService) PlaylistSongs(_ context.Context, _ string) ([]domain.PlaylistEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.entries, nil
}

// -- Mock verifier -----------------------------------------------------------

type mockVerifier struct {
	userID string
}

func (m *mockVerifier) Verify(_ context.Context, token string) (string, error) {
	if token == "" || m.userID == "" {
		return "", domain.ErrNotAuthenticated
	}
	return m.userID, nil
}

// -- Helpers -----------------------------------------------------------------

func setupRouter(svc *mockImportService, verifier *mockVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(svc, verifier)
	h.RegisterRoutes(r)
	return r
}

func importRequest(t *testing.T, body any) *http.Request {
	t.Helper()
	bodyBytes, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/import", bytes.NewReader(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer caller-token")
	req.Header.Set("X-Spotify-Token", "spotify-token")
	return req
}

// -- Tests -------------------------------------------------------------------

func TestHealth(t *testing.T) {
	r := setupRouter(&mockImportService{}, &mockVerifier{userID: "user-1"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestImport_Success(t *testing.T) {
	svc := &mockImportService{
		outcome: &domain.ImportOutcome{
			PlaylistID: "pl-1",
			SessionID:  "session-1",
			Results: &domain.ImportResult{
				Total:    3,
				Imported: 2,
				Failed:   1,
				Errors:   []domain.ImportError{{Track: "B by Artist B", Reason: "not found in catalog"}},
			},
		},
	}
	r := setupRouter(svc, &mockVerifier{userID: "user-1"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, importRequest(t, gin.H{
		"sourcePlaylistId":  "spotify-pl",
		"createNewPlaylist": true,
	}))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp ImportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "pl-1", resp.PlaylistID)
	assert.Equal(t, "session-1", resp.SessionID)
	assert.Equal(t, 2, resp.Results.Imported)

	// identity and source token come from the request, not the body
	assert.Equal(t, "user-1", svc.gotRequest.UserID)
	assert.Equal(t, "spotify-token", svc.gotRequest.AccessToken)
}

func TestImport_SourceTokenFromCookie(t *testing.T) {
	svc := &mockImportService{outcome: &domain.ImportOutcome{Results: &domain.ImportResult{}}}
	r := setupRouter(svc, &mockVerifier{userID: "user-1"})

	req := importRequest(t, gin.H{"sourcePlaylistId": "spotify-pl", "createNewPlaylist": true})
	req.Header.Del("X-Spotify-Token")
	req.AddCookie(&http.Cookie{Name: "spotify_access_token", Value: "cookie-token"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cookie-token", svc.gotRequest.AccessToken)
}

func TestImport_MissingCallerSession(t *testing.T) {
	r := setupRouter(&mockImportService{}, &mockVerifier{})

	req := importRequest(t, gin.H{"sourcePlaylistId": "spotify-pl"})
	req.Header.Del("Authorization")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestImport_MissingSourceToken(t *testing.T) {
	r := setupRouter(&mockImportService{}, &mockVerifier{userID: "user-1"})

	req := importRequest(t, gin.H{"sourcePlaylistId": "spotify-pl"})
	req.Header.Del("X-Spotify-Token")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "not connected to Spotify", resp.Error)
}

func TestImport_InvalidBody(t *testing.T) {
	r := setupRouter(&mockImportService{}, &mockVerifier{userID: "user-1"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, importRequest(t, gin.H{"createNewPlaylist": true}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImport_ValidationErrorFromService(t *testing.T) {
	svc := &mockImportService{err: domain.ErrInvalidInput}
	r := setupRouter(svc, &mockVerifier{userID: "user-1"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, importRequest(t, gin.H{"sourcePlaylistId": "spotify-pl"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImport_FetchFailure(t *testing.T) {
	svc := &mockImportService{err: domain.ErrSourceFetch}
	r := setupRouter(svc, &mockVerifier{userID: "user-1"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, importRequest(t, gin.H{"sourcePlaylistId": "spotify-pl", "createNewPlaylist": true}))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "failed to import playlist", resp.Error)
	assert.NotEmpty(t, resp.Details)
}

func TestImportProgress_Success(t *testing.T) {
	svc := &mockImportService{snapshot: domain.ProgressSnapshot{Current: 4, Total: 10, CurrentTrack: "A by B"}}
	r := setupRouter(svc, &mockVerifier{userID: "user-1"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/import-progress?sessionId=session-1", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var snapshot domain.ProgressSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))
	assert.Equal(t, 4, snapshot.Current)
	assert.Equal(t, "A by B", snapshot.CurrentTrack)
}

func TestImportProgress_MissingSessionID(t *testing.T) {
	r := setupRouter(&mockImportService{}, &mockVerifier{userID: "user-1"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/import-progress", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportProgress_UnknownSession(t *testing.T) {
	svc := &mockImportService{err: domain.ErrSessionNotFound}
	r := setupRouter(svc, &mockVerifier{userID: "user-1"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/import-progress?sessionId=gone", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListPlaylists_Success(t *testing.T) {
	svc := &mockImportService{playlists: []domain.Playlist{
		{ID: "pl-1", Name: "Rock Classics", SongCount: 25},
		{ID: "pl-2", Name: "Jazz Vibes", SongCount: 40},
	}}
	r := setupRouter(svc, &mockVerifier{userID: "user-1"})

	req := httptest.NewRequest(http.MethodGet, "/playlists", nil)
	req.Header.Set("Authorization", "Bearer caller-token")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var playlists []domain.Playlist
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &playlists))
	assert.Len(t, playlists, 2)
}

func TestListPlaylists_Unauthenticated(t *testing.T) {
	r := setupRouter(&mockImportService{}, &mockVerifier{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/playlists", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPlaylistSongs_NotFound(t *testing.T) {
	svc := &mockImportService{err: domain.ErrPlaylistNotFound}
	r := setupRouter(svc, &mockVerifier{userID: "user-1"})

	req := httptest.NewRequest(http.MethodGet, "/playlists/missing/songs", nil)
	req.Header.Set("Authorization", "Bearer caller-token")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
