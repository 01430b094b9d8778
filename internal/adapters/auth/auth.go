package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/luccarvs/PlaylistImport-API/internal/domain"
)

// Client implements ports.SessionVerifier against the hosted auth
// provider's user endpoint. Token issuance and refresh stay with the
// provider; this client only resolves a bearer token to a user id.
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates a new session verifier. If client is nil,
// http.DefaultClient is used.
func NewClient(client *http.Client, baseURL string) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{client: client, baseURL: baseURL}
}

type userResponse struct {
	ID string `json:"id"`
}

// Verify resolves the caller's user id from a bearer token.
func (c *Client) Verify(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrNotAuthenticated
	}

	endpoint := c.baseURL + "/auth/v1/user"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("auth: verify request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", domain.ErrNotAuthenticated
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("auth provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var user userResponse
	if err := json.Unmarshal(body, &user); err != nil {
		return "", fmt.Errorf("auth: failed to parse user response: %w", err)
	}
	if user.ID == "" {
		return "", domain.ErrNotAuthenticated
	}

	return user.ID, nil
}
