// photosync ⸻ internal/plex/plex.go
// minimal Plex Media Server client

package plex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to one Plex server with a fixed access token. The core
// pipeline never depends on it; library operations are a convenience on
// top of the same config.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Identity describes the connected server.
type Identity struct {
	MachineIdentifier string `json:"machineIdentifier"`
	Version           string `json:"version"`
}

// Section is one library section (Photos, Movies, ...).
type Section struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

type identityResponse struct {
	MediaContainer Identity `json:"MediaContainer"`
}

type sectionsResponse struct {
	MediaContainer struct {
		Directory []Section `json:"Directory"`
	} `json:"MediaContainer"`
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Identity verifies the connection and returns the server's identity.
func (c *Client) Identity(ctx context.Context) (*Identity, error) {
	var parsed identityResponse
	if err := c.get(ctx, "/identity", &parsed); err != nil {
		return nil, err
	}
	return &parsed.MediaContainer, nil
}

// Sections lists the server's library sections.
func (c *Client) Sections(ctx context.Context) ([]Section, error) {
	var parsed sectionsResponse
	if err := c.get(ctx, "/library/sections", &parsed); err != nil {
		return nil, err
	}
	return parsed.MediaContainer.Directory, nil
}

// Refresh triggers a scan of one library section.
func (c *Client) Refresh(ctx context.Context, sectionKey string) error {
	return c.get(ctx, fmt.Sprintf("/library/sections/%s/refresh", sectionKey), nil)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("plex request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("plex returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode plex response: %w", err)
	}

	return nil
}
