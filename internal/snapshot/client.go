package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/minsu-dev/eduops/internal/config"
	"github.com/minsu-dev/eduops/internal/geo"
)

// Client renders a day's route as a static map image through the
// external map API and returns the stored image URL. Errors are
// expected to be swallowed by the caller: a failed snapshot only
// keeps the travel record in DRAFT.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewClient(cfg config.SnapshotConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
	}
}

type markerPayload struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Label string  `json:"label,omitempty"`
	Home  bool    `json:"home,omitempty"`
}

type renderRequest struct {
	Markers   []markerPayload `json:"markers"`
	ClosePath bool            `json:"close_path"`
}

type renderResponse struct {
	URL string `json:"url"`
}

func (c *Client) Generate(ctx context.Context, home geo.Coordinate, addressLabel string, stops []geo.Coordinate, returnHome bool) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("snapshot API base URL is not configured")
	}

	markers := make([]markerPayload, 0, len(stops)+1)
	markers = append(markers, markerPayload{Lat: home.Lat, Lng: home.Lng, Label: addressLabel, Home: true})
	for _, stop := range stops {
		markers = append(markers, markerPayload{Lat: stop.Lat, Lng: stop.Lng})
	}

	body, err := json.Marshal(renderRequest{Markers: markers, ClosePath: returnHome})
	if err != nil {
		return "", fmt.Errorf("encode snapshot request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/staticmap", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create snapshot request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("snapshot request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("snapshot API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed renderResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode snapshot response: %w", err)
	}
	if parsed.URL == "" {
		return "", fmt.Errorf("snapshot API returned an empty url")
	}
	return parsed.URL, nil
}
