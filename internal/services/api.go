// Client for the babytube HTTP API
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/babytube/internal/models"
	"github.com/desertthunder/babytube/internal/shared"
)

const defaultAPIBaseURL string = "http://localhost:3001"

// APIService talks to a babytube server. Implements [Catalog] and [TitleService].
type APIService struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIService creates a client for the server at baseURL.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = defaultAPIBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: client,
	}
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// OK reports whether the status code is 2xx.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Err converts a non-2xx response into a sentinel-wrapped error carrying the server's message.
func (r *APIResponse) Err() error {
	if r.OK() {
		return nil
	}

	var body struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(r.Body))
	if err := json.Unmarshal(r.Body, &body); err == nil && body.Error != "" {
		msg = body.Error
	}

	switch r.StatusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", shared.ErrInvalidInput, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", shared.ErrNoCandidates, msg)
	default:
		return fmt.Errorf("%w (status %d): %s", shared.ErrAPIRequest, r.StatusCode, msg)
	}
}

// Do performs a request against path and returns the raw response. body, when non-nil, is sent as JSON.
func (a *APIService) Do(ctx context.Context, method, path string, body any) (*APIResponse, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &APIResponse{StatusCode: resp.StatusCode, Headers: resp.Header, Body: data}, nil
}

func (a *APIService) doJSON(ctx context.Context, method, path string, body, result any) error {
	resp, err := a.Do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if err := resp.Err(); err != nil {
		return err
	}

	if result != nil {
		if err := json.Unmarshal(resp.Body, result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
		}
	}
	return nil
}

// ListURLs calls GET /urls/{mode}.
func (a *APIService) ListURLs(ctx context.Context, mode string) ([]models.PlaylistEntry, error) {
	var items []struct {
		ID      int64  `json:"id"`
		VideoID string `json:"videoId"`
	}
	if err := a.doJSON(ctx, http.MethodGet, "/urls/"+url.PathEscape(mode), nil, &items); err != nil {
		return nil, err
	}

	entries := make([]models.PlaylistEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, models.PlaylistEntry{ID: item.ID, Mode: models.Mode(mode), VideoID: item.VideoID})
	}
	return entries, nil
}

// AddURL calls POST /urls/{mode}. Normalization happens server-side.
func (a *APIService) AddURL(ctx context.Context, mode, raw string) (*models.PlaylistEntry, error) {
	var created struct {
		ID      int64  `json:"id"`
		Mode    string `json:"mode"`
		VideoID string `json:"videoId"`
	}
	body := map[string]string{"videoId": raw}
	if err := a.doJSON(ctx, http.MethodPost, "/urls/"+url.PathEscape(mode), body, &created); err != nil {
		return nil, err
	}

	return &models.PlaylistEntry{ID: created.ID, Mode: models.Mode(created.Mode), VideoID: created.VideoID}, nil
}

// RemoveURL calls DELETE /urls/{mode}/{id}.
func (a *APIService) RemoveURL(ctx context.Context, mode string, id int64) error {
	path := "/urls/" + url.PathEscape(mode) + "/" + strconv.FormatInt(id, 10)
	return a.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

// Next calls GET /urls/{mode}/next.
func (a *APIService) Next(ctx context.Context, mode, current string) (string, error) {
	path := "/urls/" + url.PathEscape(mode) + "/next"
	if current != "" {
		path += "?current=" + url.QueryEscape(current)
	}

	var next struct {
		VideoID string `json:"videoId"`
	}
	if err := a.doJSON(ctx, http.MethodGet, path, nil, &next); err != nil {
		return "", err
	}
	return next.VideoID, nil
}

// Title calls GET /videos/{videoId}/title.
func (a *APIService) Title(ctx context.Context, videoID string) (string, error) {
	var resp struct {
		Title string `json:"title"`
	}
	if err := a.doJSON(ctx, http.MethodGet, "/videos/"+url.PathEscape(videoID)+"/title", nil, &resp); err != nil {
		return "", err
	}
	return resp.Title, nil
}

// Health calls GET /health and returns the server's entry count.
func (a *APIService) Health(ctx context.Context) (int, error) {
	var resp struct {
		Status  string `json:"status"`
		Entries int    `json:"entries"`
	}
	if err := a.doJSON(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Entries, nil
}
