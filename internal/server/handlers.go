package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/babytube/internal/models"
	"github.com/desertthunder/babytube/internal/shared"
)

// maxBodyBytes bounds request bodies on POST routes.
const maxBodyBytes = 1 << 16

// Catalog is the subset of the catalog service the HTTP API depends on.
type Catalog interface {
	ListURLs(ctx context.Context, mode string) ([]models.PlaylistEntry, error)
	AddURL(ctx context.Context, mode, raw string) (*models.PlaylistEntry, error)
	RemoveURL(ctx context.Context, mode string, id int64) error
	Next(ctx context.Context, mode, current string) (string, error)
	Count(ctx context.Context) (int, error)
}

// TitleFetcher resolves a video ID to its display title.
type TitleFetcher interface {
	Title(ctx context.Context, videoID string) (string, error)
}

// URLItem is one element of the list response.
type URLItem struct {
	ID      int64  `json:"id"`
	VideoID string `json:"videoId"`
}

// AddRequest is the body of POST /urls/{mode}.
type AddRequest struct {
	VideoID string `json:"videoId"`
}

// AddResponse is returned after a successful add.
type AddResponse struct {
	ID      int64  `json:"id"`
	Mode    string `json:"mode"`
	VideoID string `json:"videoId"`
}

// NextResponse carries the selected video.
type NextResponse struct {
	VideoID string `json:"videoId"`
}

// TitleResponse carries a resolved title.
type TitleResponse struct {
	VideoID string `json:"videoId"`
	Title   string `json:"title"`
}

// HealthResponse reports service liveness and the total number of stored entries.
type HealthResponse struct {
	Status  string `json:"status"`
	Entries int    `json:"entries"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// URLHandler serves the playlist endpoints. Implements [Handler].
type URLHandler struct {
	catalog Catalog
	titles  TitleFetcher
	logger  *log.Logger
}

// NewURLHandler creates a handler over catalog. titles may be nil, in which case the title
// endpoint answers 503.
func NewURLHandler(catalog Catalog, titles TitleFetcher, logger *log.Logger) *URLHandler {
	return &URLHandler{catalog: catalog, titles: titles, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *URLHandler) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/health", Handler: h.Health},
		{Method: http.MethodGet, Path: "/urls/{mode}", Handler: h.List},
		{Method: http.MethodPost, Path: "/urls/{mode}", Handler: h.Add},
		{Method: http.MethodGet, Path: "/urls/{mode}/next", Handler: h.Next},
		{Method: http.MethodDelete, Path: "/urls/{mode}/{id}", Handler: h.Remove},
		{Method: http.MethodGet, Path: "/videos/{videoId}/title", Handler: h.Title},
	}
}

// List handles GET /urls/{mode}.
func (h *URLHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.catalog.ListURLs(r.Context(), r.PathValue("mode"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	items := make([]URLItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, URLItem{ID: e.ID, VideoID: e.VideoID})
	}
	writeJSON(w, http.StatusOK, items)
}

// Add handles POST /urls/{mode}.
func (h *URLHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}

	if strings.TrimSpace(req.VideoID) == "" {
		writeError(w, http.StatusBadRequest, "videoId is required")
		return
	}

	entry, err := h.catalog.AddURL(r.Context(), r.PathValue("mode"), req.VideoID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, AddResponse{ID: entry.ID, Mode: entry.Mode.String(), VideoID: entry.VideoID})
}

// Remove handles DELETE /urls/{mode}/{id}.
func (h *URLHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	if err := h.catalog.RemoveURL(r.Context(), r.PathValue("mode"), id); err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// Next handles GET /urls/{mode}/next?current=<id>.
func (h *URLHandler) Next(w http.ResponseWriter, r *http.Request) {
	videoID, err := h.catalog.Next(r.Context(), r.PathValue("mode"), r.URL.Query().Get("current"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NextResponse{VideoID: videoID})
}

// Title handles GET /videos/{videoId}/title.
func (h *URLHandler) Title(w http.ResponseWriter, r *http.Request) {
	if h.titles == nil {
		writeError(w, http.StatusServiceUnavailable, "title lookup is disabled")
		return
	}

	videoID := r.PathValue("videoId")
	if !models.IsCanonicalVideoID(videoID) {
		writeError(w, http.StatusBadRequest, shared.ErrInvalidVideoID.Error())
		return
	}

	title, err := h.titles.Title(r.Context(), videoID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TitleResponse{VideoID: videoID, Title: title})
}

// Health handles GET /health.
func (h *URLHandler) Health(w http.ResponseWriter, r *http.Request) {
	n, err := h.catalog.Count(r.Context())
	if err != nil {
		h.logger.Error("health check failed", "error", err, "request_id", RequestID(r.Context()))
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Entries: n})
}

// fail maps err to a status code and writes it. Server-side failures are logged and
// reported with a generic message.
func (h *URLHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "path", r.URL.Path, "error", err, "request_id", RequestID(r.Context()))
	}

	msg := err.Error()
	switch status {
	case http.StatusInternalServerError:
		msg = "internal server error"
	case http.StatusBadGateway:
		msg = "upstream request failed"
	}
	writeError(w, status, msg)
}

// StatusFor maps an error from the catalog or title lookup to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrNoCandidates):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrAPIRequest), errors.Is(err, shared.ErrServiceUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
