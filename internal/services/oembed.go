// YouTube oEmbed title lookup
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/babytube/internal/models"
	"github.com/desertthunder/babytube/internal/shared"
)

const (
	defaultOEmbedEndpoint = "https://www.youtube.com/oembed"
	defaultOEmbedTimeout  = 5 * time.Second
	maxOEmbedBody         = 1 << 20
)

// OEmbedResponse is the subset of the oEmbed document babytube reads.
type OEmbedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// OEmbedService resolves titles through YouTube's oEmbed endpoint. Implements [TitleService].
//
// Titles are memoized per video ID for the lifetime of the service.
type OEmbedService struct {
	endpoint   string
	httpClient *http.Client
	logger     *log.Logger

	mu     sync.RWMutex
	titles map[string]string
}

// NewOEmbedService creates a title service from cfg. A nil client gets one with cfg's timeout.
func NewOEmbedService(cfg shared.OEmbedConfig, client *http.Client, logger *log.Logger) *OEmbedService {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultOEmbedEndpoint
	}

	if client == nil {
		timeout := defaultOEmbedTimeout
		if cfg.TimeoutSeconds > 0 {
			timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &OEmbedService{
		endpoint:   endpoint,
		httpClient: client,
		logger:     shared.WithLogger(logger, "component", "oembed"),
		titles:     make(map[string]string),
	}
}

// Cached returns a memoized title without making a request.
func (o *OEmbedService) Cached(videoID string) (string, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	title, ok := o.titles[videoID]
	return title, ok
}

// Title returns the title of videoID, fetching it on first use.
func (o *OEmbedService) Title(ctx context.Context, videoID string) (string, error) {
	if !models.IsCanonicalVideoID(videoID) {
		return "", shared.ErrInvalidVideoID
	}

	if title, ok := o.Cached(videoID); ok {
		return title, nil
	}

	doc, err := o.Fetch(ctx, videoID)
	if err != nil {
		return "", err
	}

	o.mu.Lock()
	o.titles[videoID] = doc.Title
	o.mu.Unlock()

	return doc.Title, nil
}

// Fetch requests the oEmbed document for videoID, bypassing the memo.
func (o *OEmbedService) Fetch(ctx context.Context, videoID string) (*OEmbedResponse, error) {
	params := url.Values{}
	params.Set("url", shared.WatchURL(videoID))
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		o.logger.Warn("oembed lookup failed", "video_id", videoID, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: oembed status %d: %s", shared.ErrAPIRequest, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var doc OEmbedResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxOEmbedBody)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: failed to decode oembed response: %v", shared.ErrAPIRequest, err)
	}
	if doc.Title == "" {
		return nil, fmt.Errorf("%w: oembed response has no title", shared.ErrAPIRequest)
	}

	o.logger.Debug("title fetched", "video_id", videoID, "title", doc.Title)
	return &doc, nil
}
