// package testing contains shared testing utilities
package testing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/babytube/internal/models"
	"github.com/desertthunder/babytube/internal/playback"
	"github.com/desertthunder/babytube/internal/shared"
)

// MockCatalog is an in-memory test double for services.Catalog.
//
// It validates and normalizes like the real catalog and counts calls so tests can assert
// round trips.
type MockCatalog struct {
	mu       sync.Mutex
	entries  []models.PlaylistEntry
	nextID   int64
	selector *playback.Selector

	// Err, when set, is returned by every call.
	Err error

	Lists, Adds, Removes, Nexts int
}

// NewMockCatalog creates a catalog seeded with videoIDs per mode. src drives Next; nil picks the first candidate.
func NewMockCatalog(seed map[models.Mode][]string, src playback.Source) *MockCatalog {
	if src == nil {
		src = NewScriptedSource()
	}
	m := &MockCatalog{selector: playback.NewSelector(src)}
	for _, mode := range models.Modes {
		for _, id := range seed[mode] {
			m.nextID++
			m.entries = append(m.entries, models.PlaylistEntry{ID: m.nextID, Mode: mode, VideoID: id, CreatedAt: time.Unix(m.nextID, 0)})
		}
	}
	return m
}

func (m *MockCatalog) ListURLs(_ context.Context, mode string) ([]models.PlaylistEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Lists++
	return m.list(mode)
}

func (m *MockCatalog) list(mode string) ([]models.PlaylistEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	parsed, err := models.ParseMode(mode)
	if err != nil {
		return nil, err
	}
	out := []models.PlaylistEntry{}
	for _, e := range m.entries {
		if e.Mode == parsed {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockCatalog) AddURL(_ context.Context, mode, raw string) (*models.PlaylistEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Adds++

	if m.Err != nil {
		return nil, m.Err
	}
	parsed, err := models.ParseMode(mode)
	if err != nil {
		return nil, err
	}
	id, err := models.NormalizeVideoID(raw)
	if err != nil {
		return nil, err
	}
	m.nextID++
	entry := models.PlaylistEntry{ID: m.nextID, Mode: parsed, VideoID: id, CreatedAt: time.Unix(m.nextID, 0)}
	m.entries = append(m.entries, entry)
	return &entry, nil
}

func (m *MockCatalog) RemoveURL(_ context.Context, mode string, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Removes++

	if m.Err != nil {
		return m.Err
	}
	if _, err := models.ParseMode(mode); err != nil {
		return err
	}
	kept := m.entries[:0]
	for _, e := range m.entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	m.entries = kept
	return nil
}

func (m *MockCatalog) Next(_ context.Context, mode, current string) (string, error) {
	m.mu.Lock()
	m.Nexts++
	entries, err := m.list(mode)
	m.mu.Unlock()

	if err != nil {
		return "", err
	}
	next, err := m.selector.SelectNext(models.VideoIDs(entries), current)
	if err != nil {
		return "", fmt.Errorf("%w: %s", err, mode)
	}
	return next, nil
}

// Count returns the number of stored entries across all modes.
func (m *MockCatalog) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.entries), nil
}

// ScriptedSource replays fixed indexes as a playback.Source, then returns 0.
// Indexes are clamped to the requested range.
type ScriptedSource struct {
	mu     sync.Mutex
	script []int
	Calls  []int
}

func NewScriptedSource(script ...int) *ScriptedSource {
	return &ScriptedSource{script: script}
}

func (s *ScriptedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, n)

	if len(s.script) == 0 {
		return 0
	}
	v := s.script[0]
	s.script = s.script[1:]
	if v >= n {
		v = n - 1
	}
	return v
}

// NewTestDB opens a migrated in-memory database closed at test cleanup.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// RoundTripFunc adapts a function into an http.RoundTripper.
type RoundTripFunc func(req *http.Request) (*http.Response, error)

func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// NewMockClient returns an http.Client whose transport is fn.
func NewMockClient(fn RoundTripFunc) *http.Client {
	return &http.Client{Transport: fn}
}

// NewResponse builds a response with status and body.
func NewResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
