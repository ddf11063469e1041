// Package testutil provides shared test fixtures: a fake content API and a
// temporary content directory.
package testutil

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// Upstream paths served by ContentServer. They match the defaults of the
// HTTP source.
const (
	ConfigPath    = "/api/admin/config"
	ExpertisePath = "/api/specialization-areas"
)

// ContentServer is a fake content API whose responses can be swapped while
// a test runs.
type ContentServer struct {
	*httptest.Server

	mu        sync.Mutex
	configs   string
	expertise string
	status    int
	hits      map[string]int
	headers   http.Header
}

// NewContentServer starts a fake content API serving the given JSON bodies.
// The server is closed when the test ends.
func NewContentServer(t *testing.T, configs, expertise string) *ContentServer {
	t.Helper()
	s := &ContentServer{
		configs:   configs,
		expertise: expertise,
		status:    http.StatusOK,
		hits:      make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *ContentServer) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits[r.URL.Path]++
	s.headers = r.Header.Clone()
	status, configs, expertise := s.status, s.configs, s.expertise
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status != http.StatusOK {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, `{"error":"upstream unavailable"}`)
		return
	}
	switch r.URL.Path {
	case ConfigPath:
		_, _ = io.WriteString(w, configs)
	case ExpertisePath:
		_, _ = io.WriteString(w, expertise)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"not found"}`)
	}
}

// SetConfigs replaces the configuration response body.
func (s *ContentServer) SetConfigs(body string) {
	s.mu.Lock()
	s.configs = body
	s.mu.Unlock()
}

// SetExpertise replaces the expertise response body.
func (s *ContentServer) SetExpertise(body string) {
	s.mu.Lock()
	s.expertise = body
	s.mu.Unlock()
}

// SetStatus makes every response use status. http.StatusOK restores normal
// operation.
func (s *ContentServer) SetStatus(status int) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// Hits returns the number of requests received for path.
func (s *ContentServer) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// LastHeader returns a header of the most recent request.
func (s *ContentServer) LastHeader(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.headers == nil {
		return ""
	}
	return s.headers.Get(key)
}

// ContentDir creates a temporary directory holding config.json and
// expertise.json with the given bodies.
func ContentDir(t *testing.T, configs, expertise string) string {
	t.Helper()
	dir := t.TempDir()
	WriteFile(t, dir, "config.json", configs)
	WriteFile(t, dir, "expertise.json", expertise)
	return dir
}

// WriteFile writes body to dir/name, failing the test on error.
func WriteFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

// Logger returns a logger that discards everything below error level.
func Logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}
