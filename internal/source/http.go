package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/starford/vitrine/internal/models"
)

// APIError represents a non-2xx response from the content API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// HTTP implements Source against the content API.
type HTTP struct {
	baseURL       string
	token         string
	configPath    string
	expertisePath string
	httpClient    *http.Client
}

// HTTPOption customises an HTTP source.
type HTTPOption func(*HTTP)

// WithToken sets a bearer token sent on every request.
func WithToken(token string) HTTPOption {
	return func(h *HTTP) { h.token = token }
}

// WithPaths overrides the collection paths. Empty values keep the defaults.
func WithPaths(configPath, expertisePath string) HTTPOption {
	return func(h *HTTP) {
		if configPath != "" {
			h.configPath = configPath
		}
		if expertisePath != "" {
			h.expertisePath = expertisePath
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) HTTPOption {
	return func(h *HTTP) { h.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTP) { h.httpClient = c }
}

// NewHTTP creates a source targeting baseURL (e.g. "https://site.example").
func NewHTTP(baseURL string, opts ...HTTPOption) *HTTP {
	h := &HTTP{
		baseURL:       strings.TrimRight(baseURL, "/"),
		configPath:    DefaultConfigPath,
		expertisePath: DefaultExpertisePath,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// FetchConfigs implements Source.
func (h *HTTP) FetchConfigs(ctx context.Context) ([]models.ConfigRecord, error) {
	body, err := h.get(ctx, h.configPath)
	if err != nil {
		return nil, fmt.Errorf("source: fetch configs: %w", err)
	}
	out, err := decodeList[models.ConfigRecord](h.configPath, body)
	if err != nil {
		return nil, fmt.Errorf("source: fetch configs: decoding response: %w", err)
	}
	return out, nil
}

// FetchExpertise implements Source.
func (h *HTTP) FetchExpertise(ctx context.Context) ([]models.ExpertiseCard, error) {
	body, err := h.get(ctx, h.expertisePath)
	if err != nil {
		return nil, fmt.Errorf("source: fetch expertise: %w", err)
	}
	out, err := decodeList[models.ExpertiseCard](h.expertisePath, body)
	if err != nil {
		return nil, fmt.Errorf("source: fetch expertise: decoding response: %w", err)
	}
	return out, nil
}

// get performs a GET with caching disabled and returns the body of a
// successful response.
func (h *HTTP) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &errResp) == nil {
			if msg := errResp.Error + errResp.Message; msg != "" {
				return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
			}
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}
	return body, nil
}
