// Package transcript fetches YouTube caption text through the
// youtube-transcript.io hosted API.
//
// A fetch is one POST per attempt carrying the video id; the response
// lists every caption track the video has. Language fallback happens
// client-side over that list. Transient faults (timeouts, connection
// errors, malformed or 5xx responses) are retried with increasing
// backoff; fatal faults (disabled captions, unavailable video, invalid
// token, rate limiting) fail the request immediately.
package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alnah/go-titlegen/internal/apierr"
	"github.com/alnah/go-titlegen/internal/lang"
	"github.com/alnah/go-titlegen/internal/video"
)

// youtube-transcript.io API configuration.
const (
	// Default base URL for the hosted transcript API.
	defaultBaseURL = "https://www.youtube-transcript.io"

	// Per-attempt HTTP timeout. This is the only cancellation ceiling a
	// single attempt has beyond the caller's context.
	defaultHTTPTimeout = 30 * time.Second

	// Retry configuration: total attempts for transient faults.
	defaultMaxAttempts = 3
	defaultBaseDelay   = 2 * time.Second
	defaultMaxDelay    = 30 * time.Second

	// Response size limit to prevent OOM from malformed responses (10MB).
	maxResponseSize = 10 * 1024 * 1024
)

// httpDoer abstracts HTTP client for testing.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Provider fetches transcript text for a video.
type Provider interface {
	// Fetch returns the full transcript text for the video, trying the
	// preferred languages in order. Empty prefs means the default
	// fallback order (fr, en, any). Success always carries non-empty
	// text; every failure wraps exactly one taxonomy sentinel.
	Fetch(ctx context.Context, id video.ID, prefs ...string) (string, error)
}

// Compile-time interface compliance check.
var _ Provider = (*APIProvider)(nil)

// APIProvider fetches transcripts from the youtube-transcript.io API.
// Safe for concurrent use: all fields are read-only after construction.
type APIProvider struct {
	token       string
	baseURL     string
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
	httpTimeout time.Duration
	httpClient  httpDoer
}

// Option configures an APIProvider.
type Option func(*APIProvider)

// WithBaseURL sets a custom base URL (for testing or proxies).
func WithBaseURL(url string) Option {
	return func(p *APIProvider) {
		p.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithMaxAttempts sets the total number of attempts for transient faults.
func WithMaxAttempts(n int) Option {
	return func(p *APIProvider) {
		if n >= 1 {
			p.maxAttempts = n
		}
	}
}

// WithRetryDelays sets the base and max delays for the backoff schedule.
func WithRetryDelays(base, max time.Duration) Option {
	return func(p *APIProvider) {
		if base > 0 {
			p.baseDelay = base
		}
		if max > 0 {
			p.maxDelay = max
		}
	}
}

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(c httpDoer) Option {
	return func(p *APIProvider) {
		p.httpClient = c
	}
}

// NewAPIProvider creates a provider using the given API token.
// An empty token is allowed at construction; Fetch fails fast with
// apierr.ErrCredentialMissing when called without one.
func NewAPIProvider(token string, opts ...Option) *APIProvider {
	p := &APIProvider{
		token:       token,
		baseURL:     defaultBaseURL,
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
		maxDelay:    defaultMaxDelay,
		httpTimeout: defaultHTTPTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.httpClient == nil {
		p.httpClient = &http.Client{Timeout: p.httpTimeout}
	}
	return p
}

// Fetch implements Provider.
func (p *APIProvider) Fetch(ctx context.Context, id video.ID, prefs ...string) (string, error) {
	if p.token == "" {
		return "", fmt.Errorf("YOUTUBE_TRANSCRIPT_API_KEY environment variable not set: %w",
			apierr.ErrCredentialMissing)
	}
	if len(prefs) == 0 {
		prefs = lang.DefaultPreference
	}

	cfg := apierr.RetryConfig{
		MaxRetries: p.maxAttempts - 1,
		BaseDelay:  p.baseDelay,
		MaxDelay:   p.maxDelay,
	}

	return apierr.RetryWithBackoff(ctx, cfg, func() (string, error) {
		result, err := p.callAPI(ctx, id)
		if err != nil {
			return "", err
		}
		return selectTranscript(result, prefs)
	}, isRetryableFetchError)
}

// Transcript API request/response types. The response is deliberately
// modeled as explicit optional fields: a per-video result carries either
// an error string, a pre-merged text blob, or a list of caption tracks.

type apiRequest struct {
	IDs []string `json:"ids"`
}

type videoResult struct {
	ID     string  `json:"id"`
	Error  string  `json:"error,omitempty"`
	Text   string  `json:"text,omitempty"`
	Tracks []track `json:"tracks,omitempty"`
}

type track struct {
	Language   string    `json:"language"`
	Transcript []segment `json:"transcript"`
}

type segment struct {
	Text string `json:"text"`
}

// callAPI performs one POST attempt and returns the per-video result.
// All failures come back classified with a taxonomy sentinel.
func (p *APIProvider) callAPI(ctx context.Context, id video.ID) (videoResult, error) {
	var zero videoResult

	attemptCtx, cancel := context.WithTimeout(ctx, p.httpTimeout)
	defer cancel()

	body, err := json.Marshal(apiRequest{IDs: []string{id.String()}})
	if err != nil {
		return zero, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := p.baseURL + "/api/transcripts"
	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return zero, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+p.token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return zero, classifyHTTPError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return zero, fmt.Errorf("failed to read response: %w", apierr.ErrTransport)
	}

	if resp.StatusCode != http.StatusOK {
		return zero, classifyStatus(resp.StatusCode, resp.Header, respBody)
	}

	var results []videoResult
	if err := json.Unmarshal(respBody, &results); err != nil {
		return zero, fmt.Errorf("malformed response: %w", apierr.ErrTransport)
	}
	if len(results) == 0 {
		return zero, fmt.Errorf("no result for video %s: %w", id, ErrUnavailable)
	}
	return results[0], nil
}

// selectTranscript applies the language fallback order to one video
// result and returns the winning track's text. Tracks are never merged
// across languages; the first preference with non-empty text wins.
func selectTranscript(res videoResult, prefs []string) (string, error) {
	if res.Error != "" {
		return "", classifyProviderError(res.Error)
	}

	// Pre-merged text blob: the provider already picked a track.
	if text := strings.TrimSpace(res.Text); text != "" {
		return text, nil
	}

	for _, pref := range prefs {
		for _, t := range res.Tracks {
			if !lang.Matches(pref, t.Language) {
				continue
			}
			if text := joinSegments(t.Transcript); text != "" {
				return text, nil
			}
		}
	}

	return "", fmt.Errorf("no transcript in any language: %w", ErrUnavailable)
}

// joinSegments concatenates segment texts with single-space separators,
// preserving order.
func joinSegments(segments []segment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if text := strings.TrimSpace(s.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// classifyStatus maps a non-200 HTTP status to a taxonomy sentinel.
// Terminal: 401/403 (bad token), 404 (no video or transcript), 429
// (throttled). Everything else, 5xx included, is a transient transport
// fault worth another attempt.
func classifyStatus(status int, header http.Header, body []byte) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("invalid API token (check YOUTUBE_TRANSCRIPT_API_KEY): %w", apierr.ErrAuthFailed)
	case http.StatusNotFound:
		return fmt.Errorf("video not found or transcript not available: %w", ErrUnavailable)
	case http.StatusTooManyRequests:
		retryAfter := header.Get("Retry-After")
		if retryAfter == "" {
			retryAfter = "a few"
		}
		return fmt.Errorf("too many requests, retry in %s seconds: %w", retryAfter, apierr.ErrRateLimit)
	default:
		return fmt.Errorf("HTTP %d: %s: %w", status, strings.TrimSpace(string(body)), apierr.ErrTransport)
	}
}

// classifyHTTPError maps a request-level failure (no response at all)
// to a taxonomy sentinel.
func classifyHTTPError(ctx context.Context, err error) error {
	// Caller cancellation is not a provider fault.
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request took too long: %w", apierr.ErrTimeout)
	}
	return fmt.Errorf("connection to transcript API failed: %w", apierr.ErrTransport)
}

// classifyProviderError maps the per-video error string returned by the
// API to a taxonomy sentinel. Every observed shape lands on exactly one
// sentinel; unknown messages are treated as unavailable rather than
// retried blind.
func classifyProviderError(msg string) error {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "too many requests"), strings.Contains(lower, "rate"):
		return fmt.Errorf("provider error: %s: %w", msg, apierr.ErrRateLimit)
	default:
		// Disabled captions, unavailable/private/region-blocked videos,
		// sign-in or age restrictions: all terminal states.
		return fmt.Errorf("provider error: %s: %w", msg, ErrUnavailable)
	}
}

// isRetryableFetchError determines if a fetch error is transient.
// Rate limits are terminal for the current request: the caller should
// retry later rather than sleep through the throttle window.
func isRetryableFetchError(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	return errors.Is(err, apierr.ErrTransport) || errors.Is(err, apierr.ErrTimeout)
}
