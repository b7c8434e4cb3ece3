// Package fetch retrieves job posting pages and extracts posting fields from their HTML.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds a single posting download.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent looks like a desktop browser. Several job boards reject anything else.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

const maxBodyBytes = 10 << 20

// Result is a downloaded posting page.
type Result struct {
	URL         string
	HTML        string
	ContentType string
	StatusCode  int
}

// Error reports why a posting page could not be downloaded.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
	}
	return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func fetchError(rawURL, message string, cause error) *Error {
	return &Error{URL: rawURL, Message: message, Cause: cause}
}

// Options configures page downloads.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	// Headers are sent in addition to the User-Agent
	Headers map[string]string
}

// DefaultOptions returns the 30s timeout and the browser user agent.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

func (o *Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

func (o *Options) userAgent() string {
	if o.UserAgent == "" {
		return DefaultUserAgent
	}
	return o.UserAgent
}

// URL downloads rawURL with one GET request and no retries. A non-200 answer returns both the
// Result and an *Error.
func URL(ctx context.Context, rawURL string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if parsed, err := url.Parse(rawURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fetchError(rawURL, "invalid URL", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fetchError(rawURL, "failed to create request", err)
	}
	req.Header.Set("User-Agent", opts.userAgent())
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	client := &http.Client{Timeout: opts.timeout()}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fetchError(rawURL, "HTTP request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fetchError(rawURL, "failed to read response body", err)
	}

	result := &Result{
		URL:         rawURL,
		HTML:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}
	if resp.StatusCode != http.StatusOK {
		return result, fetchError(rawURL, fmt.Sprintf("HTTP status %d", resp.StatusCode), nil)
	}
	return result, nil
}

// JobPostingSelectors are the description containers tried on unrecognized job boards.
func JobPostingSelectors() []string {
	return []string{
		".job-description",
		".job-content",
		"#job-description",
		"#job-content",
		".posting-content",
		".job-details",
		"[data-testid='job-description']",
		"main",
		"article",
		".content",
		"#content",
	}
}

// cleanWhitespace trims every line and drops blank ones.
func cleanWhitespace(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// collapseWhitespace joins all whitespace runs into single spaces.
func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
