package opengraph

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"golang.org/x/net/html/charset"

	httputil "github.com/lepinkainen/og-previewer/pkg/http"
)

// Fetcher fetches pages and extracts their OpenGraph metadata.
// It keeps no state between calls and is safe for concurrent use.
type Fetcher struct {
	client *httputil.Client
}

// NewFetcher creates a new OpenGraph fetcher. A nil config uses the defaults:
// the previewer user agent and no client timeout.
func NewFetcher(config *httputil.ClientConfig) *Fetcher {
	cfg := httputil.DefaultConfig()
	if config != nil {
		cfg.Timeout = config.Timeout
		if config.UserAgent != "" {
			cfg.UserAgent = config.UserAgent
		}
		for key, value := range config.Headers {
			cfg.Headers[key] = value
		}
	}

	return &Fetcher{
		client: httputil.NewClient(cfg),
	}
}

// Fetch normalizes rawURL, fetches it with a single GET request and extracts the
// OpenGraph record. Every failure is returned as an *Error of one of the four kinds.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (record *Record, err error) {
	target, err := NormalizeURL(rawURL)
	if err != nil {
		slog.Debug("Rejected preview URL", "input", rawURL, "error", errors.Unwrap(err))
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			record = nil
			err = f.fail(target.String(), fmt.Errorf("panic during extraction: %v", r))
		}
	}()

	return f.fetch(ctx, target)
}

// Preview runs Fetch and folds the outcome into a Result
func (f *Fetcher) Preview(ctx context.Context, rawURL string) Result {
	record, err := f.Fetch(ctx, rawURL)
	return NewResult(record, err)
}

func (f *Fetcher) fetch(ctx context.Context, target *url.URL) (*Record, error) {
	pageURL := target.String()
	slog.Debug("Fetching OpenGraph data", "url", pageURL)

	resp, err := f.client.GetWithContext(ctx, pageURL)
	if err != nil {
		return nil, f.fail(pageURL, fmt.Errorf("HTTP request failed: %w", err))
	}

	if !httputil.IsSuccess(resp) {
		status := httputil.StatusText(resp)
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Debug("Failed to close response body", "error", closeErr)
		}
		slog.Debug("Upstream returned an error status", "url", pageURL, "status", resp.StatusCode)
		return nil, newFetchError(status)
	}

	contentType := httputil.GetContentType(resp)
	body, err := httputil.ReadResponseBody(resp)
	if err != nil {
		return nil, f.fail(pageURL, fmt.Errorf("failed to read response body: %w", err))
	}

	htmlContent, err := convertToUTF8(body, contentType)
	if err != nil {
		return nil, f.fail(pageURL, fmt.Errorf("failed to convert content to UTF-8: %w", err))
	}

	record, found, err := Extract(strings.NewReader(htmlContent), pageURL)
	if err != nil {
		return nil, f.fail(pageURL, err)
	}

	if !found {
		slog.Debug("No OpenGraph data found", "url", pageURL)
		return nil, &Error{Kind: KindNoData}
	}

	slog.Debug("Extracted OpenGraph data", "url", pageURL, "title", record.Title, "hasImage", record.Image != "")
	return record, nil
}

// fail logs the cause and wraps it as an extraction error
func (f *Fetcher) fail(pageURL string, cause error) error {
	slog.Error("Error fetching OG data", "url", pageURL, "error", cause)
	return newExtractionError(cause)
}

// convertToUTF8 converts response body to UTF-8 string with proper encoding detection
func convertToUTF8(body []byte, contentType string) (string, error) {
	utf8Reader, err := charset.NewReader(strings.NewReader(string(body)), contentType)
	if err != nil {
		// If charset detection fails, assume UTF-8
		slog.Warn("Failed to detect charset, assuming UTF-8", "error", err)
		return string(body), nil
	}

	utf8Bytes, err := io.ReadAll(utf8Reader)
	if err != nil {
		return "", fmt.Errorf("failed to convert to UTF-8: %w", err)
	}

	return string(utf8Bytes), nil
}
