package opengraph

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	httputil "github.com/lepinkainen/og-previewer/pkg/http"
	"github.com/lepinkainen/og-previewer/pkg/testutil"
)

// newPageServer serves body with the given status and content type and counts requests
func newPageServer(t *testing.T, status int, contentType, body string) (*httptest.Server, *int32) {
	t.Helper()

	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server, &calls
}

func TestFetcher_Fetch(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		want        *Record
		wantKind    Kind
		wantMessage string
	}{
		{
			name:        "single og:title",
			status:      http.StatusOK,
			contentType: "text/html; charset=utf-8",
			body:        `<html><head><meta property="og:title" content="Hello"></head></html>`,
			want:        &Record{Title: "Hello"},
		},
		{
			name:        "full metadata",
			status:      http.StatusOK,
			contentType: "text/html",
			body: `<html><head>
				<title>Page Title</title>
				<meta property="og:title" content="OG Title">
				<meta name="description" content="Meta description">
				<meta property="og:image" content="https://example.com/og.png">
				<meta property="og:url" content="https://example.com/canonical">
				<meta property="og:site_name" content="Example">
				<meta property="og:type" content="website">
			</head></html>`,
			want: &Record{
				Title:       "OG Title",
				Description: "Meta description",
				Image:       "https://example.com/og.png",
				URL:         "https://example.com/canonical",
				SiteName:    "Example",
				Type:        "website",
			},
		},
		{
			name:        "body parsed regardless of content type",
			status:      http.StatusOK,
			contentType: "text/plain",
			body:        `<meta property="og:type" content="article">`,
			want:        &Record{Type: "article"},
		},
		{
			name:        "non-200 success status",
			status:      http.StatusNonAuthoritativeInfo,
			contentType: "text/html",
			body:        `<meta property="og:site_name" content="Mirror">`,
			want:        &Record{SiteName: "Mirror"},
		},
		{
			name:        "no metadata",
			status:      http.StatusOK,
			contentType: "text/html",
			body:        `<html><head></head><body><h1>Nothing here</h1></body></html>`,
			wantKind:    KindNoData,
			wantMessage: "No Open Graph data found for this URL",
		},
		{
			name:        "not found",
			status:      http.StatusNotFound,
			contentType: "text/html",
			body:        `<meta property="og:title" content="Custom 404 page">`,
			wantKind:    KindFetch,
			wantMessage: "Failed to fetch URL: Not Found",
		},
		{
			name:        "server error",
			status:      http.StatusInternalServerError,
			body:        "boom",
			wantKind:    KindFetch,
			wantMessage: "Failed to fetch URL: Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newPageServer(t, tt.status, tt.contentType, tt.body)
			fetcher := NewFetcher(nil)

			got, err := fetcher.Fetch(context.Background(), server.URL)

			if tt.wantKind != 0 {
				if err == nil {
					t.Fatalf("Fetch() = %+v, want %s error", got, tt.wantKind)
				}
				if got != nil {
					t.Errorf("Fetch() returned record %+v alongside error", got)
				}
				if KindOf(err) != tt.wantKind {
					t.Errorf("Fetch() error kind = %s, want %s", KindOf(err), tt.wantKind)
				}
				if err.Error() != tt.wantMessage {
					t.Errorf("Fetch() error = %q, want %q", err.Error(), tt.wantMessage)
				}
				return
			}

			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}

			want := *tt.want
			if want.URL == "" {
				want.URL = server.URL + "/"
			}
			if *got != want {
				t.Errorf("Fetch() = %+v, want %+v", *got, want)
			}
		})
	}
}

func TestFetcher_Fetch_UserAgentAndSingleRequest(t *testing.T) {
	var calls int32
	var userAgent, method string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		userAgent = r.Header.Get("User-Agent")
		method = r.Method
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewFetcher(nil).Fetch(context.Background(), server.URL)
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("Fetch() error = %v, want fetch error", err)
	}

	if userAgent != DefaultUserAgent {
		t.Errorf("User-Agent = %q, want %q", userAgent, DefaultUserAgent)
	}
	if method != http.MethodGet {
		t.Errorf("method = %q, want GET", method)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("server saw %d requests, want exactly 1 (no retries)", got)
	}
}

func TestFetcher_Fetch_CustomUserAgent(t *testing.T) {
	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`<title>ua</title>`))
	}))
	defer server.Close()

	config := httputil.DefaultConfig()
	config.UserAgent = "CustomBot/2.0"

	if _, err := NewFetcher(config).Fetch(context.Background(), server.URL); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if userAgent != "CustomBot/2.0" {
		t.Errorf("User-Agent = %q, want %q", userAgent, "CustomBot/2.0")
	}
}

func TestNewFetcher_DoesNotModifyConfig(t *testing.T) {
	var userAgent, accept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		accept = r.Header.Get("Accept")
		w.Write([]byte(`<title>ua</title>`))
	}))
	defer server.Close()

	config := &httputil.ClientConfig{Headers: map[string]string{"Accept": "text/html"}}
	fetcher := NewFetcher(config)

	if config.UserAgent != "" {
		t.Errorf("NewFetcher() changed caller config UserAgent to %q", config.UserAgent)
	}
	if _, err := fetcher.Fetch(context.Background(), server.URL); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if userAgent != DefaultUserAgent {
		t.Errorf("User-Agent = %q, want default %q", userAgent, DefaultUserAgent)
	}
	if accept != "text/html" {
		t.Errorf("Accept = %q, want configured header", accept)
	}
}

func TestFetcher_Fetch_ValidationMakesNoRequest(t *testing.T) {
	fetcher := NewFetcher(nil)

	record, err := fetcher.Fetch(context.Background(), "not a url")
	if record != nil {
		t.Errorf("Fetch() record = %+v, want nil", record)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("Fetch() error = %v, want validation error", err)
	}
	if err.Error() != "Invalid URL format" {
		t.Errorf("Fetch() error = %q, want %q", err.Error(), "Invalid URL format")
	}
}

func TestFetcher_Fetch_URLFallbackIsNormalized(t *testing.T) {
	server, _ := newPageServer(t, http.StatusOK, "text/html", `<meta property="og:title" content="Hello">`)

	// httptest URLs have no path, so normalization adds the trailing slash
	input := server.URL
	record, err := NewFetcher(nil).Fetch(context.Background(), input)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	normalized, err := NormalizeURL(input)
	if err != nil {
		t.Fatalf("NormalizeURL() error = %v", err)
	}

	if record.URL != normalized.String() {
		t.Errorf("record.URL = %q, want normalized %q", record.URL, normalized.String())
	}
	if record.URL == input {
		t.Errorf("record.URL should be the normalized URL, not the raw input %q", input)
	}
}

func TestFetcher_Fetch_TransportErrorIsExtractionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	record, err := NewFetcher(nil).Fetch(context.Background(), url)
	if record != nil {
		t.Errorf("Fetch() record = %+v, want nil", record)
	}
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("Fetch() error = %v, want extraction error", err)
	}
	if err.Error() != "Failed to fetch or parse Open Graph data" {
		t.Errorf("Fetch() error = %q", err.Error())
	}
	if errors.Unwrap(err) == nil {
		t.Error("extraction error should carry its cause")
	}
}

func TestFetcher_Fetch_UnsupportedSchemeIsExtractionError(t *testing.T) {
	for _, input := range []string{"file:///etc/hosts", "mailto:me@example.com"} {
		t.Run(input, func(t *testing.T) {
			record, err := NewFetcher(nil).Fetch(context.Background(), input)
			if record != nil {
				t.Errorf("Fetch() record = %+v, want nil", record)
			}
			if KindOf(err) != KindExtraction {
				t.Errorf("Fetch(%q) error kind = %s, want %s", input, KindOf(err), KindExtraction)
			}
		})
	}
}

func TestFetcher_Fetch_CancelledContext(t *testing.T) {
	server, calls := newPageServer(t, http.StatusOK, "text/html", `<title>never</title>`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFetcher(nil).Fetch(ctx, server.URL)
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("Fetch() error = %v, want extraction error", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Fetch() error should wrap context.Canceled, got %v", errors.Unwrap(err))
	}
	if got := atomic.LoadInt32(calls); got != 0 {
		t.Errorf("server saw %d requests, want 0", got)
	}
}

func TestFetcher_Fetch_Charset(t *testing.T) {
	server, _ := newPageServer(t, http.StatusOK, "text/html; charset=iso-8859-1",
		"<html><head><meta property=\"og:title\" content=\"Caf\xe9\"></head></html>")

	record, err := NewFetcher(nil).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if record.Title != "Café" {
		t.Errorf("Title = %q, want %q", record.Title, "Café")
	}
}

func TestFetcher_Fetch_Idempotent(t *testing.T) {
	server, calls := newPageServer(t, http.StatusOK, "text/html",
		`<meta property="og:title" content="Same"><meta property="og:image" content="/i.png">`)
	fetcher := NewFetcher(nil)

	first, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("first Fetch() error = %v", err)
	}
	second, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("second Fetch() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Fetch() not idempotent: %+v vs %+v", first, second)
	}
	if first == second {
		t.Error("Fetch() should build a fresh record per call")
	}
	if got := atomic.LoadInt32(calls); got != 2 {
		t.Errorf("server saw %d requests, want 2 (no caching)", got)
	}
}

func TestFetcher_Preview(t *testing.T) {
	server, _ := newPageServer(t, http.StatusOK, "text/html", `<meta property="og:title" content="Hello">`)
	fetcher := NewFetcher(nil)

	ok := fetcher.Preview(context.Background(), server.URL)
	if !ok.OK() || ok.Error != "" || ok.Kind != 0 {
		t.Fatalf("Preview() = %+v, want data only", ok)
	}

	bad := fetcher.Preview(context.Background(), "not a url")
	if bad.OK() || bad.Error != "Invalid URL format" || bad.Kind != KindValidation {
		t.Fatalf("Preview() = %+v, want validation error only", bad)
	}
}

func TestResult_MarshalJSON(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   string
	}{
		{
			name:   "record",
			result: NewResult(&Record{Title: "Hello", URL: "https://example.com/"}, nil),
			want:   `{"data":{"title":"Hello","description":null,"image":null,"url":"https://example.com/","siteName":null,"type":null},"error":null}`,
		},
		{
			name:   "classified error",
			result: NewResult(nil, &Error{Kind: KindNoData}),
			want:   `{"data":null,"error":"No Open Graph data found for this URL"}`,
		},
		{
			name:   "unclassified error",
			result: NewResult(nil, errors.New("boom")),
			want:   `{"data":null,"error":"Failed to fetch or parse Open Graph data"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.result)
			if err != nil {
				t.Fatalf("json.Marshal() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("json.Marshal() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestError_Is(t *testing.T) {
	err := newFetchError("Gone")
	if !errors.Is(err, ErrFetch) {
		t.Error("fetch error should match ErrFetch")
	}
	if errors.Is(err, ErrNoData) {
		t.Error("fetch error should not match ErrNoData")
	}
	if !strings.HasSuffix(err.Error(), "Gone") {
		t.Errorf("Error() = %q, want status text suffix", err.Error())
	}
	if KindOf(errors.New("plain")) != KindExtraction {
		t.Error("KindOf() should treat unclassified errors as extraction errors")
	}
}

func TestMetaTags(t *testing.T) {
	record := &Record{
		Title:       "Tom & Jerry",
		Description: `A "quoted" <b>desc</b>`,
		Image:       "https://example.com/og.png",
		URL:         "https://example.com/",
		Type:        "website",
	}

	testutil.CompareGolden(t, "testdata/metatags.golden", MetaTags(record))
}
