package opengraph

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/lepinkainen/og-previewer/pkg/urlutils"
)

// NormalizeURL turns user input into an absolute URL suitable for fetching.
// Input that already carries a scheme is used as-is; input without one, or a bare
// host:port, gets https:// prepended. http and https URLs must have a host.
// Failures yield a KindValidation error.
func NormalizeURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)

	u, err := url.Parse(raw)
	if err != nil && strings.Contains(raw, "://") {
		// a scheme was given but the rest is malformed
		return nil, newValidationError(err)
	}

	if err != nil || u.Scheme == "" || isHostPort(u) {
		u, err = url.Parse(DefaultScheme + "://" + raw)
		if err != nil {
			return nil, newValidationError(err)
		}
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return u, nil
	}

	if !urlutils.IsHTTPURL(u.String()) || strings.ContainsAny(u.Hostname(), " \t\n") {
		return nil, newValidationError(fmt.Errorf("not an absolute URL: %q", raw))
	}

	// Canonical form: lowercase host and an explicit root path
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" {
		u.Path = "/"
	}

	return u, nil
}

// isHostPort reports whether u is really "host:port" that url.Parse read as
// scheme "host" with opaque "port", e.g. localhost:8080/api
func isHostPort(u *url.URL) bool {
	if u.Host != "" || u.Opaque == "" {
		return false
	}

	port := u.Opaque
	if i := strings.IndexAny(port, "/?#"); i >= 0 {
		port = port[:i]
	}
	if port == "" {
		return false
	}
	for _, c := range port {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
