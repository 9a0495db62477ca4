package guide

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/lepinkainen/og-previewer/pkg/opengraph"
	"github.com/lepinkainen/og-previewer/pkg/urlutils"
)

// Severity ranks a Finding
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Finding is an advisory note about a record
type Finding struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Property string   `json:"property" yaml:"property"`
	Message  string   `json:"message" yaml:"message"`
}

func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s: %s", f.Severity, f.Property, f.Message)
}

// Diagnose checks a record against the guide. Only the record itself is
// inspected; the image is never fetched.
func (g *Guide) Diagnose(rec *opengraph.Record) []Finding {
	var findings []Finding
	add := func(sev Severity, property, format string, args ...any) {
		findings = append(findings, Finding{Severity: sev, Property: property, Message: fmt.Sprintf(format, args...)})
	}

	switch {
	case rec.Image == "":
		add(SeverityError, "og:image", "missing; shares will appear without a picture. Use a %dx%d image", g.Image.Width, g.Image.Height)
	case !urlutils.IsHTTPURL(rec.Image):
		msg := fmt.Sprintf("%q is not an absolute URL; most platforms ignore relative image paths", rec.Image)
		if urlutils.IsHTTPURL(rec.URL) {
			if abs, err := urlutils.ResolveURL(rec.URL, rec.Image); err == nil && urlutils.IsHTTPURL(abs) {
				msg += fmt.Sprintf(". Use %s instead", abs)
			}
		}
		add(SeverityWarning, "og:image", "%s", msg)
	case strings.HasPrefix(strings.ToLower(rec.Image), "http://"):
		add(SeverityInfo, "og:image", "served over plain http; some platforms only load https images")
	}

	if rec.Title == "" {
		add(SeverityWarning, "og:title", "missing; platforms will guess a title from the page")
	} else if limit := g.Limits.Title; limit > 0 && utf8.RuneCountInString(rec.Title) > limit {
		add(SeverityInfo, "og:title", "longer than %d characters and may be truncated", limit)
	}

	if rec.Description == "" {
		add(SeverityWarning, "og:description", "missing; add og:description or a description meta tag")
	} else if limit := g.Limits.Description; limit > 0 && utf8.RuneCountInString(rec.Description) > limit {
		add(SeverityInfo, "og:description", "longer than %d characters and may be truncated", limit)
	}

	if rec.URL != "" && !urlutils.IsValidURL(rec.URL) {
		add(SeverityWarning, "og:url", "%q is not an absolute URL", rec.URL)
	}

	if rec.Type == "" {
		add(SeverityInfo, "og:type", "missing; \"website\" is assumed by most platforms")
	}

	if rec.SiteName == "" {
		add(SeverityInfo, "og:site_name", "missing")
	}

	return findings
}
