package opengraph

import (
	"encoding/json"

	httputil "github.com/lepinkainen/og-previewer/pkg/http"
)

// Record represents the OpenGraph metadata extracted from a single page.
// An empty string means the field was not present in the markup.
type Record struct {
	Title       string `json:"title" yaml:"title,omitempty"`
	Description string `json:"description" yaml:"description,omitempty"`
	Image       string `json:"image" yaml:"image,omitempty"`
	URL         string `json:"url" yaml:"url,omitempty"`
	SiteName    string `json:"siteName" yaml:"siteName,omitempty"`
	Type        string `json:"type" yaml:"type,omitempty"`
}

// Constants for OpenGraph fetching
const (
	// DefaultUserAgent identifies the previewer to the servers it fetches from
	DefaultUserAgent = httputil.DefaultUserAgent
	// DefaultScheme is prepended to URLs entered without one
	DefaultScheme = "https"
)

// Tag selectors in fallback order for each field
var (
	titleSelectors       = []string{`meta[property="og:title"]`}
	descriptionSelectors = []string{`meta[property="og:description"]`, `meta[name="description"]`}
	imageSelectors       = []string{`meta[property="og:image"]`}
	urlSelectors         = []string{`meta[property="og:url"]`}
	siteNameSelectors    = []string{`meta[property="og:site_name"]`}
	typeSelectors        = []string{`meta[property="og:type"]`}
)

// Fields returns the record as ordered label/value pairs for display
func (r *Record) Fields() []Field {
	return []Field{
		{Label: "Title", Property: "og:title", Value: r.Title},
		{Label: "Description", Property: "og:description", Value: r.Description},
		{Label: "Image URL", Property: "og:image", Value: r.Image},
		{Label: "Type", Property: "og:type", Value: r.Type},
		{Label: "URL", Property: "og:url", Value: r.URL},
		{Label: "Site Name", Property: "og:site_name", Value: r.SiteName},
	}
}

// Field is a single labelled record value
type Field struct {
	Label    string
	Property string
	Value    string
}

// IsEmpty reports whether no field carries a value
func (r *Record) IsEmpty() bool {
	return r.Title == "" && r.Description == "" && r.Image == "" &&
		r.URL == "" && r.SiteName == "" && r.Type == ""
}

// MarshalJSON encodes absent fields as null
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Image       *string `json:"image"`
		URL         *string `json:"url"`
		SiteName    *string `json:"siteName"`
		Type        *string `json:"type"`
	}{
		Title:       nullable(r.Title),
		Description: nullable(r.Description),
		Image:       nullable(r.Image),
		URL:         nullable(r.URL),
		SiteName:    nullable(r.SiteName),
		Type:        nullable(r.Type),
	})
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
