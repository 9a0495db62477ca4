package opengraph

import (
	"html"
	"strings"
)

// MetaTags renders the record as the <meta> tags a page would need to publish it.
// Absent fields are skipped.
func MetaTags(r *Record) string {
	var b strings.Builder

	for _, field := range []Field{
		{Property: "og:title", Value: r.Title},
		{Property: "og:description", Value: r.Description},
		{Property: "og:image", Value: r.Image},
		{Property: "og:url", Value: r.URL},
		{Property: "og:site_name", Value: r.SiteName},
		{Property: "og:type", Value: r.Type},
	} {
		if field.Value == "" {
			continue
		}
		b.WriteString(`<meta property="`)
		b.WriteString(field.Property)
		b.WriteString(`" content="`)
		b.WriteString(html.EscapeString(field.Value))
		b.WriteString("\" />\n")
	}

	return b.String()
}
