// Package preview renders Open Graph records for the terminal, either as plain
// text or through an interactive Bubble Tea view.
package preview

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lepinkainen/og-previewer/pkg/guide"
	"github.com/lepinkainen/og-previewer/pkg/opengraph"
	"github.com/lepinkainen/og-previewer/pkg/urlutils"
)

const (
	cardWidth = 70
	rule      = "═══════════════════════════════════════════════════════════════════════\n"
)

// wrapText wraps text to the specified width, breaking at word boundaries when possible
func wrapText(text string, width int) string {
	if width <= 0 {
		width = cardWidth
	}

	var result strings.Builder
	var line strings.Builder
	lineLen := 0

	words := strings.Fields(text)
	for i, word := range words {
		wordLen := len([]rune(word))

		// If adding this word would exceed width, start a new line
		if lineLen > 0 && lineLen+1+wordLen > width {
			result.WriteString(line.String())
			result.WriteString("\n")
			line.Reset()
			lineLen = 0
		}

		if lineLen > 0 {
			line.WriteString(" ")
			lineLen++
		}

		line.WriteString(word)
		lineLen += wordLen

		if i == len(words)-1 {
			result.WriteString(line.String())
		}
	}

	return result.String()
}

// displayHost is the site name, or the host of the page when none is set
func displayHost(rec *opengraph.Record, requestURL string) string {
	if rec.SiteName != "" {
		return rec.SiteName
	}
	link := rec.URL
	if link == "" {
		link = requestURL
	}
	return urlutils.Host(link)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// FormatCard formats the record the way a social network would show a shared link
func FormatCard(rec *opengraph.Record, requestURL string) string {
	var b strings.Builder

	b.WriteString(rule)
	b.WriteString(strings.ToUpper(displayHost(rec, requestURL)))
	b.WriteString("\n")
	b.WriteString(wrapText(orDefault(rec.Title, "No title available"), cardWidth))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Image: %s\n\n", orDefault(rec.Image, "No image available"))
	b.WriteString(wrapText(orDefault(rec.Description, "No description available"), cardWidth))
	b.WriteString("\n\n")

	if rec.Type != "" {
		fmt.Fprintf(&b, "Type: %s\n", rec.Type)
	} else {
		b.WriteString("No type specified\n")
	}
	fmt.Fprintf(&b, "Link: %s\n", orDefault(rec.URL, requestURL))
	b.WriteString(rule)

	return b.String()
}

// FormatMetadata lists every field with its value, or "Not found"
func FormatMetadata(rec *opengraph.Record) string {
	var b strings.Builder

	for _, field := range rec.Fields() {
		fmt.Fprintf(&b, "%-12s %s\n", field.Label+":", orDefault(field.Value, "Not found"))
	}

	return b.String()
}

// FormatJSON formats the record as indented JSON with absent fields as null
func FormatJSON(rec *opengraph.Record) (string, error) {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode record: %w", err)
	}
	return string(data) + "\n", nil
}

// FormatMetaTags returns the meta tags reproducing the record
func FormatMetaTags(rec *opengraph.Record) string {
	return opengraph.MetaTags(rec)
}

// FormatFindings lists advisory findings, one per line
func FormatFindings(findings []guide.Finding) string {
	if len(findings) == 0 {
		return "No issues found\n"
	}

	var b strings.Builder
	for _, f := range findings {
		b.WriteString(f.String())
		b.WriteString("\n")
	}
	return b.String()
}

// FormatGuide formats the troubleshooting guide
func FormatGuide(g *guide.Guide) string {
	var b strings.Builder

	b.WriteString(g.Title)
	b.WriteString("\n")
	if g.Summary != "" {
		b.WriteString(wrapText(g.Summary, cardWidth))
		b.WriteString("\n")
	}

	img := g.Image
	fmt.Fprintf(&b, "\nRecommended image: %dx%d (minimum %dx%d, aspect ratio %s)\n",
		img.Width, img.Height, img.MinWidth, img.MinHeight, img.AspectRatio)
	if len(img.Formats) > 0 {
		fmt.Fprintf(&b, "Formats: %s, under %s (ideally under %s)\n",
			strings.Join(img.Formats, ", "), img.MaxFileSize, img.IdealFileSize)
	}

	for _, section := range g.Sections {
		fmt.Fprintf(&b, "\n%s\n", section.Title)
		for _, topic := range section.Topics {
			fmt.Fprintf(&b, "  %s\n", topic.Title)
			for _, point := range topic.Points {
				fmt.Fprintf(&b, "    - %s\n", point)
			}
		}
	}

	if len(g.Validators) > 0 {
		b.WriteString("\nValidators\n")
		for _, v := range g.Validators {
			fmt.Fprintf(&b, "  %s: %s\n", v.Name, v.URL)
		}
	}

	if len(g.Resources) > 0 {
		b.WriteString("\nResources\n")
		for _, r := range g.Resources {
			fmt.Fprintf(&b, "  %s: %s\n", r.Name, r.URL)
		}
	}

	return b.String()
}
