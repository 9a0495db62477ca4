package opengraph

import (
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
)

// Extract parses an HTML document and resolves the OpenGraph fields using their
// fallback chains. pageURL is used for the url field when the page has no og:url.
// The returned bool reports whether the page carried any metadata of its own.
func Extract(r io.Reader, pageURL string) (*Record, bool, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, false, fmt.Errorf("failed to parse HTML: %w", err)
	}

	record, found := extractDocument(doc, pageURL)
	return record, found, nil
}

func extractDocument(doc *goquery.Document, pageURL string) (*Record, bool) {
	record := &Record{
		Title:       firstContent(doc, titleSelectors),
		Description: firstContent(doc, descriptionSelectors),
		Image:       firstContent(doc, imageSelectors),
		URL:         firstContent(doc, urlSelectors),
		SiteName:    firstContent(doc, siteNameSelectors),
		Type:        firstContent(doc, typeSelectors),
	}

	if record.Title == "" {
		record.Title = doc.Find("title").First().Text()
	}

	// The url fallback always succeeds, so it does not count as found metadata
	found := !record.IsEmpty()
	if record.URL == "" {
		record.URL = pageURL
	}

	return record, found
}

// firstContent returns the content attribute of the first element matching each
// selector in turn, skipping selectors whose first match is missing or empty.
func firstContent(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		if content, exists := doc.Find(selector).First().Attr("content"); exists && content != "" {
			return content
		}
	}
	return ""
}
