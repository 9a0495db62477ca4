package server

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"os"

	"github.com/lepinkainen/og-previewer/templates"
)

// IndexTemplate is the dashboard page template name
const IndexTemplate = "index.html.tmpl"

var (
	// templateOverrideFS points at the developer-provided filesystem (usually the local templates directory).
	templateOverrideFS fs.FS = os.DirFS("templates")
	// templateFallbackFS is the embedded filesystem baked into the binary.
	templateFallbackFS fs.FS = templates.EmbeddedTemplates
)

// SetTemplateOverrideFS switches the primary filesystem used when loading templates.
func SetTemplateOverrideFS(f fs.FS) {
	templateOverrideFS = f
}

// SetTemplateFallbackFS overrides the embedded filesystem used when no override file is available.
func SetTemplateFallbackFS(f fs.FS) {
	templateFallbackFS = f
}

// loadTemplate parses name from the override filesystem, falling back to the embedded copy
func loadTemplate(name string) (*template.Template, error) {
	content, err := fs.ReadFile(templateOverrideFS, name)
	if err != nil {
		content, err = fs.ReadFile(templateFallbackFS, name)
		if err != nil {
			return nil, fmt.Errorf("template %s not found: %w", name, err)
		}
	} else {
		slog.Debug("Using template override", "template", name)
	}

	tmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	return tmpl, nil
}
