// Package guide holds the Open Graph troubleshooting guide and the advisory
// checks derived from it.
package guide

import (
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/og-previewer/configs"
	"github.com/lepinkainen/og-previewer/pkg/config"
)

// EmbeddedGuideFile is the name of the default guide inside configs.EmbeddedConfigs
const EmbeddedGuideFile = "guide.yaml"

// Guide is the troubleshooting content shown next to a preview
type Guide struct {
	Title      string      `yaml:"title" json:"title"`
	Summary    string      `yaml:"summary" json:"summary"`
	Image      ImageSpec   `yaml:"image" json:"image"`
	Limits     TextLimits  `yaml:"limits" json:"limits"`
	Sections   []Section   `yaml:"sections" json:"sections"`
	Validators []Validator `yaml:"validators" json:"validators"`
	Resources  []Resource  `yaml:"resources" json:"resources"`
}

// ImageSpec describes the recommended og:image properties
type ImageSpec struct {
	Width         int      `yaml:"width" json:"width"`
	Height        int      `yaml:"height" json:"height"`
	MinWidth      int      `yaml:"min_width" json:"minWidth"`
	MinHeight     int      `yaml:"min_height" json:"minHeight"`
	AspectRatio   string   `yaml:"aspect_ratio" json:"aspectRatio"`
	Formats       []string `yaml:"formats" json:"formats"`
	MaxFileSize   string   `yaml:"max_file_size" json:"maxFileSize"`
	IdealFileSize string   `yaml:"ideal_file_size" json:"idealFileSize"`
}

// TextLimits are the lengths after which platforms tend to truncate text
type TextLimits struct {
	Title       int `yaml:"title" json:"title"`
	Description int `yaml:"description" json:"description"`
}

// Section groups related topics, e.g. "troubleshooting"
type Section struct {
	ID     string  `yaml:"id" json:"id"`
	Title  string  `yaml:"title" json:"title"`
	Topics []Topic `yaml:"topics" json:"topics"`
}

// Topic is a heading with a list of short points
type Topic struct {
	Title  string   `yaml:"title" json:"title"`
	Points []string `yaml:"points" json:"points"`
}

// Validator is an external tool for checking how a URL is shared
type Validator struct {
	Name        string `yaml:"name" json:"name"`
	URL         string `yaml:"url" json:"url"`
	Description string `yaml:"description" json:"description"`
}

// Resource is a documentation link
type Resource struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
}

// Default returns the guide compiled into the binary
func Default() (*Guide, error) {
	data, err := configs.EmbeddedConfigs.ReadFile(EmbeddedGuideFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded guide: %w", err)
	}

	var g Guide
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to parse embedded guide: %w", err)
	}
	return &g, nil
}

// Load returns the embedded guide overlaid with a local file or remote document.
// Either source may be empty. Unreadable sources leave the embedded content in place.
func Load(localPath, remoteURL string) (*Guide, error) {
	g, err := Default()
	if err != nil {
		return nil, err
	}

	if localPath == "" && remoteURL == "" {
		return g, nil
	}

	if err := config.LoadOrFetch(localPath, remoteURL, g); err != nil {
		return nil, fmt.Errorf("failed to load guide: %w", err)
	}

	slog.Debug("Loaded guide", "path", localPath, "url", remoteURL, "sections", len(g.Sections))
	return g, nil
}

// Section returns the section with the given id, or nil
func (g *Guide) Section(id string) *Section {
	for i := range g.Sections {
		if g.Sections[i].ID == id {
			return &g.Sections[i]
		}
	}
	return nil
}
