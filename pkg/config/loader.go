// Package config loads structured content from local files or remote URLs,
// accepting either JSON or YAML.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	httputil "github.com/lepinkainen/og-previewer/pkg/http"
)

// RemoteTimeout bounds a remote fetch in LoadOrFetch
const RemoteTimeout = 10 * time.Second

// LoadOrFetch loads target from localPath, falling back to remoteURL and finally
// to whatever target already holds.
func LoadOrFetch(localPath, remoteURL string, target any) error {
	if localPath != "" {
		err := loadFromFile(localPath, target)
		if err == nil {
			return nil
		}
		slog.Warn("Failed to load local file", "path", localPath, "error", err)
	}

	if remoteURL != "" {
		err := loadFromURL(remoteURL, RemoteTimeout, target)
		if err == nil {
			return nil
		}
		slog.Warn("Failed to fetch remote file", "url", remoteURL, "error", err)
	}

	return nil
}

// loadFromURL loads configuration from a remote URL using shared HTTP utilities
func loadFromURL(rawURL string, timeout time.Duration, target any) error {
	httpConfig := httputil.DefaultConfig()
	httpConfig.Timeout = timeout

	client := httputil.NewClient(httpConfig)
	resp, err := client.Get(rawURL)
	if err != nil {
		return fmt.Errorf("failed to fetch config from URL: %w", err)
	}

	if err := httputil.EnsureStatusOK(resp); err != nil {
		resp.Body.Close()
		return fmt.Errorf("HTTP error fetching config: %w", err)
	}

	data, err := httputil.ReadResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read config response: %w", err)
	}

	urlPath := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		urlPath = path.Base(u.Path)
	}

	if err := decode(detectFormat(urlPath, data), data, target); err != nil {
		return fmt.Errorf("failed to decode configuration: %w", err)
	}

	return nil
}

// loadFromFile loads configuration from a local file
func loadFromFile(filePath string, target any) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return decode(detectFormat(filePath, data), data, target)
}

func decode(format string, data []byte, target any) error {
	switch format {
	case "json":
		if err := json.Unmarshal(data, target); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, target); err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}
	}
	return nil
}

// detectFormat picks "json" or "yaml" from the file extension, then from the content
func detectFormat(filePath string, data []byte) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return "json"
	}

	return "yaml"
}
