package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/lepinkainen/og-previewer/pkg/filesystem"
	httputil "github.com/lepinkainen/og-previewer/pkg/http"
)

// DefaultConfigFile is used when no path is given
const DefaultConfigFile = "config.yaml"

// EnvPrefix prefixes environment overrides, e.g. OG_PREVIEWER_SERVER_ADDR
const EnvPrefix = "OG_PREVIEWER"

// Config holds the central application configuration
type Config struct {
	// Dashboard server settings
	Server struct {
		Addr              string        `mapstructure:"addr"`                // Listen address
		ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"` // Limit for slow clients
	} `mapstructure:"server"`

	// Upstream page fetching. The user agent is fixed and not configurable.
	Fetcher struct {
		Timeout time.Duration `mapstructure:"timeout"` // Zero leaves fetches unbounded
	} `mapstructure:"fetcher"`

	// Troubleshooting guide overrides
	Guide struct {
		Path      string `mapstructure:"path"`       // Local YAML or JSON file
		RemoteURL string `mapstructure:"remote_url"` // Remote YAML or JSON document
	} `mapstructure:"guide"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_header_timeout", "10s")

	v.SetDefault("fetcher.timeout", "0s")

	v.SetDefault("guide.path", "")
	v.SetDefault("guide.remote_url", "")
}

// Default returns the configuration used when no file exists
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var config Config
	// Defaults always decode
	_ = v.Unmarshal(&config)
	return &config
}

// LoadConfig loads the configuration from a file. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFile
	}
	path = filesystem.ResolvePath(path)

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if filesystem.FileExists(path) {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// SaveConfig saves the configuration to a file
func SaveConfig(config *Config, path string) error {
	if path == "" {
		path = DefaultConfigFile
	}
	path = filesystem.ResolvePath(path)

	if err := filesystem.EnsureDirectoryExists(path); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigType("yaml")

	v.Set("server.addr", config.Server.Addr)
	v.Set("server.read_header_timeout", config.Server.ReadHeaderTimeout.String())

	v.Set("fetcher.timeout", config.Fetcher.Timeout.String())

	v.Set("guide.path", config.Guide.Path)
	v.Set("guide.remote_url", config.Guide.RemoteURL)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

// HTTPConfig returns the client settings for fetching pages, always with
// the previewer user agent
func (c *Config) HTTPConfig() *httputil.ClientConfig {
	httpConfig := httputil.DefaultConfig()
	httpConfig.Timeout = c.Fetcher.Timeout
	return httpConfig
}
