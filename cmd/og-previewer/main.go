// Package main provides the CLI entry point for og-previewer.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	kongyaml "github.com/alecthomas/kong-yaml"
	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/og-previewer/internal/config"
	"github.com/lepinkainen/og-previewer/internal/server"
	"github.com/lepinkainen/og-previewer/pkg/guide"
	"github.com/lepinkainen/og-previewer/pkg/opengraph"
	"github.com/lepinkainen/og-previewer/pkg/preview"
)

// CLI structure
var CLI struct {
	Config string `help:"Configuration file path" default:"config.yaml"`
	Debug  bool   `help:"Enable debug logging" default:"false"`

	Fetch struct {
		URL      string `arg:"" help:"Page URL, the scheme may be omitted"`
		Format   string `help:"Output format" short:"f" enum:"text,json,yaml,tags" default:"text"`
		Findings bool   `help:"Append guide findings to text output" default:"true" negatable:""`
	} `cmd:"fetch" help:"Fetch a page and print its Open Graph metadata."`

	Preview struct {
		URL string `arg:"" help:"Page URL, the scheme may be omitted"`
	} `cmd:"preview" help:"Preview a page's Open Graph card interactively."`

	Serve struct {
		Addr string `help:"Listen address, overrides server.addr from the config file"`
	} `cmd:"serve" help:"Run the web dashboard."`

	Guide struct {
		Format string `help:"Output format" short:"f" enum:"text,json,yaml" default:"text"`
	} `cmd:"guide" help:"Print the Open Graph troubleshooting guide."`

	InitConfig struct {
		Force bool `help:"Overwrite an existing configuration file"`
	} `cmd:"init-config" help:"Write a configuration file with default values."`
}

func main() {
	// Parse CLI with Kong YAML configuration file loading
	ctx := kong.Parse(&CLI,
		kong.Name("og-previewer"),
		kong.Description("Preview and troubleshoot Open Graph metadata."),
		kong.Configuration(kongyaml.Loader, "config.yaml", "~/.og-previewer/config.yaml"),
	)

	// Configure logging level based on debug flag
	switch {
	case CLI.Debug:
		slog.SetLogLoggerLevel(slog.LevelDebug)
	case ctx.Command() == "serve":
		slog.SetLogLoggerLevel(slog.LevelInfo)
	default:
		slog.SetLogLoggerLevel(slog.LevelWarn)
	}

	if ctx.Command() == "init-config" {
		if err := initConfig(CLI.Config, CLI.InitConfig.Force); err != nil {
			slog.Error("Failed to write configuration", "path", CLI.Config, "error", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", CLI.Config)
		return
	}

	cfg, err := config.LoadConfig(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "path", CLI.Config, "error", err)
		os.Exit(1)
	}

	g, err := guide.Load(cfg.Guide.Path, cfg.Guide.RemoteURL)
	if err != nil {
		slog.Error("Failed to load guide", "error", err)
		os.Exit(1)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetcher := opengraph.NewFetcher(cfg.HTTPConfig())

	switch ctx.Command() {
	case "fetch <url>":
		err = runFetch(runCtx, os.Stdout, fetcher, g, CLI.Fetch.URL, CLI.Fetch.Format, CLI.Fetch.Findings)

	case "preview <url>":
		err = preview.Run(runCtx, CLI.Preview.URL, fetcher.Preview, g)

	case "serve":
		if CLI.Serve.Addr != "" {
			cfg.Server.Addr = CLI.Serve.Addr
		}
		err = serve(runCtx, cfg, fetcher, g)

	case "guide":
		err = runGuide(os.Stdout, g, CLI.Guide.Format)

	default:
		panic(ctx.Command())
	}

	if err != nil {
		slog.Error("Command failed", "command", ctx.Command(), "error", err)
		os.Exit(1)
	}
}

// errPreviewFailed marks a fetch whose classified error was already printed
var errPreviewFailed = errors.New("preview failed")

// runFetch prints the preview for rawURL in the requested format
func runFetch(ctx context.Context, w io.Writer, previewer server.Previewer, g *guide.Guide, rawURL, format string, findings bool) error {
	slog.Debug("Fetching Open Graph data", "url", rawURL, "format", format)

	result := previewer.Preview(ctx, rawURL)

	switch format {
	case "json":
		if err := json.NewEncoder(w).Encode(result); err != nil {
			return err
		}

	case "yaml":
		out := map[string]any{"data": result.Data, "error": nil}
		if !result.OK() {
			out["error"] = result.Error
		}
		if err := yaml.NewEncoder(w).Encode(out); err != nil {
			return err
		}

	default:
		if !result.OK() {
			fmt.Fprintf(w, "Error: %s\n", result.Error)
			break
		}
		if format == "tags" {
			fmt.Fprint(w, preview.FormatMetaTags(result.Data))
			break
		}
		fmt.Fprint(w, preview.FormatCard(result.Data, rawURL))
		fmt.Fprintln(w)
		fmt.Fprint(w, preview.FormatMetadata(result.Data))
		if findings && g != nil {
			fmt.Fprintln(w)
			fmt.Fprint(w, preview.FormatFindings(g.Diagnose(result.Data)))
		}
	}

	if !result.OK() {
		return fmt.Errorf("%w: %s", errPreviewFailed, result.Kind)
	}
	return nil
}

// runGuide prints the guide in the requested format
func runGuide(w io.Writer, g *guide.Guide, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(g)
	case "yaml":
		return yaml.NewEncoder(w).Encode(g)
	default:
		_, err := fmt.Fprint(w, preview.FormatGuide(g))
		return err
	}
}

func serve(ctx context.Context, cfg *config.Config, fetcher *opengraph.Fetcher, g *guide.Guide) error {
	s, err := server.New(cfg, slog.Default(), fetcher, g)
	if err != nil {
		return err
	}
	return s.ListenAndServe(ctx)
}

func initConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}
	return config.SaveConfig(config.Default(), path)
}
