// Package cmd implements the CLI application to display a portfolio.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/etnz/holdings/config"
	"github.com/etnz/holdings/logger"
	"github.com/etnz/holdings/renderer"
	"github.com/etnz/holdings/source"
)

// Commands lists the subcommands, main registers them.
var Commands = []subcommands.Command{
	&showCmd{},
	&watchCmd{},
	&serveCmd{},
	&chartCmd{},
	&categoriesCmd{},
	&topicCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", os.Getenv("PORTFOLIO_CONFIG"), "Path to a YAML or TOML configuration file")
var logLevel = flag.String("log-level", "", "Log level (debug, info, warn, error), overrides the configuration")
var logPretty = flag.Bool("log-pretty", false, "Human readable logs")

// loadConfig loads the application configuration and its logger. Logs go to
// stderr, unless the screen belongs to a full screen interface: then they go
// to the configured log file, or nowhere.
func loadConfig(fullscreen bool) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("loading configuration: %w", err)
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *logPretty {
		cfg.Logging.Pretty = true
	}

	var out io.Writer = os.Stderr
	switch {
	case cfg.Logging.File != "":
		f, err := os.OpenFile(cfg.Logging.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, zerolog.Nop(), fmt.Errorf("opening log file: %w", err)
		}
		out = f
	case fullscreen:
		return cfg, logger.Nop(), nil
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Pretty: cfg.Logging.Pretty,
		Output: out,
	})
	return cfg, log, nil
}

// openPoller is the central function to open the data source.
func openPoller(cfg *config.Config, log zerolog.Logger) (*source.Poller, error) {
	client, err := source.NewClient(cfg.Source.URL(),
		source.WithTimeout(cfg.Source.Timeout()),
		source.WithHoldingsPath(cfg.Source.HoldingsPath),
		source.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}

	opts := []source.PollerOption{
		source.WithInterval(cfg.Source.RefreshInterval()),
		source.WithRetries(cfg.Source.Retries, time.Second),
		source.WithFocusRevalidation(cfg.Source.RevalidateOnFocus),
		source.WithPollerLogger(log),
	}
	if cfg.Source.CacheFile != "" {
		opts = append(opts, source.WithCache(source.NewCache(cfg.Source.CacheFile)))
	}
	return source.NewPoller(client, opts...), nil
}

// fetchOnce returns the state after a single refresh, falling back on the
// cached snapshot when the refresh fails.
func fetchOnce(ctx context.Context, cfg *config.Config, log zerolog.Logger) (source.State, error) {
	p, err := openPoller(cfg, log)
	if err != nil {
		return source.State{}, err
	}
	p.Restore()
	return p.Refresh(ctx), nil
}

// renderOptions returns the rendering options of the configuration.
func renderOptions(cfg *config.Config) renderer.Options {
	return renderer.Options{
		Currency: cfg.Display.Currency,
		Format:   cfg.Display.NumberFormat(),
	}
}

// printMarkdown prints markdown to stdout, styled for the terminal. The raw
// markdown is printed when styling fails.
func printMarkdown(md string, theme string) {
	out, err := renderer.RenderTerminal(md, theme, *width)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

var width = flag.Int("width", 160, "Terminal width for word wrapping")
