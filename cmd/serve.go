package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"

	"github.com/etnz/holdings/server"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the dashboard over HTTP" }
func (*serveCmd) Usage() string {
	return `pfd serve [-addr <host:port>]

  Polls the holdings and serves:

    /                    HTML dashboard (?category=, ?theme=dark|light)
    /api/dashboard       dashboard as JSON (?category=)
    /api/categories      category options as JSON
    /chart.svg           category weights pie chart (?category=)
    /ws                  dashboard pushed on every refresh (?category=)
    /health              data source status
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address, the configured one by default")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, err := loadConfig(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.addr == "" {
		c.addr = cfg.Server.Addr
	}

	p, err := openPoller(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening data source: %v\n", err)
		return subcommands.ExitFailure
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	p.Start(ctx)
	defer p.Stop()

	srv := server.New(server.Config{
		Log:      log,
		Addr:     c.addr,
		Poller:   p,
		Resolver: cfg.Resolver(),
		Options:  renderOptions(cfg),
		Theme:    cfg.Display.Theme,
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	if err := srv.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
