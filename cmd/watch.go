package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/subcommands"

	"github.com/etnz/holdings/config"
	"github.com/etnz/holdings/tui"
)

type watchCmd struct {
	category string
	theme    string
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "live dashboard in the terminal" }
func (*watchCmd) Usage() string {
	return `pfd watch [-category <category>] [-theme dark|light]

  Polls the holdings and displays them in a full screen dashboard.

  Keys: tab/→ next category, shift+tab/← previous, a all, t theme,
  r refresh, q quit. See 'pfd topic keys'.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.category, "category", "", "Initial category, All by default")
	f.StringVar(&c.theme, "theme", "", "Initial theme: dark or light")
}

func (c *watchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, err := loadConfig(true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.theme == "" {
		c.theme = cfg.Display.Theme
	}
	if !config.ValidTheme(c.theme) {
		fmt.Fprintf(os.Stderr, "Error: unknown theme %q\n", c.theme)
		return subcommands.ExitUsageError
	}
	if c.category == "" {
		c.category = cfg.Display.Category
	}

	p, err := openPoller(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening data source: %v\n", err)
		return subcommands.ExitFailure
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	p.Start(ctx)
	defer p.Stop()

	m := tui.New(ctx, p, tui.Config{
		Resolver: cfg.Resolver(),
		Options:  renderOptions(cfg),
		Theme:    c.theme,
		Category: c.category,
		Log:      log,
	})
	prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus(), tea.WithContext(ctx))
	if _, err := prog.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
