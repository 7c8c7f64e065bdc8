package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/holdings/config"
	"github.com/etnz/holdings/renderer"
	"github.com/etnz/holdings/source"
)

// showCmd holds the flags for the 'show' subcommand.
type showCmd struct {
	category string
	format   string
	theme    string
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display the holdings grouped by category" }
func (*showCmd) Usage() string {
	return `pfd show [-category <category>] [-format term|md|html|json] [-theme dark|light]

  Fetches the holdings once and displays them grouped by category, with the
  category totals and weights.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.category, "category", "", "Category to display, All by default. See 'pfd categories'")
	f.StringVar(&c.format, "format", "term", "Output format: term, md, html or json")
	f.StringVar(&c.theme, "theme", "", "Theme of the term and html formats: dark or light")
}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	switch c.format {
	case "term", "md", "html", "json":
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", c.format)
		return subcommands.ExitUsageError
	}

	cfg, log, err := loadConfig(false)
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

	st, err := fetchOnce(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening data source: %v\n", err)
		return subcommands.ExitFailure
	}

	d := renderer.NewDashboard(st, cfg.Resolver(), c.category)
	opts := renderOptions(cfg)

	switch c.format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(d)
	case "html":
		err = renderer.WriteHTML(os.Stdout, d, opts, c.theme)
	case "md":
		fmt.Print(renderer.RenderDashboard(d, opts))
	default:
		printMarkdown(renderer.RenderDashboard(d, opts), c.theme)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering dashboard: %v\n", err)
		return subcommands.ExitFailure
	}

	if st.Status == source.Failed {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
