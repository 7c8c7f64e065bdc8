package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"

	"github.com/etnz/holdings/renderer"
)

type chartCmd struct {
	output   string
	category string
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "draw the category weights as a pie chart" }
func (*chartCmd) Usage() string {
	return `pfd chart [-o weights.svg] [-category <category>]

  Fetches the holdings once and writes the category weights as a pie chart.
  The format, png or svg, follows the output file extension.
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "weights.svg", "Output file, .png or .svg")
	f.StringVar(&c.category, "category", "", "Category to draw, All by default")
}

func (c *chartCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(c.output)), ".")
	if format != "png" && format != "svg" {
		fmt.Fprintf(os.Stderr, "Error: cannot guess the chart format of %q, use .png or .svg\n", c.output)
		return subcommands.ExitUsageError
	}

	cfg, log, err := loadConfig(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
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
	if !d.HasData() {
		fmt.Fprintf(os.Stderr, "Error: %s\n", d.Message)
		if d.Error != "" {
			fmt.Fprintf(os.Stderr, "%s\n", d.Error)
		}
		return subcommands.ExitFailure
	}

	out, err := os.Create(c.output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	defer out.Close()

	if err := renderer.WriteChart(out, d, renderOptions(cfg), format); err != nil {
		if errors.Is(err, renderer.ErrNoChartData) {
			fmt.Fprintf(os.Stderr, "Error: no category has a positive present value\n")
		} else {
			fmt.Fprintf(os.Stderr, "Error writing chart: %v\n", err)
		}
		return subcommands.ExitFailure
	}
	if err := out.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Chart written to %s\n", c.output)
	return subcommands.ExitSuccess
}
