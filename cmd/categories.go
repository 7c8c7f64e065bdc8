package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/etnz/holdings"
)

type categoriesCmd struct {
	sector string
}

func (*categoriesCmd) Name() string     { return "categories" }
func (*categoriesCmd) Synopsis() string { return "list the category table or resolve stock names" }
func (*categoriesCmd) Usage() string {
	return `pfd categories [-sector <sector>] [<stock>...]

  Without arguments, prints the category table: the built-in entries merged
  with the 'categories' section of the configuration.

  With arguments, prints the category each stock name resolves to. Names
  missing from the table fall back on -sector, then on Others, and are
  marked as such.
`
}

func (c *categoriesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.sector, "sector", "", "Sector reported by the data source for the given stocks")
}

func (c *categoriesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, _, err := loadConfig(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	r := cfg.Resolver()

	if f.NArg() > 0 {
		for _, stock := range f.Args() {
			fmt.Println(resolveLine(r, stock, c.sector))
		}
		return subcommands.ExitSuccess
	}

	printMarkdown(categoryTable(r), cfg.Display.Theme)
	return subcommands.ExitSuccess
}

// resolveLine tells the category of stock, and whether it came from the
// table or from the fallback.
func resolveLine(r *holdings.CategoryResolver, stock, sector string) string {
	if category, ok := r.Lookup(stock); ok {
		return fmt.Sprintf("%s: %s", stock, category)
	}
	return fmt.Sprintf("%s: %s (not in the table)", stock, r.Resolve(stock, sector))
}

// categoryTable formats the entries of r as a markdown table.
func categoryTable(r *holdings.CategoryResolver) string {
	var b strings.Builder
	b.WriteString("| Category | Stock |\n|:---|:---|\n")
	for _, e := range r.Entries() {
		fmt.Fprintf(&b, "| %s | %s |\n", e.Category, e.Stock)
	}
	return b.String()
}
