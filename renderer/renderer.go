package renderer

import (
	"embed"
	"fmt"
	"html"
	"io/fs"
	"strings"
	"text/template"
	"time"

	"github.com/etnz/holdings"
)

//go:embed templates
var embedded embed.FS

// templates holds the markdown templates and their partials.
var templates = func() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}()

// Options holds configuration for rendering a dashboard.
type Options struct {
	Currency string                // ISO 4217 code of the portfolio totals.
	Format   holdings.NumberFormat // Locale of every number; the zero value uses the process locale.

	html bool // gain/loss cells carry a css class.
}

// RenderDashboard renders the Dashboard struct to a markdown string.
func RenderDashboard(d *Dashboard, opts Options) string {
	partials := map[string]string{
		"dashboard_title":   "dashboard_title.md",
		"dashboard_summary": "dashboard_summary.md",
		"dashboard_group":   "dashboard_group.md",
	}
	// Nothing to show but a message.
	if !d.HasData() {
		partials["dashboard_summary"] = ""
		partials["dashboard_group"] = ""
	}
	return renderTemplate("dashboard", "dashboard.md", partials, opts.funcs(), d)
}

// funcs returns the template functions formatting numbers with opts.
func (opts Options) funcs() template.FuncMap {
	num := func(v float64) string { return opts.Format.Format(v, 2) }
	return template.FuncMap{
		"num":    num,
		"pct":    func(v float64) string { return holdings.Percent(v).Format(opts.Format) },
		"money":  func(v float64) string { return holdings.FormatMoney(v, opts.Currency) },
		"signed": func(v float64) string { return holdings.SignedMoney(v, opts.Currency) },
		"figure": func(f holdings.Figure) string { return opts.text(f.Format(opts.Format, 2)) },
		"text":   opts.text,
		"when":   func(t time.Time) string { return t.Local().Format("2006-01-02 15:04:05") },
		// gain renders a gain/loss amount, styled by its sign in HTML.
		"gain": func(v float64) string {
			s := num(v)
			if !opts.html {
				return s
			}
			class := "gain"
			if v < 0 {
				class = "loss"
			}
			return fmt.Sprintf(`<span class="%s">%s</span>`, class, s)
		},
	}
}

// markdownEscaper neutralizes the markdown syntax of text, table pipes
// included. Angle brackets are handled by Options.text.
var markdownEscaper = strings.NewReplacer(
	"\\", `\\`, "`", "\\`", "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`,
	"|", `\|`, "#", `\#`, "~", `\~`, "!", `\!`,
	"\n", " ", "\r", " ",
)

// text escapes data for markdown: backend strings (names, sectors, figures,
// errors) and the user selection must never become markup. The markdown
// converter keeps raw HTML for the template spans, so in HTML the data is
// also HTML escaped, which markdown passes through as entities.
func (opts Options) text(s string) string {
	s = markdownEscaper.Replace(s)
	if opts.html {
		return html.EscapeString(s)
	}
	return strings.NewReplacer("<", `\<`, ">", `\>`).Replace(s)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, funcs template.FuncMap, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			content, err = fs.ReadFile(templates, file)
			if err != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, err)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
