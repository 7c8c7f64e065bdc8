package renderer

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// markdown converts GitHub flavored markdown, tables included. Raw HTML is
// kept for the template spans, data is escaped by Options.text beforehand.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

var page = template.Must(template.ParseFS(templates, "page.html"))

// pageData is the data of page.html.
type pageData struct {
	Theme      string
	Toggle     string // the other theme
	Selected   string
	Categories []string
	Body       template.HTML
}

// WriteHTML writes d as a standalone HTML page in the dark or light theme,
// with a category selector.
func WriteHTML(w io.Writer, d *Dashboard, opts Options, theme string) error {
	toggle := ""
	switch theme {
	case "dark":
		toggle = "light"
	case "light":
		toggle = "dark"
	default:
		return fmt.Errorf("unknown theme %q, want one of %v", theme, Themes)
	}

	opts.html = true
	var body bytes.Buffer
	if err := markdown.Convert([]byte(RenderDashboard(d, opts)), &body); err != nil {
		return fmt.Errorf("converting dashboard to html: %w", err)
	}

	return page.Execute(w, pageData{
		Theme:      theme,
		Toggle:     toggle,
		Selected:   d.Selected,
		Categories: d.Categories,
		Body:       template.HTML(body.String()),
	})
}
