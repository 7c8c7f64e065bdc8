package renderer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/etnz/holdings"
)

// ErrNoChartData is returned when no visible group has a positive present value.
var ErrNoChartData = errors.New("nothing to chart")

// WriteChart renders the category weights of d as a pie chart. The format is
// "png" or "svg".
func WriteChart(w io.Writer, d *Dashboard, opts Options, format string) error {
	var provider chart.RendererProvider
	switch strings.ToLower(format) {
	case "png":
		provider = chart.PNG
	case "svg":
		provider = chart.SVG
	default:
		return fmt.Errorf("unknown chart format %q, want png or svg", format)
	}

	var values []chart.Value
	for _, g := range d.Groups {
		// a pie has no slice for losses or empty groups.
		if g.PresentValue <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: g.Category + " " + holdings.Percent(g.Weight).Format(opts.Format),
			Value: g.PresentValue,
		})
	}
	if len(values) == 0 {
		return ErrNoChartData
	}

	pie := chart.PieChart{
		Title:  "Category Weight",
		Width:  640,
		Height: 640,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		Values: values,
	}
	if err := pie.Render(provider, w); err != nil {
		return fmt.Errorf("chart render failed: %w", err)
	}
	return nil
}
