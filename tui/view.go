package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/etnz/holdings"
	"github.com/etnz/holdings/renderer"
)

var columns = []string{
	"Stock", "Symbol", "Category", "Purchase Price", "Qty", "Investment",
	"CMP", "Present Value", "Gain/Loss", "P/E", "Latest Earnings",
}

const (
	firstNumericColumn = 3
	gainLossColumn     = 8
)

func (m Model) View() string {
	if !m.ready {
		return "\n  " + renderer.MsgLoading
	}
	t := themeOf(m.theme)

	page := lipgloss.NewStyle().
		Width(m.width).
		Background(t.Base).
		Foreground(t.Text)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(),
		page.Render(m.viewport.View()),
		m.viewFooter(),
	)
}

// viewHeader is the top bar: selection, portfolio totals and freshness.
func (m Model) viewHeader() string {
	t := themeOf(m.theme)
	d := m.dash
	bar := lipgloss.NewStyle().Bold(true).Foreground(t.Header).Background(t.Bar)

	parts := []string{" Portfolio", fmt.Sprintf("Category: %s (%s)", m.selected, m.position())}
	if d.HasData() {
		parts = append(parts,
			"Present Value: "+holdings.FormatMoney(d.TotalPresentValue, m.opts.Currency),
			"Gain/Loss: "+t.signStyle(d.TotalGainLoss).Background(t.Bar).Render(holdings.SignedMoney(d.TotalGainLoss, m.opts.Currency)),
		)
	}
	if !m.state.UpdatedAt.IsZero() {
		updated := "updated " + humanize.RelTime(m.state.UpdatedAt, m.now(), "ago", "from now")
		if m.state.Stale {
			updated += " (stale)"
		}
		parts = append(parts, updated)
	}
	return bar.Width(m.width).Render(strings.Join(parts, "   "))
}

// position is the selection rank among the category options, like "2/5".
func (m Model) position() string {
	for i, c := range m.dash.Categories {
		if c == m.selected {
			return fmt.Sprintf("%d/%d", i+1, len(m.dash.Categories))
		}
	}
	return "-/" + strconv.Itoa(len(m.dash.Categories))
}

func (m Model) viewFooter() string {
	t := themeOf(m.theme)
	return lipgloss.NewStyle().
		Foreground(t.Muted).
		Background(t.Bar).
		Width(m.width).
		Render(" " + m.help.View(keys))
}

// renderContent renders the scrollable part: the visible groups, or the
// message replacing them.
func (m Model) renderContent() string {
	t := themeOf(m.theme)
	d := m.dash

	if !d.HasData() {
		style := lipgloss.NewStyle().Foreground(t.Muted).Padding(1, 2)
		if d.Message == renderer.MsgFailed {
			style = style.Foreground(t.Loss)
		}
		msg := d.Message
		if d.Error != "" {
			msg += "\n" + d.Error
		}
		return style.Render(msg)
	}

	var blocks []string
	if d.Error != "" {
		blocks = append(blocks, lipgloss.NewStyle().Foreground(t.Loss).Render("Last refresh failed: "+d.Error))
	}
	for _, g := range d.Groups {
		blocks = append(blocks, m.viewGroupHeader(g), m.viewGroupTable(g), "")
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(strings.Join(blocks, "\n"))
}

// viewGroupHeader is the category summary line.
func (m Model) viewGroupHeader(g renderer.Group) string {
	t := themeOf(m.theme)
	f := m.opts.Format
	label := lipgloss.NewStyle().Bold(true).Foreground(t.Header)
	field := func(name, value string) string {
		return label.Render(name+":") + " " + value
	}
	return strings.Join([]string{
		label.Render(g.Category),
		field("Stocks", strconv.Itoa(g.Stocks)),
		field("Category Weight", holdings.Percent(g.Weight).Format(f)),
		field("Total Investment", f.Format(g.Investment, 2)),
		field("Total Present Value", f.Format(g.PresentValue, 2)),
		t.signStyle(g.GainLoss).Render("Gain/Loss: " + f.Format(g.GainLoss, 2)),
	}, "   ")
}

// viewGroupTable is the table of the group holdings.
func (m Model) viewGroupTable(g renderer.Group) string {
	t := themeOf(m.theme)
	f := m.opts.Format

	rows := make([][]string, 0, len(g.Rows))
	for _, r := range g.Rows {
		rows = append(rows, []string{
			r.Stock,
			r.Symbol,
			r.Category,
			f.Format(r.PurchasePrice, 2),
			f.Format(r.Qty, 4),
			f.Format(r.Investment, 2),
			f.Format(r.CMP, 2),
			f.Format(r.PresentValue, 2),
			f.Format(r.GainLoss, 2),
			r.PERatio.Format(f, 2),
			r.LatestEarnings.Format(f, 2),
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(t.Border)).
		Headers(columns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1).Foreground(t.Text)
			if col >= firstNumericColumn {
				s = s.Align(lipgloss.Right)
			}
			switch {
			case row == table.HeaderRow:
				return s.Bold(true).Foreground(t.Header)
			case col == gainLossColumn && row < len(g.Rows):
				return t.signStyle(g.Rows[row].GainLoss).Inherit(s)
			case col == 1:
				return s.Foreground(t.Muted)
			}
			return s
		}).
		Render()
}
