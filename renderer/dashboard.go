package renderer

import (
	"time"

	"github.com/etnz/holdings"
	"github.com/etnz/holdings/source"
)

// Messages displayed instead of the dashboard.
const (
	MsgLoading = "Loading…"
	MsgFailed  = "Failed to load data."
	MsgEmpty   = "No data"
)

// Dashboard is a struct to represent the dashboard data in json.
// Numbers are kept raw, formatting happens at render time.
type Dashboard struct {
	// Status is the data source status: loading, failed or ready.
	Status string `json:"status"`
	// Message replaces the dashboard when there is nothing to show.
	Message string `json:"message,omitempty"`
	// Error of the last refresh, if it failed.
	Error string `json:"error,omitempty"`
	// Stale is set when the holdings precede a failed refresh or come from the cache.
	Stale bool `json:"stale,omitempty"`
	// UpdatedAt is when the holdings were retrieved.
	UpdatedAt time.Time `json:"updatedAt,omitzero"`

	Selected   string   `json:"selected"`
	Categories []string `json:"categories"`

	TotalInvestment   float64 `json:"totalInvestment"`
	TotalPresentValue float64 `json:"totalPresentValue"`
	TotalGainLoss     float64 `json:"totalGainLoss"`

	// Groups are the visible groups, in order.
	Groups []Group `json:"groups"`
}

// Group is a category header and its rows.
type Group struct {
	Category     string  `json:"category"`
	Stocks       int     `json:"stocks"`
	Weight       float64 `json:"weight"` // percent of the portfolio present value
	Investment   float64 `json:"investment"`
	PresentValue float64 `json:"presentValue"`
	GainLoss     float64 `json:"gainLoss"`
	Rows         []Row   `json:"rows"`
}

// Row is one holding line.
type Row struct {
	Stock          string          `json:"stock"`
	Symbol         string          `json:"symbol"`
	Category       string          `json:"category"`
	PurchasePrice  float64         `json:"purchasePrice"`
	Qty            float64         `json:"qty"`
	Investment     float64         `json:"investment"`
	CMP            float64         `json:"cmp"`
	PresentValue   float64         `json:"presentValue"`
	GainLoss       float64         `json:"gainLoss"`
	PERatio        holdings.Figure `json:"peRatio"`
	LatestEarnings holdings.Figure `json:"latestEarnings"`
}

// NewDashboard creates the view of a data source state for the selected
// category.
//
// The message follows the state: a failure without data shows MsgFailed, no
// data yet shows MsgLoading and an empty holdings list shows MsgEmpty.
func NewDashboard(s source.State, r *holdings.CategoryResolver, selected string) *Dashboard {
	v := &Dashboard{
		Status:     s.Status.String(),
		Stale:      s.Stale,
		UpdatedAt:  s.UpdatedAt,
		Selected:   selected,
		Categories: []string{holdings.All},
		Groups:     []Group{},
	}
	if v.Selected == "" {
		v.Selected = holdings.All
	}
	if s.Err != nil {
		v.Error = s.Err.Error()
	}

	switch s.Status {
	case source.Failed:
		v.Message = MsgFailed
		return v
	case source.Loading:
		v.Message = MsgLoading
		return v
	}

	d := holdings.NewDashboard(r, s.Holdings, selected)
	if d.IsEmpty() {
		v.Message = MsgEmpty
		return v
	}
	v.Selected = d.Selected
	v.Categories = d.Categories
	v.TotalInvestment = d.Totals.Investment
	v.TotalPresentValue = d.TotalPresentValue
	v.TotalGainLoss = d.Totals.GainLoss

	for _, g := range d.Visible {
		group := Group{
			Category:     g.Category,
			Stocks:       len(g.Holdings),
			Weight:       float64(d.Weight(g)),
			Investment:   g.Totals.Investment,
			PresentValue: g.Totals.PresentValue,
			GainLoss:     g.Totals.GainLoss,
			Rows:         make([]Row, 0, len(g.Holdings)),
		}
		for _, h := range g.Holdings {
			group.Rows = append(group.Rows, Row{
				Stock:          h.Stock,
				Symbol:         h.Symbol,
				Category:       g.Category,
				PurchasePrice:  h.PurchasePrice,
				Qty:            h.Qty,
				Investment:     h.Investment,
				CMP:            h.CMP,
				PresentValue:   h.PresentValue,
				GainLoss:       h.GainLoss,
				PERatio:        h.PERatio,
				LatestEarnings: h.LatestEarnings,
			})
		}
		v.Groups = append(v.Groups, group)
	}
	return v
}

// HasData reports whether the dashboard shows holdings rather than a message.
func (d *Dashboard) HasData() bool { return d.Message == "" }
