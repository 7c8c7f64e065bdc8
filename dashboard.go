package holdings

// Dashboard is everything a presentation layer needs to display a holdings
// snapshot with a category selection.
type Dashboard struct {
	Groups            *Groups
	TotalPresentValue float64
	Totals            Totals   // portfolio-wide sums
	Categories        []string // All first
	Selected          string
	Visible           []*Group
}

// NewDashboard projects holdings into a dashboard for the selected category.
// An empty selection means All. The selection is kept even when no group
// matches it anymore: the visible list is then empty.
func NewDashboard(r *CategoryResolver, holdings []Holding, selected string) *Dashboard {
	if selected == "" {
		selected = All
	}
	groups := GroupByCategory(r, holdings)
	return &Dashboard{
		Groups:            groups,
		TotalPresentValue: TotalPresentValue(holdings),
		Totals:            groups.Totals(),
		Categories:        CategoryOptions(groups),
		Selected:          selected,
		Visible:           VisibleGroups(groups, selected),
	}
}

// Weight returns the share of g in the portfolio present value, in percent.
func (d *Dashboard) Weight(g *Group) Percent {
	return Percent(CategoryWeight(g.Totals.PresentValue, d.TotalPresentValue))
}

// Select returns the dashboard of the same snapshot for another category,
// without grouping again.
func (d *Dashboard) Select(selected string) *Dashboard {
	if selected == "" {
		selected = All
	}
	c := *d
	c.Selected = selected
	c.Visible = VisibleGroups(d.Groups, selected)
	return &c
}

// IsEmpty reports whether the snapshot had no holdings at all.
func (d *Dashboard) IsEmpty() bool { return d.Groups.Len() == 0 }
