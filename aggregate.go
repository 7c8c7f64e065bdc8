package holdings

import "iter"

// Totals are the summed financial figures of a set of holdings.
type Totals struct {
	Investment   float64 `json:"investment"`
	PresentValue float64 `json:"presentValue"`
	GainLoss     float64 `json:"gainLoss"`
}

// Add accumulates h into t.
func (t *Totals) Add(h Holding) {
	t.Investment += h.Investment
	t.PresentValue += h.PresentValue
	t.GainLoss += h.GainLoss
}

// Group is the set of holdings sharing a category.
type Group struct {
	Category string    `json:"category"`
	Holdings []Holding `json:"holdings"` // in input order
	Totals   Totals    `json:"totals"`
}

// Groups maps category labels to groups, iterating in the order categories
// were first seen.
type Groups struct {
	order []string
	index map[string]*Group
}

// GroupByCategory groups holdings by their category in a single pass.
// Categories are ordered by first appearance and never re-sorted.
func GroupByCategory(r *CategoryResolver, holdings []Holding) *Groups {
	if r == nil {
		r = defaultCategories
	}
	g := &Groups{index: make(map[string]*Group)}
	for _, h := range holdings {
		key := r.Resolve(h.Stock, h.Sector)
		group, ok := g.index[key]
		if !ok {
			group = &Group{Category: key}
			g.index[key] = group
			g.order = append(g.order, key)
		}
		group.Holdings = append(group.Holdings, h)
		group.Totals.Add(h)
	}
	return g
}

// Len returns the number of groups.
func (g *Groups) Len() int {
	if g == nil {
		return 0
	}
	return len(g.order)
}

// Keys returns the category labels in first-seen order.
func (g *Groups) Keys() []string {
	if g == nil {
		return nil
	}
	return append([]string(nil), g.order...)
}

// Get returns the group of a category.
func (g *Groups) Get(category string) (*Group, bool) {
	if g == nil {
		return nil, false
	}
	group, ok := g.index[category]
	return group, ok
}

// All iterates over the groups in first-seen order.
func (g *Groups) All() iter.Seq2[string, *Group] {
	return func(yield func(string, *Group) bool) {
		if g == nil {
			return
		}
		for _, key := range g.order {
			if !yield(key, g.index[key]) {
				return
			}
		}
	}
}

// Totals returns the sum of every group's totals.
func (g *Groups) Totals() Totals {
	var t Totals
	for _, group := range g.All() {
		t.Investment += group.Totals.Investment
		t.PresentValue += group.Totals.PresentValue
		t.GainLoss += group.Totals.GainLoss
	}
	return t
}
