package holdings

import (
	"maps"
	"slices"
	"strings"
)

// Others is the category of holdings that neither the table nor their sector
// can place.
const Others = "Others"

// knownCategories is the curated stock name to category table.
var knownCategories = map[string]string{
	"HDFC Bank":         "Financial Sector",
	"Bajaj Finance":     "Financial Sector",
	"ICICI Bank":        "Financial Sector",
	"Bajaj Housing":     "Financial Sector",
	"Savani Financials": "Financial Sector",

	"Affle India":    "Tech Sector",
	"LTI Mindtree":   "Tech Sector",
	"KPIT Tech":      "Tech Sector",
	"Tata Tech":      "Tech Sector",
	"BLS E-Services": "Tech Sector",
	"Tanla":          "Tech Sector",

	"Dmart":         "Consumer",
	"Tata Consumer": "Consumer",
	"Pidilite":      "Consumer",

	"Tata Power": "Power",
	"KPI Green":  "Power",
	"Suzlon":     "Power",
	"Gensol":     "Power",

	"Hariom Pipes": "Pipe Sector",
	"Astral":       "Pipe Sector",
	"Polycab":      "Pipe Sector",

	"Clean Science":  "Others",
	"Deepak Nitrite": "Others",
	"Fine Organic":   "Others",
	"Gravita":        "Others",
	"SBI Life":       "Others",
}

var defaultCategories = NewCategoryResolver(knownCategories)

// IsNA reports whether s is one of the "not available" tokens: na, n/a, n.a or
// n.a., ignoring case and surrounding spaces.
func IsNA(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "na", "n/a", "n.a", "n.a.":
		return true
	}
	return false
}

func normalizeName(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// CategoryResolver maps stock names to category labels.
//
// A resolver is immutable once built and safe for concurrent use.
type CategoryResolver struct {
	table map[string]string // normalized name -> category
	names map[string]string // normalized name -> name as declared
}

// NewCategoryResolver builds a resolver from a stock name to category table.
// Names are matched ignoring case and surrounding spaces.
func NewCategoryResolver(table map[string]string) *CategoryResolver {
	r := &CategoryResolver{
		table: make(map[string]string, len(table)),
		names: make(map[string]string, len(table)),
	}
	for name, category := range table {
		key := normalizeName(name)
		r.table[key] = category
		r.names[key] = strings.TrimSpace(name)
	}
	return r
}

// DefaultCategories returns the resolver for the built-in table.
func DefaultCategories() *CategoryResolver { return defaultCategories }

// With returns a new resolver where the entries of extra are added to, or
// replace, the entries of r. r itself is left untouched.
func (r *CategoryResolver) With(extra map[string]string) *CategoryResolver {
	if len(extra) == 0 {
		return r
	}
	table := make(map[string]string, len(r.table)+len(extra))
	for key, category := range r.table {
		table[r.names[key]] = category
	}
	merged := NewCategoryResolver(table)
	for name, category := range extra {
		key := normalizeName(name)
		merged.table[key] = category
		merged.names[key] = strings.TrimSpace(name)
	}
	return merged
}

// Resolve returns the category of the stock named stock.
//
// The table wins over the sector. Otherwise the sector is returned verbatim,
// unless it is empty or an NA token, in which case the category is Others.
func (r *CategoryResolver) Resolve(stock, sector string) string {
	if category, ok := r.table[normalizeName(stock)]; ok {
		return category
	}
	if sector != "" && !IsNA(sector) {
		return sector
	}
	return Others
}

// Lookup returns the table entry for stock, without sector fallback.
func (r *CategoryResolver) Lookup(stock string) (category string, ok bool) {
	category, ok = r.table[normalizeName(stock)]
	return
}

// CategoryEntry is one line of the category table.
type CategoryEntry struct {
	Stock    string `json:"stock"`
	Category string `json:"category"`
}

// Entries lists the table sorted by category then stock name.
func (r *CategoryResolver) Entries() []CategoryEntry {
	entries := make([]CategoryEntry, 0, len(r.table))
	for _, key := range slices.Sorted(maps.Keys(r.table)) {
		entries = append(entries, CategoryEntry{Stock: r.names[key], Category: r.table[key]})
	}
	slices.SortStableFunc(entries, func(a, b CategoryEntry) int {
		return strings.Compare(a.Category, b.Category)
	})
	return entries
}

// ResolveCategory resolves a category with the built-in table.
func ResolveCategory(stock, sector string) string {
	return defaultCategories.Resolve(stock, sector)
}
