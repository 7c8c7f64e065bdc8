package holdings

// All is the category selection that shows every group.
const All = "All"

// VisibleGroups narrows groups to the selected category. All keeps every
// group in order; any other value keeps the group with exactly that label, if
// there is one. An unknown category yields no group, not an error.
func VisibleGroups(groups *Groups, selected string) []*Group {
	if selected == All {
		visible := make([]*Group, 0, groups.Len())
		for _, g := range groups.All() {
			visible = append(visible, g)
		}
		return visible
	}
	if g, ok := groups.Get(selected); ok {
		return []*Group{g}
	}
	return []*Group{}
}

// CategoryOptions lists the selectable categories: All first, then the
// groups' categories in order.
func CategoryOptions(groups *Groups) []string {
	return append([]string{All}, groups.Keys()...)
}

// NextCategory returns the option after selected, wrapping around. A
// selection that is no longer an option moves to the first option.
func NextCategory(options []string, selected string) string {
	return stepCategory(options, selected, 1)
}

// PrevCategory returns the option before selected, wrapping around.
func PrevCategory(options []string, selected string) string {
	return stepCategory(options, selected, -1)
}

func stepCategory(options []string, selected string, step int) string {
	if len(options) == 0 {
		return All
	}
	for i, o := range options {
		if o == selected {
			n := len(options)
			return options[((i+step)%n+n)%n]
		}
	}
	return options[0]
}
