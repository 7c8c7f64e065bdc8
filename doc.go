// Package holdings turns a flat list of stock holdings into the data behind a
// portfolio dashboard.
//
// The core functionalities include:
//   - Category Resolution: mapping a holding to a category label from a curated
//     stock-name table, falling back to the sector the backend reports.
//   - Aggregation: grouping holdings by category in first-seen order and summing
//     investment, present value and gain/loss per group.
//   - Summary: the portfolio-wide present value and each category's weight.
//   - Filtering: narrowing the groups to the category the user selected.
//   - Display Normalization: turning "not available" markers into a single
//     placeholder and formatting numbers for the current locale.
//
// Every function here is a pure projection of its input: a new holdings list
// is processed from scratch, nothing is cached between calls. Fetching the list
// is the job of the source package; the renderer, tui and server packages
// present the result.
package holdings
