package sheet

import (
	"strings"

	"golang.org/x/text/cases"
)

// IsBlankTerm reports whether term means "no search". Callers skip Filter
// for blank terms and show the full table.
func IsBlankTerm(term string) bool {
	return strings.TrimSpace(term) == ""
}

// Filter keeps the rows where any raw cell contains term, ignoring case.
// Row order is preserved.
func Filter(t *Table, term string) *Table {
	filtered := &Table{
		Columns: t.Columns,
		Rows:    make([][]string, 0, len(t.Rows)),
	}

	folder := cases.Fold()
	needle := folder.String(term)

	for _, row := range t.Rows {
		if rowMatches(folder, row, needle) {
			filtered.Rows = append(filtered.Rows, row)
		}
	}

	return filtered
}

func rowMatches(folder cases.Caser, row []string, needle string) bool {
	for _, value := range row {
		if strings.Contains(folder.String(value), needle) {
			return true
		}
	}
	return false
}
