package sheet

import "strings"

const DefaultLinkColumn = "링크"

var DefaultLinkTargets = []string{"상호명", "장소"}

// Transformer turns a raw table into display cells. Target columns become
// links when the row's link column holds a non-blank URL; the link column
// itself is not displayed.
type Transformer struct {
	linkColumn string
	targets    map[string]bool
}

func NewTransformer(linkColumn string, targets []string) *Transformer {
	if linkColumn == "" {
		linkColumn = DefaultLinkColumn
	}
	if targets == nil {
		targets = DefaultLinkTargets
	}

	targetSet := make(map[string]bool, len(targets))
	for _, target := range targets {
		targetSet[strings.TrimSpace(target)] = true
	}

	return &Transformer{
		linkColumn: strings.TrimSpace(linkColumn),
		targets:    targetSet,
	}
}

func (tr *Transformer) Transform(t *Table) *DisplayTable {
	display := &DisplayTable{
		Columns: []string{},
		Rows:    [][]Cell{},
	}
	if t == nil {
		return display
	}

	columns := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		columns[i] = strings.TrimSpace(col)
	}

	linkIdx := -1
	for i, col := range columns {
		if col == tr.linkColumn {
			linkIdx = i
			break
		}
	}

	for i, col := range columns {
		if i != linkIdx {
			display.Columns = append(display.Columns, col)
		}
	}

	for _, row := range t.Rows {
		href := ""
		if linkIdx >= 0 {
			href = strings.TrimSpace(row[linkIdx])
		}

		cells := make([]Cell, 0, len(display.Columns))
		for i, value := range row {
			if i == linkIdx {
				continue
			}
			if href != "" && tr.targets[columns[i]] {
				cells = append(cells, LinkCell(value, href))
			} else {
				cells = append(cells, TextCell(value))
			}
		}
		display.Rows = append(display.Rows, cells)
	}

	return display
}
