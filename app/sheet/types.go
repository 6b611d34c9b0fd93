package sheet

import (
	"fmt"
	"time"
)

// Table is a parsed CSV document. Every row holds exactly one value per
// column; absent cells are stored as "".
type Table struct {
	Columns []string
	Rows    [][]string
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

type CacheEntry struct {
	Table     *Table
	URL       string
	FetchedAt time.Time
}

type CellKind string

const (
	CellText CellKind = "text"
	CellLink CellKind = "link"
)

// Cell is a display value. Href is set only for CellLink.
type Cell struct {
	Kind CellKind `json:"kind"`
	Text string   `json:"text"`
	Href string   `json:"href,omitempty"`
}

func TextCell(text string) Cell {
	return Cell{Kind: CellText, Text: text}
}

func LinkCell(text, href string) Cell {
	return Cell{Kind: CellLink, Text: text, Href: href}
}

type DisplayTable struct {
	Columns []string `json:"columns"`
	Rows    [][]Cell `json:"rows"`
}

// DataLoadError reports a failed table fetch. Callers must not render a
// partial table when it is returned.
type DataLoadError struct {
	URL string
	Err error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("failed to load table from %s: %v", e.URL, e.Err)
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}
