// Package rows filters and sorts a row set by an inferred column schema.
//
// Every function here is pure: inputs are never modified and results are
// rebuilt from scratch, so a dataset swap cannot leak state from the
// previous one.
package rows

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/mcncl/jsongrid/internal/analyzer"
	"github.com/mcncl/jsongrid/internal/models"
)

// Row is one processed row with the index it had in the source data.
type Row struct {
	Source int
	Value  models.Value
}

// Cell returns the row's cell at column.
func (r Row) Cell(column string) models.Cell {
	return analyzer.CellAt(r.Value, column)
}

// Direction of a column's sort.
type Direction int

const (
	None Direction = iota
	Ascending
	Descending
)

// Indicator returns the header marker for the direction.
func (d Direction) Indicator() string {
	switch d {
	case Ascending:
		return "▲"
	case Descending:
		return "▼"
	default:
		return ""
	}
}

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return "none"
	}
}

// SortState is the column sort. The zero value is unsorted.
type SortState struct {
	Column     string
	Active     bool
	Descending bool
}

// Unsorted returns the state with no sort column.
func Unsorted() SortState { return SortState{} }

// SortBy returns a state sorting by column.
func SortBy(column string, descending bool) SortState {
	return SortState{Column: column, Active: true, Descending: descending}
}

// Toggle advances column through unsorted, ascending, descending and back
// to unsorted. Toggling a different column starts it at ascending.
func (s SortState) Toggle(column string) SortState {
	switch {
	case !s.Active || s.Column != column:
		return SortBy(column, false)
	case !s.Descending:
		return SortBy(column, true)
	default:
		return Unsorted()
	}
}

// Direction returns how column is currently sorted.
func (s SortState) Direction(column string) Direction {
	if !s.Active || s.Column != column {
		return None
	}
	if s.Descending {
		return Descending
	}
	return Ascending
}

func (s SortState) String() string {
	if !s.Active {
		return "unsorted"
	}
	return s.Column + " " + s.Direction(s.Column).String()
}

// Filter keeps rows whose canonical serialization contains text, compared
// with Unicode case folding. An empty text keeps every row.
func Filter(values []models.Value, text string) []Row {
	out := make([]Row, 0, len(values))
	if text == "" {
		for i, v := range values {
			out = append(out, Row{Source: i, Value: v})
		}
		return out
	}

	fold := cases.Fold()
	needle := fold.String(text)
	for i, v := range values {
		if strings.Contains(fold.String(v.Canonical()), needle) {
			out = append(out, Row{Source: i, Value: v})
		}
	}
	return out
}

// Sort returns a stably sorted copy of in. An inactive state returns a copy
// in the original order.
func Sort(in []Row, s SortState) []Row {
	out := slices.Clone(in)
	if out == nil {
		out = []Row{}
	}
	if !s.Active {
		return out
	}

	type keyed struct {
		row  Row
		cell models.Cell
	}
	keys := make([]keyed, len(out))
	for i, r := range out {
		keys[i] = keyed{row: r, cell: r.Cell(s.Column)}
	}
	slices.SortStableFunc(keys, func(a, b keyed) int {
		return Compare(a.cell, b.cell, s.Descending)
	})
	for i, k := range keys {
		out[i] = k.row
	}
	return out
}

// Process filters then sorts values.
func Process(values []models.Value, filter string, s SortState) []Row {
	return Sort(Filter(values, filter), s)
}

// Compare orders two cells for a sort. Absent cells sort after present
// ones in both directions; descending only negates the order of present
// values.
func Compare(a, b models.Cell, descending bool) int {
	switch {
	case !a.Present && !b.Present:
		return 0
	case !a.Present:
		return 1
	case !b.Present:
		return -1
	}
	c := CompareValues(a.Value, b.Value)
	if descending {
		return -c
	}
	return c
}

// CompareValues is a total order over JSON values. Values of different
// kinds order by kind: null, boolean, number, string, array, object.
// Numbers compare numerically, strings byte-wise, and containers by
// their canonical serialization.
func CompareValues(a, b models.Value) int {
	if a.Kind() != b.Kind() {
		return cmp.Compare(a.Kind(), b.Kind())
	}

	switch a.Kind() {
	case models.KindNull:
		return 0
	case models.KindBool:
		return cmp.Compare(boolRank(a.BoolValue()), boolRank(b.BoolValue()))
	case models.KindNumber:
		af, aok := a.Float64()
		bf, bok := b.Float64()
		if aok && bok {
			return cmp.Compare(af, bf)
		}
		return strings.Compare(string(a.NumberLiteral()), string(b.NumberLiteral()))
	case models.KindString:
		return strings.Compare(a.Str(), b.Str())
	default:
		return strings.Compare(a.Canonical(), b.Canonical())
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
