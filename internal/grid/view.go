package grid

import (
	"github.com/mcncl/jsongrid/internal/models"
	"github.com/mcncl/jsongrid/internal/rows"
	"github.com/mcncl/jsongrid/internal/tree"
	"github.com/mcncl/jsongrid/internal/window"
)

// Column is a table header with its sort indicator.
type Column struct {
	Key       string
	Direction rows.Direction
}

// TableRow is one visible row with a cell per column.
type TableRow struct {
	// Position is the index within the filtered, sorted rows.
	Position int
	// Source is the index within the original data.
	Source int
	Value  models.Value
	Cells  []models.Cell
	Offset int
	Size   int
}

// TableView describes what a table renderer draws.
type TableView struct {
	Columns []Column
	Rows    []TableRow
	// Total is the number of rows after filtering.
	Total int
	// SourceTotal is the number of rows before filtering.
	SourceTotal  int
	Filter       string
	Sort         rows.SortState
	TotalExtent  int
	ScrollOffset int
}

// Filtered reports whether the filter hides any row.
func (t TableView) Filtered() bool { return t.Filter != "" && t.Total != t.SourceTotal }

// TreeLine is one visible tree node.
type TreeLine struct {
	tree.Node
	Position int
	Offset   int
	Size     int
}

// TreeView describes what a tree renderer draws.
type TreeView struct {
	// Title names the inspected cell; empty for the document tree.
	Title        string
	Lines        []TreeLine
	Total        int
	TotalExtent  int
	ScrollOffset int
}

// Table returns the rows of the table inside the current scroll window.
func (g *Grid) Table() TableView {
	processed := g.Rows()
	v := g.rowWindow
	v.SetCount(len(processed))
	return g.tableView(processed, v.Window(), v.ScrollOffset())
}

// Page returns the table rows [skip, skip+limit) through the window
// engine. A limit of 0 means every remaining row.
func (g *Grid) Page(skip, limit int) TableView {
	processed := g.Rows()
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = len(processed)
	}
	w := window.Compute(window.Options{
		Count:          len(processed),
		EstimateSize:   window.FixedSize(g.opts.RowHeight),
		ViewportExtent: limit * g.opts.RowHeight,
		ScrollOffset:   skip * g.opts.RowHeight,
	})
	return g.tableView(processed, w, skip*g.opts.RowHeight)
}

func (g *Grid) tableView(processed []rows.Row, w window.Window, scroll int) TableView {
	keys := g.Columns()
	view := TableView{
		Columns:      make([]Column, len(keys)),
		Rows:         make([]TableRow, 0, w.Len()),
		Total:        len(processed),
		SourceTotal:  len(g.dataset.Rows),
		Filter:       g.filter,
		Sort:         g.sort,
		TotalExtent:  w.TotalExtent,
		ScrollOffset: scroll,
	}
	for i, key := range keys {
		view.Columns[i] = Column{Key: key, Direction: g.sort.Direction(key)}
	}
	for _, item := range w.Items {
		r := processed[item.Index]
		cells := make([]models.Cell, len(keys))
		for i, key := range keys {
			cells[i] = r.Cell(key)
		}
		view.Rows = append(view.Rows, TableRow{
			Position: item.Index,
			Source:   r.Source,
			Value:    r.Value,
			Cells:    cells,
			Offset:   item.Offset,
			Size:     item.Size,
		})
	}
	return view
}

// Tree returns the nodes of the active tree inside the current scroll window.
func (g *Grid) Tree() TreeView {
	nodes := g.Nodes()
	v := g.treeWindow
	v.SetCount(len(nodes))
	return g.treeView(nodes, v.Window(), v.ScrollOffset())
}

// FullTree returns every node of the active tree.
func (g *Grid) FullTree() TreeView {
	nodes := g.Nodes()
	w := window.Compute(window.Options{
		Count:          len(nodes),
		EstimateSize:   window.FixedSize(g.opts.RowHeight),
		ViewportExtent: len(nodes) * g.opts.RowHeight,
	})
	return g.treeView(nodes, w, 0)
}

func (g *Grid) treeView(nodes []tree.Node, w window.Window, scroll int) TreeView {
	view := TreeView{
		Lines:        make([]TreeLine, 0, w.Len()),
		Total:        len(nodes),
		TotalExtent:  w.TotalExtent,
		ScrollOffset: scroll,
	}
	if g.inspect != nil {
		view.Title = g.inspect.Title
	}
	for _, item := range w.Items {
		view.Lines = append(view.Lines, TreeLine{
			Node:     nodes[item.Index],
			Position: item.Index,
			Offset:   item.Offset,
			Size:     item.Size,
		})
	}
	return view
}
