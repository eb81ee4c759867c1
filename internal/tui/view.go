package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-runewidth"

	"github.com/mcncl/jsongrid/internal/formatter"
	"github.com/mcncl/jsongrid/internal/grid"
	"github.com/mcncl/jsongrid/internal/models"
	"github.com/mcncl/jsongrid/internal/render"
)

const (
	minColWidth = 3
	cursorMark  = "›"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	var sections []string
	sections = append(sections, m.titleView())

	body := m.bodyHeight()
	switch m.grid.Mode() {
	case grid.ModeTable:
		sections = append(sections, m.filter.View())
		sections = append(sections, m.tableView(body)...)
	case grid.ModeTree:
		sections = append(sections, joinLines(m.treeView(body), body))
	default:
		sections = append(sections, joinLines([]string{m.styles.Muted.Render(grid.Placeholder)}, body))
	}

	sections = append(sections, m.statusView(), m.helpView())

	clip := lipgloss.NewStyle().MaxWidth(m.width)
	return clip.Render(strings.Join(sections, "\n"))
}

func (m Model) titleView() string {
	parts := []string{"jsongrid", m.sourceName()}
	switch m.grid.Mode() {
	case grid.ModeTable:
		parts = append(parts, render.RowCount(m.grid.Table()))
	case grid.ModeTree:
		if ins := m.grid.Inspecting(); ins != nil {
			parts = append(parts, fmt.Sprintf("row %d › %s", ins.Position+1, ins.Title))
		} else {
			parts = append(parts, m.grid.Dataset().Shape.String())
		}
	}
	title := m.styles.Title.Render(strings.Join(parts, " · "))
	if m.invalid {
		title += " " + m.styles.Error.Render("invalid JSON")
	}
	return title
}

func (m Model) statusView() string {
	if m.statusMsg != "" {
		return m.statusMsg
	}
	if m.grid.Mode() == grid.ModeTable {
		if col, ok := m.selectedColumn(); ok {
			if p, ok := m.grid.Profile(col); ok {
				return m.styles.Muted.Render(col + ": " + p.Summary())
			}
		}
	}
	if m.grid.Mode() == grid.ModeTree {
		nodes := m.grid.Nodes()
		if m.treeCursor < len(nodes) {
			n := nodes[m.treeCursor]
			info := n.Path.String()
			if s := n.Summary(); s != "" {
				info += " · " + s
			}
			return m.styles.Muted.Render(info)
		}
	}
	return ""
}

func (m Model) helpView() string {
	if m.grid.Mode() == grid.ModeTree && !m.help.ShowAll {
		return m.help.View(treeKeys{keys})
	}
	return m.help.View(keys)
}

func (m Model) indexWidth() int {
	if !m.cfg.Table.ShowIndex {
		return 0
	}
	return len(strconv.Itoa(len(m.grid.Rows()))) + 2
}

// columnWidths sizes each visible column to its header and the cells in
// the current window, bounded by the configured maximum.
func (m Model) columnWidths(view grid.TableView) []int {
	visible := render.VisibleColumns(m.cfg, view.Columns)
	widths := make([]int, len(visible))
	for j, i := range visible {
		w := runewidth.StringWidth(render.HeaderText(m.cfg, view.Columns[i]))
		for _, row := range view.Rows {
			w = max(w, runewidth.StringWidth(m.cellText(row.Cells[i])))
		}
		if limit := m.cfg.Table.MaxColWidth; limit > 0 && w > limit {
			w = limit
		}
		widths[j] = max(w, minColWidth)
	}
	return widths
}

// cellText is the single-line cell text, with marks for booleans.
func (m Model) cellText(c models.Cell) string {
	if c.Present && c.Value.Kind() == models.KindBool {
		if c.Value.BoolValue() {
			return "✓"
		}
		return "✗"
	}
	return m.formatter.CellLine(c)
}

func (m Model) cellStyle(c models.Cell) lipgloss.Style {
	if !c.Present {
		return m.styles.Muted
	}
	if c.Value.IsContainer() {
		return m.styles.Bracket
	}
	return m.styles.Value(c.Value)
}

func fit(s string, width int, align text.Align) string {
	s = formatter.Truncate(s, width)
	switch align {
	case text.AlignRight:
		return formatter.PadLeft(s, width)
	case text.AlignCenter:
		left := (width - runewidth.StringWidth(s)) / 2
		return formatter.Pad(strings.Repeat(" ", left)+s, width)
	default:
		return formatter.Pad(s, width)
	}
}

// tableView draws the header and the rows inside the viewport.
func (m Model) tableView(height int) []string {
	view := m.grid.Table()
	visible := render.VisibleColumns(m.cfg, view.Columns)
	widths := m.columnWidths(view)
	idxWidth := m.indexWidth()

	aligns := make([]text.Align, len(visible))
	for j, i := range visible {
		aligns[j] = render.ColumnAlign(m.cfg, m.grid, view.Columns[i].Key)
	}

	var header strings.Builder
	if idxWidth > 0 {
		header.WriteString(" " + fit(render.IndexHeader, idxWidth-2, text.AlignRight) + " ")
	}
	for j := m.colOffset; j < len(visible); j++ {
		title := fit(render.HeaderText(m.cfg, view.Columns[visible[j]]), widths[j], text.AlignLeft)
		if j == m.colCursor {
			title = m.styles.Selected.Render(title)
		}
		header.WriteString(m.styles.Header.Render(title) + "  ")
	}

	lines := []string{header.String()}
	top, bottom := view.ScrollOffset, view.ScrollOffset+m.grid.Viewport()
	for _, row := range view.Rows {
		if row.Offset+row.Size <= top || row.Offset >= bottom {
			continue
		}
		var sb strings.Builder
		selected := row.Position == m.tableCursor
		if idxWidth > 0 {
			mark := " "
			if selected {
				mark = cursorMark
			}
			sb.WriteString(mark + fit(strconv.Itoa(row.Position+1), idxWidth-2, text.AlignRight) + " ")
		}
		for j := m.colOffset; j < len(visible); j++ {
			c := row.Cells[visible[j]]
			cell := m.cellStyle(c).Render(fit(m.cellText(c), widths[j], aligns[j]))
			sb.WriteString(cell + "  ")
		}
		line := sb.String()
		if selected {
			line = m.styles.Selected.Render(line)
		}
		lines = append(lines, line)
	}
	if len(view.Rows) == 0 {
		lines = append(lines, m.styles.Muted.Render("no matching rows"))
	}
	return strings.Split(joinLines(lines, height+1), "\n")
}

// treeView draws the tree lines inside the viewport.
func (m Model) treeView(height int) []string {
	view := m.grid.Tree()
	var lines []string
	top, bottom := view.ScrollOffset, view.ScrollOffset+m.grid.Viewport()
	for _, line := range view.Lines {
		if line.Offset+line.Size <= top || line.Offset >= bottom {
			continue
		}
		mark := " "
		if line.Position == m.treeCursor {
			mark = cursorMark
		}
		out := mark + " " + m.styles.TreeLine(line.Node, m.cfg.Tree.Indent)
		if line.Collapsed {
			out += " " + m.styles.Muted.Render(line.Summary())
		}
		if line.Position == m.treeCursor {
			out = m.styles.Selected.Render(out)
		}
		lines = append(lines, out)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return lines
}
