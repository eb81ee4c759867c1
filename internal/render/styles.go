package render

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/mcncl/jsongrid/internal/models"
	"github.com/mcncl/jsongrid/internal/tree"
)

// Styles colours the parts of a tree line and a few table decorations.
type Styles struct {
	Key     lipgloss.Style
	String  lipgloss.Style
	Number  lipgloss.Style
	Bool    lipgloss.Style
	Null    lipgloss.Style
	Bracket lipgloss.Style
	Muted   lipgloss.Style
	Header  lipgloss.Style

	// Used by the interactive view.
	Title    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
}

// NewStyles returns coloured styles bound to w, or plain styles when color
// is false.
func NewStyles(w io.Writer, color bool) Styles {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
		return PlainStyles(r)
	}
	r.SetColorProfile(termenv.ANSI256)
	return Styles{
		Key:     r.NewStyle().Foreground(lipgloss.Color("#c6d0f5")),
		String:  r.NewStyle().Foreground(lipgloss.Color("#a6d189")),
		Number:  r.NewStyle().Foreground(lipgloss.Color("#ef9f76")),
		Bool:    r.NewStyle().Foreground(lipgloss.Color("#ea999c")),
		Null:    r.NewStyle().Foreground(lipgloss.Color("#737994")).Italic(true),
		Bracket: r.NewStyle().Foreground(lipgloss.Color("#949cbb")),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("#737994")),
		Header:  r.NewStyle().Foreground(lipgloss.Color("#ca9ee6")).Bold(true),

		Title:    r.NewStyle().Foreground(lipgloss.Color("#c6d0f5")).Background(lipgloss.Color("#414559")).Padding(0, 1),
		Selected: r.NewStyle().Background(lipgloss.Color("#51576d")),
		Error:    r.NewStyle().Foreground(lipgloss.Color("#e78284")).Bold(true),
	}
}

// PlainStyles returns styles that leave text untouched.
func PlainStyles(r *lipgloss.Renderer) Styles {
	plain := r.NewStyle()
	return Styles{
		Key: plain, String: plain, Number: plain, Bool: plain,
		Null: plain, Bracket: plain, Muted: plain, Header: plain,
		Title: plain, Selected: plain, Error: plain,
	}
}

// Value picks the style for a scalar of v's kind.
func (s Styles) Value(v models.Value) lipgloss.Style {
	switch v.Kind() {
	case models.KindString:
		return s.String
	case models.KindNumber:
		return s.Number
	case models.KindBool:
		return s.Bool
	case models.KindNull:
		return s.Null
	default:
		return s.Bracket
	}
}

// TreeLine draws one tree node with its indentation. The uncoloured
// result equals n.Line(indent).
func (s Styles) TreeLine(n tree.Node, indent int) string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", n.Depth*indent))
	if n.HasKey && n.Kind != tree.Close {
		sb.WriteString(s.Key.Render(models.Quote(n.Key)))
		sb.WriteString(": ")
	}

	opening, closing := "{", "}"
	if n.Value.IsArray() {
		opening, closing = "[", "]"
	}
	switch n.Kind {
	case tree.Leaf:
		sb.WriteString(s.Value(n.Value).Render(n.Value.Canonical()))
	case tree.Empty:
		sb.WriteString(s.Bracket.Render(opening + closing))
	case tree.Open:
		if !n.Collapsed {
			sb.WriteString(s.Bracket.Render(opening))
			return sb.String()
		}
		sb.WriteString(s.Bracket.Render(opening))
		sb.WriteString(s.Muted.Render("..."))
		sb.WriteString(s.Bracket.Render(closing))
	case tree.Close:
		sb.WriteString(s.Bracket.Render(closing))
	}
	if !n.IsLast {
		sb.WriteByte(',')
	}
	return sb.String()
}

// ColorEnabled resolves a colour mode (auto, always, never) for w. Auto
// colours terminals only and honours NO_COLOR.
func ColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return IsTerminal(w)
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the width of w, or fallback when w is not a terminal.
func TerminalWidth(w io.Writer, fallback int) int {
	f, ok := w.(*os.File)
	if !ok {
		return fallback
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}
