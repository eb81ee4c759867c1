package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/mattn/go-runewidth"

	"github.com/mcncl/jsongrid/internal/config"
	"github.com/mcncl/jsongrid/internal/models"
	"github.com/mcncl/jsongrid/internal/parser"
)

// Ellipsis marks truncated cell text
const Ellipsis = "…"

// Formatter turns values into display text
type Formatter struct {
	NullText   string
	AbsentText string
	// MaxWidth truncates cell text to this many columns; 0 disables truncation
	MaxWidth int
	Indent   int
	Style    string
}

// NewFormatter creates a Formatter with default settings
func NewFormatter() *Formatter {
	return NewFormatterWithConfig(config.NewConfig())
}

// NewFormatterWithConfig creates a Formatter from the table and output settings
func NewFormatterWithConfig(cfg *config.Config) *Formatter {
	return &Formatter{
		NullText:   cfg.Table.NullText,
		AbsentText: cfg.Table.AbsentText,
		MaxWidth:   cfg.Table.MaxColWidth,
		Indent:     cfg.Tree.Indent,
		Style:      cfg.Output.HighlightStyle,
	}
}

// Pretty re-indents JSON text. Member order and number literals are kept.
func (f *Formatter) Pretty(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	v, err := parser.ParseString(text)
	if err != nil {
		return "", err
	}
	return f.PrettyValue(v), nil
}

// Minify removes all insignificant whitespace from JSON text
func (f *Formatter) Minify(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	v, err := parser.ParseString(text)
	if err != nil {
		return "", err
	}
	return v.Canonical(), nil
}

// PrettyValue returns v as indented JSON
func (f *Formatter) PrettyValue(v models.Value) string {
	indent := f.Indent
	if indent <= 0 {
		indent = 2
	}
	var buf bytes.Buffer
	// Canonical output is always valid JSON, so Indent cannot fail.
	if err := json.Indent(&buf, []byte(v.Canonical()), "", strings.Repeat(" ", indent)); err != nil {
		return v.Canonical()
	}
	return buf.String()
}

// CellText returns the display text of a table cell
func (f *Formatter) CellText(c models.Cell) string {
	if !c.Present {
		return f.AbsentText
	}
	return f.ValueText(c.Value)
}

// ValueText returns the short display text of a value. Containers are
// summarized rather than expanded.
func (f *Formatter) ValueText(v models.Value) string {
	switch v.Kind() {
	case models.KindNull:
		return f.NullText
	case models.KindBool:
		return strconv.FormatBool(v.BoolValue())
	case models.KindNumber:
		return v.NumberLiteral().String()
	case models.KindString:
		return v.Str()
	case models.KindArray:
		return fmt.Sprintf("[array(%d)]", v.Len())
	case models.KindObject:
		return "{object}"
	default:
		return ""
	}
}

var lineEscaper = strings.NewReplacer("\r\n", `\n`, "\n", `\n`, "\r", `\r`, "\t", " ")

// CellLine returns the cell text on a single line, truncated to MaxWidth
func (f *Formatter) CellLine(c models.Cell) string {
	return Truncate(lineEscaper.Replace(f.CellText(c)), f.MaxWidth)
}

// Truncate shortens s to at most width display columns, ending with an
// ellipsis when anything was cut. A width of 0 or less returns s.
func Truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, Ellipsis)
}

// Pad fills s with spaces up to width display columns
func Pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// PadLeft right-aligns s within width display columns
func PadLeft(s string, width int) string {
	return runewidth.FillLeft(s, width)
}

// Highlight writes JSON source to w with terminal colour codes using the
// named chroma style. Unknown styles fall back to chroma's default.
func (f *Formatter) Highlight(w io.Writer, source string) error {
	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(f.Style)
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return fmt.Errorf("failed to tokenise JSON: %w", err)
	}
	return formatter.Format(w, style, iterator)
}
