package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsongrid/internal/analyzer"
	"github.com/mcncl/jsongrid/internal/parser"
	"github.com/mcncl/jsongrid/internal/rows"
)

func TestIntegration_ParserAnalyzerRowsFormatter(t *testing.T) {
	// Test the full pipeline: Parser -> Analyzer -> Rows -> Formatter
	jsonInput := `[
		{"user_id": 2, "username": "janedoe", "profile": {"email": "jane@example.com"}},
		{"user_id": 1, "username": "johndoe", "tags": ["a", "b"], "is_active": null}
	]`

	// Parse the JSON
	doc, err := parser.ParseString(jsonInput)
	require.NoError(t, err)

	// Infer the columns
	columns := analyzer.InferColumns(doc.Items())
	require.Equal(t, []string{"user_id", "username", "profile", "tags", "is_active"}, columns)

	// Sort by user_id
	processed := rows.Process(doc.Items(), "", rows.SortBy("user_id", false))
	require.Len(t, processed, 2)

	// Format each cell
	formatter := NewFormatter()
	var lines [][]string
	for _, r := range processed {
		var line []string
		for _, col := range columns {
			line = append(line, formatter.CellText(r.Cell(col)))
		}
		lines = append(lines, line)
	}

	assert.Equal(t, [][]string{
		{"1", "johndoe", "", "[array(2)]", "null"},
		{"2", "janedoe", "{object}", "", ""},
	}, lines)
}
