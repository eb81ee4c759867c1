package analyzer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/mcncl/jsongrid/internal/models"
)

// ValueColumn is the synthetic column holding rows that are not objects.
const ValueColumn = "value"

// Regex patterns for special string and number shapes
var (
	// Time format patterns (ordered by specificity - most specific first)
	rfc3339Regex       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`)            // 2006-01-02T15:04:05Z
	iso8601Regex       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?([+-]\d{2}:\d{2}|Z|[+-]\d{4})?$`) // ISO8601 variants
	dateTimeRegex      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(\.\d+)?$`)                               // 2006-01-02 15:04:05
	dateOnlyRegex      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)                                                         // 2006-01-02
	unixTimestampRegex = regexp.MustCompile(`^1[0-9]{9}$`)                                                                 // Unix timestamp (seconds since 1970)
	unixMilliRegex     = regexp.MustCompile(`^1[0-9]{12}$`)                                                                // Unix timestamp in milliseconds
)

// InferColumns returns every key seen across rows in first-seen order.
// Rows that are not objects contribute the synthetic "value" column once.
func InferColumns(rows []models.Value) []string {
	seen := make(map[string]struct{})
	columns := make([]string, 0)
	add := func(key string) {
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		columns = append(columns, key)
	}

	for _, row := range rows {
		if !row.IsObject() {
			add(ValueColumn)
			continue
		}
		for _, m := range row.Members() {
			add(m.Key)
		}
	}
	return columns
}

// CellAt returns the cell of row at column. A non-object row is its own
// value under the "value" column and absent everywhere else.
func CellAt(row models.Value, column string) models.Cell {
	if row.IsObject() {
		if v, ok := row.Get(column); ok {
			return models.CellOf(v)
		}
		return models.Absent()
	}
	if column == ValueColumn {
		return models.CellOf(row)
	}
	return models.Absent()
}

// Semantic is a refinement of a scalar kind detected from its content.
type Semantic string

const (
	SemanticNone        Semantic = ""
	SemanticInt         Semantic = "int"
	SemanticFloat       Semantic = "float"
	SemanticUnixSeconds Semantic = "unix-seconds"
	SemanticUnixMillis  Semantic = "unix-millis"
	SemanticUUID        Semantic = "uuid"
	SemanticTime        Semantic = "time"
	SemanticDate        Semantic = "date"
)

// ColumnProfile summarizes the values found under one column.
type ColumnProfile struct {
	Key       string
	Present   int
	Absent    int
	Nulls     int
	Kinds     map[models.Kind]int
	Semantics map[Semantic]int
}

// Dominant returns the most frequent non-null kind. Ties resolve to the
// lower kind. A column holding only nulls or nothing reports KindNull.
func (p ColumnProfile) Dominant() models.Kind {
	best, bestCount := models.KindNull, 0
	for kind := models.KindBool; kind <= models.KindObject; kind++ {
		if n := p.Kinds[kind]; n > bestCount {
			best, bestCount = kind, n
		}
	}
	return best
}

// Numeric reports whether every non-null value in the column is a number.
func (p ColumnProfile) Numeric() bool {
	numbers := p.Kinds[models.KindNumber]
	return numbers > 0 && numbers == p.Present-p.Nulls
}

// Mixed reports whether the column holds more than one non-null kind.
func (p ColumnProfile) Mixed() bool {
	kinds := 0
	for kind, n := range p.Kinds {
		if kind != models.KindNull && n > 0 {
			kinds++
		}
	}
	return kinds > 1
}

// Summary is a one-line description such as "number (int): 3 present, 1 null, 2 absent".
func (p ColumnProfile) Summary() string {
	var sb strings.Builder
	if p.Mixed() {
		sb.WriteString("mixed")
	} else {
		sb.WriteString(p.Dominant().String())
	}
	if sem := p.dominantSemantic(); sem != SemanticNone {
		fmt.Fprintf(&sb, " (%s)", sem)
	}
	fmt.Fprintf(&sb, ": %d present, %d null, %d absent", p.Present, p.Nulls, p.Absent)
	return sb.String()
}

func (p ColumnProfile) dominantSemantic() Semantic {
	keys := make([]string, 0, len(p.Semantics))
	for sem := range p.Semantics {
		keys = append(keys, string(sem))
	}
	sort.Strings(keys)

	best, bestCount := SemanticNone, 0
	for _, key := range keys {
		if n := p.Semantics[Semantic(key)]; n > bestCount {
			best, bestCount = Semantic(key), n
		}
	}
	return best
}

// Analyzer profiles the columns of a row set.
type Analyzer struct{}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Profile returns one profile per column, in column order.
func (a *Analyzer) Profile(rows []models.Value, columns []string) []ColumnProfile {
	profiles := make([]ColumnProfile, len(columns))
	for i, col := range columns {
		profiles[i] = ColumnProfile{
			Key:       col,
			Kinds:     make(map[models.Kind]int),
			Semantics: make(map[Semantic]int),
		}
	}

	for _, row := range rows {
		for i, col := range columns {
			p := &profiles[i]
			cell := CellAt(row, col)
			if !cell.Present {
				p.Absent++
				continue
			}
			p.Present++
			kind := cell.Value.Kind()
			p.Kinds[kind]++
			switch kind {
			case models.KindNull:
				p.Nulls++
			case models.KindString:
				if sem := a.analyzeString(cell.Value.Str()); sem != SemanticNone {
					p.Semantics[sem]++
				}
			case models.KindNumber:
				p.Semantics[a.analyzeNumber(cell.Value)]++
			}
		}
	}
	return profiles
}

func (a *Analyzer) analyzeString(s string) Semantic {
	switch {
	case isUUID(s):
		return SemanticUUID
	case rfc3339Regex.MatchString(s), iso8601Regex.MatchString(s), dateTimeRegex.MatchString(s):
		return SemanticTime
	case dateOnlyRegex.MatchString(s):
		return SemanticDate
	}
	return SemanticNone
}

func (a *Analyzer) analyzeNumber(v models.Value) Semantic {
	num := v.NumberLiteral()
	numStr := string(num)

	if unixTimestampRegex.MatchString(numStr) {
		return SemanticUnixSeconds
	}
	if unixMilliRegex.MatchString(numStr) {
		return SemanticUnixMillis
	}
	if _, err := num.Int64(); err == nil {
		return SemanticInt
	}
	return SemanticFloat
}

// isUUID accepts only the hyphenated 36 character form.
func isUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
