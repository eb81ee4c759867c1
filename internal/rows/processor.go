package rows

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/mcncl/jsongrid/internal/models"
)

// Processor memoizes Process for one dataset. The filtered set is reused
// while only the sort changes, and the full result is reused while neither
// input changes. Folded row text is computed once per dataset.
//
// A Processor is owned by a single view and is not safe for concurrent use.
type Processor struct {
	values []models.Value
	folded []string
	caser  cases.Caser

	filterKey string
	filtered  []Row
	hasFilter bool

	sortKey   SortState
	result    []Row
	hasResult bool
}

// NewProcessor creates a processor over values. values must not be modified afterwards.
func NewProcessor(values []models.Value) *Processor {
	return &Processor{values: values, caser: cases.Fold()}
}

// Len returns the number of source rows.
func (p *Processor) Len() int { return len(p.values) }

// Values returns the source rows.
func (p *Processor) Values() []models.Value { return p.values }

// Process returns the filtered and sorted rows. The returned slice is
// shared with later calls with the same arguments and must not be modified.
func (p *Processor) Process(filter string, s SortState) []Row {
	if p.hasResult && p.filterKey == filter && p.sortKey == s {
		return p.result
	}

	filtered := p.filter(filter)
	p.sortKey = s
	p.result = Sort(filtered, s)
	p.hasResult = true
	return p.result
}

func (p *Processor) filter(text string) []Row {
	if p.hasFilter && p.filterKey == text {
		return p.filtered
	}

	var out []Row
	if text == "" {
		out = Filter(p.values, "")
	} else {
		if p.folded == nil {
			p.folded = make([]string, len(p.values))
			for i, v := range p.values {
				p.folded[i] = p.caser.String(v.Canonical())
			}
		}

		// Narrowing the previous filter only needs to rescan its survivors.
		candidates := p.filtered
		if !p.hasFilter || p.filterKey == "" || !strings.Contains(text, p.filterKey) {
			candidates = Filter(p.values, "")
		}
		needle := p.caser.String(text)
		out = make([]Row, 0, len(candidates))
		for _, r := range candidates {
			if strings.Contains(p.folded[r.Source], needle) {
				out = append(out, r)
			}
		}
	}

	p.filterKey = text
	p.filtered = slices.Clip(out)
	p.hasFilter = true
	return p.filtered
}
