package parser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// MangleHeaders makes repeated column names unique by appending ".1", ".2"
// and so on in order of appearance. Blank names become "Unnamed: <i>".
//
// The suffixes are part of the catalog's suffix contract: chart signatures
// address side-by-side tables by these exact names.
func MangleHeaders(names []string) []string {
	out := make([]string, len(names))
	seen := make(map[string]int, len(names))
	used := make(map[string]bool, len(names))
	for i, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		candidate := name
		for used[candidate] {
			seen[name]++
			candidate = fmt.Sprintf("%s.%d", name, seen[name])
		}
		used[candidate] = true
		out[i] = candidate
	}
	return out
}

// columnRange is an inclusive 1-based column span such as B:E.
type columnRange struct {
	Start int
	End   int
}

func parseColumnRange(spec string) (columnRange, error) {
	parts := strings.Split(strings.TrimSpace(spec), ":")
	if len(parts) == 1 {
		parts = append(parts, parts[0])
	}
	if len(parts) != 2 {
		return columnRange{}, fmt.Errorf("invalid column range %q", spec)
	}
	start, err := excelize.ColumnNameToNumber(strings.TrimSpace(parts[0]))
	if err != nil {
		return columnRange{}, fmt.Errorf("invalid column range %q: %w", spec, err)
	}
	end, err := excelize.ColumnNameToNumber(strings.TrimSpace(parts[1]))
	if err != nil {
		return columnRange{}, fmt.Errorf("invalid column range %q: %w", spec, err)
	}
	if end < start {
		return columnRange{}, fmt.Errorf("invalid column range %q: end before start", spec)
	}
	return columnRange{Start: start, End: end}, nil
}

func (r columnRange) width() int {
	return r.End - r.Start + 1
}

func (r columnRange) overlaps(o columnRange) bool {
	return r.Start <= o.End && o.Start <= r.End
}
