// Package csvimport turns uploaded company CSVs into normalized rows
// and feeds them to the store in fixed-size batches.
package csvimport

import (
	"strings"
)

// ParseLine splits one CSV line into fields. Commas inside a quoted
// span are not separators; a field wrapped in double quotes is
// unwrapped and doubled internal quotes collapse to one. An
// unterminated quote leaves the rest of the line "inside quotes",
// which swallows any remaining commas into the final field. That
// tolerant behavior is intentional and covered by tests; do not
// tighten it.
func ParseLine(line string) []string {
	var result []string
	start := 0
	inQuotes := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			inQuotes = !inQuotes
		case ',':
			if !inQuotes {
				result = append(result, unquoteField(line[start:i]))
				start = i + 1
			}
		}
	}
	return append(result, unquoteField(line[start:]))
}

// NaiveSplitLine is the historical quote-unaware mode: a plain comma
// split with trimmed fields. Kept for comparison against ParseLine.
func NaiveSplitLine(line string) []string {
	fields := strings.Split(line, ",")
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}

func unquoteField(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 && strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`) {
		v = strings.ReplaceAll(v[1:len(v)-1], `""`, `"`)
	}
	return v
}
