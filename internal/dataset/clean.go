package dataset

import "strings"

// noGestureSentences are model responses that mean "nothing happened". They
// carry no annotation value, so cleaning maps them to absence.
var noGestureSentences = map[string]struct{}{
	"No gesture performed.":                                          {},
	"No hand gesture performed.":                                     {},
	"The user does not perform any gesture.":                         {},
	"The user does not perform any hand gesture.":                    {},
	"The user does not perform any hand gestures.":                   {},
	"The user does not perform any gesture throughout the sequence.": {},
	"The user does not perform any distinct gesture.":                {},
	"No discernible hand gesture is performed.":                      {},
}

// Clean returns a new table with "no gesture" boilerplate replaced by absence
// and trailing periods stripped from the remaining values. Clean is pure and
// idempotent: applying it to its own output changes nothing.
func Clean(table *Table) *Table {
	cleaned := NewTable(table.schema)
	for _, key := range table.order {
		cleaned.EnsureRow(key)
		row := table.rows[key]
		for _, column := range table.schema.slots {
			value := row[column]
			if value == "" {
				continue
			}
			if _, blocked := noGestureSentences[value]; blocked {
				continue
			}
			cleaned.rows[key][column] = strings.TrimRight(value, ".")
		}
	}
	return cleaned
}

// NormalizeUnknown returns a new table with cells whose trimmed value equals
// "unknown" replaced by absence. Applied to the raw human annotation exports,
// where annotators used the word as a placeholder.
func NormalizeUnknown(table *Table) *Table {
	normalized := NewTable(table.schema)
	for _, key := range table.order {
		normalized.EnsureRow(key)
		row := table.rows[key]
		for _, column := range table.schema.slots {
			value := row[column]
			if value == "" || strings.TrimSpace(value) == "unknown" {
				continue
			}
			normalized.rows[key][column] = value
		}
	}
	return normalized
}
