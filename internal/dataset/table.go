package dataset

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrRowNotFound is returned by SetCell when no row carries the requested
// identifier. Callers are expected to EnsureRow first.
var ErrRowNotFound = errors.New("dataset: row not found")

// Table is an identifier-keyed annotation table. Rows are stored in a map for
// O(1) lookup with a separate slice preserving insertion order; the slice is
// only reordered by SortByKey. The empty string is the absence marker: a cell
// holding "" is absent, and filled cells are always non-empty.
type Table struct {
	schema Schema
	order  []string
	rows   map[string]map[string]string
}

// NewTable returns an empty table constrained to the given schema.
func NewTable(schema Schema) *Table {
	return &Table{
		schema: schema,
		rows:   make(map[string]map[string]string),
	}
}

// Schema returns the table's column layout.
func (t *Table) Schema() Schema {
	return t.schema
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.order)
}

// Keys returns the row identifiers in current table order.
func (t *Table) Keys() []string {
	keys := make([]string, len(t.order))
	copy(keys, t.order)
	return keys
}

// EnsureRow appends an all-absent row for key unless one already exists.
func (t *Table) EnsureRow(key string) {
	if _, ok := t.rows[key]; ok {
		return
	}
	t.rows[key] = make(map[string]string)
	t.order = append(t.order, key)
}

// SetCell fills the cell at (key, column). The row must already exist and the
// column must belong to the schema.
func (t *Table) SetCell(key, column, value string) error {
	if !t.schema.HasSlot(column) {
		return fmt.Errorf("dataset: column %q not in schema", column)
	}
	row, ok := t.rows[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrRowNotFound, key)
	}
	row[column] = value
	return nil
}

// Cell returns the value at (key, column) and whether it is present. Absent
// cells and missing rows both report false.
func (t *Table) Cell(key, column string) (string, bool) {
	row, ok := t.rows[key]
	if !ok {
		return "", false
	}
	value := row[column]
	if value == "" {
		return "", false
	}
	return value, true
}

// IsAbsent reports whether the cell at (key, column) holds no value. A missing
// row counts as absent.
func (t *Table) IsAbsent(key, column string) bool {
	_, present := t.Cell(key, column)
	return !present
}

// SortByKey returns a new table with rows ordered ascending by identifier.
// The sort is stable so duplicate-free input keeps ties in original order.
func (t *Table) SortByKey() *Table {
	sorted := &Table{
		schema: t.schema,
		order:  make([]string, len(t.order)),
		rows:   make(map[string]map[string]string, len(t.rows)),
	}
	copy(sorted.order, t.order)
	sort.SliceStable(sorted.order, func(i, j int) bool {
		return sorted.order[i] < sorted.order[j]
	})
	for key, row := range t.rows {
		clone := make(map[string]string, len(row))
		for column, value := range row {
			clone[column] = value
		}
		sorted.rows[key] = clone
	}
	return sorted
}

// merge folds a loaded record into the table. The first occurrence of a key
// wins per cell; later duplicates only contribute cells still absent, so load
// never materializes duplicate identifiers.
func (t *Table) merge(key string, cells map[string]string) {
	t.EnsureRow(key)
	row := t.rows[key]
	for column, value := range cells {
		if strings.TrimSpace(value) == "" {
			continue
		}
		if row[column] == "" {
			row[column] = value
		}
	}
}
