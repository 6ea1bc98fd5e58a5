package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Load reads the CSV table at path, constrained to schema's columns. A missing
// file yields an empty table; a present file must carry every schema column.
// Columns outside the schema are dropped.
func Load(path string, schema Schema) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewTable(schema), nil
		}
		return nil, fmt.Errorf("open table %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse table %s: %w", path, err)
	}
	if len(records) == 0 {
		return NewTable(schema), nil
	}

	header := records[0]
	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}
	for _, column := range schema.Columns() {
		if _, ok := index[column]; !ok {
			return nil, fmt.Errorf("table %s: missing column %q", path, column)
		}
	}

	table := NewTable(schema)
	idIdx := index[IDColumn]
	for _, record := range records[1:] {
		if idIdx >= len(record) {
			continue
		}
		key := record[idIdx]
		if key == "" {
			continue
		}
		cells := make(map[string]string, len(schema.slots))
		for _, column := range schema.slots {
			if i := index[column]; i < len(record) {
				cells[column] = record[i]
			}
		}
		table.merge(key, cells)
	}
	return table, nil
}

// Save serializes the table to path in current row order, absent cells as
// empty fields. The write goes through a temp file and rename so a crash mid
// save leaves the previous file intact.
func Save(table *Table, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create table directory: %w", err)
	}

	tmpPath := path + ".tmp"
	file, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create temp table: %w", err)
	}

	writer := csv.NewWriter(file)
	writeErr := writer.Write(table.schema.Columns())
	if writeErr == nil {
		for _, key := range table.order {
			record := make([]string, 0, len(table.schema.slots)+1)
			record = append(record, key)
			row := table.rows[key]
			for _, column := range table.schema.slots {
				record = append(record, row[column])
			}
			if writeErr = writer.Write(record); writeErr != nil {
				break
			}
		}
	}
	if writeErr == nil {
		writer.Flush()
		writeErr = writer.Error()
	}
	if closeErr := file.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write table %s: %w", path, writeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("persist table %s: %w", path, err)
	}
	return nil
}
