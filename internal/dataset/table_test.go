package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureRowIsIdempotent(t *testing.T) {
	table := NewTable(DescriptionSchema())
	table.EnsureRow("v1")
	table.EnsureRow("v1")
	if table.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", table.Len())
	}
}

func TestSetCellRequiresRow(t *testing.T) {
	table := NewTable(DescriptionSchema())
	err := table.SetCell("v1", "c1_description", "wave")
	if !errors.Is(err, ErrRowNotFound) {
		t.Fatalf("expected ErrRowNotFound, got %v", err)
	}
}

func TestSetCellRejectsUnknownColumn(t *testing.T) {
	table := NewTable(DescriptionSchema())
	table.EnsureRow("v1")
	if err := table.SetCell("v1", "c1_command", "wave"); err == nil {
		t.Fatal("expected error for column outside schema")
	}
}

func TestIsAbsent(t *testing.T) {
	table := NewTable(DescriptionSchema())
	if !table.IsAbsent("v1", "c1_description") {
		t.Fatal("missing row should be absent")
	}
	table.EnsureRow("v1")
	if !table.IsAbsent("v1", "c1_description") {
		t.Fatal("empty cell should be absent")
	}
	if err := table.SetCell("v1", "c1_description", "wave"); err != nil {
		t.Fatalf("SetCell: %v", err)
	}
	if table.IsAbsent("v1", "c1_description") {
		t.Fatal("filled cell should not be absent")
	}
}

func TestSortByKeyIsStableAndIdempotent(t *testing.T) {
	table := NewTable(DescriptionSchema())
	for _, key := range []string{"v3", "v1", "v2"} {
		table.EnsureRow(key)
	}
	once := table.SortByKey()
	twice := once.SortByKey()

	want := []string{"v1", "v2", "v3"}
	for i, key := range once.Keys() {
		if key != want[i] {
			t.Fatalf("sorted order %v, want %v", once.Keys(), want)
		}
	}
	for i, key := range twice.Keys() {
		if key != want[i] {
			t.Fatalf("second sort changed order: %v", twice.Keys())
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "descriptions.csv")
	schema := DescriptionSchema()

	table := NewTable(schema)
	table.EnsureRow("v2")
	table.EnsureRow("v1")
	if err := table.SetCell("v2", "c3_description", "Open palm pushes forward"); err != nil {
		t.Fatalf("SetCell: %v", err)
	}
	if err := Save(table, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path, schema)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", loaded.Len())
	}
	value, ok := loaded.Cell("v2", "c3_description")
	if !ok || value != "Open palm pushes forward" {
		t.Fatalf("cell = %q present=%v", value, ok)
	}
	for _, column := range schema.Slots() {
		if column == "c3_description" {
			continue
		}
		if !loaded.IsAbsent("v2", column) {
			t.Fatalf("column %s should be absent", column)
		}
	}
	if !loaded.IsAbsent("v1", "c1_description") {
		t.Fatal("v1 cells should all be absent")
	}
}

func TestLoadMissingFileYieldsEmptyTable(t *testing.T) {
	table, err := Load(filepath.Join(t.TempDir(), "nope.csv"), CommandSchema())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if table.Len() != 0 {
		t.Fatalf("expected empty table, got %d rows", table.Len())
	}
}

func TestLoadMissingColumnFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(path, []byte("id_video,c1_description\nv1,wave\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := Load(path, DescriptionSchema()); err == nil {
		t.Fatal("expected error for missing schema columns")
	}
}

func TestLoadDropsExtraColumnsAndMergesDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.csv")
	content := "id_video,extra,c1_description,c2_description,c3_description,c4_description,c5_description,c6_description,c7_description,c8_description\n" +
		"v1,x,first,,,,,,,\n" +
		"v1,y,second,also,,,,,,\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	table, err := Load(path, DescriptionSchema())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if table.Len() != 1 {
		t.Fatalf("duplicate keys must collapse, got %d rows", table.Len())
	}
	if value, _ := table.Cell("v1", "c1_description"); value != "first" {
		t.Fatalf("first occurrence should win, got %q", value)
	}
	if value, _ := table.Cell("v1", "c2_description"); value != "also" {
		t.Fatalf("absent cell should adopt later value, got %q", value)
	}
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	table := NewTable(CommandSchema())
	table.EnsureRow("v1")
	if err := Save(table, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file should be renamed away: %v", err)
	}
}
