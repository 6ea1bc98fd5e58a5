package predict

import (
	"context"
	"path/filepath"
	"testing"

	"elicitcam/internal/dataset"
)

func TestNormalizeLabel(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"`Mute microphone`", "Mute microphone"},
		{"Increase volume.", "Increase volume"},
		{"END CALL", "End call"},
		{"Ask for a question", "Ask for a question"},
		{"42!?", ""},
		{"  Turn off camera  ", "Turn off camera"},
	}
	for _, tc := range cases {
		if got := NormalizeLabel(tc.in); got != tc.want {
			t.Errorf("NormalizeLabel(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestUnitsSkipAbsentDescriptions(t *testing.T) {
	descriptions := dataset.NewTable(dataset.DescriptionSchema())
	descriptions.EnsureRow("v2")
	descriptions.EnsureRow("v1")
	if err := descriptions.SetCell("v2", "c1_description", "A fist moves upward."); err != nil {
		t.Fatalf("SetCell: %v", err)
	}
	if err := descriptions.SetCell("v1", "c4_description", "Open palm pushes forward."); err != nil {
		t.Fatalf("SetCell: %v", err)
	}

	units, err := Units(descriptions)
	if err != nil {
		t.Fatalf("Units: %v", err)
	}
	if len(units) != 2 {
		t.Fatalf("expected 2 units, got %d", len(units))
	}
	// Sorted key order: v1 before v2.
	if units[0].VideoID != "v1" || units[0].Column != "c4_command" {
		t.Fatalf("unexpected first unit %s/%s", units[0].VideoID, units[0].Column)
	}
	if units[1].VideoID != "v2" || units[1].Column != "c1_command" {
		t.Fatalf("unexpected second unit %s/%s", units[1].VideoID, units[1].Column)
	}

	request, err := units[0].Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if request.Text != "Open palm pushes forward." {
		t.Fatalf("unit should carry its description, got %q", request.Text)
	}
}

func TestOutputPath(t *testing.T) {
	got, err := OutputPath(
		filepath.Join("data", "descriptions", "d3_llm_descriptions.csv"),
		filepath.Join("data", "descriptions"),
		filepath.Join("data", "predictions"),
	)
	if err != nil {
		t.Fatalf("OutputPath: %v", err)
	}
	want := filepath.Join("data", "predictions", "d3_llm_predictions.csv")
	if got != want {
		t.Fatalf("OutputPath = %q, want %q", got, want)
	}

	if _, err := OutputPath(
		filepath.Join("data", "descriptions", "notes.csv"),
		filepath.Join("data", "descriptions"),
		filepath.Join("data", "predictions"),
	); err == nil {
		t.Fatal("expected error for non-descriptions filename")
	}
}
