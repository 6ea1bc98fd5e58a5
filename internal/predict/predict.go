// Package predict builds command-prediction units from an annotated
// description table and normalizes model output into the closed command
// label set.
package predict

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"elicitcam/internal/annotate"
	"elicitcam/internal/dataset"
)

// Units enumerates one unit per filled description cell of the source table,
// in sorted key order. Each unit targets the command column of the same slot
// position.
func Units(descriptions *dataset.Table) ([]annotate.Unit, error) {
	commandSchema := dataset.CommandSchema()
	descriptionSchema := descriptions.Schema()

	keys := descriptions.SortByKey().Keys()
	units := make([]annotate.Unit, 0, len(keys))
	for _, key := range keys {
		for slot := 1; slot <= dataset.SlotCount; slot++ {
			descColumn, err := descriptionSchema.Slot(slot)
			if err != nil {
				return nil, err
			}
			description, ok := descriptions.Cell(key, descColumn)
			if !ok {
				continue
			}
			cmdColumn, err := commandSchema.Slot(slot)
			if err != nil {
				return nil, err
			}
			units = append(units, annotate.Unit{
				VideoID: key,
				Column:  cmdColumn,
				Load: func(context.Context) (annotate.Request, error) {
					return annotate.Request{Task: annotate.TaskPredictCommand, Text: description}, nil
				},
			})
		}
	}
	return units, nil
}

// NormalizeLabel maps raw model output onto the closed command label set:
// every non-alphabetic rune becomes a space, edges are trimmed, and the
// result is capitalized (first letter upper, remainder lower).
func NormalizeLabel(raw string) string {
	var builder strings.Builder
	builder.Grow(len(raw))
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			builder.WriteRune(r)
		} else {
			builder.WriteRune(' ')
		}
	}
	label := strings.TrimSpace(builder.String())
	if label == "" {
		return ""
	}
	runes := []rune(strings.ToLower(label))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// OutputPath maps a descriptions table filename to its predictions
// counterpart, mirroring the dataset layout convention.
func OutputPath(descriptionsPath, descriptionsDir, predictionsDir string) (string, error) {
	rel, err := filepath.Rel(descriptionsDir, descriptionsPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("predict: %s is outside %s", descriptionsPath, descriptionsDir)
	}
	if !strings.Contains(rel, "_descriptions.") {
		return "", fmt.Errorf("predict: %s is not a descriptions table", descriptionsPath)
	}
	return filepath.Join(predictionsDir, strings.Replace(rel, "_descriptions.", "_predictions.", 1)), nil
}
