package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Stage selects which part of each hand-pose document is uploaded.
type Stage string

const (
	// StagePoses keeps every field except the raw landmark coordinates.
	StagePoses Stage = "poses"
	// StageLandmarks keeps only the raw landmark coordinates.
	StageLandmarks Stage = "landmarks"
	// StageCombined keeps the complete document.
	StageCombined Stage = "combined"
)

// landmarksField is the document key carrying raw MediaPipe coordinates.
const landmarksField = "hand_landmarks"

// Stages lists every stage in pipeline order.
func Stages() []Stage {
	return []Stage{StagePoses, StageLandmarks, StageCombined}
}

// ParseStage validates a user-supplied stage name.
func ParseStage(value string) (Stage, error) {
	switch Stage(strings.ToLower(strings.TrimSpace(value))) {
	case StagePoses:
		return StagePoses, nil
	case StageLandmarks:
		return StageLandmarks, nil
	case StageCombined:
		return StageCombined, nil
	}
	return "", fmt.Errorf("corpus: unknown stage %q (want poses, landmarks, or combined)", value)
}

// CombineDocuments reads the ordered pose documents, filters each to the
// stage's field selection, and concatenates them into one payload with a
// 1-based positional label per document.
func CombineDocuments(paths []string, stage Stage) (string, error) {
	var builder strings.Builder
	for i, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read document %s: %w", path, err)
		}
		var document map[string]json.RawMessage
		if err := json.Unmarshal(raw, &document); err != nil {
			return "", fmt.Errorf("parse document %s: %w", path, err)
		}

		filtered := make(map[string]json.RawMessage, len(document))
		switch stage {
		case StageLandmarks:
			if landmarks, ok := document[landmarksField]; ok {
				filtered[landmarksField] = landmarks
			} else {
				filtered[landmarksField] = json.RawMessage("{}")
			}
		case StagePoses:
			for key, value := range document {
				if key != landmarksField {
					filtered[key] = value
				}
			}
		default:
			filtered = document
		}

		encoded, err := json.Marshal(filtered)
		if err != nil {
			return "", fmt.Errorf("encode document %s: %w", path, err)
		}
		fmt.Fprintf(&builder, "Image %d: %s\n", i+1, encoded)
	}
	return builder.String(), nil
}
