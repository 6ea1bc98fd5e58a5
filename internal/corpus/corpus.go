package corpus

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"elicitcam/internal/annotate"
	"elicitcam/internal/dataset"
)

// folder is one discovered leaf: <root>/<id_video>/<cN> with its ordered
// content files.
type folder struct {
	videoID string
	column  string
	files   []string
}

// ImageUnits enumerates annotation units from an image corpus. Each non-empty
// leaf folder maps to one (video, slot) cell; frames beyond sampleCap are
// thinned to evenly spaced indices at load time.
func ImageUnits(root string, schema dataset.Schema, sampleCap int) ([]annotate.Unit, error) {
	folders, err := discover(root, schema, "description", isImageFile)
	if err != nil {
		return nil, err
	}
	units := make([]annotate.Unit, 0, len(folders))
	for _, f := range folders {
		files := f.files
		units = append(units, annotate.Unit{
			VideoID: f.videoID,
			Column:  f.column,
			Load: func(context.Context) (annotate.Request, error) {
				frames, err := encodeFrames(sampleStrings(files, sampleCap))
				if err != nil {
					return annotate.Request{}, err
				}
				return annotate.Request{Task: annotate.TaskDescribeImages, Images: frames}, nil
			},
		})
	}
	return units, nil
}

// PoseUnits enumerates annotation units from a hand-pose document corpus,
// filtered to the given stage.
func PoseUnits(root string, schema dataset.Schema, stage Stage) ([]annotate.Unit, error) {
	folders, err := discover(root, schema, "description", isPoseFile)
	if err != nil {
		return nil, err
	}
	units := make([]annotate.Unit, 0, len(folders))
	for _, f := range folders {
		files := f.files
		units = append(units, annotate.Unit{
			VideoID: f.videoID,
			Column:  f.column,
			Load: func(context.Context) (annotate.Request, error) {
				combined, err := CombineDocuments(files, stage)
				if err != nil {
					return annotate.Request{}, err
				}
				return annotate.Request{Task: annotate.TaskDescribePoses, Text: combined}, nil
			},
		})
	}
	return units, nil
}

// discover walks root for <id_video>/<slot> leaf folders whose slot name plus
// suffix is a schema column and which contain at least one matching file.
// Results are ordered lexicographically by folder path so runs are
// deterministic and resumable.
func discover(root string, schema dataset.Schema, suffix string, match func(string) bool) ([]folder, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("corpus root %s: %w", root, err)
	}

	var folders []folder
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() || path == root {
			return nil
		}
		column := entry.Name() + "_" + suffix
		if !schema.HasSlot(column) {
			return nil
		}
		videoID := filepath.Base(filepath.Dir(path))
		if filepath.Dir(path) == root {
			// Slot folders live one level below the video folder.
			return nil
		}
		files, err := matchingFiles(path, match)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return nil
		}
		folders = append(folders, folder{videoID: videoID, column: column, files: files})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk corpus %s: %w", root, err)
	}

	sort.Slice(folders, func(i, j int) bool {
		if folders[i].videoID != folders[j].videoID {
			return folders[i].videoID < folders[j].videoID
		}
		return folders[i].column < folders[j].column
	})
	return folders, nil
}

func matchingFiles(dir string, match func(string) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read corpus folder %s: %w", dir, err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !match(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func isImageFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

func isPoseFile(name string) bool {
	return strings.ToLower(filepath.Ext(name)) == ".json"
}
