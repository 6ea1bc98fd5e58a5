// Package annotate drives incremental annotation runs over a dataset table.
//
// A run enumerates candidate units, each mapping one corpus input to one
// (video, slot) cell, and fills only the cells that are still absent. Every
// successful fill is persisted immediately, so an interrupted run loses at
// most the in-flight cell and a later run resumes from the last saved state.
// Content rejections from the annotation source skip the cell and the run
// continues; configuration and transport failures abort the run.
//
// The package defines the Source and Recorder boundaries it consumes; the
// OpenAI-backed source lives in internal/services/openai and the SQLite
// attempt journal in internal/journal.
package annotate
