package annotate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"elicitcam/internal/dataset"
	"elicitcam/internal/logging"
)

// journal entry statuses beyond the produce outcomes.
const (
	statusSkipped = "skipped"
	statusFailed  = "failed"
)

// Annotator fills absent cells of one table from an annotation source and
// persists after every success.
type Annotator struct {
	table  *dataset.Table
	path   string
	source Source
	logger *slog.Logger

	recorder  Recorder
	transform func(string) string
	needsWork func(*dataset.Table, string, string) bool
}

// Option customizes an Annotator.
type Option func(*Annotator)

// WithRecorder attaches an attempt journal to the run.
func WithRecorder(recorder Recorder) Option {
	return func(a *Annotator) {
		a.recorder = recorder
	}
}

// WithResultTransform post-processes every filled value before it is written
// to the table. Used by the command-prediction pipeline to normalize model
// output into a closed label set.
func WithResultTransform(transform func(string) string) Option {
	return func(a *Annotator) {
		if transform != nil {
			a.transform = transform
		}
	}
}

// WithResolver overrides the skip decision. The default fills a cell iff it
// is absent in the table, re-evaluated on every run so manual edits to the
// saved file are respected.
func WithResolver(needsWork func(table *dataset.Table, key, column string) bool) Option {
	return func(a *Annotator) {
		if needsWork != nil {
			a.needsWork = needsWork
		}
	}
}

// New constructs an annotator that mutates table and saves it to path.
func New(table *dataset.Table, path string, source Source, logger *slog.Logger, opts ...Option) *Annotator {
	if logger == nil {
		logger = logging.NewNop()
	}
	a := &Annotator{
		table:  table,
		path:   path,
		source: source,
		logger: logging.NewComponentLogger(logger, "annotate"),
		needsWork: func(table *dataset.Table, key, column string) bool {
			return table.IsAbsent(key, column)
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Table returns the annotator's current table. After Run it reflects the
// final sorted state.
func (a *Annotator) Table() *dataset.Table {
	return a.table
}

// Run walks units in order, fills every cell that still needs work, and saves
// the table after each success. It finishes with a sort-and-save pass so the
// on-disk table is canonically ordered even when interrupted runs appended
// rows out of order.
func (a *Annotator) Run(ctx context.Context, units []Unit) error {
	lock := flock.New(a.path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("annotation run already in progress for %s", a.path)
	}
	defer lock.Unlock()

	runID := uuid.NewString()
	logger := a.logger.With(slog.String("run_id", runID))
	logger.Info("annotation run starting", slog.Int("units", len(units)), slog.String("table", a.path))

	for _, unit := range units {
		if err := ctx.Err(); err != nil {
			return err
		}
		a.table.EnsureRow(unit.VideoID)
		unitLogger := logger.With(
			slog.String("video", unit.VideoID),
			slog.String("column", unit.Column),
		)
		if !a.needsWork(a.table, unit.VideoID, unit.Column) {
			unitLogger.Debug("cell already filled")
			continue
		}

		request, err := unit.Load(ctx)
		if err != nil {
			// Malformed inputs only cost their own cell.
			unitLogger.Warn("input unreadable, skipping unit", logging.Error(err))
			a.record(ctx, runID, unit, statusSkipped, err.Error())
			continue
		}

		outcome, err := a.source.Produce(ctx, request)
		if err != nil {
			a.record(ctx, runID, unit, statusFailed, err.Error())
			return fmt.Errorf("produce %s/%s: %w", unit.VideoID, unit.Column, err)
		}
		if outcome.Status == StatusRejected {
			unitLogger.Warn("provider rejected content", slog.String("reason", outcome.Reason))
			a.record(ctx, runID, unit, string(StatusRejected), outcome.Reason)
			continue
		}

		value := outcome.Text
		if a.transform != nil {
			value = a.transform(value)
		}
		if strings.TrimSpace(value) == "" {
			unitLogger.Warn("empty value after transform, skipping unit")
			a.record(ctx, runID, unit, statusSkipped, "empty value after transform")
			continue
		}
		if err := a.table.SetCell(unit.VideoID, unit.Column, value); err != nil {
			return fmt.Errorf("store %s/%s: %w", unit.VideoID, unit.Column, err)
		}
		if err := dataset.Save(a.table, a.path); err != nil {
			return fmt.Errorf("persist %s: %w", a.path, err)
		}
		unitLogger.Info("cell filled")
		a.record(ctx, runID, unit, string(StatusFilled), "")
	}

	a.table = a.table.SortByKey()
	if err := dataset.Save(a.table, a.path); err != nil {
		return fmt.Errorf("persist sorted %s: %w", a.path, err)
	}
	logger.Info("annotation run finished", slog.Int("rows", a.table.Len()))
	return nil
}

func (a *Annotator) record(ctx context.Context, runID string, unit Unit, status, detail string) {
	if a.recorder == nil {
		return
	}
	if err := a.recorder.Record(ctx, runID, unit.VideoID, unit.Column, status, detail); err != nil {
		a.logger.Warn("journal write failed", logging.Error(err))
	}
}
