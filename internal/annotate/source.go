package annotate

import "context"

// Task selects the prompt preset and payload shape for a produce call.
type Task string

const (
	// TaskDescribeImages asks the vision model to describe a hand gesture
	// from an ordered sequence of frames.
	TaskDescribeImages Task = "describe_images"
	// TaskDescribePoses asks the model to describe a gesture from
	// concatenated hand-pose annotation documents.
	TaskDescribePoses Task = "describe_poses"
	// TaskPredictCommand asks the model to map a gesture description to a
	// platform control command.
	TaskPredictCommand Task = "predict_command"
)

// Request is the input bundle handed to a Source. Images carries base64 JPEG
// frames for TaskDescribeImages; Text carries the combined pose documents or
// the gesture description for the other tasks.
type Request struct {
	Task   Task
	Images []string
	Text   string
}

// Status tags the outcome of a produce call that completed at the provider.
type Status string

const (
	// StatusFilled means the provider returned a usable value.
	StatusFilled Status = "filled"
	// StatusRejected means the provider refused or blocked the content, or
	// returned an empty completion. The cell stays absent and the run moves
	// on; rejections are never retried.
	StatusRejected Status = "rejected"
)

// Outcome is the tagged result of a produce call. Text is non-empty exactly
// when Status is StatusFilled; Reason explains a rejection.
type Outcome struct {
	Status Status
	Text   string
	Reason string
}

// Source produces a textual annotation for an input bundle. Errors are fatal
// to the run (missing credentials, exhausted transport retries); provider-side
// refusals come back as StatusRejected outcomes instead.
type Source interface {
	Produce(ctx context.Context, req Request) (Outcome, error)
}

// Unit binds one (video, slot column) cell to its lazily loaded input bundle.
// Load runs only when the cell is still unfilled, so resumed runs never read
// corpora for work already committed.
type Unit struct {
	VideoID string
	Column  string
	Load    func(ctx context.Context) (Request, error)
}

// Recorder receives one entry per attempted unit. Implementations must accept
// a nil-safe no-op usage; the annotator treats a nil Recorder as disabled.
type Recorder interface {
	Record(ctx context.Context, runID, videoID, column, status, detail string) error
}
