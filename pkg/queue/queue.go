package queue

import (
	"context"
)

// TaskTypeGenerate is the asynq task type for letter generation.
const TaskTypeGenerate = "letter:generate"

// Payload is the transport format for a dispatched generation task. The
// submission record in the store is the real hand-off; the queue only carries
// the identifier.
type Payload struct {
	SubmissionID string `json:"submissionId"`
}

// ProcessFunc runs the background generation for one submission.
type ProcessFunc func(ctx context.Context, submissionID string) error

// Dispatcher hands a stored submission off for background processing. The
// intake path never blocks on the work itself.
type Dispatcher interface {
	Dispatch(ctx context.Context, submissionID string) error
}
