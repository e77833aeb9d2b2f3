package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// AsynqDispatcher enqueues generation tasks onto Redis for the worker
// process. Failed generations are terminal, so tasks are enqueued without
// retries.
type AsynqDispatcher struct {
	client  *asynq.Client
	timeout time.Duration
}

type AsynqConfig struct {
	RedisAddr string
	RedisDB   int
	// Timeout bounds one generation attempt, webhook call included.
	Timeout time.Duration
}

func NewAsynqDispatcher(cfg AsynqConfig) *AsynqDispatcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	return &AsynqDispatcher{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr: cfg.RedisAddr,
			DB:   cfg.RedisDB,
		}),
		timeout: cfg.Timeout,
	}
}

func (d *AsynqDispatcher) Dispatch(ctx context.Context, submissionID string) error {
	payload, err := json.Marshal(Payload{SubmissionID: submissionID})
	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}

	task := asynq.NewTask(TaskTypeGenerate, payload,
		asynq.TaskID(submissionID),
		asynq.MaxRetry(0),
		asynq.Timeout(d.timeout),
	)
	if _, err := d.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}
	return nil
}

func (d *AsynqDispatcher) Close() error {
	return d.client.Close()
}
