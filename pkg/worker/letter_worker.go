package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/arcthaneaidelta/Docx-generation-with-database/internal/service/submission"
	"github.com/arcthaneaidelta/Docx-generation-with-database/pkg/logger"
	"github.com/arcthaneaidelta/Docx-generation-with-database/pkg/queue"
)

// LetterWorker consumes generation tasks and runs them through the
// submission service. Failure handling lives in the service: an upstream
// error ends as a failed submission, not a retried task.
type LetterWorker struct {
	BaseWorker
	svc *submission.Service
}

func NewLetterWorker(cfg *Config, svc *submission.Service, log logger.Logger) (*LetterWorker, error) {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 10
	}
	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr, DB: cfg.RedisDB},
		asynq.Config{
			Concurrency: cfg.Concurrency,
			Queues:      cfg.Queues,
		},
	)

	w := &LetterWorker{
		BaseWorker: BaseWorker{
			server:   server,
			mux:      asynq.NewServeMux(),
			logger:   log,
			stopChan: make(chan struct{}),
		},
		svc: svc,
	}

	w.mux.HandleFunc(queue.TaskTypeGenerate, w.handleGenerate)
	return w, nil
}

func (w *LetterWorker) handleGenerate(ctx context.Context, t *asynq.Task) error {
	var payload queue.Payload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		w.logger.Error("Failed to unmarshal task payload",
			logger.Error(err),
			logger.String("payload", string(t.Payload())),
		)
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}
	if payload.SubmissionID == "" {
		return fmt.Errorf("task payload missing submission id")
	}

	w.logger.Info("Processing generation task",
		logger.String("submissionId", payload.SubmissionID),
	)

	return w.svc.Process(ctx, payload.SubmissionID)
}

func (w *LetterWorker) Start(ctx context.Context) error {
	go func() {
		if err := w.server.Run(w.mux); err != nil {
			w.logger.Error("Worker server stopped", logger.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		w.Stop()
	}()

	return nil
}
