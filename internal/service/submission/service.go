package submission

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/arcthaneaidelta/Docx-generation-with-database/internal/generator"
	"github.com/arcthaneaidelta/Docx-generation-with-database/internal/models"
	"github.com/arcthaneaidelta/Docx-generation-with-database/internal/store"
	"github.com/arcthaneaidelta/Docx-generation-with-database/pkg/logger"
	"github.com/arcthaneaidelta/Docx-generation-with-database/pkg/queue"
)

// ErrValidation marks client-caused intake errors. Nothing is persisted when
// validation fails.
var ErrValidation = errors.New("invalid request")

const fallbackChatReply = "Sorry, I couldn't process your message at the moment."

// Generator is the outbound contract to the document-generator webhooks.
type Generator interface {
	Generate(ctx context.Context, req generator.Request) (*generator.Result, error)
	RelayChat(ctx context.Context, message string) (string, error)
}

// Service owns the submission lifecycle: validated intake, dispatch hand-off,
// background processing, and the status/retrieval queries.
type Service struct {
	store      store.Store
	generator  Generator
	dispatcher queue.Dispatcher
	logger     logger.Logger
}

func NewService(st store.Store, gen Generator, dispatcher queue.Dispatcher, log logger.Logger) *Service {
	return &Service{
		store:      st,
		generator:  gen,
		dispatcher: dispatcher,
		logger:     log,
	}
}

// Submit validates the two uploads, persists a new processing submission, and
// hands it to the dispatcher. It returns as soon as the record is durable;
// the generation itself happens off the request path.
func (s *Service) Submit(ctx context.Context, txtHeader, csvHeader *multipart.FileHeader, message string) (*models.Submission, error) {
	if txtHeader == nil || csvHeader == nil {
		return nil, fmt.Errorf("%w: both TXT and CSV files are required", ErrValidation)
	}
	if err := checkExtension(txtHeader.Filename, ".txt"); err != nil {
		return nil, err
	}
	if err := checkExtension(csvHeader.Filename, ".csv"); err != nil {
		return nil, err
	}

	var txtContent, csvContent []byte
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txtContent, err = readUpload(txtHeader)
		return err
	})
	g.Go(func() error {
		var err error
		csvContent, err = readUpload(csvHeader)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sub := &models.Submission{
		ID:          uuid.New().String(),
		TxtFilename: filepath.Base(txtHeader.Filename),
		CSVFilename: filepath.Base(csvHeader.Filename),
		TxtContent:  txtContent,
		CSVContent:  csvContent,
		Message:     strings.TrimSpace(message),
		Status:      models.StatusProcessing,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateSubmission(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to persist submission: %w", err)
	}

	if err := s.dispatcher.Dispatch(ctx, sub.ID); err != nil {
		s.logger.Error("Failed to dispatch submission",
			logger.String("submissionId", sub.ID),
			logger.Error(err),
		)
		if markErr := s.store.MarkFailed(ctx, sub.ID, "dispatch failed"); markErr != nil {
			s.logger.Error("Failed to mark undispatched submission failed",
				logger.String("submissionId", sub.ID),
				logger.Error(markErr),
			)
		}
		return nil, fmt.Errorf("failed to dispatch submission: %w", err)
	}

	s.logger.Info("Submission accepted",
		logger.String("submissionId", sub.ID),
		logger.String("txtFilename", sub.TxtFilename),
		logger.String("csvFilename", sub.CSVFilename),
	)

	return sub, nil
}

// Process runs one background generation unit. Upstream failures are captured
// here as a terminal failed status and never propagate to the caller; only
// infrastructure errors (store unavailable) return an error.
func (s *Service) Process(ctx context.Context, submissionID string) error {
	sub, err := s.store.GetSubmission(ctx, submissionID)
	if err != nil {
		return fmt.Errorf("failed to load submission %s: %w", submissionID, err)
	}
	if sub.Status != models.StatusProcessing {
		s.logger.Warn("Submission already finalized, skipping",
			logger.String("submissionId", submissionID),
			logger.String("status", string(sub.Status)),
		)
		return nil
	}

	result, err := s.generator.Generate(ctx, generator.Request{
		TxtFilename: sub.TxtFilename,
		TxtContent:  sub.TxtContent,
		CSVFilename: sub.CSVFilename,
		CSVContent:  sub.CSVContent,
		Message:     sub.Message,
	})

	// Terminal writes must survive task-context cancellation: a timed-out
	// generation still has to land as a failed submission.
	writeCtx, cancelWrite := terminalWriteContext(ctx)
	defer cancelWrite()

	if err != nil {
		s.logger.Error("Generation failed",
			logger.String("submissionId", submissionID),
			logger.Error(err),
		)
		if markErr := s.store.MarkFailed(writeCtx, submissionID, err.Error()); markErr != nil {
			return fmt.Errorf("failed to record failure for %s: %w", submissionID, markErr)
		}
		return nil
	}

	kind := models.ArtifactWord
	if result.Kind != generator.KindDocument {
		kind = models.KindFromContentType(result.ContentType)
	}
	artifact := models.Artifact{
		Filename: fmt.Sprintf("demand_letter_%s%s", shortID(submissionID), kind.Extension()),
		Kind:     kind,
		Content:  result.Payload,
	}

	if err := s.store.MarkCompleted(writeCtx, submissionID, artifact); err != nil {
		if errors.Is(err, store.ErrFinalized) {
			s.logger.Warn("Submission finalized concurrently",
				logger.String("submissionId", submissionID),
			)
			return nil
		}
		return fmt.Errorf("failed to record artifact for %s: %w", submissionID, err)
	}

	s.logger.Info("Submission completed",
		logger.String("submissionId", submissionID),
		logger.String("artifact", artifact.Filename),
		logger.Int("size", len(artifact.Content)),
	)
	return nil
}

// Status answers purely from persisted state; it never triggers or waits on
// background work.
func (s *Service) Status(ctx context.Context, submissionID string) (*models.SubmissionSummary, error) {
	sub, err := s.store.GetSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	summary := &models.SubmissionSummary{
		ID:          sub.ID,
		TxtFilename: sub.TxtFilename,
		CSVFilename: sub.CSVFilename,
		Status:      sub.Status,
		CreatedAt:   sub.CreatedAt,
	}
	if sub.Artifact != nil {
		summary.ArtifactFilename = sub.Artifact.Filename
	}
	return summary, nil
}

// Download returns the stored artifact, or store.ErrNotReady /
// store.ErrNotFound.
func (s *Service) Download(ctx context.Context, submissionID string) (*models.Artifact, error) {
	return s.store.GetArtifact(ctx, submissionID)
}

// History lists all submissions, newest first.
func (s *Service) History(ctx context.Context) ([]models.SubmissionSummary, error) {
	return s.store.ListSubmissions(ctx)
}

// Chat relays a message to the chat webhook and records the exchange. A relay
// failure degrades to a canned reply rather than an error; only persistence
// failures surface.
func (s *Service) Chat(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("%w: message cannot be empty", ErrValidation)
	}

	reply, err := s.generator.RelayChat(ctx, message)
	if err != nil {
		s.logger.Warn("Chat relay failed", logger.Error(err))
		reply = fallbackChatReply
	}

	if err := s.store.SaveChatMessage(ctx, &models.ChatMessage{
		UserMessage: message,
		BotResponse: reply,
	}); err != nil {
		return "", fmt.Errorf("failed to save chat message: %w", err)
	}

	return reply, nil
}

// ChatHistory lists relayed exchanges in order.
func (s *Service) ChatHistory(ctx context.Context) ([]models.ChatMessage, error) {
	return s.store.ListChatMessages(ctx)
}

// terminalWriteContext detaches from the caller's cancellation while keeping
// its values, with a deadline of its own so a wedged store cannot block the
// worker indefinitely.
func terminalWriteContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
}

func checkExtension(filename, want string) error {
	if filename == "" {
		return fmt.Errorf("%w: both TXT and CSV files are required", ErrValidation)
	}
	if strings.ToLower(filepath.Ext(filename)) != want {
		return fmt.Errorf("%w: %s must have a %s extension", ErrValidation, filepath.Base(filename), want)
	}
	return nil
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", header.Filename, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", header.Filename, err)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrValidation, filepath.Base(header.Filename))
	}
	return content, nil
}

func shortID(id string) string {
	compact := strings.ReplaceAll(id, "-", "")
	if len(compact) > 8 {
		return compact[:8]
	}
	return compact
}
