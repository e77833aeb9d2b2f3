package store

import (
	"context"
	"errors"

	"github.com/arcthaneaidelta/Docx-generation-with-database/internal/models"
)

var (
	// ErrNotFound means no submission exists for the identifier.
	ErrNotFound = errors.New("submission not found")

	// ErrNotReady means the submission exists but has no completed artifact.
	ErrNotReady = errors.New("artifact not ready")

	// ErrFinalized means a terminal status was already written. Terminal
	// writes happen at most once per submission.
	ErrFinalized = errors.New("submission already finalized")
)

// Store is the single shared mutable resource of the service. Both the
// request path and the background workers go through it; every status or
// artifact mutation is one atomic record update keyed by submission ID.
type Store interface {
	CreateSubmission(ctx context.Context, sub *models.Submission) error
	GetSubmission(ctx context.Context, id string) (*models.Submission, error)
	GetArtifact(ctx context.Context, id string) (*models.Artifact, error)
	MarkCompleted(ctx context.Context, id string, artifact models.Artifact) error
	MarkFailed(ctx context.Context, id, cause string) error
	ListSubmissions(ctx context.Context) ([]models.SubmissionSummary, error)

	SaveChatMessage(ctx context.Context, msg *models.ChatMessage) error
	ListChatMessages(ctx context.Context) ([]models.ChatMessage, error)

	Close() error
}
