package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/arcthaneaidelta/Docx-generation-with-database/internal/models"
	"github.com/arcthaneaidelta/Docx-generation-with-database/pkg/logger"
)

const schema = `
CREATE TABLE IF NOT EXISTS submissions (
	id                TEXT PRIMARY KEY,
	txt_filename      TEXT NOT NULL,
	csv_filename      TEXT NOT NULL,
	txt_content       BLOB NOT NULL,
	csv_content       BLOB NOT NULL,
	message           TEXT NOT NULL DEFAULT '',
	status            TEXT NOT NULL DEFAULT 'processing',
	failure_cause     TEXT NOT NULL DEFAULT '',
	artifact_filename TEXT,
	artifact_kind     TEXT,
	artifact_content  BLOB,
	created_at        TEXT NOT NULL,
	updated_at        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS chat_messages (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	user_message  TEXT NOT NULL,
	bot_response  TEXT NOT NULL,
	created_at    TEXT NOT NULL
);
`

// SQLiteStore persists submissions and chat history in a single sqlite
// database. The connection pool is capped at one connection so every write
// is serialized and a status read after a terminal write always observes it.
type SQLiteStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewSQLiteStore(path string, log logger.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db, logger: log}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateSubmission(ctx context.Context, sub *models.Submission) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO submissions (
			id, txt_filename, csv_filename, txt_content, csv_content,
			message, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.TxtFilename, sub.CSVFilename, sub.TxtContent, sub.CSVContent,
		sub.Message, string(sub.Status), formatTime(sub.CreatedAt), formatTime(sub.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert submission: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, txt_filename, csv_filename, txt_content, csv_content,
		       message, status, failure_cause,
		       artifact_filename, artifact_kind, artifact_content,
		       created_at, updated_at
		FROM submissions WHERE id = ?`, id)

	var (
		sub              models.Submission
		status           string
		artifactFilename sql.NullString
		artifactKind     sql.NullString
		artifactContent  []byte
		createdAt        string
		updatedAt        string
	)
	err := row.Scan(
		&sub.ID, &sub.TxtFilename, &sub.CSVFilename, &sub.TxtContent, &sub.CSVContent,
		&sub.Message, &status, &sub.FailureCause,
		&artifactFilename, &artifactKind, &artifactContent,
		&createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load submission: %w", err)
	}

	sub.Status = models.SubmissionStatus(status)
	sub.CreatedAt = parseTime(createdAt)
	sub.UpdatedAt = parseTime(updatedAt)
	if artifactFilename.Valid {
		sub.Artifact = &models.Artifact{
			Filename: artifactFilename.String,
			Kind:     models.ArtifactKind(artifactKind.String),
			Content:  artifactContent,
		}
	}
	return &sub, nil
}

func (s *SQLiteStore) GetArtifact(ctx context.Context, id string) (*models.Artifact, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT status, artifact_filename, artifact_kind, artifact_content
		FROM submissions WHERE id = ?`, id)

	var (
		status   string
		filename sql.NullString
		kind     sql.NullString
		content  []byte
	)
	err := row.Scan(&status, &filename, &kind, &content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load artifact: %w", err)
	}

	if models.SubmissionStatus(status) != models.StatusCompleted || !filename.Valid {
		return nil, fmt.Errorf("%w: submission is %s", ErrNotReady, status)
	}

	return &models.Artifact{
		Filename: filename.String,
		Kind:     models.ArtifactKind(kind.String),
		Content:  content,
	}, nil
}

func (s *SQLiteStore) MarkCompleted(ctx context.Context, id string, artifact models.Artifact) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE submissions
		SET status = ?, artifact_filename = ?, artifact_kind = ?, artifact_content = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		string(models.StatusCompleted), artifact.Filename, string(artifact.Kind), artifact.Content,
		formatTime(time.Now().UTC()), id, string(models.StatusProcessing),
	)
	if err != nil {
		return fmt.Errorf("failed to mark submission completed: %w", err)
	}
	return s.checkTerminalWrite(ctx, id, res)
}

func (s *SQLiteStore) MarkFailed(ctx context.Context, id, cause string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE submissions
		SET status = ?, failure_cause = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		string(models.StatusFailed), cause,
		formatTime(time.Now().UTC()), id, string(models.StatusProcessing),
	)
	if err != nil {
		return fmt.Errorf("failed to mark submission failed: %w", err)
	}
	return s.checkTerminalWrite(ctx, id, res)
}

// checkTerminalWrite distinguishes "no such submission" from "terminal state
// already written" when a guarded update matched no rows.
func (s *SQLiteStore) checkTerminalWrite(ctx context.Context, id string, res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to inspect update result: %w", err)
	}
	if affected > 0 {
		return nil
	}

	var status string
	err = s.db.QueryRowContext(ctx, `SELECT status FROM submissions WHERE id = ?`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check submission status: %w", err)
	}
	return fmt.Errorf("%w: status is %s", ErrFinalized, status)
}

func (s *SQLiteStore) ListSubmissions(ctx context.Context) ([]models.SubmissionSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, txt_filename, csv_filename, artifact_filename, status, created_at
		FROM submissions ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	summaries := make([]models.SubmissionSummary, 0)
	for rows.Next() {
		var (
			summary          models.SubmissionSummary
			artifactFilename sql.NullString
			status           string
			createdAt        string
		)
		if err := rows.Scan(
			&summary.ID, &summary.TxtFilename, &summary.CSVFilename,
			&artifactFilename, &status, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan submission row: %w", err)
		}
		summary.ArtifactFilename = artifactFilename.String
		summary.Status = models.SubmissionStatus(status)
		summary.CreatedAt = parseTime(createdAt)
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

func (s *SQLiteStore) SaveChatMessage(ctx context.Context, msg *models.ChatMessage) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_messages (user_message, bot_response, created_at)
		VALUES (?, ?, ?)`,
		msg.UserMessage, msg.BotResponse, formatTime(msg.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert chat message: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		msg.ID = id
	}
	return nil
}

func (s *SQLiteStore) ListChatMessages(ctx context.Context) ([]models.ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_message, bot_response, created_at
		FROM chat_messages ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.ChatMessage, 0)
	for rows.Next() {
		var (
			msg       models.ChatMessage
			createdAt string
		)
		if err := rows.Scan(&msg.ID, &msg.UserMessage, &msg.BotResponse, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat message row: %w", err)
		}
		msg.CreatedAt = parseTime(createdAt)
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
