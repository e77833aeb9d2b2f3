package models

import (
	"strings"
	"time"
)

// SubmissionStatus tracks a submission through its lifecycle. Transitions are
// monotonic: processing moves to completed or failed exactly once, and a
// terminal status never changes again.
type SubmissionStatus string

const (
	StatusProcessing SubmissionStatus = "processing"
	StatusCompleted  SubmissionStatus = "completed"
	StatusFailed     SubmissionStatus = "failed"
)

// ArtifactKind identifies the payload shape of a generated artifact and
// selects its download MIME type.
type ArtifactKind string

const (
	ArtifactWord   ArtifactKind = "word"
	ArtifactCSV    ArtifactKind = "csv"
	ArtifactText   ArtifactKind = "text"
	ArtifactBinary ArtifactKind = "binary"
)

const WordMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// MIME returns the content type served when the artifact is downloaded.
func (k ArtifactKind) MIME() string {
	switch k {
	case ArtifactWord:
		return WordMIME
	case ArtifactCSV:
		return "text/csv"
	case ArtifactText:
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}

// Extension returns the filename extension matching the artifact kind.
func (k ArtifactKind) Extension() string {
	switch k {
	case ArtifactWord:
		return ".docx"
	case ArtifactCSV:
		return ".csv"
	case ArtifactText:
		return ".txt"
	default:
		return ".bin"
	}
}

// KindFromContentType maps an upstream Content-Type header to an ArtifactKind.
func KindFromContentType(contentType string) ArtifactKind {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "wordprocessingml"):
		return ArtifactWord
	case strings.Contains(ct, "text/csv"):
		return ArtifactCSV
	case strings.HasPrefix(ct, "text/"):
		return ArtifactText
	default:
		return ArtifactBinary
	}
}

// Artifact is the generated document stored once a submission completes.
type Artifact struct {
	Filename string       `json:"filename"`
	Kind     ArtifactKind `json:"kind"`
	Content  []byte       `json:"-"`
}

// Submission bundles the two uploaded inputs, the optional message, and the
// generation outcome.
type Submission struct {
	ID           string           `json:"id"`
	TxtFilename  string           `json:"txtFilename"`
	CSVFilename  string           `json:"csvFilename"`
	TxtContent   []byte           `json:"-"`
	CSVContent   []byte           `json:"-"`
	Message      string           `json:"message,omitempty"`
	Status       SubmissionStatus `json:"status"`
	FailureCause string           `json:"failureCause,omitempty"`
	Artifact     *Artifact        `json:"artifact,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// SubmissionSummary is the listing row returned by the history endpoint.
type SubmissionSummary struct {
	ID               string           `json:"id"`
	TxtFilename      string           `json:"txtFilename"`
	CSVFilename      string           `json:"csvFilename"`
	ArtifactFilename string           `json:"artifactFilename,omitempty"`
	Status           SubmissionStatus `json:"status"`
	CreatedAt        time.Time        `json:"createdAt"`
}

// ChatMessage is one relayed exchange with the chat webhook.
type ChatMessage struct {
	ID          int64     `json:"id"`
	UserMessage string    `json:"userMessage"`
	BotResponse string    `json:"botResponse"`
	CreatedAt   time.Time `json:"createdAt"`
}
