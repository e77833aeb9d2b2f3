package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arcthaneaidelta/Docx-generation-with-database/internal/docx"
	"github.com/arcthaneaidelta/Docx-generation-with-database/internal/service/submission"
	"github.com/arcthaneaidelta/Docx-generation-with-database/internal/store"
	"github.com/arcthaneaidelta/Docx-generation-with-database/pkg/logger"
)

type Handlers struct {
	Submission *SubmissionHandler
	Letter     *LetterHandler
	Chat       *ChatHandler
	Health     *HealthHandler
}

func NewHandlers(svc *submission.Service, renderer *docx.Renderer, log logger.Logger) *Handlers {
	return &Handlers{
		Submission: NewSubmissionHandler(svc, log),
		Letter:     NewLetterHandler(renderer, log),
		Chat:       NewChatHandler(svc, log),
		Health:     NewHealthHandler(renderer),
	}
}

// ErrorResponse is the uniform error body. Code is a stable machine-readable
// tag, one per error taxonomy bucket.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps domain sentinels to HTTP status codes. Each taxonomy
// bucket gets a distinct code so callers can tell them apart.
func writeError(c *gin.Context, log logger.Logger, err error) {
	var status int
	var code string

	switch {
	case errors.Is(err, submission.ErrValidation):
		status, code = http.StatusBadRequest, "validation_error"
	case errors.Is(err, store.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, store.ErrNotReady):
		status, code = http.StatusConflict, "not_ready"
	case errors.Is(err, docx.ErrUnresolvedPlaceholder):
		status, code = http.StatusBadRequest, "unresolved_placeholder"
	case errors.Is(err, docx.ErrTemplateNotFound), errors.Is(err, docx.ErrMalformedTemplate):
		status, code = http.StatusInternalServerError, "template_missing"
	default:
		status, code = http.StatusInternalServerError, "internal_error"
	}

	if status >= http.StatusInternalServerError {
		log.Error("Request failed",
			logger.String("path", c.Request.URL.Path),
			logger.String("code", code),
			logger.Error(err),
		)
	}

	c.JSON(status, ErrorResponse{Code: code, Message: err.Error()})
}
