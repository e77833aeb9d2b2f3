package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arcthaneaidelta/Docx-generation-with-database/internal/service/submission"
	"github.com/arcthaneaidelta/Docx-generation-with-database/pkg/logger"
)

type SubmissionHandler struct {
	svc    *submission.Service
	logger logger.Logger
}

func NewSubmissionHandler(svc *submission.Service, log logger.Logger) *SubmissionHandler {
	return &SubmissionHandler{svc: svc, logger: log}
}

// SubmitResponse acknowledges an accepted upload.
type SubmitResponse struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	TxtFilename string `json:"txtFilename"`
	CSVFilename string `json:"csvFilename"`
	CreatedAt   string `json:"createdAt"`
}

// Submit accepts the two input files plus an optional message and responds
// with the new submission identifier. Generation runs in the background.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	txtHeader, _ := c.FormFile("txt_file")
	csvHeader, _ := c.FormFile("csv_file")
	message := c.PostForm("message")

	sub, err := h.svc.Submit(c.Request.Context(), txtHeader, csvHeader, message)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusAccepted, SubmitResponse{
		ID:          sub.ID,
		Status:      string(sub.Status),
		TxtFilename: sub.TxtFilename,
		CSVFilename: sub.CSVFilename,
		CreatedAt:   sub.CreatedAt.Format(time.RFC3339),
	})
}

// Status reports the current lifecycle state of a submission.
func (h *SubmissionHandler) Status(c *gin.Context) {
	summary, err := h.svc.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	var artifactFilename *string
	if summary.ArtifactFilename != "" {
		artifactFilename = &summary.ArtifactFilename
	}

	c.JSON(http.StatusOK, gin.H{
		"id":               summary.ID,
		"status":           string(summary.Status),
		"artifactFilename": artifactFilename,
	})
}

// Download streams the stored artifact with its persisted filename and a MIME
// type derived from the artifact kind.
func (h *SubmissionHandler) Download(c *gin.Context) {
	artifact, err := h.svc.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	c.Data(http.StatusOK, artifact.Kind.MIME(), artifact.Content)
}

// History lists all submissions, newest first.
func (h *SubmissionHandler) History(c *gin.Context) {
	summaries, err := h.svc.History(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submissions": summaries,
		"count":       len(summaries),
	})
}
