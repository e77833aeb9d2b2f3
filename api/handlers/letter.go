package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arcthaneaidelta/Docx-generation-with-database/internal/docx"
	"github.com/arcthaneaidelta/Docx-generation-with-database/internal/letter"
	"github.com/arcthaneaidelta/Docx-generation-with-database/internal/models"
	"github.com/arcthaneaidelta/Docx-generation-with-database/internal/service/submission"
	"github.com/arcthaneaidelta/Docx-generation-with-database/pkg/logger"
)

type LetterHandler struct {
	renderer *docx.Renderer
	logger   logger.Logger
}

func NewLetterHandler(renderer *docx.Renderer, log logger.Logger) *LetterHandler {
	return &LetterHandler{renderer: renderer, logger: log}
}

// Render produces a populated letter from a flat JSON field record. Every
// schema field is optional; absent fields substitute as empty values.
func (h *LetterHandler) Render(c *gin.Context) {
	record, ok := h.bindRecord(c)
	if !ok {
		return
	}

	document, err := h.renderer.Render(letter.Resolve(record))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	filename := docx.GeneratedFilename()
	h.logger.Info("Letter rendered", logger.String("filename", filename))

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("X-Generated-Document", filename)
	c.Data(http.StatusOK, models.WordMIME, document)
}

// FieldPreview is one resolved field in a styling preview.
type FieldPreview struct {
	Style string `json:"style"`
	Text  string `json:"text"`
}

// Preview returns the resolved styling for a field record without touching
// the template. Useful for debugging template variables.
func (h *LetterHandler) Preview(c *gin.Context) {
	record, ok := h.bindRecord(c)
	if !ok {
		return
	}

	resolved := letter.Resolve(record)
	preview := make(map[string]FieldPreview, len(resolved))
	for name, value := range resolved {
		preview[name] = FieldPreview{
			Style: letter.StyleOf(name).String(),
			Text:  value.Text(),
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"fields":         preview,
		"totalFields":    len(preview),
		"richTextFields": letter.CountRich(resolved),
	})
}

// TemplateInfo reports on the template resource.
func (h *LetterHandler) TemplateInfo(c *gin.Context) {
	info := h.renderer.Info()
	if !info.Exists {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Code:    "template_missing",
			Message: "template file not found",
		})
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *LetterHandler) bindRecord(c *gin.Context) (map[string]string, bool) {
	var record map[string]string
	if err := c.ShouldBindJSON(&record); err != nil {
		writeError(c, h.logger, fmt.Errorf("%w: %v", submission.ErrValidation, err))
		return nil, false
	}
	return record, true
}
