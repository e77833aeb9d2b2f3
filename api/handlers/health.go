package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arcthaneaidelta/Docx-generation-with-database/internal/docx"
)

const serviceVersion = "1.0.0"

type HealthHandler struct {
	renderer *docx.Renderer
}

func NewHealthHandler(renderer *docx.Renderer) *HealthHandler {
	return &HealthHandler{renderer: renderer}
}

// Check reports service health. A missing template degrades the service but
// does not take it down: uploads and status queries still work.
func (h *HealthHandler) Check(c *gin.Context) {
	info := h.renderer.Info()

	status := "healthy"
	if !info.Exists {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":            status,
		"service":           "demand-letter-generator",
		"templateAvailable": info.Exists,
		"version":           serviceVersion,
	})
}
