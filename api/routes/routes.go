package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/arcthaneaidelta/Docx-generation-with-database/api/handlers"
	"github.com/arcthaneaidelta/Docx-generation-with-database/api/middleware"
)

// SetupRoutes wires all endpoints.
func SetupRoutes(r *gin.Engine, h *handlers.Handlers) {
	r.Use(middleware.CORS())

	r.GET("/health", h.Health.Check)

	v1 := r.Group("/api/v1")

	subs := v1.Group("/submissions")
	{
		subs.POST("", h.Submission.Submit)
		subs.GET("", h.Submission.History)
		subs.GET("/:id/status", h.Submission.Status)
		subs.GET("/:id/download", h.Submission.Download)
	}

	letters := v1.Group("/letters")
	{
		letters.POST("/render", h.Letter.Render)
		letters.POST("/preview", h.Letter.Preview)
	}
	v1.GET("/template/info", h.Letter.TemplateInfo)

	chat := v1.Group("/chat")
	{
		chat.POST("", h.Chat.Send)
		chat.GET("/history", h.Chat.History)
	}
}
