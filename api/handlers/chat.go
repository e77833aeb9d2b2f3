package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arcthaneaidelta/Docx-generation-with-database/internal/service/submission"
	"github.com/arcthaneaidelta/Docx-generation-with-database/pkg/logger"
)

type ChatHandler struct {
	svc    *submission.Service
	logger logger.Logger
}

func NewChatHandler(svc *submission.Service, log logger.Logger) *ChatHandler {
	return &ChatHandler{svc: svc, logger: log}
}

type chatRequest struct {
	Message string `json:"message"`
}

// Send relays a message to the chat webhook and returns the reply.
func (h *ChatHandler) Send(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "validation_error",
			Message: "request body must be JSON with a message field",
		})
		return
	}

	reply, err := h.svc.Chat(c.Request.Context(), req.Message)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": reply})
}

// History lists relayed chat exchanges in order.
func (h *ChatHandler) History(c *gin.Context) {
	messages, err := h.svc.ChatHistory(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"count":    len(messages),
	})
}
