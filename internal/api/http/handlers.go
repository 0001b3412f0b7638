// Package http exposes the REST surface: the chat workflow, direct image
// generation, and service status endpoints.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eurekastudio/creative-backend/internal/gateway"
	"github.com/eurekastudio/creative-backend/internal/infrastructure/logging"
	"github.com/eurekastudio/creative-backend/internal/shared/apperr"
	"github.com/eurekastudio/creative-backend/internal/shared/types"
)

// Responder runs one chat turn.
type Responder interface {
	Respond(ctx context.Context, req types.ChatRequest) (*types.ChatResponse, error)
}

// ImageGenerator produces an image URL from a prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (*gateway.Result, error)
}

// Handler holds the HTTP handlers and their collaborators.
type Handler struct {
	chat      Responder
	images    ImageGenerator
	logger    *logging.Logger
	startTime time.Time
}

// NewHandler creates the handler set.
func NewHandler(chat Responder, images ImageGenerator, logger *logging.Logger) *Handler {
	return &Handler{
		chat:      chat,
		images:    images,
		logger:    logger,
		startTime: time.Now(),
	}
}

// Chat handles POST /chat.
func (h *Handler) Chat(c *gin.Context) {
	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "success": false})
		return
	}
	if req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required", "success": false})
		return
	}

	resp, err := h.chat.Respond(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "chat", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GenerateImage handles POST /generate-image.
func (h *Handler) GenerateImage(c *gin.Context) {
	var req types.ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "success": false})
		return
	}
	if req.Prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt is required", "success": false})
		return
	}

	res, err := h.images.GenerateImage(c.Request.Context(), req.Prompt)
	if err != nil {
		var appErr *apperr.Error
		// No URL could be extracted: include the raw provider payload so the
		// wrong-model-capability case is diagnosable from the response alone.
		if apperr.As(err, &appErr) && appErr.Code == "unparseable-response" {
			h.logger.Error("image generation unparseable", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   appErr.Message,
				"details": string(appErr.Raw),
				"success": false,
			})
			return
		}
		h.fail(c, "generate-image", err)
		return
	}

	c.JSON(http.StatusOK, types.ImageResponse{
		ImageURL: res.Text,
		Prompt:   req.Prompt,
		Success:  true,
	})
}

// Root handles GET /.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "creative-backend",
		"status":  "running",
		"version": "1.0.0",
	})
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"uptime_seconds": int(time.Since(h.startTime).Seconds()),
	})
}

// fail maps a workflow error onto the response contract. Configuration
// problems surface as 503 without operational detail; provider failures pass
// the upstream status through when one was recorded.
func (h *Handler) fail(c *gin.Context, operation string, err error) {
	status := apperr.HTTPStatus(err)
	h.logger.Error("request failed",
		zap.String("operation", operation),
		zap.Int("status", status),
		zap.Error(err),
	)

	msg := "Internal server error"
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindProvider:
		var appErr *apperr.Error
		if apperr.As(err, &appErr) {
			msg = appErr.Message
		}
	case apperr.KindConfiguration:
		msg = "Service temporarily unavailable"
	}

	c.JSON(status, gin.H{"error": msg, "success": false})
}
