package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akhilvs/sarvajna/internal/domain/assistant"
	"github.com/akhilvs/sarvajna/internal/domain/auth"
	"github.com/akhilvs/sarvajna/internal/domain/kb"
	apperrors "github.com/akhilvs/sarvajna/pkg/errors"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	assistantSvc assistant.Service
	authSvc      auth.Service
	logger       *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(assistantSvc assistant.Service, authSvc auth.Service, logger *slog.Logger) *Handler {
	return &Handler{
		assistantSvc: assistantSvc,
		authSvc:      authSvc,
		logger:       logger.With("component", "http.handler"),
	}
}

// Ask answers a question against the knowledge base.
func (h *Handler) Ask(c *gin.Context) {
	var req assistant.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.assistantSvc.Answer(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, assistantError(err, "ask_failed"))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Speak answers a question and synthesizes the answer as audio.
func (h *Handler) Speak(c *gin.Context) {
	var req assistant.VoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.assistantSvc.Speak(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, assistantError(err, "speak_failed"))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Trending returns the most asked questions.
func (h *Handler) Trending(c *gin.Context) {
	items, err := h.assistantSvc.Trending(c.Request.Context())
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "trending_failed", errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": items})
}

// ListEntries returns every knowledge base entry for admin review.
func (h *Handler) ListEntries(c *gin.Context) {
	entries, err := h.assistantSvc.ListEntries(c.Request.Context())
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "kb_error", errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// ReloadKB refreshes knowledge base entries from the backing source.
func (h *Handler) ReloadKB(c *gin.Context) {
	if err := h.assistantSvc.ReloadEntries(c.Request.Context()); err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "reload_failed", errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reloaded"})
}

// UpsertEntry creates or replaces a knowledge base entry.
func (h *Handler) UpsertEntry(c *gin.Context) {
	var entry kb.Entry
	if err := c.ShouldBindJSON(&entry); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	if err := h.assistantSvc.SaveEntry(c.Request.Context(), entry); err != nil {
		status := http.StatusInternalServerError
		code := "upsert_failed"
		if apperrors.IsCode(err, "invalid_input") {
			status = http.StatusBadRequest
			code = "invalid_request"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved", "id": entry.ID})
}

func assistantError(err error, fallback string) *HTTPError {
	status := http.StatusInternalServerError
	code := fallback
	switch {
	case apperrors.IsCode(err, "invalid_input"):
		status = http.StatusBadRequest
		code = "invalid_request"
	case apperrors.IsCode(err, "llm_error"):
		status = http.StatusBadGateway
		code = "llm_error"
	case apperrors.IsCode(err, "tts_error"):
		status = http.StatusBadGateway
		code = "tts_error"
	case apperrors.IsCode(err, "kb_error"):
		status = http.StatusInternalServerError
		code = "kb_error"
	}
	return NewHTTPError(status, code, errMessage(err), err)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
