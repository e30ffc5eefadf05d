package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CountdownHandler serves the public countdown to the reveal date. No auth:
// the landing page polls this before anyone logs in.
type CountdownHandler struct {
	revealAt time.Time
	now      func() time.Time
}

func NewCountdownHandler(revealAt time.Time) *CountdownHandler {
	return &CountdownHandler{
		revealAt: revealAt,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (h *CountdownHandler) Countdown(ctx *gin.Context) {
	if h.revealAt.IsZero() {
		RespondNotFound(ctx, "No reveal scheduled")
		return
	}

	now := h.now()
	remaining := h.revealAt.Sub(now)

	if remaining < 0 {
		remaining = 0
	}

	ctx.JSON(http.StatusOK, gin.H{
		"revealAt":         h.revealAt.Format(time.RFC3339),
		"now":              now.Format(time.RFC3339),
		"remainingSeconds": int64(remaining.Seconds()),
		"revealed":         !now.Before(h.revealAt),
	})
}
