package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type countdownBody struct {
	RevealAt         string `json:"revealAt"`
	Now              string `json:"now"`
	RemainingSeconds int64  `json:"remainingSeconds"`
	Revealed         bool   `json:"revealed"`
}

func serveCountdown(t *testing.T, h *CountdownHandler) (int, countdownBody) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/countdown", h.Countdown)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/countdown", nil))

	var body countdownBody
	if w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to unmarshal response: %v, body=%s", err, w.Body.String())
		}
	}

	return w.Code, body
}

func TestCountdownBeforeReveal(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	revealAt := now.Add(48 * time.Hour)

	h := NewCountdownHandler(revealAt)
	h.now = func() time.Time { return now }

	code, body := serveCountdown(t, h)

	if code != http.StatusOK {
		t.Fatalf("got status %d, want %d", code, http.StatusOK)
	}

	if body.Revealed {
		t.Fatalf("reveal date is in the future, revealed should be false")
	}

	if body.RemainingSeconds != 48*3600 {
		t.Fatalf("got remainingSeconds=%d, want %d", body.RemainingSeconds, 48*3600)
	}

	if body.RevealAt != revealAt.Format(time.RFC3339) {
		t.Fatalf("got revealAt=%q, want %q", body.RevealAt, revealAt.Format(time.RFC3339))
	}
}

func TestCountdownAfterReveal(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	h := NewCountdownHandler(now.Add(-time.Hour))
	h.now = func() time.Time { return now }

	code, body := serveCountdown(t, h)

	if code != http.StatusOK {
		t.Fatalf("got status %d, want %d", code, http.StatusOK)
	}

	if !body.Revealed {
		t.Fatalf("reveal date has passed, revealed should be true")
	}

	if body.RemainingSeconds != 0 {
		t.Fatalf("got remainingSeconds=%d, want 0", body.RemainingSeconds)
	}
}

func TestCountdownUnscheduled(t *testing.T) {
	h := NewCountdownHandler(time.Time{})

	code, _ := serveCountdown(t, h)

	if code != http.StatusNotFound {
		t.Fatalf("got status %d, want %d", code, http.StatusNotFound)
	}
}
