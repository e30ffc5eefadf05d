package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/okellodavid/revealhub/internal/cache"
	"github.com/okellodavid/revealhub/internal/config"
	"github.com/okellodavid/revealhub/internal/domain/grid"
	"github.com/okellodavid/revealhub/internal/domain/user"
	"github.com/okellodavid/revealhub/internal/http/middlewares"
	"github.com/okellodavid/revealhub/internal/observability"
)

type GridStore interface {
	GetOrCreate(ctx context.Context, email string) (grid.State, bool, error)
	Select(ctx context.Context, email string, row, col, limit int, window time.Duration) (grid.SelectResult, error)
}

type GameGridHandler struct {
	grids GridStore
	users UserReader
	cache *cache.Cache
	prom  *observability.Prom

	limit         int
	window        time.Duration
	hiddenNumbers map[int]struct{}
}

func NewGameGridHandler(grids GridStore, users UserReader, c *cache.Cache, prom *observability.Prom, cfg config.Config) *GameGridHandler {
	hidden := make(map[int]struct{}, len(cfg.HiddenNumbers))

	for _, n := range cfg.HiddenNumbers {
		hidden[n] = struct{}{}
	}

	return &GameGridHandler{
		grids:         grids,
		users:         users,
		cache:         c,
		prom:          prom,
		limit:         cfg.SelectionLimit,
		window:        cfg.SelectionWindow(),
		hiddenNumbers: hidden,
	}
}

func (h *GameGridHandler) countSelection(result string) {
	if h.prom != nil {
		h.prom.SelectionsTotal.WithLabelValues(result).Inc()
	}
}

type gridStateResponse struct {
	Grid          grid.Cells       `json:"grid"`
	Selections    []grid.Selection `json:"selections"`
	LastSelection *time.Time       `json:"lastSelection"`
}

// GetState returns the caller's grid, creating one on first sight.
func (h *GameGridHandler) GetState(ctx *gin.Context) {
	email, ok := middlewares.EmailFromContext(ctx)

	if !ok || email == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	if !h.requireUser(ctx, cctx, email) {
		return
	}

	if h.cache != nil {
		if cached, ok := h.cache.Get(email); ok {
			if resp, ok := cached.(gridStateResponse); ok {
				RespondJSONWithETag(ctx, http.StatusOK, resp)
				return
			}
		}
	}

	st, created, err := h.grids.GetOrCreate(cctx, email)

	if err != nil {
		RespondInternal(ctx, "Could not load game grid")
		return
	}

	if created && h.prom != nil {
		h.prom.GridsCreatedTotal.Inc()
	}

	resp := gridStateResponse{
		Grid:          st.Cells,
		Selections:    st.Selections,
		LastSelection: st.LastSelection,
	}

	if h.cache != nil {
		h.cache.Set(email, resp)
	}

	RespondJSONWithETag(ctx, http.StatusOK, resp)
}

// Select reveals one cell, subject to the rolling selection cap. Selecting
// an already revealed cell succeeds without consuming an attempt.
func (h *GameGridHandler) Select(ctx *gin.Context) {
	email, ok := middlewares.EmailFromContext(ctx)

	if !ok || email == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	var req grid.SelectRequest

	if !BindJSON(ctx, &req) {
		h.countSelection("rejected")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	if !h.requireUser(ctx, cctx, email) {
		return
	}

	// lazy grid creation, same as GET
	_, created, err := h.grids.GetOrCreate(cctx, email)

	if err != nil {
		RespondInternal(ctx, "Could not load game grid")
		return
	}

	if created && h.prom != nil {
		h.prom.GridsCreatedTotal.Inc()
	}

	res, err := h.grids.Select(cctx, email, *req.Row, *req.Col, h.limit, h.window)

	if err != nil {
		var rateErr *grid.RateLimitError

		switch {
		case errors.As(err, &rateErr):
			h.countSelection("rate_limited")
			RespondRateLimited(ctx, "You can only make three selections per day", rateErr.Remaining)
		case errors.Is(err, grid.ErrOutOfBounds):
			h.countSelection("rejected")
			RespondBadRequest(ctx, "row and col must be within the grid", nil)
		case errors.Is(err, grid.ErrNotFound):
			RespondNotFound(ctx, "Game grid not found")
		default:
			RespondInternal(ctx, "Could not record selection")
		}
		return
	}

	if res.Repeat {
		h.countSelection("repeat")
	} else {
		h.countSelection("accepted")

		if h.cache != nil {
			h.cache.Delete(email)
		}
	}

	_, isCorrect := h.hiddenNumbers[res.Value]

	ctx.JSON(http.StatusOK, gin.H{
		"success":   true,
		"value":     res.Value,
		"isCorrect": isCorrect,
	})
}

// requireUser answers 404 for identities whose account vanished from the
// store, matching the original surface.
func (h *GameGridHandler) requireUser(ctx *gin.Context, cctx context.Context, email string) bool {
	_, err := h.users.GetByEmail(cctx, email)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return false
		}

		RespondInternal(ctx, "Could not load user")
		return false
	}

	return true
}
