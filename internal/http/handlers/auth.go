package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/okellodavid/revealhub/internal/auth"
	"github.com/okellodavid/revealhub/internal/config"
	"github.com/okellodavid/revealhub/internal/domain/user"
	"github.com/okellodavid/revealhub/internal/observability"
	"github.com/okellodavid/revealhub/internal/repo/postgres"
	"github.com/okellodavid/revealhub/internal/security"
)

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, email, passwordHash string) (user.User, error)
}

type AuthHandler struct {
	users      UserReader
	userWriter UserWriter
	jwt        *auth.Manager
	prom       *observability.Prom
}

func NewAuthHandler(users UserReader, userWriter UserWriter, jwtManager *auth.Manager, prom *observability.Prom) *AuthHandler {
	return &AuthHandler{
		users:      users,
		userWriter: userWriter,
		jwt:        jwtManager,
		prom:       prom,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) countLogin(result string) {
	if h.prom != nil {
		h.prom.LoginsTotal.WithLabelValues(result).Inc()
	}
}

// Login verifies credentials and hands out a session token. An unseen email
// creates the account on the spot: the password doubles as a self-chosen
// secret on first use. That is a deliberate product decision carried over
// from the promo's launch, not a missing registration flow.
func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		h.countLogin("rejected")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, req.Email)

	switch {
	case err == nil:
		err = security.CheckPassword(foundUser.PasswordHash, req.Password)

		if err != nil {
			h.countLogin("rejected")
			RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
			return
		}

		h.countLogin("ok")

	case errors.Is(err, user.ErrNotFound):
		created, createErr := h.createAccount(cctx, req)

		if createErr != nil {
			h.countLogin("error")
			RespondInternal(ctx, "Could not create account")
			return
		}

		if !created {
			// lost a creation race; the winner's password decides
			h.countLogin("rejected")
			RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
			return
		}

		h.countLogin("created")

	default:
		h.countLogin("error")
		RespondInternal(ctx, "Could not log in")
		return
	}

	token, err := h.jwt.Issue(req.Email)

	if err != nil {
		h.countLogin("error")
		RespondInternal(ctx, "Could not generate session token")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"email":   req.Email,
		"token":   token,
	})
}

// createAccount hashes the password and inserts the user. If a concurrent
// login created the account first, the supplied password is re-checked
// against the stored hash; created=false means that check failed.
func (h *AuthHandler) createAccount(ctx context.Context, req LoginRequest) (created bool, err error) {
	hash, err := security.HashPassword(req.Password)

	if err != nil {
		return
	}

	_, err = h.userWriter.Create(ctx, req.Email, hash)

	if err == nil {
		created = true
		return
	}

	if !errors.Is(err, postgres.ErrEmailAlreadyUsed) {
		return
	}

	existing, err := h.users.GetByEmail(ctx, req.Email)

	if err != nil {
		return
	}

	if security.CheckPassword(existing.PasswordHash, req.Password) == nil {
		created = true
	}

	return created, nil
}
