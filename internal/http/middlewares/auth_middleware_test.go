package middlewares_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/okellodavid/revealhub/internal/auth"
	"github.com/okellodavid/revealhub/internal/http/middlewares"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeVerifier struct {
	verifyFn func(token string) (*auth.Claims, error)
}

func (f *fakeVerifier) Verify(token string) (*auth.Claims, error) {
	return f.verifyFn(token)
}

// mounts RequireAuth in front of a probe handler that echoes the identity
func setupAuthRouter(v middlewares.TokenVerifier) *gin.Engine {
	m := middlewares.NewAuthMiddleware(v)

	r := gin.New()
	r.GET("/probe", m.RequireAuth(), func(c *gin.Context) {
		email, ok := middlewares.EmailFromContext(c)

		if !ok {
			c.String(http.StatusInternalServerError, "identity missing after auth")
			return
		}

		c.String(http.StatusOK, email)
	})

	return r
}

func TestRequireAuth(t *testing.T) {
	accept := &fakeVerifier{
		verifyFn: func(token string) (*auth.Claims, error) {
			if token != "good-token" {
				return nil, auth.ErrInvalidToken
			}
			return &auth.Claims{Email: "a@x.com"}, nil
		},
	}

	tests := []struct {
		name           string
		header         string
		verifier       middlewares.TokenVerifier
		wantStatusCode int
		wantBody       string
	}{
		{
			name:           "valid_token_passes_email",
			header:         "Bearer good-token",
			verifier:       accept,
			wantStatusCode: http.StatusOK,
			wantBody:       "a@x.com",
		},
		{
			name:           "missing_header",
			header:         "",
			verifier:       accept,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "wrong_scheme",
			header:         "Basic dXNlcjpwdw==",
			verifier:       accept,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "empty_bearer",
			header:         "Bearer ",
			verifier:       accept,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:   "rejected_token",
			header: "Bearer bad-token",
			verifier: &fakeVerifier{
				verifyFn: func(token string) (*auth.Claims, error) {
					return nil, errors.New("signature mismatch")
				},
			},
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			r := setupAuthRouter(tt.verifier)

			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantBody != "" && w.Body.String() != tt.wantBody {
				t.Fatalf("got body %q, want %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRequireAuthWithRealTokens(t *testing.T) {
	m := auth.NewManager("test-secret", time.Hour)

	token, err := m.Issue("real@x.com")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	r := setupAuthRouter(m)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	if w.Body.String() != "real@x.com" {
		t.Fatalf("got identity %q, want real@x.com", w.Body.String())
	}
}
