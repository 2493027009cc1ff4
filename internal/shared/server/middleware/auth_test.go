package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"acen-backend/internal/shared/auth"
)

type staticUsers map[string]bool

func (s staticUsers) Exists(ctx context.Context, userID string) (bool, error) {
	if userID == "broken" {
		return false, errors.New("db down")
	}
	return s[userID], nil
}

func newAuthRouter(cfg AuthConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth(cfg))
	router.GET("/who", func(c *gin.Context) {
		c.String(http.StatusOK, UserIDFromContext(c))
	})
	router.OPTIONS("/who", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestAuthAllowsOptionsWithoutIdentity(t *testing.T) {
	router := newAuthRouter(AuthConfig{})
	resp := serve(router, httptest.NewRequest(http.MethodOptions, "/who", nil))
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestAuthHeaderIdentity(t *testing.T) {
	router := newAuthRouter(AuthConfig{AllowHeaderIdentity: true, Users: staticUsers{"u1": true}})

	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set("X-User-Id", "u1")
	resp := serve(router, req)
	if resp.Code != http.StatusOK || resp.Body.String() != "u1" {
		t.Fatalf("expected 200 u1, got %d %q", resp.Code, resp.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set("X-User-Id", "ghost")
	if resp := serve(router, req); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown user, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set("X-User-Id", "broken")
	if resp := serve(router, req); resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on lookup failure, got %d", resp.Code)
	}
}

func TestAuthRejectsMissingIdentity(t *testing.T) {
	router := newAuthRouter(AuthConfig{AllowHeaderIdentity: false})

	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set("X-User-Id", "u1")
	if resp := serve(router, req); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 when header identity disabled, got %d", resp.Code)
	}
}

func TestAuthBearerToken(t *testing.T) {
	signer, err := auth.NewSigner("secret", time.Hour)
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	token, err := signer.Sign("u2", "")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	router := newAuthRouter(AuthConfig{Tokens: signer})

	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := serve(router, req)
	if resp.Code != http.StatusOK || resp.Body.String() != "u2" {
		t.Fatalf("expected 200 u2, got %d %q", resp.Code, resp.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set("Authorization", "Bearer nope")
	if resp := serve(router, req); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", resp.Code)
	}
}
