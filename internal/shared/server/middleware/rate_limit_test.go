package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimiterAllowsBurstThenBlocks(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(1, 2, func() time.Time { return now })

	for i := 0; i < 2; i++ {
		if ok, _ := limiter.Allow("user-1"); !ok {
			t.Fatalf("expected request %d within burst to pass", i+1)
		}
	}
	ok, retryAfter := limiter.Allow("user-1")
	if ok {
		t.Fatalf("expected third request to be limited")
	}
	if retryAfter <= 0 || retryAfter > time.Second {
		t.Fatalf("unexpected retryAfter: %s", retryAfter)
	}

	if ok, _ := limiter.Allow("user-2"); !ok {
		t.Fatalf("expected independent bucket per key")
	}

	now = now.Add(time.Second)
	if ok, _ := limiter.Allow("user-1"); !ok {
		t.Fatalf("expected refill after one second")
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	limiter := NewRateLimiter(0, 0, nil)
	for i := 0; i < 10; i++ {
		if ok, _ := limiter.Allow("k"); !ok {
			t.Fatalf("expected disabled limiter to allow")
		}
	}
}

func TestRateLimitMiddlewareSetsRetryAfter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(0.5, 1, func() time.Time { return now })

	router := gin.New()
	router.POST("/generate", RateLimit(limiter), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/generate", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/generate", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", second.Code)
	}
	if got := second.Header().Get("Retry-After"); got != "2" {
		t.Fatalf("expected Retry-After 2, got %q", got)
	}
}
