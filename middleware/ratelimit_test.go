package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimiterWithinLimit(t *testing.T) {
	rl := NewRateLimiter(5, 1*time.Minute)
	defer rl.Close()
	for i := 0; i < 5; i++ {
		if ok, _ := rl.allow("1.2.3.4"); !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
}

func TestRateLimiterOverLimit(t *testing.T) {
	rl := NewRateLimiter(2, 1*time.Minute)
	defer rl.Close()
	rl.allow("1.2.3.4")
	rl.allow("1.2.3.4")
	ok, wait := rl.allow("1.2.3.4")
	if ok {
		t.Fatal("should be rate limited")
	}
	if wait <= 0 || wait > 30*time.Second {
		t.Errorf("unexpected wait %v", wait)
	}
}

func TestRateLimiterTokenRefill(t *testing.T) {
	rl := NewRateLimiter(1, 50*time.Millisecond)
	defer rl.Close()
	rl.allow("1.2.3.4")
	if ok, _ := rl.allow("1.2.3.4"); ok {
		t.Fatal("should be rate limited immediately")
	}
	time.Sleep(60 * time.Millisecond)
	if ok, _ := rl.allow("1.2.3.4"); !ok {
		t.Fatal("token should have refilled")
	}
}

func TestRateLimiterDifferentKeys(t *testing.T) {
	rl := NewRateLimiter(1, 1*time.Minute)
	defer rl.Close()
	rl.allow("1.1.1.1")
	if ok, _ := rl.allow("2.2.2.2"); !ok {
		t.Fatal("different key should have its own bucket")
	}
}

func TestRateLimiterMiddleware429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(1, 1*time.Minute)
	defer rl.Close()

	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/fee", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
	r.GET("/orders", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, httptest.NewRequest("GET", "/fee", nil))
	if w1.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w1.Code)
	}

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest("GET", "/fee", nil))
	if w2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w2.Code)
	}
	if w2.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}

	// buckets are per route
	w3 := httptest.NewRecorder()
	r.ServeHTTP(w3, httptest.NewRequest("GET", "/orders", nil))
	if w3.Code != http.StatusOK {
		t.Fatalf("expected 200 on another route, got %d", w3.Code)
	}
}

func TestRateLimiterCloseTwice(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	rl.Close()
	rl.Close()
}
