package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestRouteLimits(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		limit  rate.Limit
		burst  int
	}{
		{"websocket upgrade", http.MethodGet, "/ws", rate.Every(time.Second), 5},
		{"notification polling", http.MethodGet, "/api/notifications", rate.Every(time.Second), 3},
		{"notification unread count", http.MethodGet, "/api/notifications/unread-count", rate.Every(time.Second), 3},
		{"notification mutation uses default", http.MethodPatch, "/api/notifications/:id/read", rate.Every(time.Minute / 30), 30},
		{"review list uses default", http.MethodGet, "/api/reviews", rate.Every(time.Minute / 30), 30},
		{"login uses default", http.MethodPost, "/api/auth/login", rate.Every(time.Minute / 30), 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, burst := routeLimits(tt.method, tt.path)
			assert.Equal(t, tt.limit, limit)
			assert.Equal(t, tt.burst, burst)
		})
	}
}

func rateLimitedRouter(method, path string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimitMiddleware())
	router.Handle(method, path, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func countLimited(router *gin.Engine, method, target, remoteAddr string, n int) int {
	limited := 0
	for i := 0; i < n; i++ {
		req := httptest.NewRequest(method, target, nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	return limited
}

func TestRateLimitThrottlesNotificationPolling(t *testing.T) {
	router := rateLimitedRouter(http.MethodGet, "/api/notifications")

	// Burst of 3: ten back-to-back polls from one IP must get rejected
	// once the burst is spent
	limited := countLimited(router, http.MethodGet, "/api/notifications", "203.0.113.10:4000", 10)
	assert.GreaterOrEqual(t, limited, 6)
}

func TestRateLimitThrottlesWebSocketUpgrades(t *testing.T) {
	router := rateLimitedRouter(http.MethodGet, "/ws")

	// Burst of 5
	limited := countLimited(router, http.MethodGet, "/ws", "203.0.113.11:4000", 10)
	assert.GreaterOrEqual(t, limited, 4)
}

func TestRateLimitDefaultBurstAllowsPanelTraffic(t *testing.T) {
	router := rateLimitedRouter(http.MethodGet, "/api/reviews")

	limited := countLimited(router, http.MethodGet, "/api/reviews", "203.0.113.12:4000", 10)
	assert.Zero(t, limited)
}

func TestGenerateSecureToken(t *testing.T) {
	first, err := GenerateSecureToken(32)
	require.NoError(t, err)
	assert.Len(t, first, 64) // hex doubles the byte length

	second, err := GenerateSecureToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
