package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"usergraph/internal/adapter/telemetry"
)

func newTestRouter(requests int, window time.Duration) *gin.Engine {
	logger := zap.NewNop()
	metrics := telemetry.NewAppMetrics(prometheus.NewRegistry())
	rl := NewRateLimiter(requests, window, logger, metrics)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(rl.Middleware())

	router.POST("/graphql", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return router
}

func TestRateLimiter_AllowsWithinLimit(t *testing.T) {
	RegisterTestingT(t)
	router := newTestRouter(5, time.Minute)

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/graphql", nil)
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(200))
		Expect(w.Header().Get("X-RateLimit-Limit")).To(Equal("5"))
		Expect(w.Header().Get("X-RateLimit-Remaining")).ToNot(BeEmpty())
	}
}

func TestRateLimiter_RejectsOverLimit(t *testing.T) {
	RegisterTestingT(t)
	router := newTestRouter(3, time.Minute)

	var lastCode int

	for i := 0; i < 4; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/graphql", nil)
		router.ServeHTTP(w, req)
		lastCode = w.Code
	}

	Expect(lastCode).To(Equal(http.StatusTooManyRequests))
}

func TestRateLimiter_WindowResets(t *testing.T) {
	RegisterTestingT(t)
	router := newTestRouter(1, 50*time.Millisecond)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/graphql", nil)
	router.ServeHTTP(w, req)
	Expect(w.Code).To(Equal(200))

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/graphql", nil)
	router.ServeHTTP(w, req)
	Expect(w.Code).To(Equal(http.StatusTooManyRequests))

	time.Sleep(60 * time.Millisecond)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/graphql", nil)
	router.ServeHTTP(w, req)
	Expect(w.Code).To(Equal(200))
}
