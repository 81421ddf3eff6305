package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func limitedRouter(rps rate.Limit, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(rps, burst))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	return r
}

func pingFrom(r *gin.Engine, ip string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = ip + ":54321"
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimit_BurstExhaustion(t *testing.T) {
	// Effectively no refill within the test window, so only the burst
	// passes.
	r := limitedRouter(rate.Every(time.Hour), 3)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, pingFrom(r, "10.0.0.1"))
	}
	assert.Equal(t, http.StatusTooManyRequests, pingFrom(r, "10.0.0.1"))
}

func TestRateLimit_PerClientBuckets(t *testing.T) {
	r := limitedRouter(rate.Every(time.Hour), 1)

	assert.Equal(t, http.StatusOK, pingFrom(r, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, pingFrom(r, "10.0.0.1"))

	// A different client gets its own bucket.
	assert.Equal(t, http.StatusOK, pingFrom(r, "10.0.0.2"))
}
