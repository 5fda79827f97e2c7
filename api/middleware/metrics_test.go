package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_CountsRequests(t *testing.T) {
	ResetMetrics()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Metrics())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
	}

	metrics := GetMetrics()
	assert.Equal(t, int64(3), metrics["request_count"])
}

func TestGetMetrics_EmptyAverage(t *testing.T) {
	ResetMetrics()
	metrics := GetMetrics()
	assert.Equal(t, int64(0), metrics["request_count"])
	assert.Equal(t, float64(0), metrics["avg_duration_ms"])
}
