package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/incidentdesk/incident-service/pkg/logger"
	"github.com/incidentdesk/incident-service/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger_AssignsRequestIDAndCounts(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(os.Stdout)

	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/incidents", func(c *gin.Context) { c.JSON(200, []string{}) })

	before := testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("GET", "/incidents", "200"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/incidents", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Header().Get(RequestIDHeader))
	require.Equal(t, before+1, testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("GET", "/incidents", "200")))
	require.Contains(t, buf.String(), w.Header().Get(RequestIDHeader))
}

func TestRequestLogger_ReusesCallerRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/incidents", func(c *gin.Context) {
		c.String(200, c.GetString("request_id"))
	})

	req := httptest.NewRequest(http.MethodGet, "/incidents", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
	require.Equal(t, "req-123", w.Body.String())
}

func TestRequestLogger_UnmatchedRoute(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger())

	before := testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("GET", "unmatched", "404"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, before+1, testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("GET", "unmatched", "404")))
}
