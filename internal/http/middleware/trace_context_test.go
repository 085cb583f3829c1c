package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kairoslabs/kairos-backend/internal/platform/ctxutil"
)

func TestAttachTraceContextGeneratesIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())

	var seen *ctxutil.TraceData
	r.GET("/ping", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if seen == nil || seen.TraceID == "" || seen.RequestID == "" {
		t.Fatalf("trace data not attached: %+v", seen)
	}
	if got := rec.Header().Get("X-Trace-Id"); got != seen.TraceID {
		t.Fatalf("trace header = %q, want %q", got, seen.TraceID)
	}
	if got := rec.Header().Get("X-Request-Id"); got != seen.RequestID {
		t.Fatalf("request header = %q, want %q", got, seen.RequestID)
	}
}

func TestAttachTraceContextHonorsIncomingHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Trace-Id", "trace-abc")
	req.Header.Set("X-Request-Id", "req-123")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Trace-Id"); got != "trace-abc" {
		t.Fatalf("trace header = %q, want trace-abc", got)
	}
	if got := rec.Header().Get("X-Request-Id"); got != "req-123" {
		t.Fatalf("request header = %q, want req-123", got)
	}
}
