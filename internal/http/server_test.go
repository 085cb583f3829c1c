package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	httpH "github.com/kairoslabs/kairos-backend/internal/http/handlers"
)

func TestServerServesConfiguredRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv := NewServer(RouterConfig{HealthHandler: httpH.NewHealthHandler()})
	if srv.Engine == nil {
		t.Fatal("server built without an engine")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	rec := httptest.NewRecorder()
	srv.Engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("healthcheck status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "ok" {
		t.Fatalf("healthcheck body = %q, want ok", rec.Body.String())
	}
}

func TestServerSkipsUnconfiguredRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv := NewServer(RouterConfig{HealthHandler: httpH.NewHealthHandler()})

	req := httptest.NewRequest(http.MethodPost, "/api/paradox/submit", nil)
	rec := httptest.NewRecorder()
	srv.Engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("unconfigured route status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
