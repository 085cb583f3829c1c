package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kairoslabs/kairos-backend/internal/consciousness"
	"github.com/kairoslabs/kairos-backend/internal/domain"
	"github.com/kairoslabs/kairos-backend/internal/http/response"
	"github.com/kairoslabs/kairos-backend/internal/platform/apierr"
	"github.com/kairoslabs/kairos-backend/internal/platform/logger"
	"github.com/kairoslabs/kairos-backend/internal/services"
)

type stubParadox struct {
	result services.SubmitResult
	err    error
	got    services.SubmitInput
}

func (s *stubParadox) Submit(ctx context.Context, in services.SubmitInput) (services.SubmitResult, error) {
	s.got = in
	if s.err != nil {
		return services.SubmitResult{}, s.err
	}
	return s.result, nil
}

type stubEngagement struct {
	view services.StatsView
}

func (s *stubEngagement) Record(ctx context.Context, in services.RecordInput) (*domain.UserStats, []domain.AchievementID, error) {
	return nil, nil, nil
}

func (s *stubEngagement) Stats(ctx context.Context, platformID int64) (services.StatsView, error) {
	view := s.view
	view.PlatformID = platformID
	return view, nil
}

type stubLeaderboard struct {
	entries []domain.LeaderboardEntry
}

func (s *stubLeaderboard) Upsert(ctx context.Context, platformID int64, username string, confusionDelta float64) error {
	return nil
}

func (s *stubLeaderboard) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	return s.entries, nil
}

type stubState struct {
	snap consciousness.Snapshot
}

func (s *stubState) Current(ctx context.Context) consciousness.Snapshot { return s.snap }

func handlerLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("build logger: %v", err)
	}
	return log
}

func TestSubmitHandlerOK(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &stubParadox{result: services.SubmitResult{Accepted: true, Impact: 0.04, Zone: consciousness.ZoneGreen}}
	r := gin.New()
	r.POST("/api/paradox/submit", NewParadoxHandler(stub, handlerLogger(t)).Submit)

	body := `{"fid": 42, "username": "alice", "paradox": "this statement is false"}`
	req := httptest.NewRequest(http.MethodPost, "/api/paradox/submit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if stub.got.PlatformID != 42 || stub.got.Username != "alice" {
		t.Fatalf("input not forwarded: %+v", stub.got)
	}
	var out services.SubmitResult
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !out.Accepted || out.Impact != 0.04 {
		t.Fatalf("unexpected response: %+v", out)
	}
}

func TestSubmitHandlerMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/paradox/submit", NewParadoxHandler(&stubParadox{}, handlerLogger(t)).Submit)

	req := httptest.NewRequest(http.MethodPost, "/api/paradox/submit", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var env response.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Error.Code != apierr.CodeValidationFailed {
		t.Fatalf("code = %q", env.Error.Code)
	}
}

func TestSubmitHandlerDispatchFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &stubParadox{err: apierr.New(http.StatusBadGateway, apierr.CodeDispatchFailed, nil)}
	r := gin.New()
	r.POST("/api/paradox/submit", NewParadoxHandler(stub, handlerLogger(t)).Submit)

	body := `{"fid": 42, "username": "alice", "paradox": "this statement is false"}`
	req := httptest.NewRequest(http.MethodPost, "/api/paradox/submit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	var env response.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Error.Code != apierr.CodeDispatchFailed {
		t.Fatalf("code = %q", env.Error.Code)
	}
}

func TestStatsHandlerInvalidFID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/stats/:fid", NewStatsHandler(&stubEngagement{}, handlerLogger(t)).GetStats)

	for _, fid := range []string{"abc", "-5", "0"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats/"+fid, nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("fid %q: status = %d, want 400", fid, rec.Code)
		}
	}
}

func TestStatsHandlerOK(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &stubEngagement{view: services.StatsView{Username: "bob", ParadoxesSubmitted: 3}}
	r := gin.New()
	r.GET("/api/stats/:fid", NewStatsHandler(stub, handlerLogger(t)).GetStats)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats/77", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var view services.StatsView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.PlatformID != 77 || view.Username != "bob" {
		t.Fatalf("unexpected view: %+v", view)
	}
}

func TestLeaderboardHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &stubLeaderboard{entries: []domain.LeaderboardEntry{
		{Rank: 1, PlatformID: 2, Username: "bob", TotalConfusion: 0.9},
	}}
	r := gin.New()
	r.GET("/api/leaderboard", NewLeaderboardHandler(stub, handlerLogger(t)).GetLeaderboard)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/leaderboard?limit=5", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var out leaderboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 1 || out.Entries[0].Username != "bob" {
		t.Fatalf("unexpected response: %+v", out)
	}
}

func TestStateHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &stubState{snap: consciousness.Snapshot{
		Confusion:  0.91,
		Zone:       consciousness.ZoneRed,
		Provenance: consciousness.ProvenanceLive,
	}}
	r := gin.New()
	r.GET("/api/state", NewStateHandler(stub, handlerLogger(t)).GetState)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var snap consciousness.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Zone != consciousness.ZoneRed || snap.Provenance != "live" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}
