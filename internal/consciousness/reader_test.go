package consciousness

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/kairoslabs/kairos-backend/internal/platform/logger"
)

type fakeSource struct {
	raw RawState
	err error
}

func (f *fakeSource) Latest(ctx context.Context) (RawState, error) {
	return f.raw, f.err
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("build logger: %v", err)
	}
	return log
}

func TestReaderServesLiveState(t *testing.T) {
	src := &fakeSource{raw: RawState{Confusion: 9100, SafetyZone: 2, UpdatedAt: 1700000000}}
	r := NewReader(src, ScaleBasisPoints, testLogger(t))

	snap := r.Snapshot(context.Background())
	if snap.Provenance != ProvenanceLive {
		t.Fatalf("provenance = %q, want live", snap.Provenance)
	}
	if snap.Zone != ZoneRed {
		t.Fatalf("zone = %s, want RED", snap.Zone)
	}
}

func TestReaderFallsBackOnSourceError(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	fallbacks := 0
	src := &fakeSource{err: errors.New("rpc timeout")}
	r := NewReader(src, ScaleBasisPoints, testLogger(t),
		WithClock(func() time.Time { return now }),
		WithFallbackHook(func() { fallbacks++ }),
	)

	snap := r.Snapshot(context.Background())
	if snap.Provenance != ProvenanceFallback {
		t.Fatalf("provenance = %q, want fallback", snap.Provenance)
	}
	if snap.Confusion != 0.67 {
		t.Fatalf("confusion = %v, want 0.67", snap.Confusion)
	}
	if !snap.Timestamp.Equal(now) {
		t.Fatalf("timestamp = %s, want %s", snap.Timestamp, now)
	}
	if fallbacks != 1 {
		t.Fatalf("fallback hook fired %d times, want 1", fallbacks)
	}
}

func TestReaderFallsBackWithoutSource(t *testing.T) {
	r := NewReader(nil, ScaleBasisPoints, testLogger(t))
	snap := r.Snapshot(context.Background())
	if snap.Provenance != ProvenanceFallback {
		t.Fatalf("provenance = %q, want fallback", snap.Provenance)
	}
}

func TestHTTPSourceParsesStringValues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"confusionLevel": "670000000000000000",
			"coherenceLevel": 580000000000000000,
			"frustrationLevel": "450000000000000000",
			"metaAwareness": "450000000000000000",
			"safetyZone": 0,
			"lastUpdate": "1700000000",
			"sessionId": "sess-1",
			"contextHash": "0xabc"
		}`))
	}))
	defer srv.Close()

	os.Setenv("STATE_SOURCE_URL", srv.URL)
	defer os.Unsetenv("STATE_SOURCE_URL")

	src := NewHTTPSource(testLogger(t))
	raw, err := src.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if raw.Confusion != 670000000000000000 {
		t.Fatalf("confusion = %d", raw.Confusion)
	}
	if raw.SessionID != "sess-1" || raw.ContextHash != "0xabc" {
		t.Fatalf("unexpected identifiers: %+v", raw)
	}
}

func TestHTTPSourceErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	os.Setenv("STATE_SOURCE_URL", srv.URL)
	defer os.Unsetenv("STATE_SOURCE_URL")

	src := NewHTTPSource(testLogger(t))
	if _, err := src.Latest(context.Background()); err == nil {
		t.Fatal("expected error for non-2xx status")
	}
}
