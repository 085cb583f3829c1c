package services

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"

	"github.com/kairoslabs/kairos-backend/internal/identity"
	"github.com/kairoslabs/kairos-backend/internal/platform/apierr"
	"github.com/kairoslabs/kairos-backend/internal/platform/logger"
)

type fakeAgent struct {
	mu             sync.Mutex
	createCalls    int32
	sessionErr     error
	postErr        error
	posted         []string
	reply          string
	replyAvailable bool
}

func (f *fakeAgent) EnsureSession(ctx context.Context, userID uuid.UUID, platformID int64) (string, error) {
	atomic.AddInt32(&f.createCalls, 1)
	if f.sessionErr != nil {
		return "", f.sessionErr
	}
	return "sess-" + userID.String()[:8], nil
}

func (f *fakeAgent) PostMessage(ctx context.Context, sessionID, content string, metadata map[string]string) error {
	if f.postErr != nil {
		return f.postErr
	}
	f.mu.Lock()
	f.posted = append(f.posted, content)
	f.mu.Unlock()
	return nil
}

func (f *fakeAgent) LatestAgentReply(ctx context.Context, sessionID string, limit int) (string, bool, error) {
	return f.reply, f.replyAvailable, nil
}

func svcLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("build logger: %v", err)
	}
	return log
}

func TestSessionEnsureCaches(t *testing.T) {
	agent := &fakeAgent{}
	svc := NewSessionService(agent, svcLogger(t))
	ctx := context.Background()

	first, userID, err := svc.Ensure(ctx, 42)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if userID != identity.Resolve(42) {
		t.Fatalf("userID = %s, want %s", userID, identity.Resolve(42))
	}

	second, _, err := svc.Ensure(ctx, 42)
	if err != nil {
		t.Fatalf("Ensure again: %v", err)
	}
	if first != second {
		t.Fatalf("session ids differ: %q vs %q", first, second)
	}
	if got := atomic.LoadInt32(&agent.createCalls); got != 1 {
		t.Fatalf("agent called %d times, want 1", got)
	}
}

func TestSessionEnsureConcurrentSingleCreate(t *testing.T) {
	agent := &fakeAgent{}
	svc := NewSessionService(agent, svcLogger(t))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := svc.Ensure(ctx, 7); err != nil {
				t.Errorf("Ensure: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&agent.createCalls); got != 1 {
		t.Fatalf("agent called %d times under concurrency, want 1", got)
	}
}

func TestSessionEnsurePropagatesError(t *testing.T) {
	agent := &fakeAgent{
		sessionErr: apierr.New(http.StatusBadGateway, apierr.CodeAgentUnavailable, nil),
	}
	svc := NewSessionService(agent, svcLogger(t))

	_, _, err := svc.Ensure(context.Background(), 42)
	if !apierr.Is(err, apierr.CodeAgentUnavailable) {
		t.Fatalf("expected agent_unavailable, got %v", err)
	}

	// Failed creates must not be cached.
	agent.sessionErr = nil
	if _, _, err := svc.Ensure(context.Background(), 42); err != nil {
		t.Fatalf("Ensure after recovery: %v", err)
	}
	if got := atomic.LoadInt32(&agent.createCalls); got != 2 {
		t.Fatalf("agent called %d times, want 2", got)
	}
}

func TestSessionInvalidate(t *testing.T) {
	agent := &fakeAgent{}
	svc := NewSessionService(agent, svcLogger(t))
	ctx := context.Background()

	if _, _, err := svc.Ensure(ctx, 5); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	svc.Invalidate(5)
	if _, _, err := svc.Ensure(ctx, 5); err != nil {
		t.Fatalf("Ensure after invalidate: %v", err)
	}
	if got := atomic.LoadInt32(&agent.createCalls); got != 2 {
		t.Fatalf("agent called %d times, want 2", got)
	}
}
