package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/kairoslabs/kairos-backend/internal/platform/apierr"
	"github.com/kairoslabs/kairos-backend/internal/platform/logger"
)

func newTestClient(t *testing.T, baseURL string) Client {
	t.Helper()
	os.Setenv("AGENT_BASE_URL", baseURL)
	os.Setenv("AGENT_ID", "agent-1")
	t.Cleanup(func() {
		os.Unsetenv("AGENT_BASE_URL")
		os.Unsetenv("AGENT_ID")
	})
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("build logger: %v", err)
	}
	c, err := NewClient(log)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestEnsureSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/messaging/sessions" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["agentId"] != "agent-1" {
			t.Fatalf("agentId = %v", body["agentId"])
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"sessionId": "sess-42"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	sessionID, err := c.EnsureSession(context.Background(), uuid.New(), 777)
	if err != nil {
		t.Fatalf("EnsureSession: %v", err)
	}
	if sessionID != "sess-42" {
		t.Fatalf("sessionID = %q", sessionID)
	}
}

func TestPostMessageRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "content rejected", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.PostMessage(context.Background(), "sess-1", "hello", nil)
	if !apierr.Is(err, apierr.CodeAgentRejected) {
		t.Fatalf("expected agent_rejected, got %v", err)
	}
}

func TestPostMessageUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.PostMessage(context.Background(), "sess-1", "hello", nil)
	if !apierr.Is(err, apierr.CodeAgentUnavailable) {
		t.Fatalf("expected agent_unavailable, got %v", err)
	}
}

func TestPostMessageTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.PostMessage(context.Background(), "sess-1", "hello", nil)
	if !apierr.Is(err, apierr.CodeAgentUnavailable) {
		t.Fatalf("expected agent_unavailable, got %v", err)
	}
}

func TestLatestAgentReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "5" {
			t.Fatalf("limit = %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"messages": []map[string]interface{}{
				{"content": "user text", "isAgent": false},
				{"content": "a paradox indeed", "isAgent": true},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	reply, ok, err := c.LatestAgentReply(context.Background(), "sess-1", 5)
	if err != nil {
		t.Fatalf("LatestAgentReply: %v", err)
	}
	if !ok || reply != "a paradox indeed" {
		t.Fatalf("reply = %q ok = %v", reply, ok)
	}
}

func TestLatestAgentReplyNone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"messages": []interface{}{}})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, ok, err := c.LatestAgentReply(context.Background(), "sess-1", 0)
	if err != nil {
		t.Fatalf("LatestAgentReply: %v", err)
	}
	if ok {
		t.Fatal("expected no reply")
	}
}
