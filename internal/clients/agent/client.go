package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kairoslabs/kairos-backend/internal/observability"
	"github.com/kairoslabs/kairos-backend/internal/platform/apierr"
	"github.com/kairoslabs/kairos-backend/internal/platform/envutil"
	"github.com/kairoslabs/kairos-backend/internal/platform/httpx"
	"github.com/kairoslabs/kairos-backend/internal/platform/logger"
)

// Client talks to the agent runtime's Sessions API.
type Client interface {
	// EnsureSession creates (or re-creates) a messaging session binding
	// the resolved user to the agent, returning the session id.
	EnsureSession(ctx context.Context, userID uuid.UUID, platformID int64) (string, error)

	// PostMessage delivers one user message into the session.
	PostMessage(ctx context.Context, sessionID, content string, metadata map[string]string) error

	// LatestAgentReply fetches the most recent agent-authored message in
	// the session, if any, scanning at most limit recent messages.
	LatestAgentReply(ctx context.Context, sessionID string, limit int) (string, bool, error)
}

type client struct {
	baseURL string
	agentID string
	http    *http.Client
	log     *logger.Logger
}

func NewClient(log *logger.Logger) (Client, error) {
	agentID := envutil.Str("AGENT_ID", "")
	if agentID == "" {
		return nil, fmt.Errorf("AGENT_ID is required")
	}
	base := strings.TrimRight(envutil.Str("AGENT_BASE_URL", "http://localhost:3000"), "/")
	timeout := envutil.Duration("AGENT_HTTP_TIMEOUT", 10*time.Second)
	return &client{
		baseURL: base,
		agentID: agentID,
		http:    &http.Client{Timeout: timeout},
		log:     log.With("client", "agent"),
	}, nil
}

type createSessionRequest struct {
	AgentID  string            `json:"agentId"`
	UserID   string            `json:"userId"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type createSessionResponse struct {
	SessionID string `json:"sessionId"`
}

func (c *client) EnsureSession(ctx context.Context, userID uuid.UUID, platformID int64) (string, error) {
	body := createSessionRequest{
		AgentID: c.agentID,
		UserID:  userID.String(),
		Metadata: map[string]string{
			"platform": "farcaster",
			"fid":      fmt.Sprintf("%d", platformID),
		},
	}
	var out createSessionResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/messaging/sessions", body, &out)
	observability.Current().IncAgentCall("ensure_session", callOutcome(err))
	if err != nil {
		return "", err
	}
	if out.SessionID == "" {
		return "", apierr.New(http.StatusBadGateway, apierr.CodeAgentUnavailable,
			fmt.Errorf("session create returned empty session id"))
	}
	return out.SessionID, nil
}

type postMessageRequest struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func (c *client) PostMessage(ctx context.Context, sessionID, content string, metadata map[string]string) error {
	path := fmt.Sprintf("/api/messaging/sessions/%s/messages", sessionID)
	err := c.doJSON(ctx, http.MethodPost, path, postMessageRequest{Content: content, Metadata: metadata}, nil)
	observability.Current().IncAgentCall("post_message", callOutcome(err))
	return err
}

type sessionMessage struct {
	Content string `json:"content"`
	IsAgent bool   `json:"isAgent"`
}

type listMessagesResponse struct {
	Messages []sessionMessage `json:"messages"`
}

func (c *client) LatestAgentReply(ctx context.Context, sessionID string, limit int) (string, bool, error) {
	if limit <= 0 {
		limit = 10
	}
	path := fmt.Sprintf("/api/messaging/sessions/%s/messages?limit=%d", sessionID, limit)
	var out listMessagesResponse
	err := c.doJSON(ctx, http.MethodGet, path, nil, &out)
	observability.Current().IncAgentCall("list_messages", callOutcome(err))
	if err != nil {
		return "", false, err
	}
	// Most recent first per the Sessions API; take the first agent turn.
	for _, msg := range out.Messages {
		if msg.IsAgent && strings.TrimSpace(msg.Content) != "" {
			return msg.Content, true, nil
		}
	}
	return "", false, nil
}

func callOutcome(err error) string {
	if err == nil {
		return "ok"
	}
	return apierr.Code(err)
}

func (c *client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode agent request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build agent request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return apierr.New(http.StatusBadGateway, apierr.CodeAgentUnavailable,
			fmt.Errorf("agent request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		reqErr := fmt.Errorf("agent returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
		if httpx.IsUnavailableStatus(resp.StatusCode) {
			return apierr.New(http.StatusBadGateway, apierr.CodeAgentUnavailable, reqErr)
		}
		return apierr.New(http.StatusUnprocessableEntity, apierr.CodeAgentRejected, reqErr)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apierr.New(http.StatusBadGateway, apierr.CodeAgentUnavailable,
			fmt.Errorf("decode agent response: %w", err))
	}
	return nil
}
