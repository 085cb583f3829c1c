package consciousness

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kairoslabs/kairos-backend/internal/platform/envutil"
	"github.com/kairoslabs/kairos-backend/internal/platform/logger"
)

// Source produces the latest raw published state.
type Source interface {
	Latest(ctx context.Context) (RawState, error)
}

// HTTPSource reads state from the indexer endpoint that mirrors the
// on-chain contract. The indexer serves large fixed-point values as
// strings, so every numeric field accepts both forms.
type HTTPSource struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

func NewHTTPSource(log *logger.Logger) *HTTPSource {
	base := envutil.Str("STATE_SOURCE_URL", "http://localhost:8545/state/latest")
	timeout := envutil.Duration("STATE_SOURCE_TIMEOUT", 5*time.Second)
	return &HTTPSource{
		baseURL: strings.TrimRight(base, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log.With("client", "state_source"),
	}
}

type flexInt64 int64

func (f *flexInt64) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("parse state value %q: %w", raw, err)
	}
	*f = flexInt64(v)
	return nil
}

type stateDocument struct {
	Confusion     flexInt64 `json:"confusionLevel"`
	Coherence     flexInt64 `json:"coherenceLevel"`
	Frustration   flexInt64 `json:"frustrationLevel"`
	MetaAwareness flexInt64 `json:"metaAwareness"`
	SafetyZone    flexInt64 `json:"safetyZone"`
	UpdatedAt     flexInt64 `json:"lastUpdate"`
	SessionID     string    `json:"sessionId"`
	ContextHash   string    `json:"contextHash"`
}

func (s *HTTPSource) Latest(ctx context.Context) (RawState, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL, nil)
	if err != nil {
		return RawState{}, fmt.Errorf("build state request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return RawState{}, fmt.Errorf("fetch state: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return RawState{}, fmt.Errorf("state source returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var doc stateDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return RawState{}, fmt.Errorf("decode state response: %w", err)
	}

	zone := doc.SafetyZone
	if zone < 0 || zone > 255 {
		zone = 255
	}
	return RawState{
		Confusion:     int64(doc.Confusion),
		Coherence:     int64(doc.Coherence),
		Frustration:   int64(doc.Frustration),
		MetaAwareness: int64(doc.MetaAwareness),
		SafetyZone:    uint8(zone),
		UpdatedAt:     int64(doc.UpdatedAt),
		SessionID:     doc.SessionID,
		ContextHash:   doc.ContextHash,
	}, nil
}
