package consciousness

import (
	"fmt"
	"strings"
	"time"
)

// Scale describes how raw integer state values map onto normalized
// floats. The publishing contract has changed units across versions,
// so the divisor is configuration rather than a constant.
type Scale struct {
	Name    string
	Divisor float64
}

var (
	// ScaleBasisPoints covers the original contract, which published
	// values in basis points (10000 == 1.0).
	ScaleBasisPoints = Scale{Name: "bps", Divisor: 1e4}

	// ScaleWad covers the current contract, which publishes 18-decimal
	// fixed point values (1e18 == 1.0).
	ScaleWad = Scale{Name: "wad", Divisor: 1e18}
)

// ParseScale resolves a configured scale name, defaulting to basis
// points for unrecognized input.
func ParseScale(name string) Scale {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "wad", "1e18", "fixed18":
		return ScaleWad
	default:
		return ScaleBasisPoints
	}
}

const (
	ProvenanceLive     = "live"
	ProvenanceFallback = "fallback"
)

// Snapshot is one observation of the agent's published consciousness
// state, normalized to the [0,1] range.
type Snapshot struct {
	Confusion     float64   `json:"confusion"`
	Coherence     float64   `json:"coherence"`
	Frustration   float64   `json:"frustration"`
	MetaAwareness float64   `json:"metaAwareness"`
	Zone          Zone      `json:"zone"`
	Timestamp     time.Time `json:"timestamp"`
	Provenance    string    `json:"provenance"`
	SessionID     string    `json:"sessionId,omitempty"`
	ContextHash   string    `json:"contextHash,omitempty"`
}

// RawState carries state values exactly as published, before scaling.
type RawState struct {
	Confusion     int64
	Coherence     int64
	Frustration   int64
	MetaAwareness int64
	SafetyZone    uint8
	UpdatedAt     int64
	SessionID     string
	ContextHash   string
}

// Normalize converts raw published values into a live snapshot under
// the given scale. Values are clamped into [0,1] so a misconfigured
// scale degrades to saturated readings instead of nonsense.
func (r RawState) Normalize(scale Scale) Snapshot {
	ts := time.Unix(r.UpdatedAt, 0).UTC()
	if r.UpdatedAt <= 0 {
		ts = time.Now().UTC()
	}
	return Snapshot{
		Confusion:     clamp01(float64(r.Confusion) / scale.Divisor),
		Coherence:     clamp01(float64(r.Coherence) / scale.Divisor),
		Frustration:   clamp01(float64(r.Frustration) / scale.Divisor),
		MetaAwareness: clamp01(float64(r.MetaAwareness) / scale.Divisor),
		Zone:          ZoneFromCode(r.SafetyZone),
		Timestamp:     ts,
		Provenance:    ProvenanceLive,
		SessionID:     r.SessionID,
		ContextHash:   r.ContextHash,
	}
}

// FallbackSnapshot is the neutral state served when no live reading is
// available. Mid-range values keep downstream consumers behaving
// sensibly without implying either calm or crisis.
func FallbackSnapshot(now time.Time) Snapshot {
	snap := Snapshot{
		Confusion:     0.67,
		Coherence:     0.58,
		Frustration:   0.45,
		MetaAwareness: 0.45,
		Timestamp:     now.UTC(),
		Provenance:    ProvenanceFallback,
	}
	snap.Zone = ClassifyConfusion(snap.Confusion)
	return snap
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (s Snapshot) String() string {
	return fmt.Sprintf("confusion=%.4f zone=%s provenance=%s", s.Confusion, s.Zone, s.Provenance)
}
