package services

import (
	"context"
	"sort"
	"sync"

	types "github.com/kairoslabs/kairos-backend/internal/domain"
	"github.com/kairoslabs/kairos-backend/internal/platform/logger"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

// LeaderboardStore is the ranking backend. The Redis client and the
// in-memory store both satisfy it.
type LeaderboardStore interface {
	Upsert(ctx context.Context, platformID int64, username string, countDelta int64, confusionDelta float64) error
	Top(ctx context.Context, n int) ([]types.LeaderboardEntry, error)
}

// LeaderboardService serves the ranked board with limit clamping.
type LeaderboardService interface {
	Upsert(ctx context.Context, platformID int64, username string, confusionDelta float64) error
	Top(ctx context.Context, limit int) ([]types.LeaderboardEntry, error)
}

type leaderboardService struct {
	store LeaderboardStore
	log   *logger.Logger
}

func NewLeaderboardService(store LeaderboardStore, log *logger.Logger) LeaderboardService {
	return &leaderboardService{store: store, log: log.With("service", "LeaderboardService")}
}

func (s *leaderboardService) Upsert(ctx context.Context, platformID int64, username string, confusionDelta float64) error {
	return s.store.Upsert(ctx, platformID, username, 1, confusionDelta)
}

func (s *leaderboardService) Top(ctx context.Context, limit int) ([]types.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}
	return s.store.Top(ctx, limit)
}

type memoryEntry struct {
	platformID     int64
	username       string
	paradoxCount   int64
	totalConfusion float64
	seq            int64
}

// MemoryLeaderboard is the Redis-free store used in single-process
// deployments and tests. Ties keep first-seen order.
type MemoryLeaderboard struct {
	mu      sync.RWMutex
	entries map[int64]*memoryEntry
	nextSeq int64
}

func NewMemoryLeaderboard() *MemoryLeaderboard {
	return &MemoryLeaderboard{entries: make(map[int64]*memoryEntry)}
}

func (m *MemoryLeaderboard) Upsert(ctx context.Context, platformID int64, username string, countDelta int64, confusionDelta float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[platformID]
	if !ok {
		entry = &memoryEntry{platformID: platformID, seq: m.nextSeq}
		m.nextSeq++
		m.entries[platformID] = entry
	}
	entry.username = username
	entry.paradoxCount += countDelta
	entry.totalConfusion += confusionDelta
	return nil
}

func (m *MemoryLeaderboard) Top(ctx context.Context, n int) ([]types.LeaderboardEntry, error) {
	if n <= 0 {
		return nil, nil
	}
	m.mu.RLock()
	snapshot := make([]memoryEntry, 0, len(m.entries))
	for _, e := range m.entries {
		snapshot = append(snapshot, *e)
	}
	m.mu.RUnlock()

	sort.Slice(snapshot, func(i, j int) bool { return snapshot[i].seq < snapshot[j].seq })
	sort.SliceStable(snapshot, func(i, j int) bool {
		return snapshot[i].totalConfusion > snapshot[j].totalConfusion
	})

	if len(snapshot) > n {
		snapshot = snapshot[:n]
	}
	out := make([]types.LeaderboardEntry, 0, len(snapshot))
	for i, e := range snapshot {
		out = append(out, types.LeaderboardEntry{
			Rank:           i + 1,
			PlatformID:     e.platformID,
			Username:       e.username,
			ParadoxCount:   e.paradoxCount,
			TotalConfusion: e.totalConfusion,
		})
	}
	return out, nil
}
