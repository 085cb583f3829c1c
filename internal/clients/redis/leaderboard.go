package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kairoslabs/kairos-backend/internal/domain"
	"github.com/kairoslabs/kairos-backend/internal/platform/envutil"
	"github.com/kairoslabs/kairos-backend/internal/platform/logger"
)

const (
	leaderboardKey = "kairos:leaderboard"
	userKeyPrefix  = "kairos:leaderboard:user:"
)

// Leaderboard is a Redis-backed ranking store. Total confusion lives in
// a sorted set; usernames and paradox counts live in per-user hashes.
type Leaderboard struct {
	rdb *goredis.Client
	log *logger.Logger
}

func NewLeaderboard(ctx context.Context, log *logger.Logger) (*Leaderboard, error) {
	addr := envutil.Str("REDIS_ADDR", "localhost:6379")
	opts := &goredis.Options{
		Addr:     addr,
		Password: envutil.Str("REDIS_PASSWORD", ""),
		DB:       envutil.Int("REDIS_DB", 0),
	}
	rdb := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &Leaderboard{rdb: rdb, log: log.With("client", "redis_leaderboard")}, nil
}

func (l *Leaderboard) Close() error { return l.rdb.Close() }

// Upsert folds one submission into the board. The username is always
// overwritten so renamed users show their latest handle.
func (l *Leaderboard) Upsert(ctx context.Context, platformID int64, username string, countDelta int64, confusionDelta float64) error {
	member := strconv.FormatInt(platformID, 10)
	pipe := l.rdb.TxPipeline()
	pipe.ZIncrBy(ctx, leaderboardKey, confusionDelta, member)
	pipe.HSet(ctx, userKeyPrefix+member, "username", username)
	pipe.HIncrBy(ctx, userKeyPrefix+member, "paradox_count", countDelta)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("leaderboard upsert fid=%s: %w", member, err)
	}
	return nil
}

// Top returns the n highest-scoring entries with 1-based ranks.
func (l *Leaderboard) Top(ctx context.Context, n int) ([]domain.LeaderboardEntry, error) {
	if n <= 0 {
		return nil, nil
	}
	scored, err := l.rdb.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("leaderboard range: %w", err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(scored))
	for i, z := range scored {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		platformID, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			l.log.Warn("skipping malformed leaderboard member", "member", member)
			continue
		}
		fields, err := l.rdb.HGetAll(ctx, userKeyPrefix+member).Result()
		if err != nil {
			return nil, fmt.Errorf("leaderboard user fields fid=%s: %w", member, err)
		}
		count, _ := strconv.ParseInt(fields["paradox_count"], 10, 64)
		entries = append(entries, domain.LeaderboardEntry{
			Rank:           i + 1,
			PlatformID:     platformID,
			Username:       fields["username"],
			ParadoxCount:   count,
			TotalConfusion: z.Score,
		})
	}
	return entries, nil
}
