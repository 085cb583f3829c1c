package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/kairoslabs/kairos-backend/internal/clients/agent"
	redisclient "github.com/kairoslabs/kairos-backend/internal/clients/redis"
	"github.com/kairoslabs/kairos-backend/internal/consciousness"
	"github.com/kairoslabs/kairos-backend/internal/platform/logger"
	"github.com/kairoslabs/kairos-backend/internal/services"
)

type Clients struct {
	Agent            agent.Client
	StateSource      consciousness.Source
	LeaderboardStore services.LeaderboardStore
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	agentClient, err := agent.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init agent client: %w", err)
	}

	var store services.LeaderboardStore
	switch strings.ToLower(cfg.LeaderboardBackend) {
	case "redis":
		rdb, err := redisclient.NewLeaderboard(ctx, log)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis leaderboard: %w", err)
		}
		store = rdb
	default:
		store = services.NewMemoryLeaderboard()
	}

	return Clients{
		Agent:            agentClient,
		StateSource:      consciousness.NewHTTPSource(log),
		LeaderboardStore: store,
	}, nil
}
