package app

import (
	httpserver "github.com/kairoslabs/kairos-backend/internal/http"
	httpH "github.com/kairoslabs/kairos-backend/internal/http/handlers"
	"github.com/kairoslabs/kairos-backend/internal/observability"
	"github.com/kairoslabs/kairos-backend/internal/platform/logger"
)

type Handlers struct {
	Paradox     *httpH.ParadoxHandler
	Stats       *httpH.StatsHandler
	Leaderboard *httpH.LeaderboardHandler
	State       *httpH.StateHandler
	Health      *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, svcs Services) Handlers {
	return Handlers{
		Paradox:     httpH.NewParadoxHandler(svcs.Paradox, log),
		Stats:       httpH.NewStatsHandler(svcs.Engagement, log),
		Leaderboard: httpH.NewLeaderboardHandler(svcs.Leaderboard, log),
		State:       httpH.NewStateHandler(svcs.State, log),
		Health:      httpH.NewHealthHandler(),
	}
}

func wireServer(log *logger.Logger, metrics *observability.Metrics, handlers Handlers) *httpserver.Server {
	return httpserver.NewServer(httpserver.RouterConfig{
		ParadoxHandler:     handlers.Paradox,
		StatsHandler:       handlers.Stats,
		LeaderboardHandler: handlers.Leaderboard,
		StateHandler:       handlers.State,
		HealthHandler:      handlers.Health,
		Logger:             log,
		Metrics:            metrics,
	})
}
