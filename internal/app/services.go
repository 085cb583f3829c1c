package app

import (
	"gorm.io/gorm"

	"github.com/kairoslabs/kairos-backend/internal/consciousness"
	"github.com/kairoslabs/kairos-backend/internal/data/repos/engagement"
	"github.com/kairoslabs/kairos-backend/internal/observability"
	"github.com/kairoslabs/kairos-backend/internal/platform/logger"
	"github.com/kairoslabs/kairos-backend/internal/services"
)

type Services struct {
	Session     services.SessionService
	Engagement  services.EngagementService
	Leaderboard services.LeaderboardService
	State       services.StateService
	Paradox     services.ParadoxService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, clients Clients) Services {
	statsRepo := engagement.NewStatsRepo(db, log)

	reader := consciousness.NewReader(
		clients.StateSource,
		consciousness.ParseScale(cfg.StateScale),
		log,
		consciousness.WithFallbackHook(func() {
			observability.Current().IncSnapshotFallback()
		}),
	)

	sessionSvc := services.NewSessionService(clients.Agent, log)
	engagementSvc := services.NewEngagementService(db, statsRepo, log)
	leaderboardSvc := services.NewLeaderboardService(clients.LeaderboardStore, log)
	stateSvc := services.NewStateService(reader, log)
	paradoxSvc := services.NewParadoxService(
		sessionSvc,
		engagementSvc,
		leaderboardSvc,
		stateSvc,
		clients.Agent,
		log,
		services.WithReplyWait(cfg.ReplyWait),
	)

	return Services{
		Session:     sessionSvc,
		Engagement:  engagementSvc,
		Leaderboard: leaderboardSvc,
		State:       stateSvc,
		Paradox:     paradoxSvc,
	}
}
