package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/kairoslabs/kairos-backend/internal/http/handlers"
	httpMW "github.com/kairoslabs/kairos-backend/internal/http/middleware"
	"github.com/kairoslabs/kairos-backend/internal/observability"
	"github.com/kairoslabs/kairos-backend/internal/platform/logger"
)

type RouterConfig struct {
	ParadoxHandler     *httpH.ParadoxHandler
	StatsHandler       *httpH.StatsHandler
	LeaderboardHandler *httpH.LeaderboardHandler
	StateHandler       *httpH.StateHandler
	HealthHandler      *httpH.HealthHandler

	Logger  *logger.Logger
	Metrics *observability.Metrics
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if observability.OTelEnabled() {
		r.Use(otelgin.Middleware("kairos-backend"))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS())
	r.Use(httpMW.RequestLogger(cfg.Logger))
	r.Use(httpMW.Metrics(cfg.Metrics))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.ParadoxHandler != nil {
			api.POST("/paradox/submit", cfg.ParadoxHandler.Submit)
		}
		if cfg.StatsHandler != nil {
			api.GET("/stats/:fid", cfg.StatsHandler.GetStats)
		}
		if cfg.LeaderboardHandler != nil {
			api.GET("/leaderboard", cfg.LeaderboardHandler.GetLeaderboard)
		}
		if cfg.StateHandler != nil {
			api.GET("/state", cfg.StateHandler.GetState)
		}
	}

	return r
}
