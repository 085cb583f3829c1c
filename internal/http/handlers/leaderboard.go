package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kairoslabs/kairos-backend/internal/domain"
	"github.com/kairoslabs/kairos-backend/internal/http/response"
	"github.com/kairoslabs/kairos-backend/internal/platform/logger"
	"github.com/kairoslabs/kairos-backend/internal/services"
)

type LeaderboardHandler struct {
	svc services.LeaderboardService
	log *logger.Logger
}

func NewLeaderboardHandler(svc services.LeaderboardService, log *logger.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{svc: svc, log: log.With("handler", "LeaderboardHandler")}
}

type leaderboardResponse struct {
	Entries []domain.LeaderboardEntry `json:"entries"`
	Count   int                       `json:"count"`
}

func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	entries, err := h.svc.Top(c.Request.Context(), limit)
	if err != nil {
		h.log.Error("leaderboard lookup failed", "error", err)
		response.RespondAPIError(c, err)
		return
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	response.RespondOK(c, leaderboardResponse{Entries: entries, Count: len(entries)})
}
