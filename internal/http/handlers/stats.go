package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kairoslabs/kairos-backend/internal/http/response"
	"github.com/kairoslabs/kairos-backend/internal/platform/apierr"
	"github.com/kairoslabs/kairos-backend/internal/platform/logger"
	"github.com/kairoslabs/kairos-backend/internal/services"
)

type StatsHandler struct {
	svc services.EngagementService
	log *logger.Logger
}

func NewStatsHandler(svc services.EngagementService, log *logger.Logger) *StatsHandler {
	return &StatsHandler{svc: svc, log: log.With("handler", "StatsHandler")}
}

func (h *StatsHandler) GetStats(c *gin.Context) {
	fid, err := strconv.ParseInt(c.Param("fid"), 10, 64)
	if err != nil || fid <= 0 {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeValidationFailed,
			fmt.Errorf("fid must be a positive integer"))
		return
	}

	view, err := h.svc.Stats(c.Request.Context(), fid)
	if err != nil {
		h.log.Error("stats lookup failed", "fid", fid, "error", err)
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, view)
}
