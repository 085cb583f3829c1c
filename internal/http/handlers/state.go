package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/kairoslabs/kairos-backend/internal/http/response"
	"github.com/kairoslabs/kairos-backend/internal/platform/logger"
	"github.com/kairoslabs/kairos-backend/internal/services"
)

type StateHandler struct {
	svc services.StateService
	log *logger.Logger
}

func NewStateHandler(svc services.StateService, log *logger.Logger) *StateHandler {
	return &StateHandler{svc: svc, log: log.With("handler", "StateHandler")}
}

func (h *StateHandler) GetState(c *gin.Context) {
	response.RespondOK(c, h.svc.Current(c.Request.Context()))
}
