package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kairoslabs/kairos-backend/internal/http/response"
	"github.com/kairoslabs/kairos-backend/internal/observability"
	"github.com/kairoslabs/kairos-backend/internal/platform/apierr"
	"github.com/kairoslabs/kairos-backend/internal/platform/logger"
	"github.com/kairoslabs/kairos-backend/internal/services"
)

type ParadoxHandler struct {
	svc services.ParadoxService
	log *logger.Logger
}

func NewParadoxHandler(svc services.ParadoxService, log *logger.Logger) *ParadoxHandler {
	return &ParadoxHandler{svc: svc, log: log.With("handler", "ParadoxHandler")}
}

type submitRequest struct {
	FID      int64  `json:"fid"`
	Username string `json:"username"`
	Paradox  string `json:"paradox"`
}

func (h *ParadoxHandler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		observability.Current().IncSubmissionRejected(apierr.CodeValidationFailed)
		response.RespondError(c, http.StatusBadRequest, apierr.CodeValidationFailed,
			fmt.Errorf("invalid request body"))
		return
	}

	result, err := h.svc.Submit(c.Request.Context(), services.SubmitInput{
		PlatformID: req.FID,
		Username:   req.Username,
		Paradox:    req.Paradox,
	})
	if err != nil {
		code := apierr.Code(err)
		observability.Current().IncSubmissionRejected(code)
		if code == apierr.CodeDispatchFailed {
			observability.Current().IncDispatchFailure()
		}
		h.log.Warn("paradox submission failed", "fid", req.FID, "code", code, "error", err)
		response.RespondAPIError(c, err)
		return
	}

	observability.Current().IncSubmissionAccepted()
	for _, badge := range result.Achievements {
		observability.Current().IncAchievementGranted(badge)
	}
	response.RespondOK(c, result)
}
