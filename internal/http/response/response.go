package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kairoslabs/kairos-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAPIError maps a pipeline error onto the envelope. Validation
// failures carry their corrective message; everything else gets a
// generic message so upstream transport detail never leaks to callers.
func RespondAPIError(c *gin.Context, err error) {
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		RespondError(c, http.StatusInternalServerError, apierr.CodeInternal,
			errors.New("internal error"))
		return
	}
	status := ae.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if ae.Code == apierr.CodeValidationFailed {
		RespondError(c, status, ae.Code, ae)
		return
	}
	RespondError(c, status, ae.Code, errors.New(genericMessage(ae.Code)))
}

func genericMessage(code string) string {
	switch code {
	case apierr.CodeAgentUnavailable:
		return "the agent is unavailable, try again later"
	case apierr.CodeAgentRejected:
		return "the agent rejected this submission"
	case apierr.CodeDispatchFailed:
		return "could not deliver the submission to the agent"
	default:
		return "internal error"
	}
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
