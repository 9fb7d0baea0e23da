package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-club-service/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidReference):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidSubmission),
		errors.Is(err, domain.ErrInvalidDecision),
		errors.Is(err, domain.ErrInvalidTeamName):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrDuplicateName),
		errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotInvited):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: msg})
}

func abortBadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: msg})
}
