package handlers

import (
	"errors"
	"fmt"
	"routeflow-service/internal/platform/obs"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

func writeError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// Log the cause server side; clients only see msg.
func writeInternalError(c *gin.Context, status int, op string, err error, msg string) {
	log.Error().
		Err(err).
		Str("req_id", obs.RequestID(c.Request.Context())).
		Str("op", op).
		Msg("request failed")
	writeError(c, status, msg)
}

// bindError turns a ShouldBindJSON failure into a client-facing message.
func bindError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid json body"
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return "invalid request: " + strings.Join(msgs, "; ")
}
