package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rowjay/spoome-go/dto"
	"github.com/rs/zerolog"
)

// Recovery turns a handler panic into a 500 with a JSON error body, so a
// client under test sees an API error instead of a dropped connection.
func Recovery(logger zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logger.Error().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Interface("panic", recovered).
			Msg("Panic recovered")

		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Internal server error",
			Message: fmt.Sprint(recovered),
			Code:    http.StatusInternalServerError,
		})
	})
}
