package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rowjay/spoome-go/dto"
	"github.com/rowjay/spoome-go/internal/constants"
)

// APIKey rejects requests whose header does not carry key. On the
// Authorization header the key must be a bearer token.
func APIKey(header, key string) gin.HandlerFunc {
	if header == "" {
		header = constants.DefaultAPIKeyHeader
	}
	bearer := strings.EqualFold(header, constants.DefaultAPIKeyHeader)

	return func(c *gin.Context) {
		got := c.GetHeader(header)
		if bearer {
			got = strings.TrimPrefix(got, constants.BearerPrefix)
		}
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "unauthorized",
				Message: "missing or invalid API key",
				Code:    http.StatusUnauthorized,
			})
			return
		}
		c.Next()
	}
}
