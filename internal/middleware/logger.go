package middleware

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Logger writes one zerolog line per request. Rejected requests log at warn
// so a test run with a debug logger shows why the fake refused a call.
func Logger(logger zerolog.Logger) gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Output:    io.Discard,
		SkipPaths: []string{"/health"},
		Formatter: func(param gin.LogFormatterParams) string {
			event := logger.Debug()
			if param.StatusCode >= 400 {
				event = logger.Warn()
			}

			event = event.
				Str("method", param.Method).
				Str("path", param.Path).
				Int("status_code", param.StatusCode).
				Int("bytes", param.BodySize).
				Dur("latency", param.Latency).
				Str("user_agent", param.Request.UserAgent())

			if param.ErrorMessage != "" {
				event = event.Str("error", param.ErrorMessage)
			}

			event.Msg("Fake spoo.me request")

			return ""
		},
	})
}
