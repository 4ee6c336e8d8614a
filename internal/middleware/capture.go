package middleware

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Capture hands every request and its body to record before the handlers
// run. The body is restored for binding.
func Capture(record func(r *http.Request, body []byte)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}
		record(c.Request, body)
		c.Next()
	}
}
