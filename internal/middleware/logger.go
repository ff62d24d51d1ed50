package middleware

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// maxLoggedBody caps how much of a request body ends up in the log
const maxLoggedBody = 2048

// Logger returns a middleware that logs HTTP requests. The level follows
// the response status.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		var requestBody []byte
		if c.Request.Method != http.MethodGet && c.Request.Body != nil {
			requestBody, _ = io.ReadAll(io.LimitReader(c.Request.Body, maxLoggedBody+1))
			c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(requestBody), c.Request.Body))
			if len(requestBody) > maxLoggedBody {
				requestBody = append(requestBody[:maxLoggedBody:maxLoggedBody], "..."...)
			}
		}

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}
		status := c.Writer.Status()

		event := log.Info()
		msg := "Request processed"
		switch {
		case status >= http.StatusInternalServerError:
			event = log.Error()
			msg = "Server error"
		case status >= http.StatusBadRequest:
			event = log.Warn()
			msg = "Client error"
		}

		event = event.
			Str("request_id", c.GetString(ContextRequestID)).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("ip", c.ClientIP()).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("user_agent", c.Request.UserAgent())
		if len(requestBody) > 0 {
			event = event.Str("request", string(requestBody))
		}
		event.Msg(msg)
	}
}
