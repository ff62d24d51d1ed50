package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/rx-admin/pkg/errors"
	"github.com/jwalitptl/rx-admin/pkg/httputil"
)

// ErrorHandler logs errors attached to the context and renders the last
// one when no handler has written a response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		requestID := c.GetString(ContextRequestID)
		for _, e := range c.Errors {
			log.Debug().
				Err(e.Err).
				Str("request_id", requestID).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Msg("Request error")
		}

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last().Err
		appErr, ok := errors.As(lastErr)
		if !ok {
			c.JSON(http.StatusInternalServerError, httputil.ErrorBody{Detail: "internal server error"})
			return
		}
		if len(appErr.Fields) > 0 {
			c.JSON(appErr.StatusCode(), appErr.Fields)
			return
		}
		c.JSON(appErr.StatusCode(), httputil.ErrorBody{Detail: appErr.Message})
	}
}
