package httputil

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/rx-admin/internal/model"
	"github.com/jwalitptl/rx-admin/pkg/errors"
)

// ErrorBody is the error payload for errors without field details
type ErrorBody struct {
	Detail string `json:"detail"`
}

// RespondWithSuccess sends a 200 response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// RespondWithCreated sends a 201 response
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// RespondWithNoContent sends a 204 response
func RespondWithNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// RespondWithError sends an error response. Validation errors are
// rendered as a map of field to messages, others as {"detail": ...}.
func RespondWithError(c *gin.Context, err error) {
	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.Internal(err)
	}

	status := appErr.StatusCode()
	if status >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
	}
	_ = c.Error(err)

	if len(appErr.Fields) > 0 {
		c.AbortWithStatusJSON(status, appErr.Fields)
		return
	}
	c.AbortWithStatusJSON(status, ErrorBody{Detail: appErr.Message})
}

// RespondWithPage sends a paginated list with absolute next/previous links
func RespondWithPage[T any](c *gin.Context, results []T, count int, params model.PageParams) {
	if results == nil {
		results = []T{}
	}
	page := model.Page[T]{Count: count, Results: results}
	if params.HasNext(count) {
		link := PageLink(c.Request, params.Page+1)
		page.Next = &link
	}
	if params.HasPrevious() {
		link := PageLink(c.Request, params.Page-1)
		page.Previous = &link
	}
	c.JSON(http.StatusOK, page)
}

// PageLink rebuilds the request URL pointing at another page. The page
// parameter is dropped for the first page.
func PageLink(r *http.Request, page int) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	q := r.URL.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u := url.URL{
		Scheme:   scheme,
		Host:     r.Host,
		Path:     r.URL.Path,
		RawQuery: q.Encode(),
	}
	return u.String()
}
