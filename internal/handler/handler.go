// Package handler holds helpers shared by the resource handlers.
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/rx-admin/internal/model"
	"github.com/jwalitptl/rx-admin/pkg/errors"
)

// ParseID reads the :id path parameter. Anything but a positive integer
// is reported as not found, the same as an unmatched route.
func ParseID(c *gin.Context, resource string) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.NotFound(resource, err)
	}
	return id, nil
}

// PageParams reads page and page_size from the query string
func PageParams(c *gin.Context) (model.PageParams, error) {
	params, ok := model.ParsePageParams(c.Request.URL.Query())
	if !ok {
		return params, errors.InvalidPage()
	}
	return params, nil
}

// FilterError converts query parsing problems into a validation error, or
// nil when there are none.
func FilterError(fe model.FieldErrors) error {
	if len(fe) == 0 {
		return nil
	}
	return errors.Validation(fe)
}
