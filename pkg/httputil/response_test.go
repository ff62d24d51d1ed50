package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/rx-admin/internal/model"
	"github.com/jwalitptl/rx-admin/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func TestRespondWithError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"not found", errors.NotFound("prescription", nil), http.StatusNotFound, `{"detail":"prescription not found"}`},
		{"validation", errors.FieldError("end_date", model.ErrEndBeforeStart), http.StatusBadRequest,
			`{"end_date":["end date must be on or after start date"]}`},
		{"wrapped", fmt.Errorf("failed to get: %w", errors.BadRequest("invalid page", nil)), http.StatusBadRequest, `{"detail":"invalid page"}`},
		{"plain", fmt.Errorf("boom"), http.StatusInternalServerError, `{"detail":"internal server error"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newContext("/api/prescriptions")
			RespondWithError(c, tt.err)
			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}

func TestRespondWithPage(t *testing.T) {
	c, w := newContext("http://example.test/api/prescriptions?status=valide&page=2&page_size=10")
	RespondWithPage(c, []int{1, 2}, 25, model.PageParams{Page: 2, PageSize: 10})

	require.Equal(t, http.StatusOK, w.Code)
	var page model.Page[int]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 25, page.Count)
	require.NotNil(t, page.Next)
	assert.Equal(t, "http://example.test/api/prescriptions?page=3&page_size=10&status=valide", *page.Next)
	require.NotNil(t, page.Previous)
	assert.Equal(t, "http://example.test/api/prescriptions?page_size=10&status=valide", *page.Previous)
}

func TestRespondWithPage_Empty(t *testing.T) {
	c, w := newContext("/api/patients")
	RespondWithPage[model.Patient](c, nil, 0, model.PageParams{Page: 1, PageSize: 20})
	assert.JSONEq(t, `{"count":0,"next":null,"previous":null,"results":[]}`, w.Body.String())
}
