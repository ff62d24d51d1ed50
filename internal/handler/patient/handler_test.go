package patient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/rx-admin/internal/model"
	"github.com/jwalitptl/rx-admin/pkg/errors"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GetPatient(ctx context.Context, id int64) (*model.Patient, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*model.Patient)
	return p, args.Error(1)
}

func (m *mockService) ListPatients(ctx context.Context, filters model.PatientFilters, page model.PageParams) ([]*model.Patient, int, error) {
	args := m.Called(ctx, filters, page)
	list, _ := args.Get(0).([]*model.Patient)
	return list, args.Int(1), args.Error(2)
}

func setup() (*gin.Engine, *mockService) {
	gin.SetMode(gin.TestMode)
	svc := &mockService{}
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api"))
	return r, svc
}

func TestListPatients(t *testing.T) {
	r, svc := setup()

	svc.On("ListPatients", mock.Anything, model.PatientFilters{LastName: "dur", IDs: []int64{1, 2}},
		model.PageParams{Page: 1, PageSize: model.MaxPageSize}).
		Return([]*model.Patient{{ID: 1, LastName: "Durand", FirstName: "Marie"}}, 1, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/patients?nom=dur&id=1,2&page_size=1000", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var page model.Page[model.Patient]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Count)
	assert.Nil(t, page.Next)
	assert.Nil(t, page.Previous)
	assert.Equal(t, "Durand", page.Results[0].LastName)
	svc.AssertExpectations(t)
}

func TestListPatients_BadBirthDate(t *testing.T) {
	r, _ := setup()

	req := httptest.NewRequest(http.MethodGet, "/api/patients?date_naissance=yesterday", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "date_naissance")
}

func TestGetPatient(t *testing.T) {
	r, svc := setup()
	svc.On("GetPatient", mock.Anything, int64(8)).Return(nil, errors.NotFound("patient", nil))

	req := httptest.NewRequest(http.MethodGet, "/api/patients/8", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"patient not found"}`, w.Body.String())
}
