package prescription

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

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

func (m *mockService) CreatePrescription(ctx context.Context, in model.PrescriptionInput) (*model.Prescription, error) {
	args := m.Called(ctx, in)
	p, _ := args.Get(0).(*model.Prescription)
	return p, args.Error(1)
}

func (m *mockService) GetPrescription(ctx context.Context, id int64) (*model.Prescription, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*model.Prescription)
	return p, args.Error(1)
}

func (m *mockService) UpdatePrescription(ctx context.Context, id int64, in model.PrescriptionInput) (*model.Prescription, error) {
	args := m.Called(ctx, id, in)
	p, _ := args.Get(0).(*model.Prescription)
	return p, args.Error(1)
}

func (m *mockService) PatchPrescription(ctx context.Context, id int64, patch model.PrescriptionPatch) (*model.Prescription, error) {
	args := m.Called(ctx, id, patch)
	p, _ := args.Get(0).(*model.Prescription)
	return p, args.Error(1)
}

func (m *mockService) DeletePrescription(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockService) ListPrescriptions(ctx context.Context, filters model.PrescriptionFilters, page model.PageParams) ([]*model.Prescription, int, error) {
	args := m.Called(ctx, filters, page)
	list, _ := args.Get(0).([]*model.Prescription)
	return list, args.Int(1), args.Error(2)
}

func setup() (*gin.Engine, *mockService) {
	gin.SetMode(gin.TestMode)
	svc := &mockService{}
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api"))
	return r, svc
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sample(id int64) *model.Prescription {
	return &model.Prescription{
		ID:           id,
		PatientID:    1,
		MedicationID: 2,
		StartDate:    model.NewDate(2024, time.January, 1),
		EndDate:      model.NewDate(2024, time.January, 31),
		Status:       model.PrescriptionStatusValid,
	}
}

func TestListPrescriptions(t *testing.T) {
	r, svc := setup()

	svc.On("ListPrescriptions", mock.Anything, mock.MatchedBy(func(f model.PrescriptionFilters) bool {
		return f.PatientID == 3 && f.Status == model.PrescriptionStatusValid && len(f.Dates) == 1
	}), model.PageParams{Page: 2, PageSize: 1}).Return([]*model.Prescription{sample(5)}, 3, nil)

	w := do(r, http.MethodGet, "/api/prescriptions?patient=3&status=valide&start_date_gte=2024-01-01&page=2&page_size=1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var page model.Page[model.Prescription]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 3, page.Count)
	require.Len(t, page.Results, 1)
	assert.Equal(t, int64(5), page.Results[0].ID)
	require.NotNil(t, page.Next)
	assert.Contains(t, *page.Next, "page=3")
	require.NotNil(t, page.Previous)
	assert.NotContains(t, *page.Previous, "page=")
	svc.AssertExpectations(t)
}

func TestListPrescriptions_BadFilters(t *testing.T) {
	r, svc := setup()

	w := do(r, http.MethodGet, "/api/prescriptions?patient=abc&start_date=31/01/2024", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string][]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "patient")
	assert.Contains(t, body, "start_date")
	svc.AssertNotCalled(t, "ListPrescriptions", mock.Anything, mock.Anything, mock.Anything)
}

func TestListPrescriptions_InvalidPage(t *testing.T) {
	r, _ := setup()

	w := do(r, http.MethodGet, "/api/prescriptions?page=zero", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"invalid page"}`, w.Body.String())
}

func TestCreatePrescription(t *testing.T) {
	r, svc := setup()

	in := model.PrescriptionInput{Patient: 1, Medication: 2, StartDate: "2024-01-01", EndDate: "2024-01-31"}
	svc.On("CreatePrescription", mock.Anything, in).Return(sample(9), nil)

	w := do(r, http.MethodPost, "/api/prescriptions",
		`{"patient":1,"medication":2,"start_date":"2024-01-01","end_date":"2024-01-31"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.EqualValues(t, 9, got["id"])
	assert.Equal(t, "2024-01-31", got["end_date"])
	assert.Equal(t, "valide", got["status"])
}

func TestCreatePrescription_ValidationError(t *testing.T) {
	r, svc := setup()

	svc.On("CreatePrescription", mock.Anything, mock.Anything).
		Return(nil, errors.FieldError("end_date", model.ErrEndBeforeStart))

	w := do(r, http.MethodPost, "/api/prescriptions",
		`{"patient":1,"medication":2,"start_date":"2024-02-01","end_date":"2024-01-31"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"end_date":["end date must be on or after start date"]}`, w.Body.String())
}

func TestCreatePrescription_MalformedBody(t *testing.T) {
	r, svc := setup()

	w := do(r, http.MethodPost, "/api/prescriptions", `{"patient":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/prescriptions", `{"patient":"one"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string][]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "patient")

	svc.AssertNotCalled(t, "CreatePrescription", mock.Anything, mock.Anything)
}

func TestPatchPrescription(t *testing.T) {
	r, svc := setup()

	svc.On("PatchPrescription", mock.Anything, int64(4), mock.MatchedBy(func(p model.PrescriptionPatch) bool {
		return p.Status != nil && *p.Status == model.PrescriptionStatusRemoved && p.StartDate == nil
	})).Return(sample(4), nil)

	w := do(r, http.MethodPatch, "/api/prescriptions/4", `{"status":"suppr"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestUpdatePrescription(t *testing.T) {
	r, svc := setup()

	svc.On("UpdatePrescription", mock.Anything, int64(4), mock.AnythingOfType("model.PrescriptionInput")).Return(sample(4), nil)

	w := do(r, http.MethodPut, "/api/prescriptions/4",
		`{"patient":1,"medication":2,"start_date":"2024-01-01","end_date":"2024-01-31"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestGetPrescription(t *testing.T) {
	r, svc := setup()

	svc.On("GetPrescription", mock.Anything, int64(4)).Return(sample(4), nil)
	svc.On("GetPrescription", mock.Anything, int64(5)).Return(nil, errors.NotFound("prescription", nil))

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/prescriptions/4", "").Code)

	w := do(r, http.MethodGet, "/api/prescriptions/5", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"prescription not found"}`, w.Body.String())

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/prescriptions/abc", "").Code)
}

func TestDeletePrescription(t *testing.T) {
	r, svc := setup()

	svc.On("DeletePrescription", mock.Anything, int64(4)).Return(nil)
	svc.On("DeletePrescription", mock.Anything, int64(5)).Return(errors.NotFound("prescription", nil))

	w := do(r, http.MethodDelete, "/api/prescriptions/4", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/api/prescriptions/5", "").Code)
}
