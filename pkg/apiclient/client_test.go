package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/rx-admin/internal/filter"
	"github.com/jwalitptl/rx-admin/internal/model"
	"github.com/jwalitptl/rx-admin/pkg/circuitbreaker"
	"github.com/jwalitptl/rx-admin/pkg/metrics"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/api", opts...)
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := New("localhost:8000")
	assert.Error(t, err)

	c, err := New("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL+"/patients", c.endpoint("/patients", nil))
}

func TestPrescriptionsList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/prescriptions", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("patient"))
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("start_date_gte"))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"count":    1,
			"next":     nil,
			"previous": nil,
			"results": []map[string]interface{}{{
				"id": 4, "patient": 3, "medication": 2,
				"start_date": "2024-01-02", "end_date": "2024-01-09", "status": "valide",
				"patient_details": map[string]interface{}{"id": 3, "last_name": "Martin", "first_name": "Luc"},
			}},
		})
	})

	page, err := c.Prescriptions.List(context.Background(), filter.Set{
		filter.KeyPatient:      "3",
		filter.KeyStartDateGte: "2024-01-01",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Count)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "2024-01-09", page.Results[0].EndDate.String())
	require.NotNil(t, page.Results[0].PatientDetails)
	assert.Equal(t, "Martin", page.Results[0].PatientDetails.LastName)
}

func TestReferenceListsAreCached(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "actif", r.URL.Query().Get("status"))
		assert.Equal(t, "1000", r.URL.Query().Get("page_size"))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"count":   1,
			"results": []map[string]interface{}{{"id": 1, "code": "MED1000A", "label": "Aspirin 100mg", "status": "actif"}},
		})
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		meds, err := c.Medications.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, meds, 1)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	c.Invalidate()
	_, err := c.Medications.GetAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestGetAllFollowsPages(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "1":
			next := "http://example.test/api/patients?page=2"
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"count": 2, "next": next,
				"results": []map[string]interface{}{{"id": 1, "last_name": "Martin", "first_name": "Jean"}},
			})
		case "2":
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"count": 2,
				"results": []map[string]interface{}{{"id": 2, "last_name": "Petit", "first_name": "Lucie"}},
			})
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	}, WithCacheTTL(0))

	patients, err := c.Patients.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, patients, 2)
	assert.Equal(t, "Petit", patients[1].LastName)
}

func TestCacheDisabled(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeJSON(w, http.StatusOK, map[string]interface{}{"count": 0, "results": []interface{}{}})
	}, WithCacheTTL(0))

	_, _ = c.Patients.GetAll(context.Background())
	_, _ = c.Patients.GetAll(context.Background())
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestErrorNormalisation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			body, _ := io.ReadAll(r.Body)
			assert.Contains(t, string(body), `"start_date":"2024-02-01"`)
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"end_date": []string{"end date must be on or after start date"},
				"patient":  "invalid pk",
			})
		case http.MethodDelete:
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "prescription not found"})
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("<html>bad gateway</html>"))
		}
	})
	ctx := context.Background()

	_, err := c.Prescriptions.Create(ctx, model.PrescriptionInput{StartDate: "2024-02-01", EndDate: "2024-01-01"})
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, []string{"end date must be on or after start date"}, apiErr.FieldErrors("end_date"))
	assert.Equal(t, []string{"invalid pk"}, apiErr.FieldErrors("patient"))

	err = c.Prescriptions.Delete(ctx, 9)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "prescription not found", apiErr.Message)
	assert.Empty(t, apiErr.Errors)

	_, err = c.Prescriptions.Get(ctx, 9)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "request failed with status code 502", apiErr.Message)
}

func TestUpdateSendsPatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/prescriptions/4", r.URL.Path)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]interface{}{"comment": "renewed"}, body)
		writeJSON(w, http.StatusOK, map[string]interface{}{"id": 4, "comment": "renewed"})
	})

	comment := "renewed"
	p, err := c.Prescriptions.Update(context.Background(), 4, model.PrescriptionPatch{Comment: &comment})
	require.NoError(t, err)
	assert.Equal(t, "renewed", p.Comment)
}

func TestBreakerOpensOnServerErrors(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}, WithBreaker(circuitbreaker.Settings{Name: "test", ConsecutiveFailures: 2, Timeout: time.Minute}))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := c.Prescriptions.Get(ctx, 1)
		var apiErr *Error
		assert.True(t, errors.As(err, &apiErr))
	}

	_, err := c.Prescriptions.Get(ctx, 1)
	assert.True(t, errors.Is(err, circuitbreaker.ErrOpen))
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestClientErrorsDoNotTripBreaker(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "not found"})
	}, WithBreaker(circuitbreaker.Settings{Name: "test", ConsecutiveFailures: 1, Timeout: time.Minute}))

	for i := 0; i < 3; i++ {
		_, err := c.Patients.Get(context.Background(), 1)
		assert.False(t, errors.Is(err, circuitbreaker.ErrOpen))
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics("rx", "client", reg)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, WithMetrics(m))

	require.NoError(t, c.Prescriptions.Delete(context.Background(), 1))

	families, err := reg.Gather()
	require.NoError(t, err)
	var found bool
	for _, mf := range families {
		if mf.GetName() != "rx_client_client_requests_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			labels := map[string]string{}
			for _, l := range metric.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["method"] == http.MethodDelete && labels["status"] == "success" {
				found = true
				assert.Equal(t, 1.0, metric.GetCounter().GetValue())
			}
		}
	}
	assert.True(t, found)
}
