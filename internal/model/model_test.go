package model

import (
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	var p Patient
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"last_name":"Roux","first_name":"Lea","birth_date":"1984-02-29"}`), &p))
	require.NotNil(t, p.BirthDate)
	assert.Equal(t, NewDate(1984, time.February, 29), *p.BirthDate)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"last_name":"Roux","first_name":"Lea","birth_date":"1984-02-29"}`, string(out))

	p.BirthDate = nil
	out, err = json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"birth_date":null`)

	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"2024-02-30"`), &d))
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 5, 6, 13, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-05-06", d.String())

	require.NoError(t, d.Scan([]byte("2023-01-02T00:00:00Z")))
	assert.Equal(t, "2023-01-02", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}

func TestParsePageParams(t *testing.T) {
	tests := []struct {
		query string
		want  PageParams
		ok    bool
	}{
		{"", PageParams{Page: 1, PageSize: 20}, true},
		{"page=3&page_size=50", PageParams{Page: 3, PageSize: 50}, true},
		{"page_size=1000", PageParams{Page: 1, PageSize: 100}, true},
		{"page_size=abc", PageParams{Page: 1, PageSize: 20}, true},
		{"page_size=-4", PageParams{Page: 1, PageSize: 20}, true},
		{"page=0", PageParams{Page: 1, PageSize: 20}, false},
		{"page=x", PageParams{Page: 1, PageSize: 20}, false},
	}
	for _, tt := range tests {
		q, _ := url.ParseQuery(tt.query)
		got, ok := ParsePageParams(q)
		assert.Equal(t, tt.ok, ok, tt.query)
		if ok {
			assert.Equal(t, tt.want, got, tt.query)
		}
	}
}

func TestPageParams_Navigation(t *testing.T) {
	p := PageParams{Page: 2, PageSize: 20}
	assert.Equal(t, 20, p.Offset())
	assert.True(t, p.HasNext(41))
	assert.False(t, p.HasNext(40))
	assert.True(t, p.HasPrevious())
	assert.True(t, p.InRange(21))
	assert.False(t, p.InRange(20))
	assert.True(t, PageParams{Page: 1, PageSize: 20}.InRange(0))

	assert.Equal(t, 0, TotalPages(0, 20))
	assert.Equal(t, 1, TotalPages(20, 20))
	assert.Equal(t, 3, TotalPages(41, 20))
}

func TestParsePrescriptionFilters(t *testing.T) {
	q := url.Values{}
	q.Set("patient", "4")
	q.Set("status", "valide")
	q.Set("start_date_gte", "2024-01-01")
	q.Set("end_date", "2024-12-31")
	q.Set("medication", "")

	f, errs := ParsePrescriptionFilters(q)
	require.Nil(t, errs)
	assert.Equal(t, int64(4), f.PatientID)
	assert.Zero(t, f.MedicationID)
	assert.Equal(t, PrescriptionStatusValid, f.Status)
	assert.Equal(t, []DateFilter{
		{Field: "start_date", Lookup: LookupGte, Value: NewDate(2024, time.January, 1)},
		{Field: "end_date", Lookup: LookupExact, Value: NewDate(2024, time.December, 31)},
	}, f.Dates)
}

func TestParsePrescriptionFilters_Errors(t *testing.T) {
	q := url.Values{}
	q.Set("patient", "abc")
	q.Set("status", "done")
	q.Set("end_date_lt", "31/12/2024")

	_, errs := ParsePrescriptionFilters(q)
	require.NotNil(t, errs)
	assert.Contains(t, errs, "patient")
	assert.Contains(t, errs, "status")
	assert.Contains(t, errs, "end_date_lt")
}

func TestParsePatientFilters_IDs(t *testing.T) {
	q, _ := url.ParseQuery("id=1,2&id=5&id=x&nom=dup")
	f, errs := ParsePatientFilters(q)
	require.Nil(t, errs)
	assert.Equal(t, []int64{1, 2, 5}, f.IDs)
	assert.Equal(t, "dup", f.LastName)
}

func TestPrescriptionInput_ToPrescription(t *testing.T) {
	p, err := PrescriptionInput{
		Patient: 1, Medication: 2, StartDate: "2024-01-01", EndDate: "2024-01-10",
	}.ToPrescription()
	require.NoError(t, err)
	assert.Equal(t, PrescriptionStatusPending, p.Status)
	assert.True(t, p.DatesValid())
}

func TestPrescriptionPatch_Apply(t *testing.T) {
	current := Prescription{
		ID: 9, PatientID: 1, MedicationID: 2,
		StartDate: NewDate(2024, time.January, 1), EndDate: NewDate(2024, time.January, 31),
		Status: PrescriptionStatusPending, Comment: "a",
		PatientDetails: &Patient{ID: 1},
	}
	end := "2023-12-01"
	status := PrescriptionStatusValid
	next, err := PrescriptionPatch{EndDate: &end, Status: &status}.Apply(current)
	require.NoError(t, err)

	assert.Equal(t, int64(9), next.ID)
	assert.Equal(t, PrescriptionStatusValid, next.Status)
	assert.Equal(t, "a", next.Comment)
	assert.Nil(t, next.PatientDetails)
	assert.False(t, next.DatesValid())
	assert.Equal(t, PrescriptionStatusPending, current.Status)

	assert.True(t, PrescriptionPatch{}.Empty())
}
