package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/rx-admin/internal/model"
	apperrors "github.com/jwalitptl/rx-admin/pkg/errors"
)

func TestPrescriptionWhere(t *testing.T) {
	f := model.PrescriptionFilters{
		PatientID: 3,
		Status:    model.PrescriptionStatusValid,
		Dates: []model.DateFilter{
			{Field: "start_date", Lookup: model.LookupGte, Value: model.NewDate(2024, time.January, 1)},
			{Field: "end_date", Lookup: model.LookupExact, Value: model.NewDate(2024, time.June, 30)},
		},
	}

	w, err := prescriptionWhere(f)
	require.NoError(t, err)
	assert.Equal(t,
		" WHERE p.patient_id = ? AND p.status = ? AND p.start_date >= ? AND p.end_date = ?",
		w.String())
	require.Len(t, w.args, 4)
	assert.Equal(t, int64(3), w.args[0])
	assert.Equal(t, model.NewDate(2024, time.June, 30), w.args[3])
}

func TestPrescriptionWhere_Empty(t *testing.T) {
	w, err := prescriptionWhere(model.PrescriptionFilters{})
	require.NoError(t, err)
	assert.Equal(t, "", w.String())
	assert.Empty(t, w.args)
}

func TestPrescriptionWhere_RejectsUnknownField(t *testing.T) {
	_, err := prescriptionWhere(model.PrescriptionFilters{
		Dates: []model.DateFilter{{Field: "created_at; DROP TABLE x", Lookup: model.LookupGt}},
	})
	assert.Error(t, err)
}

func TestPatientWhere(t *testing.T) {
	birth := model.NewDate(1980, time.March, 2)
	w, err := patientWhere(model.PatientFilters{
		LastName:  "dup",
		BirthDate: &birth,
		IDs:       []int64{1, 2, 3},
	})
	require.NoError(t, err)
	assert.Equal(t, " WHERE last_name ILIKE ? AND birth_date = ? AND id IN (?, ?, ?)", w.String())
	assert.Equal(t, []interface{}{"%dup%", birth, int64(1), int64(2), int64(3)}, w.args)
}

func TestMedicationWhere(t *testing.T) {
	w := medicationWhere(model.MedicationFilters{Label: "50%", Status: model.MedicationStatusActive})
	assert.Equal(t, " WHERE label ILIKE ? AND status = ?", w.String())
	assert.Equal(t, `%50\%%`, w.args[0])
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `%a\_b\\c%`, escapeLike(`a_b\c`))
}

func TestWriteError(t *testing.T) {
	fk := &pq.Error{Code: pqForeignKeyViolation, Constraint: "prescriptions_patient_id_fkey"}
	appErr, ok := apperrors.As(writeError("create", "prescription", fk))
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrValidation, appErr.Code)
	assert.Contains(t, appErr.Fields, "patient")

	check := &pq.Error{Code: pqCheckViolation, Constraint: "prescriptions_end_after_start"}
	appErr, ok = apperrors.As(writeError("update", "prescription", check))
	require.True(t, ok)
	assert.Equal(t, []string{model.ErrEndBeforeStart}, appErr.Fields["end_date"])

	dup := &pq.Error{Code: pqUniqueViolation}
	appErr, ok = apperrors.As(writeError("create", "prescription", dup))
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)

	plain := errors.New("connection reset")
	err := writeError("create", "prescription", plain)
	_, ok = apperrors.As(err)
	assert.False(t, ok)
	assert.ErrorIs(t, err, plain)
	assert.EqualError(t, err, "failed to create prescription: connection reset")
}

func TestClaimQueryLocksAndClaimsInOneStatement(t *testing.T) {
	assert.Contains(t, claimQuery, "UPDATE outbox_events")
	assert.Contains(t, claimQuery, "FOR UPDATE SKIP LOCKED")
	assert.Contains(t, claimQuery, "status = $1 AND updated_at < $3")
	assert.NotContains(t, claimQuery, ";")
}
