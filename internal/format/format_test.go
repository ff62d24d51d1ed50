package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/rx-admin/internal/filter"
	"github.com/jwalitptl/rx-admin/internal/model"
)

func TestDate(t *testing.T) {
	assert.Equal(t, "05/03/2024", Date(model.NewDate(2024, time.March, 5)))
	assert.Equal(t, "", Date(model.Date{}))
}

func TestStatusLabel(t *testing.T) {
	tests := map[model.PrescriptionStatus]string{
		model.PrescriptionStatusValid:   "Valide",
		model.PrescriptionStatusPending: "En attente",
		model.PrescriptionStatusRemoved: "Supprimé",
		"archived":                      "archived",
	}
	for status, want := range tests {
		assert.Equal(t, want, StatusLabel(status), string(status))
	}
}

func TestNames(t *testing.T) {
	assert.Equal(t, "Durand Marie", PatientName(&model.Patient{LastName: "Durand", FirstName: "Marie"}, 1))
	assert.Equal(t, "#7", PatientName(nil, 7))
	assert.Equal(t, "MED1234A Aspirin 100mg", Medication(&model.Medication{Code: "MED1234A", Label: "Aspirin 100mg"}, 1))
	assert.Equal(t, "#3", Medication(nil, 3))
}

func TestComment(t *testing.T) {
	assert.Equal(t, "-", Comment(""))
	assert.Equal(t, "-", Comment("   "))
	assert.Equal(t, "Take with meals", Comment("Take with meals"))
}

func TestFooter(t *testing.T) {
	assert.Equal(t, "1 prescription, page 1 of 1", Footer(1, 1, 1))
	assert.Equal(t, "0 prescriptions, page 1 of 1", Footer(0, 1, 0))
	assert.Equal(t, "1,234 prescriptions, page 2 of 62", Footer(1234, 2, 62))
}

func TestOperatorLabel(t *testing.T) {
	assert.Equal(t, ">=", OperatorLabel(filter.OpGte))
	assert.Equal(t, "=", OperatorLabel(filter.OpEquals))
	assert.Equal(t, "intervalle", OperatorLabel(filter.OpInterval))
	assert.Equal(t, "between", OperatorLabel("between"))
}

func TestDateValue(t *testing.T) {
	assert.Equal(t, "30/06/2024", DateValue("2024-06-30"))
	assert.Equal(t, "-", DateValue(""))
	assert.Equal(t, "2024-13-01", DateValue("2024-13-01"))
}

func TestFilters(t *testing.T) {
	s := filter.NewState()
	assert.Equal(t, []string{
		"patient    -",
		"medication -",
		"status     -",
		"start      >= -",
		"end        <= -",
	}, Filters(s))

	var ok bool
	steps := []func(filter.State) (filter.State, bool){
		func(s filter.State) (filter.State, bool) { return s.WithScalar(filter.KeyPatient, "3") },
		func(s filter.State) (filter.State, bool) { return s.WithScalar(filter.KeyStatus, "en_attente") },
		func(s filter.State) (filter.State, bool) { return s.WithOperator(filter.Start, filter.OpInterval) },
		func(s filter.State) (filter.State, bool) { return s.WithIntervalBound(filter.Start, filter.From, "2024-01-01") },
		func(s filter.State) (filter.State, bool) { return s.WithOperator(filter.End, filter.OpGt) },
		func(s filter.State) (filter.State, bool) { return s.WithDate(filter.End, "2024-06-30") },
	}
	for _, step := range steps {
		s, ok = step(s)
		require.True(t, ok)
	}

	assert.Equal(t, []string{
		"patient    #3",
		"medication -",
		"status     En attente",
		"start      intervalle 01/01/2024 .. -",
		"end        > 30/06/2024",
	}, Filters(s))
}
