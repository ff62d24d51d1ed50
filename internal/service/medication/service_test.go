package medication

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/rx-admin/internal/model"
	"github.com/jwalitptl/rx-admin/internal/repository/mocks"
	"github.com/jwalitptl/rx-admin/pkg/errors"
)

func TestGetMedication(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.MedicationRepository{}
	repo.On("Get", ctx, int64(3)).Return(&model.Medication{ID: 3, Code: "MED1234A"}, nil)
	repo.On("Get", ctx, int64(4)).Return(nil, errors.NotFound("medication", nil))

	svc := NewService(repo)

	m, err := svc.GetMedication(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "MED1234A", m.Code)

	_, err = svc.GetMedication(ctx, 4)
	assert.True(t, errors.IsNotFound(err))
}

func TestListMedications(t *testing.T) {
	ctx := context.Background()
	filters := model.MedicationFilters{Status: model.MedicationStatusActive}
	page := model.PageParams{Page: 1, PageSize: model.MaxPageSize}

	repo := &mocks.MedicationRepository{}
	repo.On("List", ctx, filters, page).Return([]*model.Medication{{ID: 1}, {ID: 2}}, 2, nil)

	list, count, err := NewService(repo).ListMedications(ctx, filters, model.PageParams{Page: 1, PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, list, 2)
	repo.AssertExpectations(t)
}
