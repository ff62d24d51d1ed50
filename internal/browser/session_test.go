package browser

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/rx-admin/internal/filter"
	"github.com/jwalitptl/rx-admin/internal/filter/filtertest"
	"github.com/jwalitptl/rx-admin/internal/model"
	"github.com/jwalitptl/rx-admin/pkg/apiclient"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) List(ctx context.Context, filters filter.Set) (*model.Page[model.Prescription], error) {
	args := m.Called(ctx, filters)
	page, _ := args.Get(0).(*model.Page[model.Prescription])
	return page, args.Error(1)
}

func (m *mockClient) Create(ctx context.Context, in model.PrescriptionInput) (*model.Prescription, error) {
	args := m.Called(ctx, in)
	p, _ := args.Get(0).(*model.Prescription)
	return p, args.Error(1)
}

func (m *mockClient) Update(ctx context.Context, id int64, patch model.PrescriptionPatch) (*model.Prescription, error) {
	args := m.Called(ctx, id, patch)
	p, _ := args.Get(0).(*model.Prescription)
	return p, args.Error(1)
}

func (m *mockClient) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func pageOf(count int, ids ...int64) *model.Page[model.Prescription] {
	p := &model.Page[model.Prescription]{Count: count, Results: []model.Prescription{}}
	for _, id := range ids {
		p.Results = append(p.Results, model.Prescription{
			ID: id, PatientID: 1, MedicationID: 2,
			StartDate: model.NewDate(2024, 1, 1), EndDate: model.NewDate(2024, 1, 10),
			Status: model.PrescriptionStatusValid,
		})
	}
	return p
}

type fixture struct {
	client  *mockClient
	clock   *filtertest.Clock
	session *Session
	views   []View
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{client: &mockClient{}, clock: filtertest.NewClock()}
	f.session = NewSession(context.Background(), f.client,
		WithFilterOptions(filter.WithClock(f.clock)),
		WithListener(func(v View) { f.views = append(f.views, v) }),
	)
	t.Cleanup(f.session.Close)
	return f
}

func TestSession_FilterEditsSettleIntoOneFetch(t *testing.T) {
	f := newFixture(t)
	want := filter.Set{"patient": "3", "status": "valide", "page": "1", "page_size": "20"}
	f.client.On("List", mock.Anything, want).Return(pageOf(1, 7), nil).Once()

	r := f.session.Filters()
	require.True(t, r.SetPatient(3))
	require.True(t, r.SetStatus("valide"))
	f.clock.Advance(filter.DefaultDelay / 2)
	f.client.AssertNotCalled(t, "List", mock.Anything, mock.Anything)

	f.clock.Advance(filter.DefaultDelay)
	f.client.AssertExpectations(t)
	require.Len(t, f.views, 1)
	assert.Equal(t, 1, f.views[0].Count)
	assert.Equal(t, filter.Set{"patient": "3", "status": "valide"}, f.views[0].Filters)
}

func TestSession_FilterChangeResetsPage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.client.On("List", mock.Anything, filter.Set{"page": "1", "page_size": "20"}).Return(pageOf(60, 1), nil).Once()
	f.client.On("List", mock.Anything, filter.Set{"page": "3", "page_size": "20"}).Return(pageOf(60, 41), nil).Once()
	f.client.On("List", mock.Anything, filter.Set{"medication": "4", "page": "1", "page_size": "20"}).Return(pageOf(2, 5, 6), nil).Once()

	_, err := f.session.Refresh(ctx)
	require.NoError(t, err)
	v, err := f.session.SetPage(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, v.Page)

	f.session.Filters().SetMedication(4)
	f.clock.Advance(filter.DefaultDelay)

	v = f.session.View()
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, 2, v.Count)
	assert.Equal(t, 1, v.TotalPages)
	f.client.AssertExpectations(t)
}

func TestSession_ResetNotifiesImmediately(t *testing.T) {
	f := newFixture(t)
	f.client.On("List", mock.Anything, filter.Set{"page": "1", "page_size": "20"}).Return(pageOf(0), nil).Once()

	f.session.Filters().SetPatient(9)
	f.session.Filters().Reset()

	require.Len(t, f.views, 1)
	f.clock.Advance(filter.DefaultDelay)
	assert.Len(t, f.views, 1, "pending notification dropped by reset")
	f.client.AssertExpectations(t)
}

func TestSession_Pagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.client.On("List", mock.Anything, mock.Anything).Return(pageOf(45, 1), nil)

	_, err := f.session.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, f.session.TotalPages())

	_, err = f.session.PrevPage(ctx)
	assert.ErrorIs(t, err, ErrPageOutOfRange)

	v, err := f.session.NextPage(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Page)
	v, err = f.session.NextPage(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, v.Page)

	_, err = f.session.NextPage(ctx)
	assert.ErrorIs(t, err, ErrPageOutOfRange)
	assert.Equal(t, 3, f.session.View().Page)
}

func TestSession_SetPageSize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.client.On("List", mock.Anything, filter.Set{"page": "1", "page_size": "20"}).Return(pageOf(45, 1), nil).Once()
	f.client.On("List", mock.Anything, filter.Set{"page": "2", "page_size": "20"}).Return(pageOf(45, 21), nil).Once()
	f.client.On("List", mock.Anything, filter.Set{"page": "1", "page_size": "50"}).Return(pageOf(45, 1), nil).Once()

	_, err := f.session.Refresh(ctx)
	require.NoError(t, err)
	_, err = f.session.NextPage(ctx)
	require.NoError(t, err)

	_, err = f.session.SetPageSize(ctx, 30)
	assert.ErrorIs(t, err, ErrInvalidPageSize)

	v, err := f.session.SetPageSize(ctx, 50)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, 50, v.PageSize)
	assert.Equal(t, 1, v.TotalPages)
	f.client.AssertExpectations(t)
}

func TestSession_ListFailureIsKept(t *testing.T) {
	f := newFixture(t)
	f.client.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused")).Once()

	v, err := f.session.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load prescriptions")
	assert.Equal(t, err, v.Err)
	assert.Empty(t, f.views, "explicit refreshes are not published")
}

func TestSubmitPrescription(t *testing.T) {
	valid := model.PrescriptionInput{
		Patient: 1, Medication: 2, StartDate: "2024-01-01", EndDate: "2024-01-10",
	}

	t.Run("local check blocks the call", func(t *testing.T) {
		f := newFixture(t)
		in := valid
		in.EndDate = "2023-12-31"

		_, err := f.session.SubmitPrescription(context.Background(), in)
		var fe *FormError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, MsgSaveFailed, fe.Message)
		assert.Equal(t, []string{model.ErrEndBeforeStart}, fe.Fields["end_date"])
		f.client.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing fields", func(t *testing.T) {
		errs := CheckPrescription(model.PrescriptionInput{})
		assert.Equal(t, model.FieldErrors{
			"patient":    {"patient is required"},
			"medication": {"medication is required"},
			"start_date": {"start date is required"},
			"end_date":   {"end date is required"},
		}, errs)
	})

	t.Run("same day is valid", func(t *testing.T) {
		in := valid
		in.EndDate = in.StartDate
		assert.Nil(t, CheckPrescription(in))
	})

	t.Run("creates when not editing", func(t *testing.T) {
		f := newFixture(t)
		f.client.On("Create", mock.Anything, valid).Return(&model.Prescription{ID: 11}, nil).Once()
		f.client.On("List", mock.Anything, mock.Anything).Return(pageOf(1, 11), nil).Once()

		p, err := f.session.SubmitPrescription(context.Background(), valid)
		require.NoError(t, err)
		assert.EqualValues(t, 11, p.ID)
		f.client.AssertExpectations(t)
	})

	t.Run("patches when editing", func(t *testing.T) {
		f := newFixture(t)
		f.session.Edit(model.Prescription{ID: 5})
		f.client.On("Update", mock.Anything, int64(5), model.PatchFromInput(valid)).Return(&model.Prescription{ID: 5}, nil).Once()
		f.client.On("List", mock.Anything, mock.Anything).Return(pageOf(1, 5), nil).Once()

		_, err := f.session.SubmitPrescription(context.Background(), valid)
		require.NoError(t, err)
		assert.Nil(t, f.session.Editing())
		f.client.AssertExpectations(t)
	})

	t.Run("server rejection keeps field errors", func(t *testing.T) {
		f := newFixture(t)
		apiErr := &apiclient.Error{
			StatusCode: 400,
			Message:    "request failed with status code 400",
			Errors:     map[string][]string{"patient": {"invalid pk 1, object does not exist"}},
		}
		f.client.On("Create", mock.Anything, valid).Return(nil, apiErr).Once()

		_, err := f.session.SubmitPrescription(context.Background(), valid)
		var fe *FormError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, []string{"invalid pk 1, object does not exist"}, fe.Fields["patient"])
		assert.ErrorIs(t, err, apiErr)
		assert.Equal(t, MsgSaveFailed, f.session.Message())
	})
}

func TestDeleteFlow(t *testing.T) {
	ctx := context.Background()

	t.Run("confirm deletes", func(t *testing.T) {
		f := newFixture(t)
		f.client.On("Delete", mock.Anything, int64(4)).Return(nil).Once()
		f.client.On("List", mock.Anything, mock.Anything).Return(pageOf(0), nil).Once()

		f.session.RequestDelete(4)
		assert.EqualValues(t, 4, f.session.PendingDelete())
		require.NoError(t, f.session.ConfirmDelete(ctx))
		assert.Zero(t, f.session.PendingDelete())
		f.client.AssertExpectations(t)
	})

	t.Run("cancel does not call the API", func(t *testing.T) {
		f := newFixture(t)
		f.session.RequestDelete(4)
		f.session.CancelDelete()
		assert.ErrorIs(t, f.session.ConfirmDelete(ctx), ErrNoPendingDelete)
		f.client.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("failure clears the request", func(t *testing.T) {
		f := newFixture(t)
		f.client.On("Delete", mock.Anything, int64(4)).Return(errors.New("boom")).Once()

		f.session.RequestDelete(4)
		err := f.session.ConfirmDelete(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), MsgDeleteFailed)
		assert.Equal(t, MsgDeleteFailed, f.session.Message())
		assert.Zero(t, f.session.PendingDelete())
	})

	t.Run("emptied last page falls back", func(t *testing.T) {
		f := newFixture(t)
		f.client.On("List", mock.Anything, filter.Set{"page": "1", "page_size": "20"}).Return(pageOf(21, 1), nil).Once()
		f.client.On("List", mock.Anything, filter.Set{"page": "2", "page_size": "20"}).Return(pageOf(21, 21), nil).Once()
		f.client.On("Delete", mock.Anything, int64(21)).Return(nil).Once()
		f.client.On("List", mock.Anything, filter.Set{"page": "2", "page_size": "20"}).
			Return(nil, &apiclient.Error{StatusCode: 404, Message: "invalid page"}).Once()
		f.client.On("List", mock.Anything, filter.Set{"page": "1", "page_size": "20"}).Return(pageOf(20, 1), nil).Once()

		_, err := f.session.Refresh(ctx)
		require.NoError(t, err)
		_, err = f.session.NextPage(ctx)
		require.NoError(t, err)

		f.session.RequestDelete(21)
		require.NoError(t, f.session.ConfirmDelete(ctx))
		v := f.session.View()
		assert.Equal(t, 1, v.Page)
		assert.Nil(t, v.Err)
		f.client.AssertExpectations(t)
	})
}
