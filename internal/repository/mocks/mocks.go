// Package mocks holds testify mocks of the repository interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jwalitptl/rx-admin/internal/model"
)

type PatientRepository struct {
	mock.Mock
}

func (m *PatientRepository) Get(ctx context.Context, id int64) (*model.Patient, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*model.Patient); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PatientRepository) List(ctx context.Context, filters model.PatientFilters, page model.PageParams) ([]*model.Patient, int, error) {
	args := m.Called(ctx, filters, page)
	list, _ := args.Get(0).([]*model.Patient)
	return list, args.Int(1), args.Error(2)
}

func (m *PatientRepository) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MedicationRepository struct {
	mock.Mock
}

func (m *MedicationRepository) Get(ctx context.Context, id int64) (*model.Medication, error) {
	args := m.Called(ctx, id)
	if med, ok := args.Get(0).(*model.Medication); ok {
		return med, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MedicationRepository) List(ctx context.Context, filters model.MedicationFilters, page model.PageParams) ([]*model.Medication, int, error) {
	args := m.Called(ctx, filters, page)
	list, _ := args.Get(0).([]*model.Medication)
	return list, args.Int(1), args.Error(2)
}

func (m *MedicationRepository) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type PrescriptionRepository struct {
	mock.Mock
}

func (m *PrescriptionRepository) Create(ctx context.Context, p *model.Prescription) error {
	return m.Called(ctx, p).Error(0)
}

func (m *PrescriptionRepository) Get(ctx context.Context, id int64) (*model.Prescription, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*model.Prescription); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PrescriptionRepository) Update(ctx context.Context, p *model.Prescription) error {
	return m.Called(ctx, p).Error(0)
}

func (m *PrescriptionRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *PrescriptionRepository) List(ctx context.Context, filters model.PrescriptionFilters, page model.PageParams) ([]*model.Prescription, int, error) {
	args := m.Called(ctx, filters, page)
	list, _ := args.Get(0).([]*model.Prescription)
	return list, args.Int(1), args.Error(2)
}

// Emitter records emitted events
type Emitter struct {
	mock.Mock
}

func (m *Emitter) Emit(ctx context.Context, eventType string, payload interface{}) error {
	return m.Called(ctx, eventType, payload).Error(0)
}
