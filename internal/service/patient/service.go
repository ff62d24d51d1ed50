package patient

import (
	"context"
	"fmt"

	"github.com/jwalitptl/rx-admin/internal/model"
	"github.com/jwalitptl/rx-admin/internal/repository"
	"github.com/jwalitptl/rx-admin/pkg/errors"
)

type PatientService interface {
	GetPatient(ctx context.Context, id int64) (*model.Patient, error)
	ListPatients(ctx context.Context, filters model.PatientFilters, page model.PageParams) ([]*model.Patient, int, error)
}

type Service struct {
	repo repository.PatientRepository
}

func NewService(repo repository.PatientRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetPatient(ctx context.Context, id int64) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return patient, nil
}

func (s *Service) ListPatients(ctx context.Context, filters model.PatientFilters, page model.PageParams) ([]*model.Patient, int, error) {
	page = page.Normalize()
	patients, count, err := s.repo.List(ctx, filters, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list patients: %w", err)
	}
	if !page.InRange(count) {
		return nil, 0, errors.InvalidPage()
	}
	return patients, count, nil
}
