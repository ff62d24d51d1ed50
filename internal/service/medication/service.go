package medication

import (
	"context"
	"fmt"

	"github.com/jwalitptl/rx-admin/internal/model"
	"github.com/jwalitptl/rx-admin/internal/repository"
	"github.com/jwalitptl/rx-admin/pkg/errors"
)

type MedicationService interface {
	GetMedication(ctx context.Context, id int64) (*model.Medication, error)
	ListMedications(ctx context.Context, filters model.MedicationFilters, page model.PageParams) ([]*model.Medication, int, error)
}

type Service struct {
	repo repository.MedicationRepository
}

func NewService(repo repository.MedicationRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetMedication(ctx context.Context, id int64) (*model.Medication, error) {
	medication, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get medication: %w", err)
	}
	return medication, nil
}

func (s *Service) ListMedications(ctx context.Context, filters model.MedicationFilters, page model.PageParams) ([]*model.Medication, int, error) {
	page = page.Normalize()
	medications, count, err := s.repo.List(ctx, filters, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list medications: %w", err)
	}
	if !page.InRange(count) {
		return nil, 0, errors.InvalidPage()
	}
	return medications, count, nil
}
