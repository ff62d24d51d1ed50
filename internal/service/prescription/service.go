package prescription

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/rx-admin/internal/model"
	"github.com/jwalitptl/rx-admin/internal/repository"
	"github.com/jwalitptl/rx-admin/pkg/errors"
	"github.com/jwalitptl/rx-admin/pkg/event"
	"github.com/jwalitptl/rx-admin/pkg/logger"
	"github.com/jwalitptl/rx-admin/pkg/validator"
)

type PrescriptionService interface {
	CreatePrescription(ctx context.Context, in model.PrescriptionInput) (*model.Prescription, error)
	GetPrescription(ctx context.Context, id int64) (*model.Prescription, error)
	UpdatePrescription(ctx context.Context, id int64, in model.PrescriptionInput) (*model.Prescription, error)
	PatchPrescription(ctx context.Context, id int64, patch model.PrescriptionPatch) (*model.Prescription, error)
	DeletePrescription(ctx context.Context, id int64) error
	ListPrescriptions(ctx context.Context, filters model.PrescriptionFilters, page model.PageParams) ([]*model.Prescription, int, error)
}

type Service struct {
	repo           repository.PrescriptionRepository
	patientRepo    repository.PatientRepository
	medicationRepo repository.MedicationRepository
	events         event.Emitter
	validator      validator.Validator
	logger         *logger.Logger
	now            func() time.Time
}

func NewService(
	repo repository.PrescriptionRepository,
	patientRepo repository.PatientRepository,
	medicationRepo repository.MedicationRepository,
	events event.Emitter,
	v validator.Validator,
	log *logger.Logger,
) *Service {
	if events == nil {
		events = event.NopEmitter{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:           repo,
		patientRepo:    patientRepo,
		medicationRepo: medicationRepo,
		events:         events,
		validator:      v,
		logger:         log.WithComponent("prescription_service"),
		now:            time.Now,
	}
}

func (s *Service) CreatePrescription(ctx context.Context, in model.PrescriptionInput) (*model.Prescription, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	p, err := in.ToPrescription()
	if err != nil {
		return nil, errors.BadRequest("invalid prescription", err)
	}
	if err := s.checkConsistency(ctx, p); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create prescription: %w", err)
	}

	created, err := s.repo.Get(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload prescription: %w", err)
	}
	s.emit(ctx, model.EventPrescriptionCreated, model.NewPrescriptionEvent(created, s.now()))
	return created, nil
}

func (s *Service) GetPrescription(ctx context.Context, id int64) (*model.Prescription, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}
	return p, nil
}

func (s *Service) UpdatePrescription(ctx context.Context, id int64, in model.PrescriptionInput) (*model.Prescription, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	return s.apply(ctx, id, model.PatchFromInput(in))
}

func (s *Service) PatchPrescription(ctx context.Context, id int64, patch model.PrescriptionPatch) (*model.Prescription, error) {
	if err := s.validator.Validate(patch); err != nil {
		return nil, err
	}
	return s.apply(ctx, id, patch)
}

// apply merges patch into the stored record and validates the result, so
// a partial update cannot leave end_date before start_date.
func (s *Service) apply(ctx context.Context, id int64, patch model.PrescriptionPatch) (*model.Prescription, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}

	next, err := patch.Apply(*current)
	if err != nil {
		return nil, errors.BadRequest("invalid prescription", err)
	}
	if err := s.checkConsistency(ctx, next); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to update prescription: %w", err)
	}

	updated, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload prescription: %w", err)
	}

	payload := struct {
		model.PrescriptionEvent
		Changes map[string]event.Change `json:"changes"`
	}{
		PrescriptionEvent: model.NewPrescriptionEvent(updated, s.now()),
		Changes:           event.Changes(*current, *updated, "patient_details", "medication_details"),
	}
	s.emit(ctx, model.EventPrescriptionUpdated, payload)
	return updated, nil
}

func (s *Service) DeletePrescription(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete prescription: %w", err)
	}
	s.emit(ctx, model.EventPrescriptionDeleted, model.PrescriptionEvent{PrescriptionID: id, OccurredAt: s.now().UTC()})
	return nil
}

func (s *Service) ListPrescriptions(ctx context.Context, filters model.PrescriptionFilters, page model.PageParams) ([]*model.Prescription, int, error) {
	page = page.Normalize()
	prescriptions, count, err := s.repo.List(ctx, filters, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	if !page.InRange(count) {
		return nil, 0, errors.InvalidPage()
	}
	return prescriptions, count, nil
}

// checkConsistency verifies the date order and that the referenced
// patient and medication exist. All problems are reported together.
func (s *Service) checkConsistency(ctx context.Context, p *model.Prescription) error {
	var problems []*errors.AppError

	if !p.DatesValid() {
		problems = append(problems, errors.FieldError("end_date", model.ErrEndBeforeStart))
	}

	ok, err := s.patientRepo.Exists(ctx, p.PatientID)
	if err != nil {
		return fmt.Errorf("failed to check patient: %w", err)
	}
	if !ok {
		problems = append(problems, errors.FieldError("patient", fmt.Sprintf("invalid pk %d, object does not exist", p.PatientID)))
	}

	ok, err = s.medicationRepo.Exists(ctx, p.MedicationID)
	if err != nil {
		return fmt.Errorf("failed to check medication: %w", err)
	}
	if !ok {
		problems = append(problems, errors.FieldError("medication", fmt.Sprintf("invalid pk %d, object does not exist", p.MedicationID)))
	}

	if merged := errors.Merge(problems...); merged != nil {
		return merged
	}
	return nil
}

// emit records an event; the write already succeeded so failures are
// only logged
func (s *Service) emit(ctx context.Context, eventType string, payload interface{}) {
	if err := s.events.Emit(ctx, eventType, payload); err != nil {
		s.logger.Error(err, "Failed to emit event", "event_type", eventType)
	}
}
