package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/rx-admin/internal/model"
)

// All repository interfaces in one file
type (
	// PatientRepository reads patients
	PatientRepository interface {
		Get(ctx context.Context, id int64) (*model.Patient, error)
		List(ctx context.Context, filters model.PatientFilters, page model.PageParams) ([]*model.Patient, int, error)
		Exists(ctx context.Context, id int64) (bool, error)
	}

	// MedicationRepository reads the medication catalogue
	MedicationRepository interface {
		Get(ctx context.Context, id int64) (*model.Medication, error)
		List(ctx context.Context, filters model.MedicationFilters, page model.PageParams) ([]*model.Medication, int, error)
		Exists(ctx context.Context, id int64) (bool, error)
	}

	// PrescriptionRepository handles prescription persistence
	PrescriptionRepository interface {
		Create(ctx context.Context, p *model.Prescription) error
		Get(ctx context.Context, id int64) (*model.Prescription, error)
		Update(ctx context.Context, p *model.Prescription) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context, filters model.PrescriptionFilters, page model.PageParams) ([]*model.Prescription, int, error)
	}

	// OutboxRepository stores events waiting to be published
	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		// ClaimPendingEvents moves up to limit pending events to processing,
		// along with processing events claimed longer than lease ago.
		ClaimPendingEvents(ctx context.Context, limit int, lease time.Duration) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		// Requeue returns a claimed event to pending for a later attempt
		Requeue(ctx context.Context, id uuid.UUID, reason string) error
		MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
		CountPending(ctx context.Context) (int, error)
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
