package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/rx-admin/internal/model"
	"github.com/jwalitptl/rx-admin/internal/repository"
)

type patientRepository struct {
	BaseRepository
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{NewBaseRepository(db)}
}

const patientColumns = `id, last_name, first_name, birth_date`

func (r *patientRepository) Get(ctx context.Context, id int64) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, id); err != nil {
		return nil, notFound("patient", err)
	}
	return &patient, nil
}

func (r *patientRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "patients", id)
}

func patientWhere(f model.PatientFilters) (*where, error) {
	w := &where{}
	if f.LastName != "" {
		w.add(`last_name ILIKE ?`, escapeLike(f.LastName))
	}
	if f.FirstName != "" {
		w.add(`first_name ILIKE ?`, escapeLike(f.FirstName))
	}
	if f.BirthDate != nil {
		w.add(`birth_date = ?`, *f.BirthDate)
	}
	if len(f.IDs) > 0 {
		if err := w.in("id", f.IDs); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func (r *patientRepository) List(ctx context.Context, f model.PatientFilters, page model.PageParams) ([]*model.Patient, int, error) {
	w, err := patientWhere(f)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build patient filters: %w", err)
	}

	var count int
	countQuery := r.db.Rebind(`SELECT COUNT(*) FROM patients` + w.String())
	if err := r.db.GetContext(ctx, &count, countQuery, w.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count patients: %w", err)
	}

	query := r.db.Rebind(`SELECT ` + patientColumns + ` FROM patients` + w.String() +
		` ORDER BY last_name, first_name, id LIMIT ? OFFSET ?`)
	args := append(append([]interface{}{}, w.args...), page.PageSize, page.Offset())

	patients := []*model.Patient{}
	if err := r.db.SelectContext(ctx, &patients, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, count, nil
}
