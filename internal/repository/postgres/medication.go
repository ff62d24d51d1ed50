package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/rx-admin/internal/model"
	"github.com/jwalitptl/rx-admin/internal/repository"
)

type medicationRepository struct {
	BaseRepository
}

func NewMedicationRepository(db *sqlx.DB) repository.MedicationRepository {
	return &medicationRepository{NewBaseRepository(db)}
}

const medicationColumns = `id, code, label, status`

func (r *medicationRepository) Get(ctx context.Context, id int64) (*model.Medication, error) {
	query := `SELECT ` + medicationColumns + ` FROM medications WHERE id = $1`
	var medication model.Medication
	if err := r.db.GetContext(ctx, &medication, query, id); err != nil {
		return nil, notFound("medication", err)
	}
	return &medication, nil
}

func (r *medicationRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "medications", id)
}

func medicationWhere(f model.MedicationFilters) *where {
	w := &where{}
	if f.Code != "" {
		w.add(`code ILIKE ?`, escapeLike(f.Code))
	}
	if f.Label != "" {
		w.add(`label ILIKE ?`, escapeLike(f.Label))
	}
	if f.Status != "" {
		w.add(`status = ?`, f.Status)
	}
	return w
}

func (r *medicationRepository) List(ctx context.Context, f model.MedicationFilters, page model.PageParams) ([]*model.Medication, int, error) {
	w := medicationWhere(f)

	var count int
	countQuery := r.db.Rebind(`SELECT COUNT(*) FROM medications` + w.String())
	if err := r.db.GetContext(ctx, &count, countQuery, w.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count medications: %w", err)
	}

	query := r.db.Rebind(`SELECT ` + medicationColumns + ` FROM medications` + w.String() +
		` ORDER BY code LIMIT ? OFFSET ?`)
	args := append(append([]interface{}{}, w.args...), page.PageSize, page.Offset())

	medications := []*model.Medication{}
	if err := r.db.SelectContext(ctx, &medications, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list medications: %w", err)
	}
	return medications, count, nil
}
