package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/rx-admin/internal/model"
	"github.com/jwalitptl/rx-admin/internal/repository"
	apperrors "github.com/jwalitptl/rx-admin/pkg/errors"
)

type prescriptionRepository struct {
	BaseRepository
}

func NewPrescriptionRepository(db *sqlx.DB) repository.PrescriptionRepository {
	return &prescriptionRepository{NewBaseRepository(db)}
}

// prescriptionRow scans a prescription joined with its patient and
// medication.
type prescriptionRow struct {
	model.Prescription
	Patient    model.Patient    `db:"patient"`
	Medication model.Medication `db:"medication"`
}

func (row *prescriptionRow) toModel() *model.Prescription {
	p := row.Prescription
	patient := row.Patient
	medication := row.Medication
	p.PatientDetails = &patient
	p.MedicationDetails = &medication
	return &p
}

const prescriptionSelect = `
	SELECT p.id, p.patient_id, p.medication_id, p.start_date, p.end_date,
		p.status, p.comment, p.created_at, p.updated_at,
		pa.id AS "patient.id", pa.last_name AS "patient.last_name",
		pa.first_name AS "patient.first_name", pa.birth_date AS "patient.birth_date",
		m.id AS "medication.id", m.code AS "medication.code",
		m.label AS "medication.label", m.status AS "medication.status"
	FROM prescriptions p
	JOIN patients pa ON pa.id = p.patient_id
	JOIN medications m ON m.id = p.medication_id`

var prescriptionDateColumns = map[string]string{
	"start_date": "p.start_date",
	"end_date":   "p.end_date",
}

func prescriptionWhere(f model.PrescriptionFilters) (*where, error) {
	w := &where{}
	if f.PatientID != 0 {
		w.add(`p.patient_id = ?`, f.PatientID)
	}
	if f.MedicationID != 0 {
		w.add(`p.medication_id = ?`, f.MedicationID)
	}
	if f.Status != "" {
		w.add(`p.status = ?`, f.Status)
	}
	for _, d := range f.Dates {
		column, ok := prescriptionDateColumns[d.Field]
		if !ok {
			return nil, fmt.Errorf("unknown date field %q", d.Field)
		}
		w.add(column+" "+d.Lookup.SQL()+" ?", d.Value)
	}
	return w, nil
}

func (r *prescriptionRepository) Create(ctx context.Context, p *model.Prescription) error {
	query := `
		INSERT INTO prescriptions (
			patient_id, medication_id, start_date, end_date, status, comment, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING id
	`
	now := time.Now().UTC()
	if err := r.db.GetContext(ctx, &p.ID, query,
		p.PatientID,
		p.MedicationID,
		p.StartDate,
		p.EndDate,
		p.Status,
		p.Comment,
		now,
	); err != nil {
		return writeError("create", "prescription", err)
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

func (r *prescriptionRepository) Get(ctx context.Context, id int64) (*model.Prescription, error) {
	var row prescriptionRow
	if err := r.db.GetContext(ctx, &row, prescriptionSelect+` WHERE p.id = $1`, id); err != nil {
		return nil, notFound("prescription", err)
	}
	return row.toModel(), nil
}

func (r *prescriptionRepository) Update(ctx context.Context, p *model.Prescription) error {
	query := `
		UPDATE prescriptions
		SET patient_id = $1, medication_id = $2, start_date = $3, end_date = $4,
			status = $5, comment = $6, updated_at = $7
		WHERE id = $8
	`
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, query,
		p.PatientID, p.MedicationID, p.StartDate, p.EndDate, p.Status, p.Comment, now, p.ID)
	if err != nil {
		return writeError("update", "prescription", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return apperrors.NotFound("prescription", nil)
	}
	p.UpdatedAt = now
	return nil
}

func (r *prescriptionRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM prescriptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete prescription: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return apperrors.NotFound("prescription", nil)
	}
	return nil
}

func (r *prescriptionRepository) List(ctx context.Context, f model.PrescriptionFilters, page model.PageParams) ([]*model.Prescription, int, error) {
	w, err := prescriptionWhere(f)
	if err != nil {
		return nil, 0, err
	}

	var count int
	countQuery := r.db.Rebind(`SELECT COUNT(*) FROM prescriptions p` + w.String())
	if err := r.db.GetContext(ctx, &count, countQuery, w.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count prescriptions: %w", err)
	}

	query := r.db.Rebind(prescriptionSelect + w.String() +
		` ORDER BY p.start_date DESC, p.id LIMIT ? OFFSET ?`)
	args := append(append([]interface{}{}, w.args...), page.PageSize, page.Offset())

	var rows []prescriptionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list prescriptions: %w", err)
	}

	out := make([]*model.Prescription, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel())
	}
	return out, count, nil
}
