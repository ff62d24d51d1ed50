package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/rx-admin/internal/model"
	apperrors "github.com/jwalitptl/rx-admin/pkg/errors"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db *sqlx.DB
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(db *sqlx.DB) BaseRepository {
	return BaseRepository{db: db}
}

// GetDB returns the database instance
func (r *BaseRepository) GetDB() *sqlx.DB {
	return r.db
}

// WithTx executes a function within a transaction
func (r *BaseRepository) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (r *BaseRepository) exists(ctx context.Context, table string, id int64) (bool, error) {
	var ok bool
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)`, table)
	if err := r.db.GetContext(ctx, &ok, query, id); err != nil {
		return false, fmt.Errorf("failed to check %s: %w", table, err)
	}
	return ok, nil
}

// notFound maps sql.ErrNoRows to a not-found AppError
func notFound(resource string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound(resource, err)
	}
	return fmt.Errorf("failed to get %s: %w", resource, err)
}

// Postgres error codes the repositories translate
const (
	pqForeignKeyViolation = "23503"
	pqUniqueViolation     = "23505"
	pqCheckViolation      = "23514"
)

// constraintFields maps constraint names to the payload field at fault
var constraintFields = map[string]string{
	"prescriptions_patient_id_fkey":    "patient",
	"prescriptions_medication_id_fkey": "medication",
	"prescriptions_end_after_start":    "end_date",
}

// writeError turns constraint violations that slipped past the service
// checks, e.g. a patient deleted in between, into client errors.
func writeError(op, resource string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		field := constraintFields[pqErr.Constraint]
		switch pqErr.Code {
		case pqForeignKeyViolation:
			if field != "" {
				return apperrors.FieldError(field, "object does not exist")
			}
		case pqCheckViolation:
			if field == "end_date" {
				return apperrors.FieldError(field, model.ErrEndBeforeStart)
			}
		case pqUniqueViolation:
			return apperrors.Conflict(resource+" already exists", err)
		}
	}
	return fmt.Errorf("failed to %s %s: %w", op, resource, err)
}

// where accumulates AND-ed conditions written with ? placeholders; the
// query is rebound to the driver's bindvar style before execution.
type where struct {
	clauses []string
	args    []interface{}
}

func (w *where) add(clause string, args ...interface{}) {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
}

// in adds "column IN (...)"; it expands the slice through sqlx.In.
func (w *where) in(column string, values interface{}) error {
	clause, args, err := sqlx.In(column+" IN (?)", values)
	if err != nil {
		return err
	}
	w.add(clause, args...)
	return nil
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// escapeLike escapes LIKE wildcards in user input
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
