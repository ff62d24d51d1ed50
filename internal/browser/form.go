package browser

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/jwalitptl/rx-admin/internal/model"
)

const (
	MsgSaveFailed   = "failed to save prescription, check the data"
	MsgDeleteFailed = "failed to delete prescription"
)

var ErrNoPendingDelete = errors.New("no deletion awaiting confirmation")

// FormError carries a user-facing message plus per-field problems found
// either locally or by the server.
type FormError struct {
	Message string
	Fields  model.FieldErrors
	Err     error
}

func (e *FormError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(e.Fields[f], ", "))
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

func (e *FormError) Unwrap() error {
	return e.Err
}

// fieldErrorer is implemented by API errors that carry field details
type fieldErrorer interface {
	FieldErrors(field string) []string
}

// CheckPrescription runs the checks a form applies before submitting.
func CheckPrescription(in model.PrescriptionInput) model.FieldErrors {
	errs := model.FieldErrors{}
	if in.Patient <= 0 {
		errs["patient"] = []string{"patient is required"}
	}
	if in.Medication <= 0 {
		errs["medication"] = []string{"medication is required"}
	}
	start, startErr := parseFormDate(in.StartDate, "start date")
	if startErr != "" {
		errs["start_date"] = []string{startErr}
	}
	end, endErr := parseFormDate(in.EndDate, "end date")
	if endErr != "" {
		errs["end_date"] = []string{endErr}
	}
	if startErr == "" && endErr == "" && end.Before(start) {
		errs["end_date"] = []string{model.ErrEndBeforeStart}
	}
	if in.Status != "" && !in.Status.Valid() {
		errs["status"] = []string{"select a valid status"}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func parseFormDate(raw, label string) (model.Date, string) {
	if raw == "" {
		return model.Date{}, label + " is required"
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		return model.Date{}, "enter a valid " + label + " (YYYY-MM-DD)"
	}
	return d, ""
}

// Edit starts editing p; the next SubmitPrescription patches it.
func (s *Session) Edit(p model.Prescription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing = &p
	s.message = ""
}

// Editing returns the prescription being edited, if any
func (s *Session) Editing() *model.Prescription {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editing
}

// CancelForm leaves the form without saving
func (s *Session) CancelForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing = nil
	s.message = ""
}

// SubmitPrescription creates in, or patches the prescription being
// edited. On success the listing is refreshed and editing ends.
func (s *Session) SubmitPrescription(ctx context.Context, in model.PrescriptionInput) (*model.Prescription, error) {
	s.setMessage("")
	if errs := CheckPrescription(in); errs != nil {
		return nil, &FormError{Message: MsgSaveFailed, Fields: errs}
	}

	editing := s.Editing()
	var (
		saved *model.Prescription
		err   error
	)
	if editing != nil {
		saved, err = s.client.Update(ctx, editing.ID, model.PatchFromInput(in))
	} else {
		saved, err = s.client.Create(ctx, in)
	}
	if err != nil {
		s.setMessage(MsgSaveFailed)
		s.log.Error(err, "save prescription failed")
		return nil, &FormError{Message: MsgSaveFailed, Fields: serverFields(err), Err: err}
	}

	s.mu.Lock()
	s.editing = nil
	s.mu.Unlock()
	s.refreshQuietly(ctx)
	return saved, nil
}

// RequestDelete asks for confirmation before deleting id
func (s *Session) RequestDelete(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingDelete = id
}

// PendingDelete returns the id awaiting confirmation, or 0
func (s *Session) PendingDelete() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingDelete
}

func (s *Session) CancelDelete() {
	s.RequestDelete(0)
}

// ConfirmDelete deletes the requested prescription. The request is
// cleared whether or not the call succeeds.
func (s *Session) ConfirmDelete(ctx context.Context) error {
	id := s.PendingDelete()
	if id == 0 {
		return ErrNoPendingDelete
	}
	s.setMessage("")
	defer s.CancelDelete()

	if err := s.client.Delete(ctx, id); err != nil {
		s.setMessage(MsgDeleteFailed)
		s.log.Error(err, "delete prescription failed", "id", id)
		return errors.Wrap(err, MsgDeleteFailed)
	}
	s.refreshQuietly(ctx)
	return nil
}

// refreshQuietly refetches after a mutation. Removing the only row of the
// last page makes that page disappear, so fall back one page.
func (s *Session) refreshQuietly(ctx context.Context) {
	view, err := s.Refresh(ctx)
	if (err != nil || len(view.Results) == 0) && view.Page > 1 {
		_, _ = s.SetPage(ctx, view.Page-1)
	}
}

func serverFields(err error) model.FieldErrors {
	var fe fieldErrorer
	if !errors.As(err, &fe) {
		return nil
	}
	out := model.FieldErrors{}
	for _, f := range []string{"patient", "medication", "start_date", "end_date", "status", "comment", "non_field_errors"} {
		if msgs := fe.FieldErrors(f); len(msgs) > 0 {
			out[f] = msgs
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
