package model

import (
	"time"
)

type PrescriptionStatus string

const (
	PrescriptionStatusValid   PrescriptionStatus = "valide"
	PrescriptionStatusPending PrescriptionStatus = "en_attente"
	PrescriptionStatusRemoved PrescriptionStatus = "suppr"
)

// PrescriptionStatuses lists the statuses in display order
var PrescriptionStatuses = []PrescriptionStatus{
	PrescriptionStatusValid,
	PrescriptionStatusPending,
	PrescriptionStatusRemoved,
}

func (s PrescriptionStatus) Valid() bool {
	for _, known := range PrescriptionStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ErrEndBeforeStart is reported on end_date when a prescription ends
// before it starts.
const ErrEndBeforeStart = "end date must be on or after start date"

// Prescription ties a medication to a patient over a date range
type Prescription struct {
	ID                int64              `db:"id" json:"id"`
	PatientID         int64              `db:"patient_id" json:"patient"`
	PatientDetails    *Patient           `db:"-" json:"patient_details,omitempty"`
	MedicationID      int64              `db:"medication_id" json:"medication"`
	MedicationDetails *Medication        `db:"-" json:"medication_details,omitempty"`
	StartDate         Date               `db:"start_date" json:"start_date"`
	EndDate           Date               `db:"end_date" json:"end_date"`
	Status            PrescriptionStatus `db:"status" json:"status"`
	Comment           string             `db:"comment" json:"comment"`
	CreatedAt         time.Time          `db:"created_at" json:"-"`
	UpdatedAt         time.Time          `db:"updated_at" json:"-"`
}

// DatesValid reports whether the prescription does not end before it starts
func (p *Prescription) DatesValid() bool {
	return !p.EndDate.Before(p.StartDate)
}

// PrescriptionInput is the body of a create or full update
type PrescriptionInput struct {
	Patient    int64              `json:"patient" validate:"required,gt=0"`
	Medication int64              `json:"medication" validate:"required,gt=0"`
	StartDate  string             `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string             `json:"end_date" validate:"required,datetime=2006-01-02"`
	Status     PrescriptionStatus `json:"status" validate:"omitempty,oneof=valide en_attente suppr"`
	Comment    string             `json:"comment"`
}

// ToPrescription converts a validated input. Status defaults to en_attente.
func (in PrescriptionInput) ToPrescription() (*Prescription, error) {
	start, err := ParseDate(in.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate(in.EndDate)
	if err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = PrescriptionStatusPending
	}
	return &Prescription{
		PatientID:    in.Patient,
		MedicationID: in.Medication,
		StartDate:    start,
		EndDate:      end,
		Status:       status,
		Comment:      in.Comment,
	}, nil
}

// PrescriptionPatch is the body of a partial update; nil fields are left
// unchanged.
type PrescriptionPatch struct {
	Patient    *int64              `json:"patient,omitempty" validate:"omitempty,gt=0"`
	Medication *int64              `json:"medication,omitempty" validate:"omitempty,gt=0"`
	StartDate  *string             `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate    *string             `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Status     *PrescriptionStatus `json:"status,omitempty" validate:"omitempty,oneof=valide en_attente suppr"`
	Comment    *string             `json:"comment,omitempty"`
}

// Empty reports whether the patch changes nothing
func (p PrescriptionPatch) Empty() bool {
	return p.Patient == nil && p.Medication == nil && p.StartDate == nil &&
		p.EndDate == nil && p.Status == nil && p.Comment == nil
}

// Apply merges the patch into a copy of current.
func (p PrescriptionPatch) Apply(current Prescription) (*Prescription, error) {
	next := current
	next.PatientDetails = nil
	next.MedicationDetails = nil
	if p.Patient != nil {
		next.PatientID = *p.Patient
	}
	if p.Medication != nil {
		next.MedicationID = *p.Medication
	}
	if p.StartDate != nil {
		d, err := ParseDate(*p.StartDate)
		if err != nil {
			return nil, err
		}
		next.StartDate = d
	}
	if p.EndDate != nil {
		d, err := ParseDate(*p.EndDate)
		if err != nil {
			return nil, err
		}
		next.EndDate = d
	}
	if p.Status != nil {
		next.Status = *p.Status
	}
	if p.Comment != nil {
		next.Comment = *p.Comment
	}
	return &next, nil
}

// PatchFromInput turns a full update into a patch touching every field
func PatchFromInput(in PrescriptionInput) PrescriptionPatch {
	status := in.Status
	if status == "" {
		status = PrescriptionStatusPending
	}
	return PrescriptionPatch{
		Patient:    &in.Patient,
		Medication: &in.Medication,
		StartDate:  &in.StartDate,
		EndDate:    &in.EndDate,
		Status:     &status,
		Comment:    &in.Comment,
	}
}
