package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending    OutboxStatus = "pending"
	OutboxStatusProcessing OutboxStatus = "processing"
	OutboxStatusProcessed  OutboxStatus = "processed"
	OutboxStatusFailed     OutboxStatus = "failed"
)

// Prescription event types
const (
	EventPrescriptionCreated = "prescription.created"
	EventPrescriptionUpdated = "prescription.updated"
	EventPrescriptionDeleted = "prescription.deleted"
)

type OutboxEvent struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	EventType    string          `db:"event_type" json:"event_type"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	Status       OutboxStatus    `db:"status" json:"status"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
	RetryCount   int             `db:"retry_count" json:"retry_count"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
	ProcessedAt  *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
}

// PrescriptionEvent is the payload of prescription.* events
type PrescriptionEvent struct {
	PrescriptionID int64              `json:"prescription_id"`
	PatientID      int64              `json:"patient_id,omitempty"`
	MedicationID   int64              `json:"medication_id,omitempty"`
	Status         PrescriptionStatus `json:"status,omitempty"`
	StartDate      string             `json:"start_date,omitempty"`
	EndDate        string             `json:"end_date,omitempty"`
	OccurredAt     time.Time          `json:"occurred_at"`
}

// NewPrescriptionEvent snapshots p for an event payload
func NewPrescriptionEvent(p *Prescription, at time.Time) PrescriptionEvent {
	return PrescriptionEvent{
		PrescriptionID: p.ID,
		PatientID:      p.PatientID,
		MedicationID:   p.MedicationID,
		Status:         p.Status,
		StartDate:      p.StartDate.String(),
		EndDate:        p.EndDate.String(),
		OccurredAt:     at.UTC(),
	}
}
