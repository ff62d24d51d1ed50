package model

type MedicationStatus string

const (
	MedicationStatusActive  MedicationStatus = "actif"
	MedicationStatusRemoved MedicationStatus = "suppr"
)

func (s MedicationStatus) Valid() bool {
	return s == MedicationStatusActive || s == MedicationStatusRemoved
}

// Medication is an entry of the medication catalogue
type Medication struct {
	ID     int64            `db:"id" json:"id"`
	Code   string           `db:"code" json:"code"`
	Label  string           `db:"label" json:"label"`
	Status MedicationStatus `db:"status" json:"status"`
}

// MedicationFilters narrows a medication listing
type MedicationFilters struct {
	Code   string
	Label  string
	Status MedicationStatus
}
