package model

// Patient is a person prescriptions are written for
type Patient struct {
	ID        int64  `db:"id" json:"id"`
	LastName  string `db:"last_name" json:"last_name"`
	FirstName string `db:"first_name" json:"first_name"`
	BirthDate *Date  `db:"birth_date" json:"birth_date"`
}

// FullName returns "LAST First" as shown in lists
func (p Patient) FullName() string {
	return p.LastName + " " + p.FirstName
}

// PatientFilters narrows a patient listing
type PatientFilters struct {
	LastName  string
	FirstName string
	BirthDate *Date
	IDs       []int64
}
