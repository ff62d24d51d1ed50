package model

import (
	"net/url"
	"strconv"
	"strings"
)

// DateLookup is the comparison applied by a DateFilter
type DateLookup string

const (
	LookupExact DateLookup = "exact"
	LookupGte   DateLookup = "gte"
	LookupLte   DateLookup = "lte"
	LookupGt    DateLookup = "gt"
	LookupLt    DateLookup = "lt"
)

// SQL comparison operator of the lookup
func (l DateLookup) SQL() string {
	switch l {
	case LookupGte:
		return ">="
	case LookupLte:
		return "<="
	case LookupGt:
		return ">"
	case LookupLt:
		return "<"
	default:
		return "="
	}
}

// DateFilter compares one date column with a value
type DateFilter struct {
	Field  string
	Lookup DateLookup
	Value  Date
}

// PrescriptionFilters narrows a prescription listing
type PrescriptionFilters struct {
	PatientID    int64
	MedicationID int64
	Status       PrescriptionStatus
	Dates        []DateFilter
}

// FieldErrors maps a query parameter to its problems
type FieldErrors map[string][]string

func (fe FieldErrors) add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

var prescriptionDateParams = []struct {
	param  string
	field  string
	lookup DateLookup
}{
	{"start_date", "start_date", LookupExact},
	{"start_date_gte", "start_date", LookupGte},
	{"start_date_lte", "start_date", LookupLte},
	{"start_date_gt", "start_date", LookupGt},
	{"start_date_lt", "start_date", LookupLt},
	{"end_date", "end_date", LookupExact},
	{"end_date_gte", "end_date", LookupGte},
	{"end_date_lte", "end_date", LookupLte},
	{"end_date_gt", "end_date", LookupGt},
	{"end_date_lt", "end_date", LookupLt},
}

const (
	msgInvalidNumber = "enter a number"
	msgInvalidDate   = "enter a valid date (YYYY-MM-DD)"
)

// ParsePrescriptionFilters reads the listing query parameters. Empty
// values are ignored; malformed ones are reported per parameter.
func ParsePrescriptionFilters(q url.Values) (PrescriptionFilters, FieldErrors) {
	var f PrescriptionFilters
	errs := FieldErrors{}

	if raw := q.Get("patient"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errs.add("patient", msgInvalidNumber)
		}
		f.PatientID = id
	}
	if raw := q.Get("medication"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errs.add("medication", msgInvalidNumber)
		}
		f.MedicationID = id
	}
	if raw := q.Get("status"); raw != "" {
		status := PrescriptionStatus(raw)
		if !status.Valid() {
			errs.add("status", "select a valid choice, "+raw+" is not one of the available choices")
		}
		f.Status = status
	}
	for _, p := range prescriptionDateParams {
		raw := q.Get(p.param)
		if raw == "" {
			continue
		}
		d, err := ParseDate(raw)
		if err != nil {
			errs.add(p.param, msgInvalidDate)
			continue
		}
		f.Dates = append(f.Dates, DateFilter{Field: p.field, Lookup: p.lookup, Value: d})
	}

	if len(errs) > 0 {
		return f, errs
	}
	return f, nil
}

// ParsePatientFilters reads nom, prenom, date_naissance and id. Ids may be
// repeated or comma separated; non-numeric ids are skipped.
func ParsePatientFilters(q url.Values) (PatientFilters, FieldErrors) {
	f := PatientFilters{
		LastName:  q.Get("nom"),
		FirstName: q.Get("prenom"),
	}
	if raw := q.Get("date_naissance"); raw != "" {
		d, err := ParseDate(raw)
		if err != nil {
			return f, FieldErrors{"date_naissance": {msgInvalidDate}}
		}
		f.BirthDate = &d
	}
	for _, v := range q["id"] {
		for _, part := range strings.Split(v, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err == nil && id >= 0 {
				f.IDs = append(f.IDs, id)
			}
		}
	}
	return f, nil
}

// ParseMedicationFilters reads code, label and status.
func ParseMedicationFilters(q url.Values) (MedicationFilters, FieldErrors) {
	f := MedicationFilters{
		Code:  q.Get("code"),
		Label: q.Get("label"),
	}
	if raw := q.Get("status"); raw != "" {
		status := MedicationStatus(raw)
		if !status.Valid() {
			return f, FieldErrors{"status": {"select a valid choice, " + raw + " is not one of the available choices"}}
		}
		f.Status = status
	}
	return f, nil
}
