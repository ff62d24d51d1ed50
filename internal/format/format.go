// Package format renders model values for people.
package format

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/jwalitptl/rx-admin/internal/filter"
	"github.com/jwalitptl/rx-admin/internal/model"
)

// DisplayLayout is the day/month/year layout used in listings
const DisplayLayout = "02/01/2006"

var statusLabels = map[model.PrescriptionStatus]string{
	model.PrescriptionStatusValid:   "Valide",
	model.PrescriptionStatusPending: "En attente",
	model.PrescriptionStatusRemoved: "Supprimé",
}

// Date renders d as dd/mm/yyyy, or "" when unset
func Date(d model.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DisplayLayout)
}

// StatusLabel is the human label of a prescription status. Unknown
// statuses are returned as is.
func StatusLabel(s model.PrescriptionStatus) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// PatientName renders the patient's full name, falling back to the id when
// the details were not loaded
func PatientName(p *model.Patient, id int64) string {
	if p == nil {
		return fmt.Sprintf("#%d", id)
	}
	return strings.TrimSpace(p.FullName())
}

// Medication renders "CODE label"
func Medication(m *model.Medication, id int64) string {
	if m == nil {
		return fmt.Sprintf("#%d", id)
	}
	return strings.TrimSpace(m.Code + " " + m.Label)
}

// Comment renders an empty comment as a dash
func Comment(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// Count renders "1,234 prescriptions"
func Count(n int, noun string) string {
	return humanize.Comma(int64(n)) + " " + english.PluralWord(n, noun, "")
}

// Footer summarises a page of results, e.g. "1,234 prescriptions, page 2 of 62"
func Footer(count, page, totalPages int) string {
	if totalPages < 1 {
		totalPages = 1
	}
	return fmt.Sprintf("%s, page %s of %s",
		Count(count, "prescription"), humanize.Comma(int64(page)), humanize.Comma(int64(totalPages)))
}

// OperatorLabel is the selector label of op, e.g. ">=" or "intervalle"
func OperatorLabel(op filter.Operator) string {
	if label := op.Label(); label != "" {
		return label
	}
	return string(op)
}

// DateValue renders a YYYY-MM-DD filter value as dd/mm/yyyy. Empty values
// render as a dash and unparsable ones as is.
func DateValue(s string) string {
	if s == "" {
		return "-"
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return s
	}
	return Date(d)
}

// DateFilter renders the operator and value of one date group:
// ">= 01/01/2024" or "intervalle 01/01/2024 .. -"
func DateFilter(s filter.State, g filter.Group) string {
	op := s.Operator(g)
	if op == filter.OpInterval {
		from, to := s.IntervalValues(g)
		return fmt.Sprintf("%s %s .. %s", OperatorLabel(op), DateValue(from), DateValue(to))
	}
	return OperatorLabel(op) + " " + DateValue(s.DateValue(g))
}

// Filters renders one line per filter of s, unset ones included
func Filters(s filter.State) []string {
	scalar := func(k filter.Key) string {
		v := s.Scalar(k)
		switch {
		case v == "":
			return "-"
		case k == filter.KeyStatus:
			return StatusLabel(model.PrescriptionStatus(v))
		}
		return "#" + v
	}
	line := func(name, value string) string {
		return fmt.Sprintf("%-11s%s", name, value)
	}

	lines := []string{
		line("patient", scalar(filter.KeyPatient)),
		line("medication", scalar(filter.KeyMedication)),
		line("status", scalar(filter.KeyStatus)),
	}
	for _, g := range filter.Groups {
		lines = append(lines, line(g.String(), DateFilter(s, g)))
	}
	return lines
}
