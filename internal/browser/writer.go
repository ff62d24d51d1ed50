package browser

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"

	"github.com/jwalitptl/rx-admin/internal/format"
	"github.com/jwalitptl/rx-admin/internal/model"
)

// Output formats
const (
	FormatText = "text"
	FormatCSV  = "csv"
	FormatJSON = "json"
)

var headers = []string{"ID", "Patient", "Medication", "Start", "End", "Status", "Comment"}

// Writer renders a listing
type Writer interface {
	WriteView(w io.Writer, v View) error
}

// NewWriter returns the writer for one of text, csv or json. An empty
// name selects text.
func NewWriter(name string) (Writer, error) {
	switch name {
	case "", FormatText:
		return TextWriter{}, nil
	case FormatCSV:
		return CSVWriter{}, nil
	case FormatJSON:
		return JSONWriter{}, nil
	}
	return nil, errors.Errorf("unknown output format %q", name)
}

type TextWriter struct{}

func (TextWriter) WriteView(w io.Writer, v View) error {
	if len(v.Results) == 0 {
		_, err := fmt.Fprintln(w, "no prescriptions match the filters")
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	for _, p := range v.Results {
		if err := table.Append(displayRow(p)); err != nil {
			return errors.Wrap(err, "failed to add row")
		}
	}
	if err := table.Render(); err != nil {
		return errors.Wrap(err, "failed to render table")
	}
	_, err := fmt.Fprintln(w, format.Footer(v.Count, v.Page, v.TotalPages))
	return err
}

func displayRow(p model.Prescription) []string {
	return []string{
		strconv.FormatInt(p.ID, 10),
		format.PatientName(p.PatientDetails, p.PatientID),
		format.Medication(p.MedicationDetails, p.MedicationID),
		format.Date(p.StartDate),
		format.Date(p.EndDate),
		format.StatusLabel(p.Status),
		format.Comment(p.Comment),
	}
}

// CSVWriter writes raw values, ISO dates and status codes, for spreadsheets
type CSVWriter struct{}

func (CSVWriter) WriteView(w io.Writer, v View) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "patient", "medication", "start_date", "end_date", "status", "comment"}); err != nil {
		return err
	}
	for _, p := range v.Results {
		row := []string{
			strconv.FormatInt(p.ID, 10),
			strconv.FormatInt(p.PatientID, 10),
			strconv.FormatInt(p.MedicationID, 10),
			p.StartDate.String(),
			p.EndDate.String(),
			string(p.Status),
			p.Comment,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type JSONWriter struct{}

type jsonView struct {
	Count      int                  `json:"count"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	TotalPages int                  `json:"total_pages"`
	Filters    map[string]string    `json:"filters"`
	Results    []model.Prescription `json:"results"`
}

func (JSONWriter) WriteView(w io.Writer, v View) error {
	out := jsonView{
		Count:      v.Count,
		Page:       v.Page,
		PageSize:   v.PageSize,
		TotalPages: v.TotalPages,
		Filters:    make(map[string]string, len(v.Filters)),
		Results:    v.Results,
	}
	if out.Results == nil {
		out.Results = []model.Prescription{}
	}
	for k, val := range v.Filters {
		out.Filters[string(k)] = val
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
