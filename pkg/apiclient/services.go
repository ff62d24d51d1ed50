package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jwalitptl/rx-admin/internal/filter"
	"github.com/jwalitptl/rx-admin/internal/model"
)

// fetchAll walks every page of a reference list. The server caps
// page_size, so one request is not enough for large catalogues.
func fetchAll[T any](ctx context.Context, c *Client, resource string, query url.Values) ([]T, error) {
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set("page_size", strconv.Itoa(referencePageSize))

	var all []T
	for page := 1; ; page++ {
		q.Set("page", strconv.Itoa(page))
		var p model.Page[T]
		if err := c.do(ctx, http.MethodGet, resource, "/"+resource, q, nil, &p); err != nil {
			return nil, err
		}
		all = append(all, p.Results...)
		if p.Next == nil || len(p.Results) == 0 {
			return all, nil
		}
	}
}

type PatientsService struct {
	client *Client
}

// GetAll returns every patient. The list is cached.
func (s *PatientsService) GetAll(ctx context.Context) ([]model.Patient, error) {
	v, err := s.client.cached("patients", func() (interface{}, error) {
		return fetchAll[model.Patient](ctx, s.client, "patients", nil)
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.Patient), nil
}

func (s *PatientsService) Get(ctx context.Context, id int64) (*model.Patient, error) {
	var p model.Patient
	if err := s.client.do(ctx, http.MethodGet, "patients", "/patients/"+strconv.FormatInt(id, 10), nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

type MedicationsService struct {
	client *Client
}

// GetAll returns the active medications. The list is cached.
func (s *MedicationsService) GetAll(ctx context.Context) ([]model.Medication, error) {
	v, err := s.client.cached("medications", func() (interface{}, error) {
		q := url.Values{"status": {string(model.MedicationStatusActive)}}
		return fetchAll[model.Medication](ctx, s.client, "medications", q)
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.Medication), nil
}

func (s *MedicationsService) Get(ctx context.Context, id int64) (*model.Medication, error) {
	var m model.Medication
	if err := s.client.do(ctx, http.MethodGet, "medications", "/medications/"+strconv.FormatInt(id, 10), nil, nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

type PrescriptionsService struct {
	client *Client
}

func prescriptionPath(id int64) string {
	return "/prescriptions/" + strconv.FormatInt(id, 10)
}

// List fetches one page of prescriptions matching filters
func (s *PrescriptionsService) List(ctx context.Context, filters filter.Set) (*model.Page[model.Prescription], error) {
	var page model.Page[model.Prescription]
	if err := s.client.do(ctx, http.MethodGet, "prescriptions", "/prescriptions", filters.Values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *PrescriptionsService) Get(ctx context.Context, id int64) (*model.Prescription, error) {
	var p model.Prescription
	if err := s.client.do(ctx, http.MethodGet, "prescriptions", prescriptionPath(id), nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PrescriptionsService) Create(ctx context.Context, in model.PrescriptionInput) (*model.Prescription, error) {
	var p model.Prescription
	if err := s.client.do(ctx, http.MethodPost, "prescriptions", "/prescriptions", nil, in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update sends a partial update
func (s *PrescriptionsService) Update(ctx context.Context, id int64, patch model.PrescriptionPatch) (*model.Prescription, error) {
	var p model.Prescription
	if err := s.client.do(ctx, http.MethodPatch, "prescriptions", prescriptionPath(id), nil, patch, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PrescriptionsService) Delete(ctx context.Context, id int64) error {
	return s.client.do(ctx, http.MethodDelete, "prescriptions", prescriptionPath(id), nil, nil, nil)
}
