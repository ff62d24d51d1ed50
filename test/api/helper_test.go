//go:build integration

package api_test

import (
	"testing"
)

// createTestPrescription creates a prescription that cleanup removes
func createTestPrescription(t *testing.T, start, end, status string) int64 {
	t.Helper()
	resp := makeRequest("POST", "/prescriptions", map[string]interface{}{
		"patient":    patientID,
		"medication": medicationID,
		"start_date": start,
		"end_date":   end,
		"status":     status,
		"comment":    "integration test",
	})
	if resp.StatusCode != 201 {
		t.Fatalf("failed to create prescription: %d %s", resp.StatusCode, resp.RawData)
	}
	id := resp.GetInt("id")
	created = append(created, id)
	return id
}
