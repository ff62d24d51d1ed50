//go:build integration

package api_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceData(t *testing.T) {
	t.Run("patient detail", func(t *testing.T) {
		resp := makeRequest("GET", fmt.Sprintf("/patients/%d", patientID), nil)
		require.Equal(t, 200, resp.StatusCode, resp.RawData)
		assert.Equal(t, patientID, resp.GetInt("id"))
		assert.NotEmpty(t, resp.GetString("last_name"))
	})

	t.Run("unknown patient", func(t *testing.T) {
		resp := makeRequest("GET", "/patients/999999999", nil)
		assert.Equal(t, 404, resp.StatusCode)
		assert.NotEmpty(t, resp.GetString("detail"))
	})

	t.Run("medication filter by status", func(t *testing.T) {
		resp := makeRequest("GET", "/medications?status=actif", nil)
		require.True(t, resp.IsSuccess(), resp.RawData)
		for _, m := range resp.Results() {
			assert.Equal(t, "actif", m["status"])
		}
	})

	t.Run("page size is capped", func(t *testing.T) {
		resp := makeRequest("GET", "/patients?page_size=1000", nil)
		require.True(t, resp.IsSuccess(), resp.RawData)
		assert.LessOrEqual(t, len(resp.Results()), 100)
	})

	t.Run("invalid page", func(t *testing.T) {
		resp := makeRequest("GET", "/patients?page=999999", nil)
		assert.Equal(t, 404, resp.StatusCode)
		assert.Equal(t, "invalid page", resp.GetString("detail"))
	})
}
