package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	ID      int64  `json:"id"`
	Status  string `json:"status"`
	Comment string `json:"comment,omitempty"`
	Secret  string `json:"-"`
	Details *int   `json:"details"`
}

func TestChanges(t *testing.T) {
	one := 1
	old := sample{ID: 1, Status: "en_attente", Comment: "a", Secret: "x"}
	next := &sample{ID: 1, Status: "valide", Comment: "a", Secret: "y", Details: &one}

	changes := Changes(old, next, "details")
	assert.Equal(t, map[string]Change{"status": {Old: "en_attente", New: "valide"}}, changes)
}

func TestChanges_Mismatch(t *testing.T) {
	assert.Empty(t, Changes(sample{}, struct{ A int }{}))
	assert.Empty(t, Changes(nil, sample{}))
	var p *sample
	assert.Empty(t, Changes(p, sample{}))
}
