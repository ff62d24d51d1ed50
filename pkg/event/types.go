package event

import (
	"context"
)

// Emitter records a domain event for asynchronous delivery
type Emitter interface {
	Emit(ctx context.Context, eventType string, payload interface{}) error
}

// Change is the before/after value of one field
type Change struct {
	Old interface{} `json:"old"`
	New interface{} `json:"new"`
}

// NopEmitter drops every event
type NopEmitter struct{}

func (NopEmitter) Emit(context.Context, string, interface{}) error { return nil }
