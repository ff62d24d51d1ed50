package apiclient

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Error is any non-2xx response, normalised. Errors holds field messages
// when the server rejected a payload.
type Error struct {
	StatusCode int
	Message    string
	Errors     map[string][]string
}

func (e *Error) Error() string {
	if len(e.Errors) == 0 {
		return e.Message
	}
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(e.Errors[f], ", "))
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, "; "))
}

// FieldErrors returns the messages for one field
func (e *Error) FieldErrors(field string) []string {
	return e.Errors[field]
}

// newError builds an Error from a response body. A {"detail": ...} body
// supplies the message; any other JSON object is read as field errors,
// where a field may hold a string or a list of strings.
func newError(status int, body []byte) *Error {
	e := &Error{
		StatusCode: status,
		Message:    fmt.Sprintf("request failed with status code %d", status),
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return e
	}

	if detail, ok := raw["detail"]; ok {
		var msg string
		if json.Unmarshal(detail, &msg) == nil && msg != "" {
			e.Message = msg
		}
		delete(raw, "detail")
	}

	for field, value := range raw {
		var list []string
		if json.Unmarshal(value, &list) == nil {
			e.addField(field, list...)
			continue
		}
		var single string
		if json.Unmarshal(value, &single) == nil {
			e.addField(field, single)
		}
	}
	return e
}

func (e *Error) addField(field string, msgs ...string) {
	if len(msgs) == 0 {
		return
	}
	if e.Errors == nil {
		e.Errors = map[string][]string{}
	}
	e.Errors[field] = append(e.Errors[field], msgs...)
}
