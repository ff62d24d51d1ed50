package event

import (
	"reflect"
	"strings"
)

// Changes compares two values of the same struct type field by field and
// returns the differing fields keyed by JSON name. Fields tagged json:"-"
// and fields named in skip are ignored.
func Changes(old, new interface{}, skip ...string) map[string]Change {
	changes := map[string]Change{}
	ov, nv := indirect(old), indirect(new)
	if !ov.IsValid() || !nv.IsValid() || ov.Type() != nv.Type() || ov.Kind() != reflect.Struct {
		return changes
	}

	typ := ov.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name := strings.Split(field.Tag.Get("json"), ",")[0]
		if name == "-" {
			continue
		}
		if name == "" {
			name = strings.ToLower(field.Name)
		}
		if contains(skip, name) {
			continue
		}

		a, b := ov.Field(i).Interface(), nv.Field(i).Interface()
		if !reflect.DeepEqual(a, b) {
			changes[name] = Change{Old: a, New: b}
		}
	}
	return changes
}

func indirect(v interface{}) reflect.Value {
	val := reflect.ValueOf(v)
	for val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return reflect.Value{}
		}
		val = val.Elem()
	}
	return val
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
