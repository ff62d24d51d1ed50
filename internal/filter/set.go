package filter

import (
	"net/url"
	"strconv"
)

// Key is a query parameter accepted by the prescriptions listing endpoint.
type Key string

const (
	KeyPatient    Key = "patient"
	KeyMedication Key = "medication"
	KeyStatus     Key = "status"

	KeyStartDate    Key = "start_date"
	KeyStartDateGte Key = "start_date_gte"
	KeyStartDateLte Key = "start_date_lte"
	KeyStartDateGt  Key = "start_date_gt"
	KeyStartDateLt  Key = "start_date_lt"

	KeyEndDate    Key = "end_date"
	KeyEndDateGte Key = "end_date_gte"
	KeyEndDateLte Key = "end_date_lte"
	KeyEndDateGt  Key = "end_date_gt"
	KeyEndDateLt  Key = "end_date_lt"

	KeyPage     Key = "page"
	KeyPageSize Key = "page_size"
)

var allKeys = []Key{
	KeyPatient, KeyMedication, KeyStatus,
	KeyStartDate, KeyStartDateGte, KeyStartDateLte, KeyStartDateGt, KeyStartDateLt,
	KeyEndDate, KeyEndDateGte, KeyEndDateLte, KeyEndDateGt, KeyEndDateLt,
	KeyPage, KeyPageSize,
}

// Valid reports whether k belongs to the filter key enumeration.
func (k Key) Valid() bool {
	for _, known := range allKeys {
		if k == known {
			return true
		}
	}
	return false
}

// IsScalar reports whether k is edited through SetScalar rather than
// through a date group.
func (k Key) IsScalar() bool {
	switch k {
	case KeyPatient, KeyMedication, KeyStatus, KeyPage, KeyPageSize:
		return true
	}
	return false
}

// Set is the flat key/value mapping sent as query parameters to the
// listing endpoint. An absent key means no constraint.
type Set map[Key]string

// Clone returns an independent copy of s.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// WithPage returns a copy of s carrying the pagination keys.
func (s Set) WithPage(page, pageSize int) Set {
	out := s.Clone()
	delete(out, KeyPage)
	delete(out, KeyPageSize)
	if page > 0 {
		out[KeyPage] = strconv.Itoa(page)
	}
	if pageSize > 0 {
		out[KeyPageSize] = strconv.Itoa(pageSize)
	}
	return out
}

// Values encodes s as URL query parameters.
func (s Set) Values() url.Values {
	v := make(url.Values, len(s))
	for k, val := range s {
		v.Set(string(k), val)
	}
	return v
}

// String renders s as a sorted query string.
func (s Set) String() string {
	return s.Values().Encode()
}

// ParseSet keeps the known, non-empty filter keys of q.
func ParseSet(q url.Values) Set {
	out := make(Set)
	for name := range q {
		if k := Key(name); k.Valid() {
			if v := q.Get(name); v != "" {
				out[k] = v
			}
		}
	}
	return out
}
