package filter

import (
	"fmt"
	"strings"
)

// Operator selects which comparison a date group applies.
type Operator string

const (
	OpEquals   Operator = "equals"
	OpGte      Operator = "gte"
	OpLte      Operator = "lte"
	OpGt       Operator = "gt"
	OpLt       Operator = "lt"
	OpInterval Operator = "interval"
)

// Operators lists the operators in the order they are offered to the user.
var Operators = []Operator{OpGte, OpLte, OpGt, OpLt, OpEquals, OpInterval}

var operatorLabels = map[Operator]string{
	OpGte:      ">=",
	OpLte:      "<=",
	OpGt:       ">",
	OpLt:       "<",
	OpEquals:   "=",
	OpInterval: "intervalle",
}

// Label is the symbol shown in operator selectors.
func (o Operator) Label() string {
	return operatorLabels[o]
}

// Valid reports whether o is one of the six operators.
func (o Operator) Valid() bool {
	_, ok := operatorLabels[o]
	return ok
}

// Single reports whether o compares against a single date.
func (o Operator) Single() bool {
	return o.Valid() && o != OpInterval
}

// ParseOperator accepts an operator name, its label, or "exact".
func ParseOperator(s string) (Operator, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "exact" || s == "eq" {
		return OpEquals, nil
	}
	for _, op := range Operators {
		if s == string(op) || s == op.Label() {
			return op, nil
		}
	}
	return "", fmt.Errorf("unknown date operator %q", s)
}

// Group identifies one of the two date fields a prescription can be filtered on.
type Group int

const (
	Start Group = iota
	End
)

// Groups lists both date groups.
var Groups = []Group{Start, End}

func (g Group) valid() bool {
	return g == Start || g == End
}

func (g Group) String() string {
	if g == End {
		return "end"
	}
	return "start"
}

// Field is the bare query key of the group, used by the equals operator.
func (g Group) Field() Key {
	if g == End {
		return KeyEndDate
	}
	return KeyStartDate
}

// DefaultOperator is the operator a fresh filter surface starts with.
func (g Group) DefaultOperator() Operator {
	if g == End {
		return OpLte
	}
	return OpGte
}

// Key returns the query key the group writes to for a single-date operator.
func (g Group) Key(op Operator) Key {
	if op == OpEquals {
		return g.Field()
	}
	return Key(string(g.Field()) + "_" + string(op))
}

// Keys returns the five mutually exclusive keys of the group.
func (g Group) Keys() []Key {
	return []Key{
		g.Key(OpEquals),
		g.Key(OpGte),
		g.Key(OpLte),
		g.Key(OpGt),
		g.Key(OpLt),
	}
}

// Bound selects one end of an interval.
type Bound int

const (
	From Bound = iota
	To
)

func (b Bound) String() string {
	if b == To {
		return "to"
	}
	return "from"
}
