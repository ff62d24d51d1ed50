package filter

// group is the state of one date group: the operator shown to the user
// and the predicate it currently holds.
type group struct {
	op   Operator
	pred Predicate
}

// State is an immutable snapshot of the filtering surface. Every With*
// method returns a new State and leaves the receiver untouched.
type State struct {
	scalars map[Key]string
	groups  [2]group
}

// NewState returns the state of a freshly mounted filtering surface:
// no filters, start operator gte, end operator lte.
func NewState() State {
	return State{
		scalars: map[Key]string{},
		groups: [2]group{
			{op: Start.DefaultOperator(), pred: Unset{}},
			{op: End.DefaultOperator(), pred: Unset{}},
		},
	}
}

func (s State) clone() State {
	out := State{scalars: make(map[Key]string, len(s.scalars)), groups: s.groups}
	for k, v := range s.scalars {
		out.scalars[k] = v
	}
	return out
}

// Operator returns the active operator of g.
func (s State) Operator(g Group) Operator {
	if !g.valid() {
		return ""
	}
	return s.groups[g].op
}

// Predicate returns the predicate currently held by g.
func (s State) Predicate(g Group) Predicate {
	if !g.valid() || s.groups[g].pred == nil {
		return Unset{}
	}
	return s.groups[g].pred
}

// Scalar returns the value of a scalar key, empty when absent.
func (s State) Scalar(k Key) string {
	return s.scalars[k]
}

// Filters flattens the state into the wire-level filter set.
func (s State) Filters() Set {
	out := make(Set, len(s.scalars)+2)
	for k, v := range s.scalars {
		out[k] = v
	}
	for _, g := range Groups {
		s.Predicate(g).flatten(g, out)
	}
	return out
}

// DateValue is the value shown in the single date input of g. It is
// empty while g is in interval mode.
func (s State) DateValue(g Group) string {
	if c, ok := s.Predicate(g).(Comparison); ok && s.Operator(g).Single() {
		return c.Date
	}
	return ""
}

// IntervalValues returns the two bounds shown while g is in interval mode.
func (s State) IntervalValues(g Group) (from, to string) {
	if iv, ok := s.Predicate(g).(Interval); ok {
		return iv.From, iv.To
	}
	return "", ""
}

// WithScalar sets a scalar key, or removes it when value is empty or "0".
// Date keys are rejected.
func (s State) WithScalar(k Key, value string) (State, bool) {
	if !k.IsScalar() {
		return s, false
	}
	next := s.clone()
	if value == "" || value == "0" {
		delete(next.scalars, k)
	} else {
		next.scalars[k] = value
	}
	return next, true
}

// WithDate stores date as the single comparison of g's current operator.
// It is rejected while g is in interval mode.
func (s State) WithDate(g Group, date string) (State, bool) {
	op := s.Operator(g)
	if !op.Single() {
		return s, false
	}
	next := s.clone()
	if date == "" {
		next.groups[g].pred = Unset{}
	} else {
		next.groups[g].pred = Comparison{Op: op, Date: date}
	}
	return next, true
}

// WithOperator switches the operator of g. A date held by a single
// comparison moves to the new comparison. Entering or leaving interval
// mode clears the group.
func (s State) WithOperator(g Group, op Operator) (State, bool) {
	if !g.valid() || !op.Valid() {
		return s, false
	}
	next := s.clone()
	prev := next.groups[g]
	next.groups[g].op = op

	switch {
	case op == OpInterval:
		next.groups[g].pred = Interval{}
	case prev.op == OpInterval:
		next.groups[g].pred = Unset{}
	default:
		if c, ok := prev.pred.(Comparison); ok && c.Date != "" {
			next.groups[g].pred = Comparison{Op: op, Date: c.Date}
		} else {
			next.groups[g].pred = Unset{}
		}
	}
	return next, true
}

// WithIntervalBound sets one bound of g's interval and keeps the other.
// An empty date clears only that bound. It is rejected unless g is in
// interval mode.
func (s State) WithIntervalBound(g Group, b Bound, date string) (State, bool) {
	if s.Operator(g) != OpInterval {
		return s, false
	}
	next := s.clone()
	iv, _ := next.groups[g].pred.(Interval)
	if b == To {
		iv.To = date
	} else {
		iv.From = date
	}
	next.groups[g].pred = iv
	return next, true
}
