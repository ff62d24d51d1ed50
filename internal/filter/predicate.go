package filter

// Predicate is the constraint held by one date group. It is one of
// Unset, Comparison or Interval.
type Predicate interface {
	flatten(g Group, dst Set)
	isPredicate()
}

// Unset means the group does not constrain the query.
type Unset struct{}

// Comparison compares the group's field against a single date.
// Op is never OpInterval.
type Comparison struct {
	Op   Operator
	Date string
}

// Interval bounds the group's field on both sides. Either bound may be
// empty.
type Interval struct {
	From string
	To   string
}

func (Unset) isPredicate()      {}
func (Comparison) isPredicate() {}
func (Interval) isPredicate()   {}

func (Unset) flatten(Group, Set) {}

func (c Comparison) flatten(g Group, dst Set) {
	if c.Date == "" {
		return
	}
	dst[g.Key(c.Op)] = c.Date
}

func (iv Interval) flatten(g Group, dst Set) {
	if iv.From != "" {
		dst[g.Key(OpGte)] = iv.From
	}
	if iv.To != "" {
		dst[g.Key(OpLte)] = iv.To
	}
}
