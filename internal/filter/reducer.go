package filter

import (
	"strconv"
	"time"
)

// NotifyFunc receives the filter set once edits have settled.
type NotifyFunc func(Set)

// Option configures a Reducer.
type Option func(*options)

type options struct {
	delay time.Duration
	clock Clock
}

// WithDelay overrides the debounce quiet period.
func WithDelay(d time.Duration) Option {
	return func(o *options) { o.delay = d }
}

// WithClock overrides the clock used by the debouncer.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// Reducer owns the filter state of one filtering surface and propagates
// settled changes to a NotifyFunc. Mutations must come from a single
// goroutine; notifications arrive on the clock's goroutine.
//
// Every mutating method returns false when the call was ignored
// because it did not apply to the current state.
type Reducer struct {
	state    State
	notify   NotifyFunc
	debounce *Debouncer
	closed   bool
}

// NewReducer returns a Reducer in its initial state.
func NewReducer(notify NotifyFunc, opts ...Option) *Reducer {
	o := options{delay: DefaultDelay, clock: RealClock}
	for _, opt := range opts {
		opt(&o)
	}
	if notify == nil {
		notify = func(Set) {}
	}
	return &Reducer{
		state:    NewState(),
		notify:   notify,
		debounce: NewDebouncer(o.delay, o.clock),
	}
}

// State returns the current snapshot.
func (r *Reducer) State() State {
	return r.state
}

// Filters returns the current filter set.
func (r *Reducer) Filters() Set {
	return r.state.Filters()
}

// Pending reports whether a notification is waiting for the quiet period.
func (r *Reducer) Pending() bool {
	return r.debounce.Pending()
}

func (r *Reducer) apply(next State, ok bool) bool {
	if !ok || r.closed {
		return false
	}
	r.state = next
	snapshot := next.Filters()
	r.debounce.Schedule(func() { r.notify(snapshot) })
	return true
}

// SetScalar sets patient, medication, status, page or page_size. An empty
// or zero value removes the key.
func (r *Reducer) SetScalar(k Key, value string) bool {
	return r.apply(r.state.WithScalar(k, value))
}

// SetPatient filters on a patient id; 0 clears it.
func (r *Reducer) SetPatient(id int64) bool {
	return r.SetScalar(KeyPatient, formatID(id))
}

// SetMedication filters on a medication id; 0 clears it.
func (r *Reducer) SetMedication(id int64) bool {
	return r.SetScalar(KeyMedication, formatID(id))
}

// SetStatus filters on a prescription status; "" clears it.
func (r *Reducer) SetStatus(status string) bool {
	return r.SetScalar(KeyStatus, status)
}

// SetDate stores the single date of g under its current operator.
func (r *Reducer) SetDate(g Group, date string) bool {
	return r.apply(r.state.WithDate(g, date))
}

// SetOperator switches the comparison operator of g.
func (r *Reducer) SetOperator(g Group, op Operator) bool {
	return r.apply(r.state.WithOperator(g, op))
}

// SetIntervalBound sets one bound of g while it is in interval mode.
func (r *Reducer) SetIntervalBound(g Group, b Bound, date string) bool {
	return r.apply(r.state.WithIntervalBound(g, b, date))
}

// Reset restores the initial state, drops any pending notification and
// notifies an empty set immediately.
func (r *Reducer) Reset() {
	if r.closed {
		return
	}
	r.debounce.Cancel()
	r.state = NewState()
	r.notify(Set{})
}

// Close tears the reducer down. No notification is delivered afterwards.
func (r *Reducer) Close() {
	r.closed = true
	r.debounce.Close()
}

func formatID(id int64) string {
	if id <= 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
