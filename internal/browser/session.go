// Package browser drives an interactive prescriptions listing: filter
// edits, pagination and the create/edit/delete flows.
package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/jwalitptl/rx-admin/internal/filter"
	"github.com/jwalitptl/rx-admin/internal/model"
	"github.com/jwalitptl/rx-admin/pkg/logger"
)

// PageSizeOptions are the page sizes a user may pick
var PageSizeOptions = []int{10, 20, 50, 100}

var (
	ErrPageOutOfRange  = errors.New("page out of range")
	ErrInvalidPageSize = errors.New("page size must be one of 10, 20, 50, 100")
)

// PrescriptionClient is the subset of the API client the session uses
type PrescriptionClient interface {
	List(ctx context.Context, filters filter.Set) (*model.Page[model.Prescription], error)
	Create(ctx context.Context, in model.PrescriptionInput) (*model.Prescription, error)
	Update(ctx context.Context, id int64, patch model.PrescriptionPatch) (*model.Prescription, error)
	Delete(ctx context.Context, id int64) error
}

// View is what a listing currently shows
type View struct {
	Filters    filter.Set
	Page       int
	PageSize   int
	TotalPages int
	Count      int
	Results    []model.Prescription
	Err        error
}

// Listener receives the fetch triggered by each settled filter edit. It
// runs on the debouncer's goroutine, or the caller's for Reset.
type Listener func(View)

type Option func(*Session)

func WithLogger(l *logger.Logger) Option {
	return func(s *Session) { s.log = l }
}

func WithListener(fn Listener) Option {
	return func(s *Session) { s.listener = fn }
}

// WithFilterOptions passes options to the underlying filter reducer
func WithFilterOptions(opts ...filter.Option) Option {
	return func(s *Session) { s.filterOpts = append(s.filterOpts, opts...) }
}

// Session couples a filter reducer to the prescriptions listing. Filter
// edits settle through the reducer, then reset the page to 1 and refetch.
type Session struct {
	ctx        context.Context
	client     PrescriptionClient
	reducer    *filter.Reducer
	log        *logger.Logger
	listener   Listener
	filterOpts []filter.Option

	mu       sync.Mutex
	filters  filter.Set
	page     int
	pageSize int
	last     *model.Page[model.Prescription]
	lastErr  error

	editing       *model.Prescription
	pendingDelete int64
	message       string
}

// NewSession builds a session whose background fetches use ctx.
func NewSession(ctx context.Context, client PrescriptionClient, opts ...Option) *Session {
	s := &Session{
		ctx:      ctx,
		client:   client,
		log:      logger.Nop(),
		filters:  filter.Set{},
		page:     1,
		pageSize: model.DefaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reducer = filter.NewReducer(s.onFilters, s.filterOpts...)
	return s
}

// Filters exposes the reducer for filter edits. Edits must come from one
// goroutine.
func (s *Session) Filters() *filter.Reducer {
	return s.reducer
}

// Close stops pending filter notifications
func (s *Session) Close() {
	s.reducer.Close()
}

func (s *Session) onFilters(set filter.Set) {
	s.mu.Lock()
	s.filters = set
	s.page = 1
	view, _ := s.fetchLocked(s.ctx)
	s.mu.Unlock()
	s.publish(view)
}

// Refresh refetches the current page
func (s *Session) Refresh(ctx context.Context) (View, error) {
	s.mu.Lock()
	view, err := s.fetchLocked(ctx)
	s.mu.Unlock()
	return view, err
}

// View returns the last fetched state without hitting the API
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// SetPage jumps to page n. Once a count is known, n must not pass the
// last page.
func (s *Session) SetPage(ctx context.Context, n int) (View, error) {
	s.mu.Lock()
	if n < 1 || (s.last != nil && n > s.totalPagesLocked() && n != 1) {
		view := s.viewLocked()
		s.mu.Unlock()
		return view, errors.Wrapf(ErrPageOutOfRange, "page %d", n)
	}
	s.page = n
	view, err := s.fetchLocked(ctx)
	s.mu.Unlock()
	return view, err
}

func (s *Session) NextPage(ctx context.Context) (View, error) {
	return s.SetPage(ctx, s.currentPage()+1)
}

func (s *Session) PrevPage(ctx context.Context) (View, error) {
	return s.SetPage(ctx, s.currentPage()-1)
}

// SetPageSize changes the page size and goes back to the first page
func (s *Session) SetPageSize(ctx context.Context, size int) (View, error) {
	if !validPageSize(size) {
		return s.View(), ErrInvalidPageSize
	}
	s.mu.Lock()
	s.pageSize = size
	s.page = 1
	view, err := s.fetchLocked(ctx)
	s.mu.Unlock()
	return view, err
}

// TotalPages is ceil(count / pageSize) of the last fetch
func (s *Session) TotalPages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalPagesLocked()
}

func (s *Session) currentPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

func (s *Session) totalPagesLocked() int {
	if s.last == nil {
		return 0
	}
	return model.TotalPages(s.last.Count, s.pageSize)
}

func (s *Session) fetchLocked(ctx context.Context) (View, error) {
	query := s.filters.WithPage(s.page, s.pageSize)
	page, err := s.client.List(ctx, query)
	if err != nil {
		s.lastErr = errors.Wrap(err, "failed to load prescriptions")
		s.log.Error(err, "list prescriptions failed", "query", query.String())
		return s.viewLocked(), s.lastErr
	}
	s.last = page
	s.lastErr = nil
	s.log.Debug("prescriptions loaded", "query", query.String(), "count", page.Count)
	return s.viewLocked(), nil
}

func (s *Session) viewLocked() View {
	v := View{
		Filters:  s.filters.Clone(),
		Page:     s.page,
		PageSize: s.pageSize,
		Err:      s.lastErr,
	}
	if s.last != nil {
		v.Count = s.last.Count
		v.Results = s.last.Results
		v.TotalPages = model.TotalPages(s.last.Count, s.pageSize)
	}
	return v
}

func (s *Session) publish(v View) {
	if s.listener != nil {
		s.listener(v)
	}
}

func validPageSize(n int) bool {
	for _, opt := range PageSizeOptions {
		if n == opt {
			return true
		}
	}
	return false
}

// Message returns the last user-facing error message, if any
func (s *Session) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

func (s *Session) setMessage(msg string) {
	s.mu.Lock()
	s.message = msg
	s.mu.Unlock()
}

func (v View) String() string {
	return fmt.Sprintf("page %d/%d (%d results, %d per page)", v.Page, v.TotalPages, v.Count, v.PageSize)
}
