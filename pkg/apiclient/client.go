// Package apiclient talks to the prescriptions REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"

	"github.com/jwalitptl/rx-admin/pkg/circuitbreaker"
	"github.com/jwalitptl/rx-admin/pkg/metrics"
)

const (
	DefaultBaseURL  = "http://localhost:8000/api"
	DefaultTimeout  = 10 * time.Second
	DefaultCacheTTL = 5 * time.Minute

	// referencePageSize is requested for reference lists; the server may
	// return fewer per page
	referencePageSize = 1000
)

type Client struct {
	baseURL  *url.URL
	http     *http.Client
	breaker  *circuitbreaker.CircuitBreaker
	cache    *cache.Cache
	cacheTTL time.Duration
	metrics  *metrics.Metrics

	Patients      *PatientsService
	Medications   *MedicationsService
	Prescriptions *PrescriptionsService
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithCacheTTL sets how long reference lists are reused; 0 disables caching
func WithCacheTTL(d time.Duration) Option {
	return func(c *Client) { c.cacheTTL = d }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func WithBreaker(settings circuitbreaker.Settings) Option {
	return func(c *Client) { c.breaker = newBreaker(settings) }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid base URL")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("invalid base URL %q", baseURL)
	}

	c := &Client{
		baseURL:  u,
		http:     &http.Client{Timeout: DefaultTimeout},
		cacheTTL: DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breaker == nil {
		c.breaker = newBreaker(circuitbreaker.Settings{Name: "apiclient"})
	}
	if c.cacheTTL > 0 {
		c.cache = cache.New(c.cacheTTL, 2*c.cacheTTL)
	}

	c.Patients = &PatientsService{client: c}
	c.Medications = &MedicationsService{client: c}
	c.Prescriptions = &PrescriptionsService{client: c}
	return c, nil
}

// newBreaker counts transport failures and 5xx responses only; a
// rejected payload says nothing about the server's health.
func newBreaker(settings circuitbreaker.Settings) *circuitbreaker.CircuitBreaker {
	if settings.Timeout == 0 {
		settings.Timeout = 30 * time.Second
	}
	settings.IsSuccessful = func(err error) bool {
		if err == nil {
			return true
		}
		var apiErr *Error
		return errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError
	}
	return circuitbreaker.NewCircuitBreaker(settings)
}

// Invalidate drops the cached reference lists
func (c *Client) Invalidate() {
	if c.cache != nil {
		c.cache.Flush()
	}
}

func (c *Client) cached(key string, load func() (interface{}, error)) (interface{}, error) {
	if c.cache == nil {
		return load()
	}
	if v, ok := c.cache.Get(key); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, v, cache.DefaultExpiration)
	return v, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do sends one request through the breaker. body is encoded as JSON; out,
// when non-nil, receives the decoded response.
func (c *Client) do(ctx context.Context, method, resource, path string, query url.Values, body, out interface{}) error {
	start := time.Now()
	err := c.breaker.Execute(func() error {
		return c.roundTrip(ctx, method, path, query, body, out)
	})
	if errors.Is(err, circuitbreaker.ErrOpen) {
		err = errors.Wrap(err, "API unavailable")
	}

	if c.metrics != nil {
		c.metrics.ClientRequests.WithLabelValues(method, resource, statusLabel(err)).Inc()
		c.metrics.ClientLatency.WithLabelValues(method, resource).Observe(time.Since(start).Seconds())
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to encode request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, "failed to decode response")
	}
	return nil
}

func statusLabel(err error) string {
	if err == nil {
		return "success"
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode >= http.StatusInternalServerError {
			return "server_error"
		}
		return "client_error"
	}
	return "transport_error"
}
