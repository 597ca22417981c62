// Package client implements thin HTTP clients for Loki, Prometheus, Tempo and
// Alertmanager.
//
// Every operation issues exactly one request and returns the decoded JSON
// body as-is. Responses are never validated against a schema.
package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/api"
	"github.com/rs/zerolog"

	"github.com/lgtm-cli/lgtm/internal/config"
	"github.com/lgtm-cli/lgtm/internal/constants"
	"github.com/lgtm-cli/lgtm/internal/errors"
)

// Result is a decoded JSON document: nil, bool, json.Number, string,
// []any or map[string]any.
type Result = any

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-call timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// Client holds the connection info shared by every backend client.
type Client struct {
	name    string
	baseURL string
	service *config.ServiceConfig
	timeout time.Duration
	logger  zerolog.Logger
}

// New creates a client for the backend called name (used in error messages).
func New(name string, svc *config.ServiceConfig, opts ...Option) *Client {
	c := &Client{
		name:    name,
		baseURL: strings.TrimSuffix(svc.URL, "/"),
		service: svc,
		timeout: constants.DefaultRequestTimeout,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With().Str("backend", name).Logger()
	return c
}

// BaseURL returns the configured URL without its trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Headers returns the headers sent with every request: Accept, the derived
// Authorization header and then the custom headers, which win on conflict.
func (c *Client) Headers() http.Header {
	h := http.Header{}
	h.Set("Accept", "application/json")

	switch {
	case c.service.HasUsername() && c.service.HasToken():
		creds := *c.service.Username + ":" + *c.service.Token
		h.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(creds)))
	case c.service.HasToken():
		h.Set("Authorization", "Bearer "+*c.service.Token)
	}

	for k, v := range c.service.Headers {
		h.Set(k, v)
	}
	return h
}

// request describes a single backend call.
type request struct {
	method string
	// endpoint is a path template; ":name" segments are filled from args.
	endpoint string
	args     map[string]string
	query    url.Values
	body     []byte
	// allowEmpty turns an empty success body into an empty object.
	allowEmpty bool
}

func (c *Client) get(ctx context.Context, endpoint string, args map[string]string, query url.Values) (Result, error) {
	return c.do(ctx, request{method: http.MethodGet, endpoint: endpoint, args: args, query: query})
}

// do performs one HTTP round trip. The transport lives only for this call and
// its idle connections are closed on return.
func (c *Client) do(ctx context.Context, r request) (Result, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	defer transport.CloseIdleConnections()

	apiClient, err := api.NewClient(api.Config{
		Address:      c.baseURL,
		RoundTripper: &headerRoundTripper{headers: c.Headers(), next: transport},
	})
	if err != nil {
		return nil, errors.Config("invalid %s url %q", c.name, c.baseURL).WithCause(err)
	}

	u := apiClient.URL(r.endpoint, r.args)
	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), body)
	if err != nil {
		return nil, errors.Backend("failed to build %s request", c.name).WithCause(err)
	}
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, data, err := apiClient.Do(ctx, req)
	if err != nil {
		return nil, errors.Backend("%s request %s %s failed", c.name, r.method, u.Redacted()).WithCause(err)
	}

	c.logger.Debug().
		Str("method", r.method).
		Str("url", u.Redacted()).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(data))
		if msg == "" {
			return nil, errors.Backend("%s returned HTTP %s", c.name, resp.Status).
				WithResponse(resp.StatusCode, "")
		}
		return nil, errors.Backend("%s returned HTTP %s: %s", c.name, resp.Status, msg).
			WithResponse(resp.StatusCode, string(data))
	}

	return c.decode(data, r.allowEmpty)
}

func (c *Client) decode(data []byte, allowEmpty bool) (Result, error) {
	if allowEmpty && len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errors.Backend("failed to parse %s response as JSON", c.name).WithCause(err)
	}
	return v, nil
}

// headerRoundTripper sets a fixed header set on every outgoing request.
type headerRoundTripper struct {
	headers http.Header
	next    http.RoundTripper
}

func (rt *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range rt.headers {
		req.Header[k] = v
	}
	return rt.next.RoundTrip(req)
}

// timeRange adds optional start/end parameters.
func timeRange(q url.Values, start, end string) url.Values {
	if q == nil {
		q = url.Values{}
	}
	if start != "" {
		q.Set("start", start)
	}
	if end != "" {
		q.Set("end", end)
	}
	return q
}
