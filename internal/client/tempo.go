package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/lgtm-cli/lgtm/internal/config"
)

// Tempo queries the Tempo HTTP API.
type Tempo struct {
	*Client
}

// NewTempo creates a Tempo client.
func NewTempo(svc *config.ServiceConfig, opts ...Option) *Tempo {
	return &Tempo{Client: New("Tempo", svc, opts...)}
}

// TraceSearch holds the parameters of a trace search. Start and End are Unix
// seconds; durations use Go syntax such as 100ms or 1s.
type TraceSearch struct {
	Query       string
	Start       string
	End         string
	MinDuration string
	MaxDuration string
	Limit       int
}

// Trace fetches a trace by ID.
func (t *Tempo) Trace(ctx context.Context, traceID string) (Result, error) {
	return t.get(ctx, "/api/traces/:id", map[string]string{"id": traceID}, nil)
}

// Search runs a TraceQL search.
func (t *Tempo) Search(ctx context.Context, s TraceSearch) (Result, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(s.Limit))
	if s.Query != "" {
		params.Set("q", s.Query)
	}
	timeRange(params, s.Start, s.End)
	if s.MinDuration != "" {
		params.Set("minDuration", s.MinDuration)
	}
	if s.MaxDuration != "" {
		params.Set("maxDuration", s.MaxDuration)
	}
	return t.get(ctx, "/api/search", nil, params)
}

// Tags lists searchable tag names.
func (t *Tempo) Tags(ctx context.Context) (Result, error) {
	return t.get(ctx, "/api/search/tags", nil, nil)
}

// TagValues lists the values of one tag.
func (t *Tempo) TagValues(ctx context.Context, tag string) (Result, error) {
	return t.get(ctx, "/api/search/tag/:tag/values", map[string]string{"tag": tag}, nil)
}
