package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/lgtm-cli/lgtm/internal/config"
)

// Loki queries the Loki HTTP API.
type Loki struct {
	*Client
}

// NewLoki creates a Loki client.
func NewLoki(svc *config.ServiceConfig, opts ...Option) *Loki {
	return &Loki{Client: New("Loki", svc, opts...)}
}

// LogRangeQuery holds the parameters of a LogQL range query.
type LogRangeQuery struct {
	Query     string
	Start     string
	End       string
	Limit     int
	Direction string
}

// QueryRange runs a LogQL range query (/loki/api/v1/query_range).
func (l *Loki) QueryRange(ctx context.Context, q LogRangeQuery) (Result, error) {
	params := url.Values{}
	params.Set("query", q.Query)
	params.Set("start", q.Start)
	params.Set("end", q.End)
	params.Set("limit", strconv.Itoa(q.Limit))
	params.Set("direction", q.Direction)
	return l.get(ctx, "/loki/api/v1/query_range", nil, params)
}

// QueryInstant runs a LogQL query at a single point in time. An empty ts
// lets Loki use the current time.
func (l *Loki) QueryInstant(ctx context.Context, query, ts string) (Result, error) {
	params := url.Values{}
	params.Set("query", query)
	if ts != "" {
		params.Set("time", ts)
	}
	return l.get(ctx, "/loki/api/v1/query", nil, params)
}

// Labels lists label names.
func (l *Loki) Labels(ctx context.Context, start, end string) (Result, error) {
	return l.get(ctx, "/loki/api/v1/labels", nil, timeRange(nil, start, end))
}

// LabelValues lists the values of one label.
func (l *Loki) LabelValues(ctx context.Context, label, start, end string) (Result, error) {
	return l.get(ctx, "/loki/api/v1/label/:label/values", map[string]string{"label": label}, timeRange(nil, start, end))
}

// Series lists the streams matching any of the selectors.
func (l *Loki) Series(ctx context.Context, match []string, start, end string) (Result, error) {
	params := url.Values{"match[]": match}
	return l.get(ctx, "/loki/api/v1/series", nil, timeRange(params, start, end))
}
