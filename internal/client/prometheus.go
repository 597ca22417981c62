package client

import (
	"context"
	"net/url"

	"github.com/lgtm-cli/lgtm/internal/config"
)

// Prometheus queries the Prometheus (or Mimir) HTTP API.
type Prometheus struct {
	*Client
}

// NewPrometheus creates a Prometheus client.
func NewPrometheus(svc *config.ServiceConfig, opts ...Option) *Prometheus {
	return &Prometheus{Client: New("Prometheus", svc, opts...)}
}

// Query runs an instant PromQL query. An empty ts means now.
func (p *Prometheus) Query(ctx context.Context, query, ts string) (Result, error) {
	params := url.Values{}
	params.Set("query", query)
	if ts != "" {
		params.Set("time", ts)
	}
	return p.get(ctx, "/api/v1/query", nil, params)
}

// QueryRange runs a PromQL range query.
func (p *Prometheus) QueryRange(ctx context.Context, query, start, end, step string) (Result, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("start", start)
	params.Set("end", end)
	params.Set("step", step)
	return p.get(ctx, "/api/v1/query_range", nil, params)
}

// Labels lists label names.
func (p *Prometheus) Labels(ctx context.Context, start, end string) (Result, error) {
	return p.get(ctx, "/api/v1/labels", nil, timeRange(nil, start, end))
}

// LabelValues lists the values of one label; "__name__" lists metric names.
func (p *Prometheus) LabelValues(ctx context.Context, label, start, end string) (Result, error) {
	return p.get(ctx, "/api/v1/label/:label/values", map[string]string{"label": label}, timeRange(nil, start, end))
}

// Series lists the series matching any of the selectors.
func (p *Prometheus) Series(ctx context.Context, match []string, start, end string) (Result, error) {
	params := url.Values{"match[]": match}
	return p.get(ctx, "/api/v1/series", nil, timeRange(params, start, end))
}

// Metadata returns metric metadata, optionally for a single metric.
func (p *Prometheus) Metadata(ctx context.Context, metric string) (Result, error) {
	var params url.Values
	if metric != "" {
		params = url.Values{"metric": {metric}}
	}
	return p.get(ctx, "/api/v1/metadata", nil, params)
}
