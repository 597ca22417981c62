package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgtm-cli/lgtm/internal/errors"
)

func TestBackendRequests(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		call      func(srv *recordingServer) (Result, error)
		wantPath  string
		wantQuery url.Values
	}{
		{
			name: "loki query_range",
			call: func(srv *recordingServer) (Result, error) {
				return NewLoki(srv.service()).QueryRange(ctx, LogRangeQuery{
					Query: `{app="api"}`, Start: "2024-01-01T00:00:00Z", End: "2024-01-01T00:15:00Z",
					Limit: 50, Direction: "backward",
				})
			},
			wantPath: "/loki/api/v1/query_range",
			wantQuery: url.Values{
				"query": {`{app="api"}`}, "start": {"2024-01-01T00:00:00Z"}, "end": {"2024-01-01T00:15:00Z"},
				"limit": {"50"}, "direction": {"backward"},
			},
		},
		{
			name: "loki instant without time",
			call: func(srv *recordingServer) (Result, error) {
				return NewLoki(srv.service()).QueryInstant(ctx, `count_over_time({app="api"}[5m])`, "")
			},
			wantPath:  "/loki/api/v1/query",
			wantQuery: url.Values{"query": {`count_over_time({app="api"}[5m])`}},
		},
		{
			name: "loki label values",
			call: func(srv *recordingServer) (Result, error) {
				return NewLoki(srv.service()).LabelValues(ctx, "app", "s", "e")
			},
			wantPath:  "/loki/api/v1/label/app/values",
			wantQuery: url.Values{"start": {"s"}, "end": {"e"}},
		},
		{
			name: "loki series",
			call: func(srv *recordingServer) (Result, error) {
				return NewLoki(srv.service()).Series(ctx, []string{`{app="a"}`, `{app="b"}`}, "", "")
			},
			wantPath:  "/loki/api/v1/series",
			wantQuery: url.Values{"match[]": {`{app="a"}`, `{app="b"}`}},
		},
		{
			name: "prometheus instant with time",
			call: func(srv *recordingServer) (Result, error) {
				return NewPrometheus(srv.service()).Query(ctx, "up", "1700000000")
			},
			wantPath:  "/api/v1/query",
			wantQuery: url.Values{"query": {"up"}, "time": {"1700000000"}},
		},
		{
			name: "prometheus range",
			call: func(srv *recordingServer) (Result, error) {
				return NewPrometheus(srv.service()).QueryRange(ctx, "rate(x[5m])", "1", "2", "60s")
			},
			wantPath:  "/api/v1/query_range",
			wantQuery: url.Values{"query": {"rate(x[5m])"}, "start": {"1"}, "end": {"2"}, "step": {"60s"}},
		},
		{
			name: "prometheus metadata",
			call: func(srv *recordingServer) (Result, error) {
				return NewPrometheus(srv.service()).Metadata(ctx, "up")
			},
			wantPath:  "/api/v1/metadata",
			wantQuery: url.Values{"metric": {"up"}},
		},
		{
			name: "tempo trace",
			call: func(srv *recordingServer) (Result, error) {
				return NewTempo(srv.service()).Trace(ctx, "abc123")
			},
			wantPath:  "/api/traces/abc123",
			wantQuery: url.Values{},
		},
		{
			name: "tempo search",
			call: func(srv *recordingServer) (Result, error) {
				return NewTempo(srv.service()).Search(ctx, TraceSearch{
					Query: `{ .service.name = "api" }`, Start: "100", End: "200", MinDuration: "1s", Limit: 20,
				})
			},
			wantPath: "/api/search",
			wantQuery: url.Values{
				"q": {`{ .service.name = "api" }`}, "start": {"100"}, "end": {"200"},
				"minDuration": {"1s"}, "limit": {"20"},
			},
		},
		{
			name: "tempo tag values",
			call: func(srv *recordingServer) (Result, error) {
				return NewTempo(srv.service()).TagValues(ctx, "service.name")
			},
			wantPath:  "/api/search/tag/service.name/values",
			wantQuery: url.Values{},
		},
		{
			name: "alertmanager alerts default",
			call: func(srv *recordingServer) (Result, error) {
				return NewAlertmanager(srv.service()).Alerts(ctx, AlertsQuery{})
			},
			wantPath:  "/api/v2/alerts",
			wantQuery: url.Values{"silenced": {"true"}, "inhibited": {"true"}, "active": {"true"}},
		},
		{
			name: "alertmanager alerts filtered",
			call: func(srv *recordingServer) (Result, error) {
				return NewAlertmanager(srv.service()).Alerts(ctx, AlertsQuery{
					Filters: []string{"severity=critical", "team=db"}, Receiver: "pager", HideSilenced: true,
				})
			},
			wantPath: "/api/v2/alerts",
			wantQuery: url.Values{
				"filter": {"severity=critical", "team=db"}, "receiver": {"pager"},
				"silenced": {"false"}, "inhibited": {"true"}, "active": {"true"},
			},
		},
		{
			name: "alertmanager groups",
			call: func(srv *recordingServer) (Result, error) {
				return NewAlertmanager(srv.service()).AlertGroups(ctx, nil, "team")
			},
			wantPath:  "/api/v2/alerts/groups",
			wantQuery: url.Values{"receiver": {"team"}},
		},
		{
			name: "alertmanager silence by id",
			call: func(srv *recordingServer) (Result, error) {
				return NewAlertmanager(srv.service()).Silence(ctx, "6f2c5a1e-8a1b-4c7e-9b0a-1d2e3f4a5b6c")
			},
			wantPath:  "/api/v2/silence/6f2c5a1e-8a1b-4c7e-9b0a-1d2e3f4a5b6c",
			wantQuery: url.Values{},
		},
		{
			name: "alertmanager status",
			call: func(srv *recordingServer) (Result, error) {
				return NewAlertmanager(srv.service()).Status(ctx)
			},
			wantPath:  "/api/v2/status",
			wantQuery: url.Values{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newRecordingServer(t, http.StatusOK, `{"status":"success"}`)

			res, err := tt.call(srv)
			require.NoError(t, err)
			assert.Equal(t, map[string]any{"status": "success"}, res)

			req := srv.request()
			assert.Equal(t, http.MethodGet, req.Method)
			assert.Equal(t, tt.wantPath, req.Path)
			assert.Equal(t, tt.wantQuery, req.Query)
		})
	}
}

func TestTempoSearchAlwaysSendsLimit(t *testing.T) {
	srv := newRecordingServer(t, http.StatusOK, `{"traces":[]}`)

	_, err := NewTempo(srv.service()).Search(context.Background(), TraceSearch{Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, url.Values{"limit": {"20"}}, srv.request().Query)
}

func TestCreateSilence(t *testing.T) {
	srv := newRecordingServer(t, http.StatusOK, `{"silenceID":"abc"}`)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	silence, err := SilenceRequest{
		Matchers:  []string{"alertname=HighCPU"},
		CreatedBy: "alice",
		Comment:   "maintenance",
	}.Build(now)
	require.NoError(t, err)

	res, err := NewAlertmanager(srv.service()).CreateSilence(context.Background(), silence)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"silenceID": "abc"}, res)

	req := srv.request()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/v2/silences", req.Path)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(req.Body, &body))
	assert.Equal(t, "2024-01-01T12:00:00Z", body["startsAt"])
	assert.Equal(t, "2024-01-01T14:00:00Z", body["endsAt"])
	assert.Equal(t, "alice", body["createdBy"])
	assert.Equal(t, "maintenance", body["comment"])
	assert.Equal(t, []any{map[string]any{
		"name": "alertname", "value": "HighCPU", "isRegex": false, "isEqual": true,
	}}, body["matchers"])
}

func TestDeleteSilenceEmptyBody(t *testing.T) {
	srv := newRecordingServer(t, http.StatusOK, "")

	res, err := NewAlertmanager(srv.service()).DeleteSilence(context.Background(), "6f2c5a1e-8a1b-4c7e-9b0a-1d2e3f4a5b6c")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, res)

	req := srv.request()
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "/api/v2/silence/6f2c5a1e-8a1b-4c7e-9b0a-1d2e3f4a5b6c", req.Path)
}

func TestSilenceIDValidatedBeforeRequest(t *testing.T) {
	srv := newRecordingServer(t, http.StatusOK, `{}`)
	am := NewAlertmanager(srv.service())

	_, err := am.Silence(context.Background(), "not-a-uuid")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindParameter))

	_, err = am.DeleteSilence(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindParameter))

	assert.Zero(t, srv.count())
}

func TestSilenceRequestBuild(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	dur := func(d time.Duration) *time.Duration { return &d }

	tests := []struct {
		name      string
		req       SilenceRequest
		wantStart time.Time
		wantEnd   time.Time
		wantErr   string
	}{
		{
			name:      "default duration",
			req:       SilenceRequest{Matchers: []string{"a=b"}, CreatedBy: "u", Comment: "c"},
			wantStart: now,
			wantEnd:   now.Add(2 * time.Hour),
		},
		{
			name:      "explicit duration",
			req:       SilenceRequest{Matchers: []string{"a=b"}, CreatedBy: "u", Comment: "c", Duration: dur(30 * time.Minute)},
			wantStart: now,
			wantEnd:   now.Add(30 * time.Minute),
		},
		{
			name: "end wins over duration",
			req: SilenceRequest{
				Matchers: []string{"a=b"}, CreatedBy: "u", Comment: "c",
				Start: now.Add(time.Hour), End: now.Add(3 * time.Hour), Duration: dur(time.Minute),
			},
			wantStart: now.Add(time.Hour),
			wantEnd:   now.Add(3 * time.Hour),
		},
		{
			name:    "explicit zero duration",
			req:     SilenceRequest{Matchers: []string{"a=b"}, CreatedBy: "u", Comment: "c", Duration: dur(0)},
			wantErr: "must be after start",
		},
		{
			name: "end wins over zero duration",
			req: SilenceRequest{
				Matchers: []string{"a=b"}, CreatedBy: "u", Comment: "c",
				End: now.Add(time.Hour), Duration: dur(0),
			},
			wantStart: now,
			wantEnd:   now.Add(time.Hour),
		},
		{
			name:    "no matchers",
			req:     SilenceRequest{CreatedBy: "u", Comment: "c"},
			wantErr: "at least one matcher",
		},
		{
			name:    "bad matcher",
			req:     SilenceRequest{Matchers: []string{"nope"}, CreatedBy: "u", Comment: "c"},
			wantErr: "invalid matcher",
		},
		{
			name:    "empty comment",
			req:     SilenceRequest{Matchers: []string{"a=b"}, CreatedBy: "u", Comment: "  "},
			wantErr: "comment",
		},
		{
			name:    "empty creator",
			req:     SilenceRequest{Matchers: []string{"a=b"}, Comment: "c"},
			wantErr: "createdBy",
		},
		{
			name: "end before start",
			req: SilenceRequest{
				Matchers: []string{"a=b"}, CreatedBy: "u", Comment: "c",
				Start: now, End: now.Add(-time.Minute),
			},
			wantErr: "must be after start",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := tt.req.Build(now)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.True(t, errors.IsKind(err, errors.KindParameter))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, s.StartsAt)
			assert.Equal(t, tt.wantEnd, s.EndsAt)
		})
	}
}
