package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lgtm-cli/lgtm/internal/config"
	"github.com/lgtm-cli/lgtm/internal/constants"
	"github.com/lgtm-cli/lgtm/internal/errors"
)

// DefaultSilenceDuration applies when a silence is created without a duration.
var DefaultSilenceDuration = mustParseDuration(constants.DefaultSilenceDuration)

func mustParseDuration(s string) time.Duration {
	d, err := ParseDuration(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Alertmanager talks to the Alertmanager v2 API.
type Alertmanager struct {
	*Client
}

// NewAlertmanager creates an Alertmanager client.
func NewAlertmanager(svc *config.ServiceConfig, opts ...Option) *Alertmanager {
	return &Alertmanager{Client: New("Alertmanager", svc, opts...)}
}

// AlertsQuery selects alerts. The zero value includes silenced, inhibited
// and active alerts.
type AlertsQuery struct {
	Filters       []string
	Receiver      string
	HideSilenced  bool
	HideInhibited bool
	HideActive    bool
}

// Alerts lists alerts.
func (a *Alertmanager) Alerts(ctx context.Context, q AlertsQuery) (Result, error) {
	params := filterParams(q.Filters, q.Receiver)
	params.Set("silenced", strconv.FormatBool(!q.HideSilenced))
	params.Set("inhibited", strconv.FormatBool(!q.HideInhibited))
	params.Set("active", strconv.FormatBool(!q.HideActive))
	return a.get(ctx, "/api/v2/alerts", nil, params)
}

// AlertGroups lists alerts grouped by their routing labels.
func (a *Alertmanager) AlertGroups(ctx context.Context, filters []string, receiver string) (Result, error) {
	return a.get(ctx, "/api/v2/alerts/groups", nil, filterParams(filters, receiver))
}

// Silences lists silences matching the filters.
func (a *Alertmanager) Silences(ctx context.Context, filters []string) (Result, error) {
	return a.get(ctx, "/api/v2/silences", nil, filterParams(filters, ""))
}

// Silence fetches one silence by ID.
func (a *Alertmanager) Silence(ctx context.Context, id string) (Result, error) {
	if err := validateSilenceID(id); err != nil {
		return nil, err
	}
	return a.get(ctx, "/api/v2/silence/:id", map[string]string{"id": id}, nil)
}

// NewSilence is the body of a silence creation request.
type NewSilence struct {
	Matchers  []Matcher `json:"matchers"`
	StartsAt  time.Time `json:"startsAt"`
	EndsAt    time.Time `json:"endsAt"`
	CreatedBy string    `json:"createdBy"`
	Comment   string    `json:"comment"`
}

// SilenceRequest describes a silence in CLI terms. A zero Start means now
// and a non-zero End wins over Duration. A nil Duration means
// DefaultSilenceDuration; an explicit zero is kept and fails the
// end-after-start check.
type SilenceRequest struct {
	Matchers  []string
	Start     time.Time
	End       time.Time
	Duration  *time.Duration
	CreatedBy string
	Comment   string
}

// Build validates the request and converts it to the API body.
func (r SilenceRequest) Build(now time.Time) (*NewSilence, error) {
	if len(r.Matchers) == 0 {
		return nil, errors.Parameter("at least one matcher is required")
	}
	matchers, err := ParseMatchers(r.Matchers)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(r.CreatedBy) == "" {
		return nil, errors.Parameter("createdBy must not be empty")
	}
	if strings.TrimSpace(r.Comment) == "" {
		return nil, errors.Parameter("comment must not be empty")
	}

	start := r.Start
	if start.IsZero() {
		start = now
	}
	end := r.End
	if end.IsZero() {
		d := DefaultSilenceDuration
		if r.Duration != nil {
			d = *r.Duration
		}
		end = start.Add(d)
	}
	if !end.After(start) {
		return nil, errors.Parameter("silence end %s must be after start %s",
			end.UTC().Format(time.RFC3339), start.UTC().Format(time.RFC3339))
	}

	return &NewSilence{
		Matchers:  matchers,
		StartsAt:  start.UTC(),
		EndsAt:    end.UTC(),
		CreatedBy: r.CreatedBy,
		Comment:   r.Comment,
	}, nil
}

// CreateSilence posts a new silence and returns the response ({"silenceID": ...}).
func (a *Alertmanager) CreateSilence(ctx context.Context, s *NewSilence) (Result, error) {
	body, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Parameter("failed to encode silence").WithCause(err)
	}
	return a.do(ctx, request{
		method:   http.MethodPost,
		endpoint: "/api/v2/silences",
		body:     body,
	})
}

// DeleteSilence expires a silence. Alertmanager answers with an empty body,
// which is returned as an empty object.
func (a *Alertmanager) DeleteSilence(ctx context.Context, id string) (Result, error) {
	if err := validateSilenceID(id); err != nil {
		return nil, err
	}
	return a.do(ctx, request{
		method:     http.MethodDelete,
		endpoint:   "/api/v2/silence/:id",
		args:       map[string]string{"id": id},
		allowEmpty: true,
	})
}

// Status returns cluster and configuration status.
func (a *Alertmanager) Status(ctx context.Context) (Result, error) {
	return a.get(ctx, "/api/v2/status", nil, nil)
}

// Receivers lists the configured receivers.
func (a *Alertmanager) Receivers(ctx context.Context) (Result, error) {
	return a.get(ctx, "/api/v2/receivers", nil, nil)
}

func filterParams(filters []string, receiver string) url.Values {
	params := url.Values{}
	for _, f := range filters {
		params.Add("filter", f)
	}
	if receiver != "" {
		params.Set("receiver", receiver)
	}
	return params
}

func validateSilenceID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.Parameter("invalid silence id %q: must be a UUID", id)
	}
	return nil
}
