package config

import (
	"github.com/lgtm-cli/lgtm/internal/errors"
)

// SchemaVersion is the configuration schema version.
const SchemaVersion = "1"

// BackendKind identifies one of the four observability backends.
type BackendKind string

const (
	BackendLogs     BackendKind = "logs"
	BackendMetrics  BackendKind = "metrics"
	BackendTraces   BackendKind = "traces"
	BackendAlerting BackendKind = "alerting"
)

// BackendKinds lists every backend kind in display order.
var BackendKinds = []BackendKind{BackendLogs, BackendMetrics, BackendTraces, BackendAlerting}

// DisplayName returns the product name of the backend (e.g. "Loki").
func (k BackendKind) DisplayName() string {
	switch k {
	case BackendLogs:
		return "Loki"
	case BackendMetrics:
		return "Prometheus"
	case BackendTraces:
		return "Tempo"
	case BackendAlerting:
		return "Alertmanager"
	default:
		return string(k)
	}
}

// SectionKey returns the canonical YAML key of the backend section.
func (k BackendKind) SectionKey() string {
	switch k {
	case BackendLogs:
		return "loki"
	case BackendMetrics:
		return "prometheus"
	case BackendTraces:
		return "tempo"
	case BackendAlerting:
		return "alertmanager"
	default:
		return string(k)
	}
}

// sectionKinds maps every accepted YAML section key to its backend kind.
var sectionKinds = map[string]BackendKind{
	"loki":         BackendLogs,
	"logs":         BackendLogs,
	"prometheus":   BackendMetrics,
	"metrics":      BackendMetrics,
	"tempo":        BackendTraces,
	"traces":       BackendTraces,
	"alertmanager": BackendAlerting,
	"alerting":     BackendAlerting,
}

// ServiceConfig is the connection info of one backend endpoint.
// Token and Username are nil when absent from the config file, which is
// distinct from being present but blank.
type ServiceConfig struct {
	URL      string
	Token    *string
	Username *string
	Headers  map[string]string
}

// HasToken reports whether a non-empty token is configured.
func (s *ServiceConfig) HasToken() bool {
	return s.Token != nil && *s.Token != ""
}

// HasUsername reports whether a non-empty username is configured.
func (s *ServiceConfig) HasUsername() bool {
	return s.Username != nil && *s.Username != ""
}

// InstanceConfig groups the backends of one named deployment.
type InstanceConfig struct {
	Name     string
	Services map[BackendKind]*ServiceConfig
}

// Service returns the backend config for kind. It fails with a config error
// when the instance does not configure the backend or its URL is unusable.
// URLs are checked here rather than at load so one broken instance does not
// take the others down with it.
func (i *InstanceConfig) Service(kind BackendKind) (*ServiceConfig, error) {
	svc, ok := i.Services[kind]
	if !ok || svc == nil {
		return nil, errors.Config("%s not configured for instance '%s'", kind.DisplayName(), i.Name)
	}
	if err := ValidateServiceURL(svc.URL); err != nil {
		return nil, errors.Config("invalid %s url for instance '%s'", kind.DisplayName(), i.Name).WithCause(err)
	}
	return svc, nil
}

// Config is the root of ~/.config/lgtm/config.yaml.
type Config struct {
	Version         string
	DefaultInstance string
	Instances       map[string]*InstanceConfig

	// order holds instance names in file order.
	order []string
}

// NewConfig builds a Config from instances given in file order.
func NewConfig(version, defaultInstance string, instances ...*InstanceConfig) *Config {
	c := &Config{
		Version:         version,
		DefaultInstance: defaultInstance,
		Instances:       make(map[string]*InstanceConfig, len(instances)),
	}
	for _, inst := range instances {
		if _, exists := c.Instances[inst.Name]; !exists {
			c.order = append(c.order, inst.Name)
		}
		c.Instances[inst.Name] = inst
	}
	return c
}

// Names returns instance names in file order.
func (c *Config) Names() []string {
	names := make([]string, len(c.order))
	copy(names, c.order)
	return names
}

// GetInstance selects the instance to use.
// An explicit name must exist; otherwise default_instance is used when set,
// and finally the first instance in file order.
func (c *Config) GetInstance(name string) (*InstanceConfig, error) {
	inst, _, err := c.ResolveWithSource(name)
	return inst, err
}

// ResolutionSource records why an instance was selected.
type ResolutionSource string

const (
	SourceExplicit ResolutionSource = "explicit"
	SourceDefault  ResolutionSource = "default_instance"
	SourceFirst    ResolutionSource = "first"
)

// ResolveWithSource is GetInstance that also reports how the instance was chosen.
func (c *Config) ResolveWithSource(name string) (*InstanceConfig, ResolutionSource, error) {
	if name != "" {
		inst, ok := c.Instances[name]
		if !ok {
			return nil, "", errors.Config("Instance '%s' not found in config", name)
		}
		return inst, SourceExplicit, nil
	}

	if c.DefaultInstance != "" {
		inst, ok := c.Instances[c.DefaultInstance]
		if !ok {
			return nil, "", errors.Config("default instance '%s' not found in config", c.DefaultInstance)
		}
		return inst, SourceDefault, nil
	}

	if len(c.order) == 0 {
		return nil, "", errors.Config("no instances configured")
	}
	return c.Instances[c.order[0]], SourceFirst, nil
}
