// Package config provides configuration loading and instance selection.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/lgtm-cli/lgtm/internal/constants"
	"github.com/lgtm-cli/lgtm/internal/errors"
	"github.com/lgtm-cli/lgtm/internal/secrets"
)

// Loader reads the config file and resolves the secrets it references.
type Loader struct {
	homeDir  string
	resolver *secrets.Resolver
	logger   zerolog.Logger
}

// NewLoader creates a new config loader.
// When the home directory cannot be determined the current directory is used
// as the base for the default path.
func NewLoader(resolver *secrets.Resolver, logger zerolog.Logger) *Loader {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	if resolver == nil {
		resolver = secrets.NewResolver(nil, secrets.WithLogger(logger))
	}
	return &Loader{
		homeDir:  homeDir,
		resolver: resolver,
		logger:   logger,
	}
}

// DefaultPath returns ~/.config/lgtm/config.yaml.
func (l *Loader) DefaultPath() string {
	return filepath.Join(l.homeDir, constants.DefaultDir, constants.ConfigFile)
}

// Path returns explicit when set, otherwise the default path.
func (l *Loader) Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return l.DefaultPath()
}

type rawService struct {
	URL      *string           `yaml:"url"`
	Token    *string           `yaml:"token"`
	Username *string           `yaml:"username"`
	Headers  map[string]string `yaml:"headers"`
}

type rawConfig struct {
	Version         string    `yaml:"version"`
	DefaultInstance string    `yaml:"default_instance"`
	Instances       yaml.Node `yaml:"instances"`
}

// Load parses the config file at path (or the default path when empty).
// A missing file is reported as a config error that points at the default
// location; parse errors are fatal, there is no partial load.
func (l *Loader) Load(ctx context.Context, path string) (*Config, error) {
	path = l.Path(path)

	data, err := l.read(path)
	if err != nil {
		return nil, err
	}

	cfg, err := l.Parse(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	l.logger.Debug().
		Str("path", path).
		Int("instances", len(cfg.order)).
		Msg("Loaded config")

	return cfg, nil
}

// InstanceNames lists the instance names of the config file in file order.
// Nothing is resolved or validated, so it works for configs whose secrets are
// unreachable. Shell completion relies on this.
func (l *Loader) InstanceNames(path string) ([]string, error) {
	path = l.Path(path)

	data, err := l.read(path)
	if err != nil {
		return nil, err
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if raw.Instances.Kind != yaml.MappingNode {
		return nil, nil
	}

	names := make([]string, 0, len(raw.Instances.Content)/2)
	for i := 0; i+1 < len(raw.Instances.Content); i += 2 {
		names = append(names, raw.Instances.Content[i].Value)
	}
	return names, nil
}

func (l *Loader) read(path string) ([]byte, error) {
	//nolint:gosec // G304: Path is chosen by the user.
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Config("Config file not found: %s (create one at %s)", path, l.DefaultPath())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return data, nil
}

// Parse builds a Config from YAML document bytes.
func (l *Loader) Parse(ctx context.Context, data []byte) (*Config, error) {
	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	version := raw.Version
	if version == "" {
		version = SchemaVersion
	}

	instances, err := l.parseInstances(ctx, &raw.Instances)
	if err != nil {
		return nil, err
	}

	cfg := NewConfig(version, raw.DefaultInstance, instances...)
	if err := cfg.Validate(); err != nil {
		return nil, errors.Config("invalid config").WithCause(err)
	}
	return cfg, nil
}

// parseInstances walks the instances mapping node so that file order survives.
func (l *Loader) parseInstances(ctx context.Context, node *yaml.Node) ([]*InstanceConfig, error) {
	if node.Kind == 0 || node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("failed to parse config: line %d: instances must be a mapping", node.Line)
	}

	seen := make(map[string]bool)
	instances := make([]*InstanceConfig, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		name := keyNode.Value
		if seen[name] {
			return nil, errors.Config("instance '%s' defined more than once (line %d)", name, keyNode.Line)
		}
		seen[name] = true

		var sections map[string]*rawService
		if err := valueNode.Decode(&sections); err != nil {
			return nil, fmt.Errorf("failed to parse instance '%s': %w", name, err)
		}

		inst, err := l.buildInstance(ctx, name, sections)
		if err != nil {
			return nil, err
		}
		instances = append(instances, inst)
	}
	return instances, nil
}

func (l *Loader) buildInstance(ctx context.Context, name string, sections map[string]*rawService) (*InstanceConfig, error) {
	inst := &InstanceConfig{
		Name:     name,
		Services: make(map[BackendKind]*ServiceConfig),
	}

	keys := make(map[BackendKind]string)
	for key, raw := range sections {
		kind, ok := sectionKinds[key]
		if !ok {
			l.logger.Debug().Str("instance", name).Str("section", key).Msg("Ignoring unknown config section")
			continue
		}
		if prev, dup := keys[kind]; dup {
			return nil, errors.Config("instance '%s' configures %s twice (%q and %q)", name, kind.DisplayName(), prev, key)
		}
		keys[kind] = key

		svc, err := l.buildService(ctx, raw)
		if err != nil {
			return nil, fmt.Errorf("instance '%s' %s: %w", name, key, err)
		}
		if svc != nil {
			inst.Services[kind] = svc
		}
	}
	return inst, nil
}

// buildService resolves every field through the secret resolver. An empty
// section yields nil, the same as an absent one.
func (l *Loader) buildService(ctx context.Context, raw *rawService) (*ServiceConfig, error) {
	if raw == nil || (raw.URL == nil && raw.Token == nil && raw.Username == nil && len(raw.Headers) == 0) {
		return nil, nil
	}

	svc := &ServiceConfig{}

	if raw.URL != nil {
		url, err := l.resolver.Resolve(ctx, *raw.URL)
		if err != nil {
			return nil, err
		}
		svc.URL = url
	}

	var err error
	if svc.Token, err = l.resolveOptional(ctx, raw.Token); err != nil {
		return nil, err
	}
	if svc.Username, err = l.resolveOptional(ctx, raw.Username); err != nil {
		return nil, err
	}

	if len(raw.Headers) > 0 {
		if svc.Headers, err = l.resolver.ResolveMap(ctx, raw.Headers); err != nil {
			return nil, err
		}
	}

	return svc, nil
}

func (l *Loader) resolveOptional(ctx context.Context, value *string) (*string, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	resolved, err := l.resolver.Resolve(ctx, *value)
	if err != nil {
		return nil, err
	}
	return &resolved, nil
}
