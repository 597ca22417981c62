package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func instanceWith(name string, services map[BackendKind]*ServiceConfig) *InstanceConfig {
	return &InstanceConfig{Name: name, Services: services}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr string
	}{
		{
			name: "valid",
			cfg: NewConfig("1", "prod",
				instanceWith("prod", map[BackendKind]*ServiceConfig{BackendLogs: {URL: "http://loki:3100"}}),
			),
		},
		{
			name: "no instances",
			cfg:  NewConfig("1", ""),
		},
		{
			name:    "dangling default",
			cfg:     NewConfig("1", "staging", instanceWith("prod", nil)),
			wantErr: `default_instance: instance "staging" is not defined`,
		},
		{
			name: "bad url is left to service lookup",
			cfg: NewConfig("1", "",
				instanceWith("prod", map[BackendKind]*ServiceConfig{BackendTraces: {URL: "tempo:3200"}}),
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_ValidateServices(t *testing.T) {
	tests := []struct {
		name       string
		cfg        *Config
		wantFields []string
	}{
		{
			name: "all valid",
			cfg: NewConfig("1", "",
				instanceWith("prod", map[BackendKind]*ServiceConfig{BackendLogs: {URL: "http://loki:3100"}}),
			),
		},
		{
			name: "bad url",
			cfg: NewConfig("1", "",
				instanceWith("prod", map[BackendKind]*ServiceConfig{BackendTraces: {URL: "tempo:3200"}}),
			),
			wantFields: []string{"instances.prod.tempo.url"},
		},
		{
			name: "every instance reported in file order",
			cfg: NewConfig("1", "",
				instanceWith("b", map[BackendKind]*ServiceConfig{
					BackendLogs:     {URL: ""},
					BackendAlerting: {URL: "ftp://am"},
				}),
				instanceWith("a", map[BackendKind]*ServiceConfig{
					BackendMetrics: {URL: "http://prom:9090"},
					BackendTraces:  {URL: ""},
				}),
			),
			wantFields: []string{"instances.b.loki.url", "instances.b.alertmanager.url", "instances.a.tempo.url"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateServices()
			if len(tt.wantFields) == 0 {
				require.NoError(t, err)
				return
			}

			var multi *MultiValidationError
			require.ErrorAs(t, err, &multi)
			fields := make([]string, len(multi.Errors))
			for i, e := range multi.Errors {
				fields[i] = e.Field
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestConfig_Validate_IgnoresBrokenURLs(t *testing.T) {
	cfg := NewConfig("1", "prod",
		instanceWith("prod", map[BackendKind]*ServiceConfig{BackendLogs: {URL: "http://loki:3100"}}),
		instanceWith("staging", map[BackendKind]*ServiceConfig{BackendLogs: {URL: ""}}),
	)

	require.NoError(t, cfg.Validate())
	require.Error(t, cfg.ValidateServices())
}
