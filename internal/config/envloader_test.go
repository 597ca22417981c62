package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envTarget struct {
	ConfigPath string `env:"LGTM_TEST_CONFIG"`
	Instance   string `env:"LGTM_TEST_INSTANCE"`
	Untagged   string
}

func TestLoadFromEnv(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		in   envTarget
		want envTarget
	}{
		{
			name: "set",
			env:  map[string]string{"LGTM_TEST_CONFIG": "/etc/lgtm.yaml", "LGTM_TEST_INSTANCE": "staging"},
			in:   envTarget{Untagged: "keep"},
			want: envTarget{ConfigPath: "/etc/lgtm.yaml", Instance: "staging", Untagged: "keep"},
		},
		{
			name: "empty leaves defaults",
			env:  map[string]string{"LGTM_TEST_CONFIG": "", "LGTM_TEST_INSTANCE": ""},
			in:   envTarget{Instance: "prod"},
			want: envTarget{Instance: "prod"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			got := tt.in
			require.NoError(t, LoadFromEnv(&got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadFromEnv_Rejects(t *testing.T) {
	var nilTarget *envTarget
	s := "not a struct"
	nonString := struct {
		Limit int `env:"LGTM_TEST_LIMIT"`
	}{}

	tests := []struct {
		name    string
		dst     any
		wantErr string
	}{
		{name: "nil pointer", dst: nilTarget, wantErr: "expected a pointer to a struct"},
		{name: "not a pointer", dst: envTarget{}, wantErr: "expected a pointer to a struct"},
		{name: "not a struct", dst: &s, wantErr: "expected a pointer to a struct"},
		{name: "non-string field", dst: &nonString, wantErr: "field Limit (LGTM_TEST_LIMIT) must be a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := LoadFromEnv(tt.dst)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
