// Package helpers holds the glue shared by every lgtm command: global
// options, instance and backend resolution, JSON output and time windows.
package helpers

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/lgtm-cli/lgtm/internal/client"
	"github.com/lgtm-cli/lgtm/internal/config"
	"github.com/lgtm-cli/lgtm/internal/logging"
	"github.com/lgtm-cli/lgtm/internal/secrets"
)

// EnvOverrides are the process-level settings read from the environment.
// A flag given on the command line always wins.
type EnvOverrides struct {
	ConfigPath string `env:"LGTM_CONFIG"`
	Instance   string `env:"LGTM_INSTANCE"`
	LogLevel   string `env:"LGTM_LOG_LEVEL"`
}

// Options is the state shared by all commands of one invocation. It is
// created once by the root command and handed to every command group.
type Options struct {
	ConfigPath string
	Instance   string
	LogLevel   string

	// Clock returns the current time; default windows are computed from it.
	Clock func() time.Time

	// LookupEnv is used for ${VAR} placeholders and $USER.
	LookupEnv secrets.LookupEnvFunc

	// Fetcher resolves op:// references. Nil means the op CLI.
	Fetcher secrets.Fetcher

	logger zerolog.Logger
}

// NewOptions returns options bound to the real clock and environment.
func NewOptions() *Options {
	return &Options{
		Clock:     time.Now,
		LookupEnv: os.LookupEnv,
		logger:    zerolog.Nop(),
	}
}

// ApplyEnv copies environment overrides into options whose flags were not
// set explicitly.
func (o *Options) ApplyEnv(flags *pflag.FlagSet) error {
	var env EnvOverrides
	if err := config.LoadFromEnv(&env); err != nil {
		return err
	}
	if !flags.Changed(FlagConfig) && env.ConfigPath != "" {
		o.ConfigPath = env.ConfigPath
	}
	if !flags.Changed(FlagInstance) && env.Instance != "" {
		o.Instance = env.Instance
	}
	if !flags.Changed(FlagLogLevel) && env.LogLevel != "" {
		o.LogLevel = env.LogLevel
	}
	return nil
}

// SetupLogger builds the diagnostic logger writing to w.
func (o *Options) SetupLogger(w io.Writer) {
	cfg := logging.DefaultConfig()
	if o.LogLevel != "" {
		cfg.Level = o.LogLevel
	}
	if w != os.Stderr {
		cfg.Pretty = false
	}
	cfg.Output = w
	o.logger = logging.New(cfg)
}

// Logger returns the diagnostic logger.
func (o *Options) Logger() zerolog.Logger {
	return o.logger
}

// Env returns the value of an environment variable, or "" when unset.
func (o *Options) Env(name string) string {
	v, _ := o.lookupEnv()(name)
	return v
}

func (o *Options) lookupEnv() secrets.LookupEnvFunc {
	if o.LookupEnv == nil {
		return os.LookupEnv
	}
	return o.LookupEnv
}

// Now returns the invocation's current time.
func (o *Options) Now() time.Time {
	if o.Clock == nil {
		return time.Now()
	}
	return o.Clock()
}

// Loader returns a config loader whose secret resolver uses the options'
// environment and fetcher.
func (o *Options) Loader() *config.Loader {
	resolver := secrets.NewResolver(o.Fetcher,
		secrets.WithLookupEnv(o.lookupEnv()),
		secrets.WithLogger(o.logger),
	)
	return config.NewLoader(resolver, o.logger)
}

// LoadConfig loads the selected config file.
func (o *Options) LoadConfig(ctx context.Context) (*config.Config, error) {
	return o.Loader().Load(ctx, o.ConfigPath)
}

// Service loads the config, selects the instance and returns its section
// for kind. A missing section is a config error naming the instance.
func (o *Options) Service(ctx context.Context, kind config.BackendKind) (*config.ServiceConfig, error) {
	cfg, err := o.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}

	inst, source, err := cfg.ResolveWithSource(o.Instance)
	if err != nil {
		return nil, err
	}

	o.logger.Debug().
		Str("instance", inst.Name).
		Str("source", string(source)).
		Str("backend", kind.DisplayName()).
		Msg("Selected instance")

	return inst.Service(kind)
}

// ClientOptions returns the options every backend client is built with.
func (o *Options) ClientOptions() []client.Option {
	return []client.Option{client.WithLogger(o.logger)}
}

