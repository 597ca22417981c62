// Package config implements the 'lgtm config' command family.
package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lgtm-cli/lgtm/internal/cli/helpers"
	"github.com/lgtm-cli/lgtm/internal/config"
	"github.com/lgtm-cli/lgtm/internal/errors"
)

// NewConfigCmd creates the config command and its subcommands.
func NewConfigCmd(opts *helpers.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect lgtm configuration",
		Long: `Inspect lgtm configuration.

Instance selection priority:
  1. --instance flag
  2. LGTM_INSTANCE environment variable
  3. default_instance in the config file
  4. First instance in the config file

Environment Variables:
  LGTM_CONFIG     Override config file path (default: ~/.config/lgtm/config.yaml)
  LGTM_INSTANCE   Override selected instance
  LGTM_LOG_LEVEL  Diagnostic log level`,
	}

	cmd.AddCommand(newPathCmd(opts))
	cmd.AddCommand(newViewCmd(opts))
	cmd.AddCommand(newValidateCmd(opts))
	cmd.AddCommand(newCurrentInstanceCmd(opts))

	return cmd
}

func newPathCmd(opts *helpers.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), opts.Loader().Path(opts.ConfigPath))
			return err
		},
	}
}

func newViewCmd(opts *helpers.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Show the resolved configuration",
		Long: `Show the configuration after placeholder resolution, in file order.

Tokens and header values are replaced with <redacted>.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.LoadConfig(cmd.Context())
			if err != nil {
				return err
			}
			data, err := cfg.MarshalRedactedYAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

type validateResult struct {
	Valid     bool                `json:"valid"`
	Path      string              `json:"path"`
	Default   *string             `json:"default"`
	Instances map[string][]string `json:"instances"`
}

func newValidateCmd(opts *helpers.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the config, resolve secrets, check every backend URL and report configured backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := opts.Loader()
			path := loader.Path(opts.ConfigPath)

			cfg, err := loader.Load(cmd.Context(), path)
			if err != nil {
				return err
			}
			if err := cfg.ValidateServices(); err != nil {
				return errors.Config("invalid config %s", path).WithCause(err)
			}

			result := validateResult{
				Valid:     true,
				Path:      path,
				Instances: make(map[string][]string, len(cfg.Names())),
			}
			if cfg.DefaultInstance != "" {
				result.Default = &cfg.DefaultInstance
			}
			for _, name := range cfg.Names() {
				inst := cfg.Instances[name]
				backends := []string{}
				for _, kind := range config.BackendKinds {
					if inst.Services[kind] != nil {
						backends = append(backends, kind.SectionKey())
					}
				}
				result.Instances[name] = backends
			}

			return helpers.PrintJSON(cmd, result)
		},
	}
}

type currentInstance struct {
	Instance string `json:"instance"`
	Source   string `json:"source"`
}

func newCurrentInstanceCmd(opts *helpers.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "current-instance",
		Short: "Show which instance commands will use and why",
		Long: `Show the selected instance and where the choice came from:
  explicit          --instance flag or LGTM_INSTANCE
  default_instance  default_instance in the config file
  first             first instance in the config file`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.LoadConfig(cmd.Context())
			if err != nil {
				return err
			}
			inst, source, err := cfg.ResolveWithSource(opts.Instance)
			if err != nil {
				return err
			}
			return helpers.PrintJSON(cmd, currentInstance{Instance: inst.Name, Source: string(source)})
		},
	}
}
