package cli

import (
	"github.com/spf13/cobra"

	"github.com/lgtm-cli/lgtm/internal/cli/helpers"
	"github.com/lgtm-cli/lgtm/internal/config"
)

// instanceURLs maps a backend section key to its URL, or nil when the
// instance has no such section.
type instanceURLs map[string]*string

type instancesOutput struct {
	Default   *string                 `json:"default"`
	Instances map[string]instanceURLs `json:"instances"`
}

// newInstancesCmd creates the command listing configured instances.
func newInstancesCmd(opts *helpers.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "instances",
		Short: "List configured instances and their backend URLs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.LoadConfig(cmd.Context())
			if err != nil {
				return err
			}

			out := instancesOutput{Instances: make(map[string]instanceURLs, len(cfg.Instances))}
			if cfg.DefaultInstance != "" {
				out.Default = &cfg.DefaultInstance
			}

			for _, name := range cfg.Names() {
				urls := instanceURLs{}
				for _, kind := range config.BackendKinds {
					urls[kind.SectionKey()] = nil
					if svc := cfg.Instances[name].Services[kind]; svc != nil {
						urls[kind.SectionKey()] = &svc.URL
					}
				}
				out.Instances[name] = urls
			}

			return helpers.PrintJSON(cmd, out)
		},
	}
}
