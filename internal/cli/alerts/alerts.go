// Package alerts implements the 'lgtm alerts' command group (Alertmanager).
package alerts

import (
	"github.com/spf13/cobra"

	"github.com/lgtm-cli/lgtm/internal/cli/helpers"
	"github.com/lgtm-cli/lgtm/internal/client"
	"github.com/lgtm-cli/lgtm/internal/config"
)

// NewAlertsCmd creates the alerts command and its subcommands.
func NewAlertsCmd(opts *helpers.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "alerts",
		Aliases: []string{"am", "alertmanager"},
		Short:   "Inspect Alertmanager alerts and manage silences",
	}

	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newGroupsCmd(opts))
	cmd.AddCommand(newSilencesCmd(opts))
	cmd.AddCommand(newSilenceGetCmd(opts))
	cmd.AddCommand(newSilenceCreateCmd(opts))
	cmd.AddCommand(newSilenceDeleteCmd(opts))
	cmd.AddCommand(newStatusCmd(opts))
	cmd.AddCommand(newReceiversCmd(opts))

	return cmd
}

func run(cmd *cobra.Command, opts *helpers.Options, call func(*client.Alertmanager) (client.Result, error)) error {
	svc, err := opts.Service(cmd.Context(), config.BackendAlerting)
	if err != nil {
		return err
	}
	result, err := call(client.NewAlertmanager(svc, opts.ClientOptions()...))
	if err != nil {
		return err
	}
	return helpers.PrintJSON(cmd, result)
}

func newListCmd(opts *helpers.Options) *cobra.Command {
	var (
		filters                     []string
		receiver                    string
		silenced, inhibited, active bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List alerts",
		Example: "  lgtm alerts list\n  lgtm alerts list -f severity=critical --silenced=false",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := client.AlertsQuery{
				Filters:       filters,
				Receiver:      receiver,
				HideSilenced:  !silenced,
				HideInhibited: !inhibited,
				HideActive:    !active,
			}
			return run(cmd, opts, func(am *client.Alertmanager) (client.Result, error) {
				return am.Alerts(cmd.Context(), q)
			})
		},
	}

	helpers.AddFilterFlags(cmd, &filters, &receiver)
	cmd.Flags().BoolVar(&silenced, "silenced", true, "Include silenced alerts")
	cmd.Flags().BoolVar(&inhibited, "inhibited", true, "Include inhibited alerts")
	cmd.Flags().BoolVar(&active, "active", true, "Include active alerts")

	return cmd
}

func newGroupsCmd(opts *helpers.Options) *cobra.Command {
	var (
		filters  []string
		receiver string
	)

	cmd := &cobra.Command{
		Use:   "groups",
		Short: "List alerts grouped by routing labels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(am *client.Alertmanager) (client.Result, error) {
				return am.AlertGroups(cmd.Context(), filters, receiver)
			})
		},
	}

	helpers.AddFilterFlags(cmd, &filters, &receiver)
	return cmd
}

func newSilencesCmd(opts *helpers.Options) *cobra.Command {
	var filters []string

	cmd := &cobra.Command{
		Use:   "silences",
		Short: "List silences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(am *client.Alertmanager) (client.Result, error) {
				return am.Silences(cmd.Context(), filters)
			})
		},
	}

	helpers.AddFilterFlags(cmd, &filters, nil)
	return cmd
}

func newSilenceGetCmd(opts *helpers.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "silence-get <silence-id>",
		Short: "Show one silence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(am *client.Alertmanager) (client.Result, error) {
				return am.Silence(cmd.Context(), args[0])
			})
		},
	}
}

func newSilenceDeleteCmd(opts *helpers.Options) *cobra.Command {
	return &cobra.Command{
		Use:     "silence-delete <silence-id>",
		Aliases: []string{"silence-expire"},
		Short:   "Expire a silence",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(am *client.Alertmanager) (client.Result, error) {
				return am.DeleteSilence(cmd.Context(), args[0])
			})
		},
	}
}

func newStatusCmd(opts *helpers.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show Alertmanager cluster and config status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(am *client.Alertmanager) (client.Result, error) {
				return am.Status(cmd.Context())
			})
		},
	}
}

func newReceiversCmd(opts *helpers.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "receivers",
		Short: "List configured receivers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(am *client.Alertmanager) (client.Result, error) {
				return am.Receivers(cmd.Context())
			})
		},
	}
}
