// Package logs implements the 'lgtm logs' command group (Loki).
package logs

import (
	"github.com/spf13/cobra"

	"github.com/lgtm-cli/lgtm/internal/cli/helpers"
	"github.com/lgtm-cli/lgtm/internal/client"
	"github.com/lgtm-cli/lgtm/internal/config"
	"github.com/lgtm-cli/lgtm/internal/constants"
	"github.com/lgtm-cli/lgtm/internal/errors"
)

// NewLogsCmd creates the logs command and its subcommands.
func NewLogsCmd(opts *helpers.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "logs",
		Aliases: []string{"loki"},
		Short:   "Query Loki logs",
		Long: `Query Loki logs.

Range queries default to the last 15 minutes and 50 entries. Start with
'lgtm logs labels' to see what can be filtered on.`,
	}

	cmd.AddCommand(newQueryCmd(opts))
	cmd.AddCommand(newInstantCmd(opts))
	cmd.AddCommand(newLabelsCmd(opts))
	cmd.AddCommand(newLabelValuesCmd(opts))
	cmd.AddCommand(newSeriesCmd(opts))

	return cmd
}

// run resolves the Loki section and hands a client to call.
func run(cmd *cobra.Command, opts *helpers.Options, call func(*client.Loki) (client.Result, error)) error {
	svc, err := opts.Service(cmd.Context(), config.BackendLogs)
	if err != nil {
		return err
	}
	result, err := call(client.NewLoki(svc, opts.ClientOptions()...))
	if err != nil {
		return err
	}
	return helpers.PrintJSON(cmd, result)
}

func newQueryCmd(opts *helpers.Options) *cobra.Command {
	var (
		window    helpers.TimeFlags
		limit     int
		direction string
	)

	cmd := &cobra.Command{
		Use:   "query <logql>",
		Short: "Run a LogQL range query",
		Example: `  lgtm logs query '{app="myapp"}'
  lgtm logs query '{app="myapp"} |= "error"' --limit 100
  lgtm logs query '{app="myapp"}' --start 2024-01-15T10:00:00Z --end 2024-01-15T11:00:00Z`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if direction != "backward" && direction != "forward" {
				return errors.Parameter("invalid direction %q: must be backward or forward", direction)
			}

			start, end := window.Window(opts.Now())
			return run(cmd, opts, func(l *client.Loki) (client.Result, error) {
				return l.QueryRange(cmd.Context(), client.LogRangeQuery{
					Query:     args[0],
					Start:     start,
					End:       end,
					Limit:     limit,
					Direction: direction,
				})
			})
		},
	}

	window.AddFlags(cmd.Flags(), "RFC3339", true)
	helpers.AddLimitFlag(cmd, &limit, constants.DefaultLokiLimit, "entries")
	cmd.Flags().StringVarP(&direction, "direction", "d", constants.DefaultLokiDirection, "Sort order: backward or forward")
	_ = cmd.RegisterFlagCompletionFunc("direction", cobra.FixedCompletions([]string{"backward", "forward"}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func newInstantCmd(opts *helpers.Options) *cobra.Command {
	var ts string

	cmd := &cobra.Command{
		Use:   "instant <logql>",
		Short: "Run an instant query (metric queries such as count_over_time)",
		Example: `  lgtm logs instant 'count_over_time({app="myapp"}[5m])'
  lgtm logs instant 'sum by (level) (count_over_time({app="myapp"} | json [5m]))'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(l *client.Loki) (client.Result, error) {
				return l.QueryInstant(cmd.Context(), args[0], ts)
			})
		},
	}

	cmd.Flags().StringVarP(&ts, "time", "t", "", "Evaluation time (RFC3339). Default: now")
	return cmd
}

func newLabelsCmd(opts *helpers.Options) *cobra.Command {
	var window helpers.TimeFlags

	cmd := &cobra.Command{
		Use:   "labels",
		Short: "List label names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(l *client.Loki) (client.Result, error) {
				return l.Labels(cmd.Context(), window.Start, window.End)
			})
		},
	}

	window.AddFlags(cmd.Flags(), "RFC3339", false)
	return cmd
}

func newLabelValuesCmd(opts *helpers.Options) *cobra.Command {
	var window helpers.TimeFlags

	cmd := &cobra.Command{
		Use:     "label-values <label>",
		Short:   "List values of a label",
		Example: "  lgtm logs label-values app\n  lgtm logs label-values namespace",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(l *client.Loki) (client.Result, error) {
				return l.LabelValues(cmd.Context(), args[0], window.Start, window.End)
			})
		},
	}

	window.AddFlags(cmd.Flags(), "RFC3339", false)
	return cmd
}

func newSeriesCmd(opts *helpers.Options) *cobra.Command {
	var window helpers.TimeFlags

	cmd := &cobra.Command{
		Use:   "series <selector>...",
		Short: "List streams matching selectors",
		Example: `  lgtm logs series '{app="myapp"}'
  lgtm logs series '{namespace="prod"}' '{namespace="staging"}'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(l *client.Loki) (client.Result, error) {
				return l.Series(cmd.Context(), args, window.Start, window.End)
			})
		},
	}

	window.AddFlags(cmd.Flags(), "RFC3339", false)
	return cmd
}
