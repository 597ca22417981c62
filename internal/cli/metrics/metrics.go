// Package metrics implements the 'lgtm metrics' command group (Prometheus).
package metrics

import (
	"github.com/spf13/cobra"

	"github.com/lgtm-cli/lgtm/internal/cli/helpers"
	"github.com/lgtm-cli/lgtm/internal/client"
	"github.com/lgtm-cli/lgtm/internal/config"
	"github.com/lgtm-cli/lgtm/internal/constants"
)

// NewMetricsCmd creates the metrics command and its subcommands.
func NewMetricsCmd(opts *helpers.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "metrics",
		Aliases: []string{"prom", "prometheus"},
		Short:   "Query Prometheus/Mimir metrics",
	}

	cmd.AddCommand(newQueryCmd(opts))
	cmd.AddCommand(newRangeCmd(opts))
	cmd.AddCommand(newLabelsCmd(opts))
	cmd.AddCommand(newLabelValuesCmd(opts))
	cmd.AddCommand(newSeriesCmd(opts))
	cmd.AddCommand(newMetadataCmd(opts))

	return cmd
}

// run resolves the Prometheus section and hands a client to call.
func run(cmd *cobra.Command, opts *helpers.Options, call func(*client.Prometheus) (client.Result, error)) error {
	svc, err := opts.Service(cmd.Context(), config.BackendMetrics)
	if err != nil {
		return err
	}
	result, err := call(client.NewPrometheus(svc, opts.ClientOptions()...))
	if err != nil {
		return err
	}
	return helpers.PrintJSON(cmd, result)
}

func newQueryCmd(opts *helpers.Options) *cobra.Command {
	var ts string

	cmd := &cobra.Command{
		Use:     "query <promql>",
		Short:   "Run an instant query",
		Example: "  lgtm metrics query 'up{job=\"prometheus\"}'\n  lgtm metrics query 'rate(http_requests_total[5m])'",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(p *client.Prometheus) (client.Result, error) {
				return p.Query(cmd.Context(), args[0], ts)
			})
		},
	}

	cmd.Flags().StringVarP(&ts, "time", "t", "", "Evaluation time (RFC3339 or Unix seconds). Default: now")
	return cmd
}

func newRangeCmd(opts *helpers.Options) *cobra.Command {
	var (
		window helpers.TimeFlags
		step   string
	)

	cmd := &cobra.Command{
		Use:     "range <promql>",
		Short:   "Run a range query",
		Example: "  lgtm metrics range 'rate(http_requests_total[5m])'\n  lgtm metrics range up --step 5m --start 2024-01-15T10:00:00Z",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end := window.Window(opts.Now())
			return run(cmd, opts, func(p *client.Prometheus) (client.Result, error) {
				return p.QueryRange(cmd.Context(), args[0], start, end, step)
			})
		},
	}

	window.AddFlags(cmd.Flags(), "RFC3339", true)
	cmd.Flags().StringVar(&step, "step", constants.DefaultPromStep, "Resolution step")
	return cmd
}

func newLabelsCmd(opts *helpers.Options) *cobra.Command {
	var window helpers.TimeFlags

	cmd := &cobra.Command{
		Use:   "labels",
		Short: "List label names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(p *client.Prometheus) (client.Result, error) {
				return p.Labels(cmd.Context(), window.Start, window.End)
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
		Example: "  lgtm metrics label-values job\n  lgtm metrics label-values __name__",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(p *client.Prometheus) (client.Result, error) {
				return p.LabelValues(cmd.Context(), args[0], window.Start, window.End)
			})
		},
	}

	window.AddFlags(cmd.Flags(), "RFC3339", false)
	return cmd
}

func newSeriesCmd(opts *helpers.Options) *cobra.Command {
	var window helpers.TimeFlags

	cmd := &cobra.Command{
		Use:     "series <selector>...",
		Short:   "List series matching selectors",
		Example: "  lgtm metrics series up\n  lgtm metrics series 'http_requests_total{job=\"api\"}'",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(p *client.Prometheus) (client.Result, error) {
				return p.Series(cmd.Context(), args, window.Start, window.End)
			})
		},
	}

	window.AddFlags(cmd.Flags(), "RFC3339", false)
	return cmd
}

func newMetadataCmd(opts *helpers.Options) *cobra.Command {
	var metric string

	cmd := &cobra.Command{
		Use:   "metadata",
		Short: "Show metric metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(p *client.Prometheus) (client.Result, error) {
				return p.Metadata(cmd.Context(), metric)
			})
		},
	}

	cmd.Flags().StringVarP(&metric, "metric", "m", "", "Only this metric")
	return cmd
}
