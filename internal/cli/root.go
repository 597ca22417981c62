// Package cli wires the lgtm command tree.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lgtm-cli/lgtm/internal/cli/alerts"
	configcmd "github.com/lgtm-cli/lgtm/internal/cli/config"
	"github.com/lgtm-cli/lgtm/internal/cli/helpers"
	"github.com/lgtm-cli/lgtm/internal/cli/logs"
	"github.com/lgtm-cli/lgtm/internal/cli/metrics"
	"github.com/lgtm-cli/lgtm/internal/cli/traces"
	"github.com/lgtm-cli/lgtm/pkg/version"
)

// NewRootCmd builds the command tree around opts.
func NewRootCmd(opts *helpers.Options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lgtm",
		Short: "lgtm - query Loki, Prometheus, Tempo and Alertmanager",
		Long: `Query Loki, Prometheus, Tempo and Alertmanager from the command line.

Results are printed as JSON on stdout; errors go to stderr.

Defaults favour narrow queries:
- Time range: last 15 minutes (use --start/--end to override)
- Limits: 50 log entries, 20 traces
- Filter by labels whenever possible`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.ApplyEnv(cmd.Flags()); err != nil {
				return err
			}
			opts.SetupLogger(cmd.ErrOrStderr())
			return nil
		},
	}

	helpers.AddGlobalFlags(rootCmd, opts)

	rootCmd.AddCommand(logs.NewLogsCmd(opts))
	rootCmd.AddCommand(metrics.NewMetricsCmd(opts))
	rootCmd.AddCommand(traces.NewTracesCmd(opts))
	rootCmd.AddCommand(alerts.NewAlertsCmd(opts))
	rootCmd.AddCommand(newInstancesCmd(opts))
	rootCmd.AddCommand(configcmd.NewConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "lgtm version %s\n", version.Version)
			_, _ = fmt.Fprintf(w, "Git commit: %s\n", version.GitCommit)
			_, _ = fmt.Fprintf(w, "Build date: %s\n", version.BuildDate)
			_, _ = fmt.Fprintf(w, "Go version: %s\n", version.GoVersion)
		},
	}
}

// Execute runs the root command. SIGINT and SIGTERM cancel the in-flight request.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCmd(helpers.NewOptions()).ExecuteContext(ctx)
}
