package helpers

import (
	"cmp"

	"github.com/spf13/cobra"
)

// Global flag names.
const (
	FlagConfig   = "config"
	FlagInstance = "instance"
	FlagLogLevel = "log-level"
)

// AddGlobalFlags registers --config/-c, --instance/-i and --log-level as
// persistent flags on cmd.
func AddGlobalFlags(cmd *cobra.Command, o *Options) {
	flags := cmd.PersistentFlags()
	flags.StringVarP(&o.ConfigPath, FlagConfig, "c", "", "Config file path (env LGTM_CONFIG, default ~/.config/lgtm/config.yaml)")
	flags.StringVarP(&o.Instance, FlagInstance, "i", "", "Instance name from config (env LGTM_INSTANCE)")
	flags.StringVar(&o.LogLevel, FlagLogLevel, "", "Diagnostic log level: debug, info, warn, error (env LGTM_LOG_LEVEL, default warn)")

	_ = cmd.RegisterFlagCompletionFunc(FlagInstance, func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return instanceNames(o), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc(FlagLogLevel, func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})
}

// instanceNames lists instances for shell completion. Only the YAML keys are
// read: secrets are not resolved and URLs are not checked.
func instanceNames(o *Options) []string {
	// Completion skips PersistentPreRunE, so LGTM_CONFIG is read here.
	path := cmp.Or(o.ConfigPath, o.Env("LGTM_CONFIG"))
	names, err := o.Loader().InstanceNames(path)
	if err != nil {
		o.logger.Debug().Err(err).Msg("Instance completion unavailable")
		return nil
	}
	return names
}

// AddLimitFlag registers --limit/-l.
func AddLimitFlag(cmd *cobra.Command, limit *int, def int, what string) {
	cmd.Flags().IntVarP(limit, "limit", "l", def, "Max "+what)
}

// AddFilterFlags registers repeatable --filter/-f and optionally --receiver/-r.
func AddFilterFlags(cmd *cobra.Command, filters *[]string, receiver *string) {
	cmd.Flags().StringArrayVarP(filters, "filter", "f", nil, `Label matcher filter, e.g. severity="critical" (repeatable)`)
	if receiver != nil {
		cmd.Flags().StringVarP(receiver, "receiver", "r", "", "Only alerts routed to this receiver (regex)")
	}
}
