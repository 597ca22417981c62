// Package traces implements the 'lgtm traces' command group (Tempo).
package traces

import (
	"github.com/spf13/cobra"

	"github.com/lgtm-cli/lgtm/internal/cli/helpers"
	"github.com/lgtm-cli/lgtm/internal/client"
	"github.com/lgtm-cli/lgtm/internal/config"
	"github.com/lgtm-cli/lgtm/internal/constants"
)

// NewTracesCmd creates the traces command and its subcommands.
func NewTracesCmd(opts *helpers.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "traces",
		Aliases: []string{"tempo"},
		Short:   "Query Tempo traces",
	}

	cmd.AddCommand(newTraceCmd(opts))
	cmd.AddCommand(newSearchCmd(opts))
	cmd.AddCommand(newTagsCmd(opts))
	cmd.AddCommand(newTagValuesCmd(opts))

	return cmd
}

func run(cmd *cobra.Command, opts *helpers.Options, call func(*client.Tempo) (client.Result, error)) error {
	svc, err := opts.Service(cmd.Context(), config.BackendTraces)
	if err != nil {
		return err
	}
	result, err := call(client.NewTempo(svc, opts.ClientOptions()...))
	if err != nil {
		return err
	}
	return helpers.PrintJSON(cmd, result)
}

func newTraceCmd(opts *helpers.Options) *cobra.Command {
	return &cobra.Command{
		Use:     "trace <trace-id>",
		Short:   "Fetch a trace by ID",
		Example: "  lgtm traces trace abc123def456",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(t *client.Tempo) (client.Result, error) {
				return t.Trace(cmd.Context(), args[0])
			})
		},
	}
}

func newSearchCmd(opts *helpers.Options) *cobra.Command {
	var (
		window helpers.TimeFlags
		search client.TraceSearch
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search traces with TraceQL",
		Example: `  lgtm traces search -q '{resource.service.name="api"}'
  lgtm traces search -q '{status=error}' --min-duration 1s
  lgtm traces search --min-duration 500ms --limit 50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			search.Start, search.End = window.UnixWindow(opts.Now())
			return run(cmd, opts, func(t *client.Tempo) (client.Result, error) {
				return t.Search(cmd.Context(), search)
			})
		},
	}

	cmd.Flags().StringVarP(&search.Query, "query", "q", "", "TraceQL query")
	window.AddFlags(cmd.Flags(), "Unix seconds", true)
	cmd.Flags().StringVar(&search.MinDuration, "min-duration", "", "Minimum span duration (e.g. 100ms, 1s)")
	cmd.Flags().StringVar(&search.MaxDuration, "max-duration", "", "Maximum span duration")
	helpers.AddLimitFlag(cmd, &search.Limit, constants.DefaultTempoLimit, "traces")

	return cmd
}

func newTagsCmd(opts *helpers.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List searchable tag names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(t *client.Tempo) (client.Result, error) {
				return t.Tags(cmd.Context())
			})
		},
	}
}

func newTagValuesCmd(opts *helpers.Options) *cobra.Command {
	return &cobra.Command{
		Use:     "tag-values <tag>",
		Short:   "List values of a tag",
		Example: "  lgtm traces tag-values service.name\n  lgtm traces tag-values http.status_code",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(t *client.Tempo) (client.Result, error) {
				return t.TagValues(cmd.Context(), args[0])
			})
		},
	}
}
