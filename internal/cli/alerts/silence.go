package alerts

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/lgtm-cli/lgtm/internal/cli/helpers"
	"github.com/lgtm-cli/lgtm/internal/client"
	"github.com/lgtm-cli/lgtm/internal/constants"
	"github.com/lgtm-cli/lgtm/internal/errors"
)

type silenceFlags struct {
	matchers  []string
	start     string
	end       string
	duration  string
	createdBy string
	comment   string
}

// request converts flag values into a SilenceRequest. Times are RFC3339.
func (f *silenceFlags) request() (client.SilenceRequest, error) {
	req := client.SilenceRequest{
		Matchers:  f.matchers,
		CreatedBy: f.createdBy,
		Comment:   f.comment,
	}

	var err error
	if f.start != "" {
		if req.Start, err = time.Parse(time.RFC3339, f.start); err != nil {
			return req, errors.Parameter("invalid --start %q: expected RFC3339", f.start)
		}
	}
	if f.end != "" {
		if req.End, err = time.Parse(time.RFC3339, f.end); err != nil {
			return req, errors.Parameter("invalid --end %q: expected RFC3339", f.end)
		}
	}
	if f.duration != "" {
		d, err := client.ParseDuration(f.duration)
		if err != nil {
			return req, err
		}
		req.Duration = &d
	}
	return req, nil
}

func newSilenceCreateCmd(opts *helpers.Options) *cobra.Command {
	var flags silenceFlags

	cmd := &cobra.Command{
		Use:   "silence-create",
		Short: "Create a silence",
		Long: `Create a silence for the alerts matching every --matcher.

Matchers use the Alertmanager syntax name=value, name!=value, name=~regex
and name!~regex. The silence starts now and lasts 2h unless --start,
--duration or --end say otherwise; --end wins over --duration.`,
		Example: `  lgtm alerts silence-create -m alertname=HighCPU --comment "deploying fix"
  lgtm alerts silence-create -m 'severity=~warning|info' -m team=db --duration 1d --comment "db maintenance"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("created-by") {
				flags.createdBy = opts.Env("USER")
			}
			req, err := flags.request()
			if err != nil {
				return err
			}
			silence, err := req.Build(opts.Now())
			if err != nil {
				return err
			}

			return run(cmd, opts, func(am *client.Alertmanager) (client.Result, error) {
				return am.CreateSilence(cmd.Context(), silence)
			})
		},
	}

	cmd.Flags().StringArrayVarP(&flags.matchers, "matcher", "m", nil, "Label matcher (repeatable)")
	cmd.Flags().StringVar(&flags.start, "start", "", "Start time (RFC3339). Default: now")
	cmd.Flags().StringVar(&flags.end, "end", "", "End time (RFC3339). Overrides --duration")
	cmd.Flags().StringVarP(&flags.duration, "duration", "d", constants.DefaultSilenceDuration, "Duration (e.g. 30m, 2h, 1d)")
	cmd.Flags().StringVar(&flags.createdBy, "created-by", "", "Author of the silence. Default: $USER")
	cmd.Flags().StringVar(&flags.comment, "comment", "", "Reason for the silence (required)")
	_ = cmd.MarkFlagRequired("matcher")
	_ = cmd.MarkFlagRequired("comment")

	return cmd
}
