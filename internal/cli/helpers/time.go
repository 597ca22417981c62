package helpers

import (
	"cmp"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"github.com/lgtm-cli/lgtm/internal/constants"
)

// DefaultWindow returns RFC3339 (second precision, UTC) timestamps for
// now minus constants.DefaultTimeRange and now.
func DefaultWindow(now time.Time) (start, end string) {
	now = now.UTC()
	return now.Add(-constants.DefaultTimeRange).Format(constants.RFC3339Seconds), now.Format(constants.RFC3339Seconds)
}

// DefaultUnixWindow is DefaultWindow expressed in Unix seconds.
func DefaultUnixWindow(now time.Time) (start, end string) {
	return strconv.FormatInt(now.Add(-constants.DefaultTimeRange).Unix(), 10), strconv.FormatInt(now.Unix(), 10)
}

// TimeFlags holds --start/--end values. Values are passed to the backend
// as typed; no parsing happens client side.
type TimeFlags struct {
	Start string
	End   string
}

// AddFlags registers --start/-s and --end/-e. format names the expected
// format in the help text.
func (f *TimeFlags) AddFlags(flags *pflag.FlagSet, format string, defaulted bool) {
	startHelp := "Start time filter (" + format + ")"
	endHelp := "End time filter (" + format + ")"
	if defaulted {
		startHelp = "Start time (" + format + "). Default: 15 minutes ago"
		endHelp = "End time (" + format + "). Default: now"
	}
	flags.StringVarP(&f.Start, "start", "s", "", startHelp)
	flags.StringVarP(&f.End, "end", "e", "", endHelp)
}

// Window fills unset bounds from DefaultWindow.
func (f *TimeFlags) Window(now time.Time) (start, end string) {
	start, end = DefaultWindow(now)
	return cmp.Or(f.Start, start), cmp.Or(f.End, end)
}

// UnixWindow fills unset bounds from DefaultUnixWindow.
func (f *TimeFlags) UnixWindow(now time.Time) (start, end string) {
	start, end = DefaultUnixWindow(now)
	return cmp.Or(f.Start, start), cmp.Or(f.End, end)
}
