// Package constants defines shared configuration constants and defaults.
package constants

import "time"

// Query defaults applied by the CLI when the caller leaves them unset.
const (
	// DefaultTimeRange is the window used when --start/--end are omitted.
	DefaultTimeRange = 15 * time.Minute

	// DefaultLokiLimit caps the number of log lines returned by a range query.
	DefaultLokiLimit = 50

	// DefaultLokiDirection is the sort order of log range queries.
	DefaultLokiDirection = "backward"

	// DefaultTempoLimit caps the number of traces returned by a search.
	DefaultTempoLimit = 20

	// DefaultPromStep is the resolution of metric range queries.
	DefaultPromStep = "60s"

	// DefaultSilenceDuration is used for new silences when no duration is given.
	DefaultSilenceDuration = "2h"
)

// Timeouts - Default timeout values.
const (
	// DefaultRequestTimeout is the ceiling applied to every backend call.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultSecretTimeout bounds a single secret manager invocation.
	DefaultSecretTimeout = 30 * time.Second
)

// RFC3339Seconds is the timestamp layout used for default query windows.
const RFC3339Seconds = "2006-01-02T15:04:05Z"
