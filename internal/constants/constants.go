// Package constants defines shared configuration constants.
package constants

var (
	ConfigFile = "config.yaml"

	// DefaultDir is the config directory relative to the user's home.
	DefaultDir = ".config/lgtm"
)
