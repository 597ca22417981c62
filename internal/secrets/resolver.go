// Package secrets expands secret placeholders found in configuration values.
//
// Three forms are recognised, in order of precedence:
//
//   - a value that starts with op:// is replaced as a whole by the secret it references
//   - ${op://vault/item/field} inside a larger string is replaced by that secret
//   - ${NAME} is replaced by the environment variable NAME, or "" when unset
//
// External references are classified before environment lookups, so a
// variable literally named "op" can never shadow the reference syntax.
package secrets

import (
	"context"
	"os"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// RefScheme prefixes external secret references.
const RefScheme = "op://"

var placeholderPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// LookupEnvFunc reads an environment variable.
type LookupEnvFunc func(name string) (string, bool)

// Option configures a Resolver.
type Option func(*Resolver)

// WithLookupEnv replaces the process environment with lookup.
func WithLookupEnv(lookup LookupEnvFunc) Option {
	return func(r *Resolver) {
		r.lookupEnv = lookup
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// Resolver expands placeholders. Each distinct reference is fetched at most
// once per Resolver.
type Resolver struct {
	fetcher   Fetcher
	lookupEnv LookupEnvFunc
	logger    zerolog.Logger
	cache     map[string]string
}

// NewResolver creates a resolver backed by fetcher. A nil fetcher uses the
// 1Password CLI.
func NewResolver(fetcher Fetcher, opts ...Option) *Resolver {
	if fetcher == nil {
		fetcher = &OnePassword{}
	}
	r := &Resolver{
		fetcher:   fetcher,
		lookupEnv: os.LookupEnv,
		logger:    zerolog.Nop(),
		cache:     make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns value with every placeholder substituted.
func (r *Resolver) Resolve(ctx context.Context, value string) (string, error) {
	if strings.HasPrefix(value, RefScheme) {
		return r.fetch(ctx, value)
	}

	var fetchErr error
	resolved := placeholderPattern.ReplaceAllStringFunc(value, func(match string) string {
		if fetchErr != nil {
			return match
		}

		name := match[2 : len(match)-1]
		if strings.HasPrefix(name, RefScheme) {
			secret, err := r.fetch(ctx, name)
			if err != nil {
				fetchErr = err
				return match
			}
			return secret
		}

		// Unset variables silently expand to "".
		v, _ := r.lookupEnv(name)
		return v
	})
	if fetchErr != nil {
		return "", fetchErr
	}

	return resolved, nil
}

// ResolveMap resolves every value of m into a new map.
func (r *Resolver) ResolveMap(ctx context.Context, m map[string]string) (map[string]string, error) {
	if m == nil {
		return nil, nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		resolved, err := r.Resolve(ctx, v)
		if err != nil {
			return nil, err
		}
		out[k] = resolved
	}
	return out, nil
}

func (r *Resolver) fetch(ctx context.Context, ref string) (string, error) {
	if v, ok := r.cache[ref]; ok {
		return v, nil
	}

	r.logger.Debug().Str("ref", ref).Msg("Resolving secret reference")

	v, err := r.fetcher.Fetch(ctx, ref)
	if err != nil {
		return "", err
	}
	r.cache[ref] = v
	return v, nil
}
