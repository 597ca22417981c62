package secrets

import (
	"bytes"
	"context"
	stderrors "errors"
	"os/exec"
	"strings"

	"github.com/lgtm-cli/lgtm/internal/constants"
	"github.com/lgtm-cli/lgtm/internal/errors"
)

//go:generate mockgen -destination=mock_fetcher.go -package=secrets github.com/lgtm-cli/lgtm/internal/secrets Fetcher

// Fetcher resolves a single external secret reference to its value.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) (string, error)
}

// FetcherFunc adapts a plain function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, ref string) (string, error)

// Fetch calls f(ctx, ref).
func (f FetcherFunc) Fetch(ctx context.Context, ref string) (string, error) {
	return f(ctx, ref)
}

// DefaultOnePasswordBinary is the 1Password CLI executable name.
const DefaultOnePasswordBinary = "op"

// OnePassword reads secrets with the 1Password CLI (`op read <ref>`).
type OnePassword struct {
	// Binary is the CLI executable; empty means "op" looked up in PATH.
	Binary string
}

// Fetch runs `op read ref` and returns its trimmed stdout.
func (o *OnePassword) Fetch(ctx context.Context, ref string) (string, error) {
	bin := o.Binary
	if bin == "" {
		bin = DefaultOnePasswordBinary
	}

	path, err := exec.LookPath(bin)
	if err != nil {
		return "", errors.Secret("1Password CLI %q not found, install it to resolve %s", bin, ref).WithCause(err)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DefaultSecretTimeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	//nolint:gosec // G204: The reference comes from the user's own config file.
	cmd := exec.CommandContext(ctx, path, "read", ref)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			msg := strings.TrimSpace(stderr.String())
			if msg == "" {
				msg = exitErr.Error()
			}
			return "", errors.Secret("failed to resolve %s: %s", ref, msg)
		}
		return "", errors.Secret("failed to run %s for %s", bin, ref).WithCause(err)
	}

	return strings.TrimSpace(stdout.String()), nil
}
