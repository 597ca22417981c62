package secrets

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lgtmerrors "github.com/lgtm-cli/lgtm/internal/errors"
)

const fakeOP = `#!/bin/sh
if [ "$1" != "read" ]; then
  echo "unexpected command $1" >&2
  exit 2
fi
if [ "$2" = "op://v/i/f" ]; then
  echo "  s3cret  "
  exit 0
fi
echo "[ERROR] could not find item $2" >&2
exit 1
`

func writeFakeOP(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "op")
	//nolint:gosec // G306: Test fixture must be executable.
	require.NoError(t, os.WriteFile(path, []byte(fakeOP), 0755))
	return path
}

func TestOnePassword_Fetch(t *testing.T) {
	o := &OnePassword{Binary: writeFakeOP(t)}

	got, err := o.Fetch(context.Background(), "op://v/i/f")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)
}

func TestOnePassword_FetchNonZeroExit(t *testing.T) {
	o := &OnePassword{Binary: writeFakeOP(t)}

	_, err := o.Fetch(context.Background(), "op://v/missing/f")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not find item op://v/missing/f")
	assert.True(t, lgtmerrors.IsKind(err, lgtmerrors.KindSecret))
}

func TestOnePassword_MissingBinary(t *testing.T) {
	o := &OnePassword{Binary: filepath.Join(t.TempDir(), "no-such-op")}

	_, err := o.Fetch(context.Background(), "op://v/i/f")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.True(t, lgtmerrors.IsKind(err, lgtmerrors.KindSecret))
}

func TestResolver_WithOnePassword(t *testing.T) {
	r := NewResolver(&OnePassword{Binary: writeFakeOP(t)}, WithLookupEnv(envOf(nil)))

	got, err := r.Resolve(context.Background(), "op://v/i/f")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)
}
