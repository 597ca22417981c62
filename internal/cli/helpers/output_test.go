package helpers

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFormatter(t *testing.T) {
	data := map[string]any{
		"query": `{app="a"} |= "<b>" && x`,
		"value": json.Number("1.50"),
		"list":  []any{},
	}

	var buf bytes.Buffer
	f := &JSONFormatter{Indent: "  "}
	require.NoError(t, f.Format(data, &buf))

	want := "{\n" +
		"  \"list\": [],\n" +
		"  \"query\": \"{app=\\\"a\\\"} |= \\\"<b>\\\" && x\",\n" +
		"  \"value\": 1.50\n" +
		"}\n"
	assert.Equal(t, want, buf.String())
}

func TestPrintJSONWritesToStdout(t *testing.T) {
	cmd := &cobra.Command{}
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	require.NoError(t, PrintJSON(cmd, map[string]any{}))
	assert.Equal(t, "{}\n", stdout.String())
	assert.Empty(t, stderr.String())
}
