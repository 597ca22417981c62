package helpers

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
)

// JSONFormatter writes results as indented JSON. HTML characters are left
// unescaped so that LogQL and PromQL selectors stay readable.
type JSONFormatter struct {
	Indent string
}

// Format writes data followed by a newline.
func (f *JSONFormatter) Format(data any, writer io.Writer) error {
	enc := json.NewEncoder(writer)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", f.Indent)
	return enc.Encode(data)
}

// PrintJSON writes data to the command's stdout with two-space indentation.
func PrintJSON(cmd *cobra.Command, data any) error {
	f := &JSONFormatter{Indent: "  "}
	return f.Format(data, cmd.OutOrStdout())
}
