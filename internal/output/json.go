package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dotcommander/zodkit/internal/report"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	w       io.Writer
	indent  bool
	version string
}

// NewJSONFormatter creates a new JSONFormatter
func NewJSONFormatter(w io.Writer, indent bool, version string) *JSONFormatter {
	return &JSONFormatter{
		w:       w,
		indent:  indent,
		version: version,
	}
}

// Format writes the report as a single JSON document
func (f *JSONFormatter) Format(r *report.RunReport) error {
	doc := NewDocument(r, f.version)

	var (
		data []byte
		err  error
	)
	if f.indent {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}

	if _, err := fmt.Fprintln(f.w, string(data)); err != nil {
		return fmt.Errorf("error writing JSON: %w", err)
	}
	return nil
}
