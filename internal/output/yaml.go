package output

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dotcommander/zodkit/internal/report"
)

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	w       io.Writer
	version string
}

// NewYAMLFormatter creates a new YAMLFormatter
func NewYAMLFormatter(w io.Writer, version string) *YAMLFormatter {
	return &YAMLFormatter{w: w, version: version}
}

// Format writes the report as a YAML document
func (f *YAMLFormatter) Format(r *report.RunReport) error {
	enc := yaml.NewEncoder(f.w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(r, f.version)); err != nil {
		return fmt.Errorf("error encoding YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("error encoding YAML: %w", err)
	}
	return nil
}
