package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dotcommander/zodkit/internal/types"
)

var anyPattern = regexp.MustCompile(`z\.any\(\s*\)`)

// noAny flags every z.any() in a schema.
type noAny struct{}

func (noAny) Check(rec types.SchemaRecord, _ *SourceContext) ([]Finding, error) {
	if !strings.Contains(rec.SourceText, "z.any(") {
		return nil, nil
	}

	var findings []Finding
	for _, m := range anyPattern.FindAllStringIndex(rec.SourceText, -1) {
		line, col := Position(rec, m[0])
		findings = append(findings, Finding{
			Line:    line,
			Column:  col,
			Message: fmt.Sprintf("Schema %q uses z.any(), which accepts every value", rec.Name),
			Suggestions: []string{
				"Replace z.any() with a concrete schema",
				"Use z.unknown() and narrow it with .refine() if the shape is truly dynamic",
			},
		})
	}
	return findings, nil
}
