package rules

import (
	"fmt"
	"strings"

	"github.com/dotcommander/zodkit/internal/types"
)

// requireDescription flags object schemas without .describe().
type requireDescription struct{}

func (requireDescription) Check(rec types.SchemaRecord, _ *SourceContext) ([]Finding, error) {
	if strings.Contains(rec.SourceText, ".describe(") || !strings.Contains(rec.SourceText, "z.object(") {
		return nil, nil
	}

	return []Finding{{
		Line:    rec.StartLine,
		Column:  max(rec.StartColumn, 1),
		Message: fmt.Sprintf("Schema %q has no description", rec.Name),
		Suggestions: []string{
			fmt.Sprintf("Append .describe(%q) to the schema", describeHint(rec.Name)),
		},
	}}, nil
}

// describeHint turns a schema name like UserProfileSchema into "User profile".
func describeHint(name string) string {
	name = strings.TrimSuffix(name, "Schema")
	if i := strings.IndexByte(name, '#'); i >= 0 {
		name = name[:i]
	}
	var b strings.Builder
	for i, r := range name {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
