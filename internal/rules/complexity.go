package rules

import (
	"fmt"

	"github.com/dotcommander/zodkit/internal/extract"
	"github.com/dotcommander/zodkit/internal/types"
)

// maxComplexity flags schemas with too many fields or too deep object nesting.
type maxComplexity struct {
	maxFields int
	maxDepth  int
}

func (r maxComplexity) Check(rec types.SchemaRecord, _ *SourceContext) ([]Finding, error) {
	fields, depth := rec.FieldCount, rec.NestingDepth
	hasMetadata := fields > 0 || depth > 0
	if hasMetadata && fields <= r.maxFields && depth <= r.maxDepth {
		return nil, nil
	}
	if !hasMetadata {
		fields = extract.CountFields(rec.SourceText)
		depth = extract.NestingDepth(rec.SourceText)
	}

	var findings []Finding
	if fields > r.maxFields {
		findings = append(findings, Finding{
			Line:    rec.StartLine,
			Column:  max(rec.StartColumn, 1),
			Message: fmt.Sprintf("Schema %q has %d fields (max %d)", rec.Name, fields, r.maxFields),
			Suggestions: []string{
				"Split the schema into smaller schemas and combine them with .merge() or .extend()",
			},
		})
	}
	if depth > r.maxDepth {
		findings = append(findings, Finding{
			Line:    rec.StartLine,
			Column:  max(rec.StartColumn, 1),
			Message: fmt.Sprintf("Schema %q nests objects %d levels deep (max %d)", rec.Name, depth, r.maxDepth),
			Suggestions: []string{
				"Extract nested objects into named schemas",
			},
		})
	}
	return findings, nil
}
