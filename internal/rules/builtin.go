package rules

import "github.com/dotcommander/zodkit/internal/types"

// Built-in rule ids.
const (
	IDNoAny                = "no-any"
	IDMissingValidation    = "missing-validation"
	IDMaxComplexity        = "max-complexity"
	IDRequireDescription   = "require-description"
	IDCrossFieldRefinement = "cross-field-refinement"
)

// Options tunes the built-in rules.
type Options struct {
	MaxFields int
	MaxDepth  int
}

// DefaultOptions returns the built-in thresholds.
func DefaultOptions() Options {
	return Options{MaxFields: 25, MaxDepth: 4}
}

// Builtin returns the built-in rules in registration order.
func Builtin(opts Options) []Rule {
	def := DefaultOptions()
	if opts.MaxFields <= 0 {
		opts.MaxFields = def.MaxFields
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = def.MaxDepth
	}

	return []Rule{
		{
			Meta: Meta{
				ID:          IDNoAny,
				Description: "Disallow z.any(), which switches validation off",
				Severity:    types.SeverityError,
				Category:    types.CategoryTypeSafety,
			},
			Checker: noAny{},
		},
		{
			Meta: Meta{
				ID:          IDMissingValidation,
				Description: "Primitive fields should carry at least one constraint",
				Severity:    types.SeverityWarning,
				Category:    types.CategoryValidation,
			},
			Checker: missingValidation{},
		},
		{
			Meta: Meta{
				ID:          IDMaxComplexity,
				Description: "Limit field count and object nesting depth",
				Severity:    types.SeverityWarning,
				Category:    types.CategoryComplexity,
			},
			Checker: maxComplexity{maxFields: opts.MaxFields, maxDepth: opts.MaxDepth},
		},
		{
			Meta: Meta{
				ID:          IDRequireDescription,
				Description: "Object schemas should be documented with .describe()",
				Severity:    types.SeverityInfo,
				Category:    types.CategoryDocumentation,
				AutoFixable: true,
			},
			Checker: requireDescription{},
		},
		{
			// Heuristic: stays advisory.
			Meta: Meta{
				ID:          IDCrossFieldRefinement,
				Description: "Related fields usually need a .refine() cross-field check",
				Severity:    types.SeverityInfo,
				Category:    types.CategoryValidation,
			},
			Checker: crossFieldRefinement{},
		},
	}
}

// DefaultRegistry builds a registry of the built-in rules.
func DefaultRegistry(opts Options) (*Registry, error) {
	return NewRegistry(Builtin(opts)...)
}
