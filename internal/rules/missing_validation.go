package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dotcommander/zodkit/internal/types"
)

// keyLookbehind bounds how far back the field key is searched for.
const keyLookbehind = 128

var (
	primitivePattern = regexp.MustCompile(`z\.(string|number)\(\s*\)`)
	fieldKeyPattern  = regexp.MustCompile(`([A-Za-z_$][\w$]*)["']?\s*:\s*$`)
)

// constraintMethods are chain calls that count as validation.
var constraintMethods = map[string]bool{
	"min": true, "max": true, "length": true, "nonempty": true,
	"email": true, "url": true, "uuid": true, "cuid": true, "cuid2": true, "ulid": true,
	"regex": true, "startsWith": true, "endsWith": true, "includes": true,
	"datetime": true, "date": true, "time": true, "ip": true, "emoji": true, "base64": true,
	"int": true, "positive": true, "negative": true, "nonnegative": true, "nonpositive": true,
	"gt": true, "gte": true, "lt": true, "lte": true, "multipleOf": true, "finite": true, "safe": true,
	"refine": true, "superRefine": true, "pipe": true,
}

// missingValidation flags z.string()/z.number() fields with no constraint in their chain.
type missingValidation struct{}

func (missingValidation) Check(rec types.SchemaRecord, _ *SourceContext) ([]Finding, error) {
	text := rec.SourceText
	if !strings.Contains(text, "z.string(") && !strings.Contains(text, "z.number(") {
		return nil, nil
	}

	var findings []Finding
	for _, m := range primitivePattern.FindAllStringSubmatchIndex(text, -1) {
		if hasConstraint(chainMethods(text, m[1])) {
			continue
		}

		kind := text[m[2]:m[3]]
		subject := fmt.Sprintf("Schema %q", rec.Name)
		if km := fieldKeyPattern.FindStringSubmatch(text[max(0, m[0]-keyLookbehind):m[0]]); km != nil {
			subject = fmt.Sprintf("Field %q in schema %q", km[1], rec.Name)
		}

		line, col := Position(rec, m[0])
		findings = append(findings, Finding{
			Line:        line,
			Column:      col,
			Message:     fmt.Sprintf("%s uses z.%s() with no validation constraints", subject, kind),
			Suggestions: primitiveSuggestions(kind),
		})
	}
	return findings, nil
}

// chainMethods returns the names of the `.method(...)` calls chained after offset.
func chainMethods(text string, offset int) []string {
	var names []string
	i := offset
	for {
		for i < len(text) && (text[i] == ' ' || text[i] == '\t' || text[i] == '\n' || text[i] == '\r') {
			i++
		}
		if i >= len(text) || text[i] != '.' {
			return names
		}
		i++
		start := i
		for i < len(text) && isIdentByte(text[i]) {
			i++
		}
		if start == i {
			return names
		}
		names = append(names, text[start:i])
		if i < len(text) && text[i] == '(' {
			i = skipParens(text, i)
		}
	}
}

// skipParens returns the offset just past the parenthesised group opening at i.
func skipParens(text string, i int) int {
	depth := 0
	for ; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1
			}
		case '"', '\'', '`':
			quote := text[i]
			for i++; i < len(text) && text[i] != quote; i++ {
				if text[i] == '\\' {
					i++
				}
			}
		}
	}
	return len(text)
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func hasConstraint(methods []string) bool {
	for _, m := range methods {
		if constraintMethods[m] {
			return true
		}
	}
	return false
}

func primitiveSuggestions(kind string) []string {
	if kind == "number" {
		return []string{"Add .int() for whole numbers", "Bound the range with .min()/.max() or .positive()"}
	}
	return []string{"Bound the length with .min()/.max()", "Use a format check such as .email(), .url() or .regex()"}
}
