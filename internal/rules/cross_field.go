package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dotcommander/zodkit/internal/types"
)

var objectKeyPattern = regexp.MustCompile(`([A-Za-z_$][\w$]*)\s*:\s*z\.`)

// pairPrefixes are prefixes whose counterpart fields usually need a joint check.
var pairPrefixes = [][2]string{
	{"start", "end"},
	{"min", "max"},
	{"from", "to"},
}

// crossFieldRefinement guesses at related fields that lack a .refine() check.
// It is a heuristic, so its findings are advisory.
type crossFieldRefinement struct{}

type keyPos struct {
	name   string
	offset int
}

func (crossFieldRefinement) Check(rec types.SchemaRecord, _ *SourceContext) ([]Finding, error) {
	text := rec.SourceText
	if strings.Contains(text, ".refine(") || strings.Contains(text, ".superRefine(") {
		return nil, nil
	}

	var keys []keyPos
	byLower := make(map[string]keyPos)
	for _, m := range objectKeyPattern.FindAllStringSubmatchIndex(text, -1) {
		k := keyPos{name: text[m[2]:m[3]], offset: m[2]}
		keys = append(keys, k)
		if _, ok := byLower[strings.ToLower(k.name)]; !ok {
			byLower[strings.ToLower(k.name)] = k
		}
	}
	if len(keys) < 2 {
		return nil, nil
	}

	var findings []Finding
	for _, k := range keys {
		partner, ok := relatedField(k.name, byLower)
		if !ok {
			continue
		}
		line, col := Position(rec, k.offset)
		findings = append(findings, Finding{
			Line:    line,
			Column:  col,
			Message: fmt.Sprintf("Fields %q and %q in schema %q look related but nothing checks them together", partner.name, k.name, rec.Name),
			Suggestions: []string{
				fmt.Sprintf("Add .refine() comparing %s and %s", partner.name, k.name),
			},
		})
	}
	return findings, nil
}

// relatedField returns the earlier counterpart of name, if any. It only
// matches from the second member of a pair so each pair is reported once.
func relatedField(name string, byLower map[string]keyPos) (keyPos, bool) {
	lower := strings.ToLower(name)

	if rest, ok := strings.CutPrefix(lower, "confirm"); ok && rest != "" {
		p, found := byLower[rest]
		return p, found
	}
	if rest, ok := strings.CutSuffix(lower, "confirmation"); ok && rest != "" {
		p, found := byLower[rest]
		return p, found
	}
	for _, pair := range pairPrefixes {
		if rest, ok := strings.CutPrefix(lower, pair[1]); ok && rest != "" {
			if p, found := byLower[pair[0]+rest]; found {
				return p, true
			}
		}
	}
	return keyPos{}, false
}
