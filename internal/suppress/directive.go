// Package suppress parses inline zodkit-ignore comments into a per-file
// suppression index.
//
// Supported directives:
//
//	// zodkit-ignore-file [rules]        whole file (first 10 lines only)
//	// zodkit-ignore-next-line [rules]   the following line
//	// zodkit-ignore-line [rules]        the current line (alias: zodkit-ignore)
//	// zodkit-ignore-start [rules]       opens a block
//	// zodkit-ignore-end                 closes the most recent block
//
// The rule list is comma-separated. An empty list means every rule.
package suppress

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Keyword is the directive prefix recognised in comments.
const Keyword = "zodkit-ignore"

// FileDirectiveWindow is the number of leading lines in which a file directive is honoured.
const FileDirectiveWindow = 10

// Kind is the scope of a directive.
type Kind int

// Directive kinds.
const (
	KindFile Kind = iota + 1
	KindNextLine
	KindLine
	KindBlockStart
	KindBlockEnd
)

// String returns the directive kind name.
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindNextLine:
		return "next-line"
	case KindLine:
		return "line"
	case KindBlockStart:
		return "block-start"
	case KindBlockEnd:
		return "block-end"
	default:
		return "unknown"
	}
}

// keyword returns the comment keyword for the kind.
func (k Kind) keyword() string {
	switch k {
	case KindFile:
		return Keyword + "-file"
	case KindNextLine:
		return Keyword + "-next-line"
	case KindLine:
		return Keyword + "-line"
	case KindBlockStart:
		return Keyword + "-start"
	case KindBlockEnd:
		return Keyword + "-end"
	default:
		return Keyword
	}
}

// ParseKind converts a kind name to a Kind.
// Accepts the names produced by String as well as the comment suffixes (start, end).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "file":
		return KindFile, nil
	case "next-line", "nextline":
		return KindNextLine, nil
	case "line", "same-line":
		return KindLine, nil
	case "block-start", "start":
		return KindBlockStart, nil
	case "block-end", "end":
		return KindBlockEnd, nil
	default:
		return 0, fmt.Errorf("invalid directive kind %q: valid kinds are file, next-line, line, block-start, block-end", s)
	}
}

// RuleSet is a set of rule ids. The empty set matches every rule.
type RuleSet map[string]struct{}

// NewRuleSet builds a set from ids.
func NewRuleSet(ids ...string) RuleSet {
	s := make(RuleSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Matches reports whether the set covers ruleID.
func (s RuleSet) Matches(ruleID string) bool {
	if len(s) == 0 {
		return true
	}
	_, ok := s[ruleID]
	return ok
}

// IsUniversal reports whether the set matches every rule.
func (s RuleSet) IsUniversal() bool {
	return len(s) == 0
}

// IDs returns the sorted ids in the set.
func (s RuleSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Directive is a single parsed suppression comment.
type Directive struct {
	Kind   Kind
	Rules  RuleSet
	Line   int
	Column int
}

// directivePattern matches a directive inside a // or /* */ comment.
// Group 1 is the kind suffix, group 2 the raw rule list.
var directivePattern = regexp.MustCompile(
	`(?://|/\*)\s*zodkit-ignore(-file|-next-line|-line|-start|-end)?(?:\s+(.*?))?\s*(?:\*/.*)?$`,
)

// ruleTokenPattern is the accepted shape of a rule id inside a directive.
var ruleTokenPattern = regexp.MustCompile(`^[A-Za-z0-9@/_.-]+$`)

// normalizeLineEndings converts CRLF and lone CR to LF.
func normalizeLineEndings(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// splitLines normalizes line endings and splits text into lines.
func splitLines(text string) []string {
	return strings.Split(normalizeLineEndings(text), "\n")
}

// Scan returns every directive in text, in document order.
// Lines that do not hold a well-formed directive are skipped.
func Scan(text string) []Directive {
	var directives []Directive
	for i, line := range splitLines(text) {
		if !strings.Contains(line, Keyword) {
			continue
		}
		if d, ok := parseLine(line, i+1); ok {
			directives = append(directives, d)
		}
	}
	return directives
}

// parseLine extracts a directive from one physical line.
func parseLine(line string, lineNum int) (Directive, bool) {
	m := directivePattern.FindStringSubmatchIndex(line)
	if m == nil {
		return Directive{}, false
	}

	var suffix, rawList string
	if m[2] >= 0 {
		suffix = line[m[2]:m[3]]
	}
	if m[4] >= 0 {
		rawList = line[m[4]:m[5]]
	}

	rules, ok := parseRuleList(rawList)
	if !ok {
		return Directive{}, false
	}

	return Directive{
		Kind:   kindForSuffix(suffix),
		Rules:  rules,
		Line:   lineNum,
		Column: m[0] + 1,
	}, true
}

// kindForSuffix maps the matched keyword suffix to a Kind.
func kindForSuffix(suffix string) Kind {
	switch suffix {
	case "-file":
		return KindFile
	case "-next-line":
		return KindNextLine
	case "-start":
		return KindBlockStart
	case "-end":
		return KindBlockEnd
	default:
		return KindLine
	}
}

// parseRuleList parses a comma-separated rule list.
// An absent list yields the universal set. A list that is present but holds
// no valid rule id is rejected so a typo never widens to "all rules".
func parseRuleList(raw string) (RuleSet, bool) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "--") {
		return RuleSet{}, true
	}
	if idx := strings.Index(raw, " --"); idx >= 0 {
		raw = strings.TrimSpace(raw[:idx])
	}
	if raw == "" {
		return RuleSet{}, true
	}

	rules := RuleSet{}
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" || !ruleTokenPattern.MatchString(tok) {
			continue
		}
		rules[tok] = struct{}{}
	}
	if len(rules) == 0 {
		return nil, false
	}
	return rules, true
}

// Format renders a directive comment for the given kind and rule ids.
// Ids are de-duplicated and sorted; no ids means every rule.
func Format(kind Kind, ruleIDs ...string) string {
	ids := NewRuleSet()
	for _, id := range ruleIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids[id] = struct{}{}
		}
	}
	if kind == KindBlockEnd || len(ids) == 0 {
		return "// " + kind.keyword()
	}
	return "// " + kind.keyword() + " " + strings.Join(ids.IDs(), ", ")
}
