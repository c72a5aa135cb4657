// Package extract locates Zod schema declarations in JS/TS source text and
// turns them into schema records for the lint engine.
package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dotcommander/zodkit/internal/types"
)

// Provider yields the schema records found in one file.
// Implementations must read line numbers from the same text that is later
// handed to the suppression parser.
type Provider interface {
	Extract(path, text string) ([]types.SchemaRecord, error)
}

// declPattern matches `[export] const|let|var Name[: Type] = z.` at the start of a line.
var declPattern = regexp.MustCompile(
	`(?m)^[ \t]*(?:export[ \t]+)?(?:const|let|var)[ \t]+([A-Za-z_$][\w$]*)[ \t]*(?::[^=\n]+)?=[ \t]*z\.`,
)

// fieldPattern matches an object key followed by a zod expression.
var fieldPattern = regexp.MustCompile(`([A-Za-z_$][\w$]*|"[^"\n]*"|'[^'\n]*')\s*:\s*z\.`)

// ZodExtractor is the default Provider. It is stateless and safe for concurrent use.
type ZodExtractor struct{}

// NewZodExtractor creates a ZodExtractor.
func NewZodExtractor() *ZodExtractor {
	return &ZodExtractor{}
}

// Extract returns the schema declarations in text, in document order.
func (e *ZodExtractor) Extract(path, text string) ([]types.SchemaRecord, error) {
	if strings.Contains(text, "\r") {
		text = strings.ReplaceAll(text, "\r\n", "\n")
		text = strings.ReplaceAll(text, "\r", "\n")
	}

	lines := newLineTable(text)
	seen := make(map[string]int)
	var records []types.SchemaRecord

	consumed := 0
	for _, m := range declPattern.FindAllStringSubmatchIndex(text, -1) {
		declStart := m[0] + len(text[m[0]:m[1]]) - len(strings.TrimLeft(text[m[0]:m[1]], " \t"))
		if declStart < consumed {
			continue
		}

		exprStart := m[1] - len("z.")
		exprEnd := scanExpressionEnd(text, exprStart)
		source := strings.TrimRight(text[declStart:exprEnd], " \t\n")
		consumed = exprEnd

		name := text[m[2]:m[3]]
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s#%d", name, n)
		}

		startLine, startCol := lines.position(declStart)
		endLine, _ := lines.position(declStart + max(len(source)-1, 0))

		expr := text[exprStart:exprEnd]
		records = append(records, types.SchemaRecord{
			Name:         name,
			FilePath:     path,
			StartLine:    startLine,
			StartColumn:  startCol,
			EndLine:      endLine,
			SourceText:   source,
			FieldCount:   CountFields(expr),
			NestingDepth: NestingDepth(expr),
		})
	}

	return records, nil
}

// CountFields returns the number of `key: z.` entries in a schema expression.
func CountFields(expr string) int {
	return len(fieldPattern.FindAllStringIndex(expr, -1))
}

// NestingDepth returns how deeply z.object calls nest in expr. A flat object is 1.
func NestingDepth(expr string) int {
	var (
		parens   int
		objects  []int
		maxDepth int
	)
	forEachCode(expr, func(i int, c byte) {
		switch c {
		case '(':
			if strings.HasSuffix(expr[:i], "z.object") {
				objects = append(objects, parens)
				maxDepth = max(maxDepth, len(objects))
			}
			parens++
		case ')':
			parens--
			if n := len(objects); n > 0 && objects[n-1] == parens {
				objects = objects[:n-1]
			}
		}
	})
	return maxDepth
}

// scanExpressionEnd returns the offset just past the expression starting at start.
// The expression ends at a top-level `;`, at a top-level newline not followed by
// a `.` chain continuation, at an unbalanced closer, or at EOF.
func scanExpressionEnd(text string, start int) int {
	depth := 0
	i := start
	for i < len(text) {
		c := text[i]
		switch {
		case c == '"' || c == '\'' || c == '`':
			i = skipString(text, i)
			continue
		case c == '/' && i+1 < len(text) && text[i+1] == '/':
			i = skipLineComment(text, i)
			continue
		case c == '/' && i+1 < len(text) && text[i+1] == '*':
			i = skipBlockComment(text, i)
			continue
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
			if depth < 0 {
				return i
			}
		case c == ';' && depth == 0:
			return i
		case c == '\n' && depth == 0:
			if !continuesChain(text, i+1) {
				return i
			}
		}
		i++
	}
	return len(text)
}

// continuesChain reports whether the next non-blank character starts a `.method` chain.
func continuesChain(text string, from int) bool {
	for j := from; j < len(text); j++ {
		switch text[j] {
		case ' ', '\t', '\n':
			continue
		case '.':
			return true
		default:
			return false
		}
	}
	return false
}

// forEachCode calls fn for every byte of text outside string literals and comments.
func forEachCode(text string, fn func(i int, c byte)) {
	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == '"' || c == '\'' || c == '`':
			i = skipString(text, i)
			continue
		case c == '/' && i+1 < len(text) && text[i+1] == '/':
			i = skipLineComment(text, i)
			continue
		case c == '/' && i+1 < len(text) && text[i+1] == '*':
			i = skipBlockComment(text, i)
			continue
		}
		fn(i, c)
		i++
	}
}

// skipString returns the offset just past the string literal opening at i.
func skipString(text string, i int) int {
	quote := text[i]
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case quote:
			return j + 1
		case '\n':
			if quote != '`' {
				return j
			}
		}
	}
	return len(text)
}

// skipLineComment returns the offset of the newline ending the comment at i.
func skipLineComment(text string, i int) int {
	if j := strings.IndexByte(text[i:], '\n'); j >= 0 {
		return i + j
	}
	return len(text)
}

// skipBlockComment returns the offset just past the comment opening at i.
func skipBlockComment(text string, i int) int {
	if j := strings.Index(text[i+2:], "*/"); j >= 0 {
		return i + 2 + j + 2
	}
	return len(text)
}

// lineTable maps byte offsets to 1-based line and column numbers.
type lineTable struct {
	starts []int
}

func newLineTable(text string) lineTable {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return lineTable{starts: starts}
}

func (lt lineTable) position(offset int) (line, col int) {
	idx := sort.Search(len(lt.starts), func(i int) bool { return lt.starts[i] > offset }) - 1
	return idx + 1, offset - lt.starts[idx] + 1
}
