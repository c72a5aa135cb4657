package suppress

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ErrLineOutOfRange is returned when a preview targets a line outside the text.
var ErrLineOutOfRange = errors.New("line out of range")

// ErrUnsupportedKind is returned for kinds that cannot be inserted at a single line.
var ErrUnsupportedKind = errors.New("directive kind needs a line range")

// Insert returns text with a directive of kind added for line.
//
// next-line inserts a comment above line using its indentation, line appends
// a trailing comment, and file inserts a comment at the top of the file.
func Insert(text string, line int, kind Kind, ruleIDs []string) (string, error) {
	lines := splitLines(text)
	if kind != KindFile && (line < 1 || line > len(lines)) {
		return "", fmt.Errorf("line %d of %d: %w", line, len(lines), ErrLineOutOfRange)
	}

	directive := Format(kind, ruleIDs...)
	out := make([]string, 0, len(lines)+1)

	switch kind {
	case KindFile:
		out = append(out, directive)
		out = append(out, lines...)
	case KindNextLine:
		target := lines[line-1]
		indent := target[:len(target)-len(strings.TrimLeft(target, " \t"))]
		out = append(out, lines[:line-1]...)
		out = append(out, indent+directive)
		out = append(out, lines[line-1:]...)
	case KindLine:
		out = append(out, lines...)
		out[line-1] = strings.TrimRight(out[line-1], " \t") + " " + directive
	default:
		return "", fmt.Errorf("%s: %w", kind, ErrUnsupportedKind)
	}

	return strings.Join(out, "\n"), nil
}

// Preview renders a patch showing the directive inserted for line.
// Nothing is written anywhere; callers decide what to do with the patch.
func Preview(text string, line int, kind Kind, ruleIDs []string) (string, error) {
	before := normalizeLineEndings(text)
	after, err := Insert(before, line, kind, ruleIDs)
	if err != nil {
		return "", err
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	patches := dmp.PatchMake(before, diffs)
	return dmp.PatchToText(patches), nil
}
