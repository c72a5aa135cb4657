package suppress

import "strings"

// Block is a closed ignore block covering lines Start through End inclusive.
type Block struct {
	Start int
	End   int
	Rules RuleSet
}

// Covers reports whether line falls inside the block.
func (b Block) Covers(line int) bool {
	return line >= b.Start && line <= b.End
}

// Index is the resolved suppression state for one file.
// It is built once by Parse and is read-only afterwards.
type Index struct {
	// FileIgnored silences every rule in the file. Any file directive in
	// the leading window sets it, whatever rules it lists.
	FileIgnored bool
	// LineIgnores maps a 1-based line to the rules silenced on it.
	LineIgnores map[int]RuleSet
	// Blocks holds closed start/end pairs in the order they were closed.
	Blocks []Block
	// Unterminated lists block-start lines never closed. They suppress nothing.
	Unterminated []int
	// StrayEnds lists block-end lines with no open block.
	StrayEnds []int
	// Lines is the number of physical lines in the parsed text.
	Lines int
}

// openBlock is a pending block-start on the parser stack.
type openBlock struct {
	start int
	rules RuleSet
}

// Parse builds the suppression index for text. It never fails; text without
// recognisable directives yields an index that suppresses nothing.
func Parse(text string) *Index {
	idx := &Index{
		LineIgnores: make(map[int]RuleSet),
		Lines:       strings.Count(normalizeLineEndings(text), "\n") + 1,
	}

	var stack []openBlock
	for _, d := range Scan(text) {
		switch d.Kind {
		case KindFile:
			idx.addFile(d)
		case KindNextLine:
			idx.addLine(d.Line+1, d.Rules)
		case KindLine:
			idx.addLine(d.Line, d.Rules)
		case KindBlockStart:
			stack = append(stack, openBlock{start: d.Line, rules: d.Rules})
		case KindBlockEnd:
			if len(stack) == 0 {
				idx.StrayEnds = append(idx.StrayEnds, d.Line)
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			idx.Blocks = append(idx.Blocks, Block{Start: top.start, End: d.Line, Rules: top.rules})
		}
	}

	// Open blocks at EOF are dropped, not extended to the end of the file.
	for _, ob := range stack {
		idx.Unterminated = append(idx.Unterminated, ob.start)
	}

	return idx
}

// addFile records a file directive if it sits within the leading window.
// A rule list on a file directive is accepted but does not narrow it.
func (idx *Index) addFile(d Directive) {
	if d.Line <= FileDirectiveWindow {
		idx.FileIgnored = true
	}
}

// addLine merges rules into the ignore set for line. A universal set absorbs the rest.
func (idx *Index) addLine(line int, rules RuleSet) {
	existing, ok := idx.LineIgnores[line]
	switch {
	case !ok:
		merged := make(RuleSet, len(rules))
		for id := range rules {
			merged[id] = struct{}{}
		}
		idx.LineIgnores[line] = merged
	case existing.IsUniversal():
	case rules.IsUniversal():
		idx.LineIgnores[line] = RuleSet{}
	default:
		for id := range rules {
			existing[id] = struct{}{}
		}
	}
}

// Match reports whether a violation of ruleID at line is suppressed and by
// which scope. Precedence: file, line, block; first match wins.
// Lines below 1 are global and only file-level state applies.
func (idx *Index) Match(ruleID string, line int) (Kind, bool) {
	if idx == nil {
		return 0, false
	}
	if idx.FileIgnored {
		return KindFile, true
	}
	if line < 1 {
		return 0, false
	}
	if rules, ok := idx.LineIgnores[line]; ok && rules.Matches(ruleID) {
		return KindLine, true
	}
	for _, b := range idx.Blocks {
		if b.Covers(line) && b.Rules.Matches(ruleID) {
			return KindBlockStart, true
		}
	}
	return 0, false
}

// Suppresses is Match without the scope.
func (idx *Index) Suppresses(ruleID string, line int) bool {
	_, ok := idx.Match(ruleID, line)
	return ok
}

// Empty reports whether the index suppresses nothing at all.
func (idx *Index) Empty() bool {
	return idx == nil || (!idx.FileIgnored && len(idx.LineIgnores) == 0 && len(idx.Blocks) == 0)
}
