// Package baseline records accepted violations so that later runs only
// report new ones.
package baseline

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/dotcommander/zodkit/internal/types"
)

// DefaultFile is the baseline file name used when none is configured.
const DefaultFile = ".zodkit-baseline.json"

var (
	// A double-quoted value, a single-quoted value bounded by whitespace (so
	// contractions are left alone), or a bare number.
	variable   = regexp.MustCompile(`"([^"]+)"|(^|\s)'([^']+)'(\s|$)|\b\d+\b`)
	identifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$#.-]*$`)
)

// Baseline represents a snapshot of known violations that should be ignored.
// Counts records how many violations share each fingerprint; a fingerprint
// absent from Counts (older files) counts once.
type Baseline struct {
	Version      string         `json:"version"`
	CreatedAt    string         `json:"created_at"`
	Fingerprints []string       `json:"fingerprints"`
	Counts       map[string]int `json:"counts,omitempty"`
	index        map[string]int
}

// CreateBaseline creates a new baseline from a list of violations
func CreateBaseline(violations []types.Violation) *Baseline {
	fingerprints := make([]string, 0, len(violations))
	index := make(map[string]int)

	for _, v := range violations {
		fp := Fingerprint(v)
		if index[fp] == 0 {
			fingerprints = append(fingerprints, fp)
		}
		index[fp]++
	}

	// Sort for deterministic output
	sort.Strings(fingerprints)

	counts := make(map[string]int)
	for fp, n := range index {
		if n > 1 {
			counts[fp] = n
		}
	}

	return &Baseline{
		Version:      "1.1",
		Fingerprints: fingerprints,
		Counts:       counts,
		index:        index,
	}
}

// LoadBaseline loads a baseline from a JSON file
func LoadBaseline(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline file: %w", err)
	}

	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse baseline file: %w", err)
	}

	b.index = make(map[string]int, len(b.Fingerprints))
	for _, fp := range b.Fingerprints {
		n := b.Counts[fp]
		if n < 1 {
			n = 1
		}
		b.index[fp] = n
	}

	return &b, nil
}

// SaveBaseline saves the baseline to a JSON file
func (b *Baseline) SaveBaseline(path string) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal baseline: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write baseline file: %w", err)
	}

	return nil
}

// IsKnown checks if a violation's fingerprint is in the baseline at all.
func (b *Baseline) IsKnown(v types.Violation) bool {
	if b == nil {
		return false
	}
	return b.index[Fingerprint(v)] > 0
}

// Matcher returns a filter that accepts each recorded violation as many times
// as it was recorded, and no more. Every call starts with fresh counts.
func (b *Baseline) Matcher() func(types.Violation) bool {
	if b == nil {
		return func(types.Violation) bool { return false }
	}
	remaining := make(map[string]int, len(b.index))
	for fp, n := range b.index {
		remaining[fp] = n
	}
	return func(v types.Violation) bool {
		fp := Fingerprint(v)
		if remaining[fp] == 0 {
			return false
		}
		remaining[fp]--
		return true
	}
}

// Len returns the number of distinct fingerprints.
func (b *Baseline) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Fingerprints)
}

// Total returns the number of violations the baseline accepts.
func (b *Baseline) Total() int {
	if b == nil {
		return 0
	}
	total := 0
	for _, n := range b.index {
		total += n
	}
	return total
}

// Fingerprint creates a stable hash of a violation.
// Uses: file path + rule id + schema name + normalized message.
// Line numbers are left out so edits above a schema don't invalidate it.
func Fingerprint(v types.Violation) string {
	data := fmt.Sprintf("%s|%s|%s|%s", v.FilePath, v.RuleID, v.SchemaName, normalizeMessage(v.Message))
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// normalizeMessage replaces quoted values and numbers with placeholders so
// similar messages share a fingerprint. Quoted identifiers (field and schema
// names) are kept verbatim, so two fields of one schema never collapse.
func normalizeMessage(msg string) string {
	var b strings.Builder
	last := 0
	for _, m := range variable.FindAllStringSubmatchIndex(msg, -1) {
		b.WriteString(msg[last:m[0]])
		switch {
		case m[2] >= 0:
			if identifier.MatchString(msg[m[2]:m[3]]) {
				b.WriteString(msg[m[0]:m[1]])
			} else {
				b.WriteString(`"*"`)
			}
		case m[6] >= 0:
			if identifier.MatchString(msg[m[6]:m[7]]) {
				b.WriteString(msg[m[0]:m[1]])
			} else {
				b.WriteString(msg[m[4]:m[5]] + "'*'" + msg[m[8]:m[9]])
			}
		default:
			b.WriteString("N")
		}
		last = m[1]
	}
	b.WriteString(msg[last:])

	return strings.Join(strings.Fields(b.String()), " ")
}
