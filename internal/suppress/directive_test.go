package suppress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantOK    bool
		wantKind  Kind
		wantRules []string
	}{
		{"file universal", "// zodkit-ignore-file", true, KindFile, nil},
		{"file with rules", "// zodkit-ignore-file no-any, missing-validation", true, KindFile, []string{"missing-validation", "no-any"}},
		{"next line", "// zodkit-ignore-next-line missing-validation", true, KindNextLine, []string{"missing-validation"}},
		{"same line trailing", "const A = z.any(); // zodkit-ignore-line no-any", true, KindLine, []string{"no-any"}},
		{"bare alias", "const A = z.any(); // zodkit-ignore", true, KindLine, nil},
		{"block start", "// zodkit-ignore-start", true, KindBlockStart, nil},
		{"block end", "// zodkit-ignore-end", true, KindBlockEnd, nil},
		{"block comment", "/* zodkit-ignore-next-line no-any */", true, KindNextLine, []string{"no-any"}},
		{"block comment no rules", "/* zodkit-ignore-start */ const x = 1;", true, KindBlockStart, nil},
		{"no space after slashes", "//zodkit-ignore-next-line no-any", true, KindNextLine, []string{"no-any"}},
		{"reason tail", "// zodkit-ignore-next-line no-any -- legacy api", true, KindNextLine, []string{"no-any"}},
		{"reason only", "// zodkit-ignore-next-line -- legacy api", true, KindNextLine, nil},
		{"empty tokens dropped", "// zodkit-ignore-next-line no-any,, ,", true, KindNextLine, []string{"no-any"}},
		{"scoped rule id", "// zodkit-ignore-line @acme/strict-ids", true, KindLine, []string{"@acme/strict-ids"}},
		{"trailing whitespace", "// zodkit-ignore-next-line   ", true, KindNextLine, nil},
		{"unknown suffix", "// zodkit-ignore-filex", false, 0, nil},
		{"prose mention", "// see zodkit-ignore docs", false, 0, nil},
		{"garbage list", "// zodkit-ignore-next-line !!!", false, 0, nil},
		{"space separated list", "// zodkit-ignore-next-line rule one", false, 0, nil},
		{"no comment", "zodkit-ignore-file", false, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := Scan(tt.line)
			if !tt.wantOK {
				assert.Empty(t, ds)
				return
			}
			require.Len(t, ds, 1)
			assert.Equal(t, tt.wantKind, ds[0].Kind)
			assert.Equal(t, 1, ds[0].Line)
			if tt.wantRules == nil {
				assert.True(t, ds[0].Rules.IsUniversal(), "expected universal rule set, got %v", ds[0].Rules.IDs())
			} else {
				assert.Equal(t, tt.wantRules, ds[0].Rules.IDs())
			}
		})
	}
}

func TestScanColumnAndLines(t *testing.T) {
	text := "const a = 1;\r\nconst b = 2; // zodkit-ignore-line no-any\r\n"
	ds := Scan(text)
	require.Len(t, ds, 1)
	assert.Equal(t, 2, ds[0].Line)
	assert.Equal(t, 14, ds[0].Column)
}

func TestScanLoneCarriageReturns(t *testing.T) {
	ds := Scan("a\r// zodkit-ignore-next-line\rb")
	require.Len(t, ds, 1)
	assert.Equal(t, 2, ds[0].Line)
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindFile, KindNextLine, KindLine, KindBlockStart, KindBlockEnd} {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	got, err := ParseKind("start")
	require.NoError(t, err)
	assert.Equal(t, KindBlockStart, got)

	_, err = ParseKind("everywhere")
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		kind Kind
		ids  []string
		want string
	}{
		{KindNextLine, []string{"no-any", "missing-validation", "no-any"}, "// zodkit-ignore-next-line missing-validation, no-any"},
		{KindLine, nil, "// zodkit-ignore-line"},
		{KindFile, []string{" "}, "// zodkit-ignore-file"},
		{KindBlockStart, []string{"max-complexity"}, "// zodkit-ignore-start max-complexity"},
		{KindBlockEnd, []string{"ignored"}, "// zodkit-ignore-end"},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.kind, tt.ids...))
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	out := Format(KindNextLine, "b-rule", "a-rule")
	ds := Scan(out)
	require.Len(t, ds, 1)
	assert.Equal(t, KindNextLine, ds[0].Kind)
	assert.Equal(t, []string{"a-rule", "b-rule"}, ds[0].Rules.IDs())
}

func TestRuleSetMatches(t *testing.T) {
	assert.True(t, RuleSet{}.Matches("anything"))
	assert.True(t, RuleSet(nil).Matches("anything"))
	s := NewRuleSet("a")
	assert.True(t, s.Matches("a"))
	assert.False(t, s.Matches("b"))
}
