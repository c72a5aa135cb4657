package suppress

import (
	"errors"
	"strings"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const previewSource = "import { z } from 'zod';\n\nexport const User = z.object({\n  name: z.string(),\n});\n"

func TestInsertNextLineKeepsIndent(t *testing.T) {
	out, err := Insert(previewSource, 4, KindNextLine, []string{"missing-validation"})
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.Equal(t, "  // zodkit-ignore-next-line missing-validation", lines[3])
	assert.Equal(t, "  name: z.string(),", lines[4])

	idx := Parse(out)
	assert.True(t, idx.Suppresses("missing-validation", 5))
}

func TestInsertSameLine(t *testing.T) {
	out, err := Insert(previewSource, 4, KindLine, []string{"missing-validation"})
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.Equal(t, "  name: z.string(), // zodkit-ignore-line missing-validation", lines[3])
	assert.True(t, Parse(out).Suppresses("missing-validation", 4))
}

func TestInsertFile(t *testing.T) {
	out, err := Insert(previewSource, 0, KindFile, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "// zodkit-ignore-file\n"))
	assert.True(t, Parse(out).FileIgnored)
}

func TestInsertErrors(t *testing.T) {
	_, err := Insert(previewSource, 99, KindNextLine, nil)
	assert.True(t, errors.Is(err, ErrLineOutOfRange))

	_, err = Insert(previewSource, 0, KindLine, nil)
	assert.True(t, errors.Is(err, ErrLineOutOfRange))

	_, err = Insert(previewSource, 2, KindBlockStart, nil)
	assert.True(t, errors.Is(err, ErrUnsupportedKind))
}

func TestPreviewAppliesCleanly(t *testing.T) {
	patch, err := Preview(previewSource, 4, KindNextLine, []string{"missing-validation"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(patch, "@@ -"))
	assert.Contains(t, patch, "zodkit-ignore-next-line")

	dmp := diffmatchpatch.New()
	patches, err := dmp.PatchFromText(patch)
	require.NoError(t, err)
	applied, ok := dmp.PatchApply(patches, previewSource)
	for _, b := range ok {
		assert.True(t, b)
	}

	want, err := Insert(previewSource, 4, KindNextLine, []string{"missing-validation"})
	require.NoError(t, err)
	assert.Equal(t, want, applied)
}

func TestPreviewNormalizesCRLF(t *testing.T) {
	crlf := strings.ReplaceAll(previewSource, "\n", "\r\n")
	patch, err := Preview(crlf, 4, KindLine, []string{"no-any"})
	require.NoError(t, err)
	assert.NotContains(t, patch, "%0D")
}
