package discovery

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree creates files (relative path -> content) under root.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
}

func relPaths(files []File) []string {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.RelPath)
	}
	return paths
}

func TestFileType_String(t *testing.T) {
	assert.Equal(t, "typescript", FileTypeTypeScript.String())
	assert.Equal(t, "javascript", FileTypeJavaScript.String())
	assert.Equal(t, "unknown", FileTypeUnknown.String())
}

func TestDetectFileType(t *testing.T) {
	tests := []struct {
		path string
		want FileType
	}{
		{"src/user.ts", FileTypeTypeScript},
		{"src/App.TSX", FileTypeTypeScript},
		{"lib/index.mjs", FileTypeJavaScript},
		{"lib/legacy.cjs", FileTypeJavaScript},
		{"types/global.d.ts", FileTypeUnknown},
		{"README.md", FileTypeUnknown},
		{"Makefile", FileTypeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFileType(tt.path))
		})
	}
}

func TestDiscoverFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/user.ts":                  "export const User = z.object({});",
		"src/nested/deep/order.tsx":    "",
		"src/legacy.js":                "",
		"src/types.d.ts":               "",
		"node_modules/zod/index.js":    "",
		"dist/bundle.js":               "",
		"docs/readme.md":               "",
		"scripts/generated/schemas.ts": "",
	})

	fd := NewFileDiscovery(root, false).WithPatterns(
		[]string{"**/*.{ts,tsx,js}"},
		[]string{"**/node_modules/**", "dist/**", "scripts/generated/**"},
	)
	files, err := fd.DiscoverFiles()
	require.NoError(t, err)

	assert.Equal(t, []string{"src/legacy.js", "src/nested/deep/order.tsx", "src/user.ts"}, relPaths(files))
	user := files[2]
	assert.Equal(t, filepath.Join(root, "src", "user.ts"), user.Path)
	assert.Equal(t, "export const User = z.object({});", user.Contents)
	assert.Equal(t, FileTypeTypeScript, user.Type)
	assert.Equal(t, int64(len(user.Contents)), user.Size)
}

func TestDiscoverFiles_DefaultPatternsMatchAllSources(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.ts": "", "b.mjs": "", "c.txt": ""})

	files, err := NewFileDiscovery(root, false).DiscoverFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.ts", "b.mjs"}, relPaths(files))
}

func TestDiscoverFiles_InvalidPattern(t *testing.T) {
	_, err := NewFileDiscovery(t.TempDir(), false).WithPatterns([]string{"src/[a-"}, nil).DiscoverFiles()
	assert.Error(t, err)
}

func TestDiscoverFiles_EmptyDirectory(t *testing.T) {
	files, err := NewFileDiscovery(t.TempDir(), false).DiscoverFiles()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDiscoverFiles_Symlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	outside := t.TempDir()
	writeTree(t, root, map[string]string{"real/a.ts": "const A = z.string();"})
	writeTree(t, outside, map[string]string{"b.ts": ""})
	require.NoError(t, os.Symlink(filepath.Join(root, "real", "a.ts"), filepath.Join(root, "link.ts")))
	require.NoError(t, os.Symlink(filepath.Join(outside, "b.ts"), filepath.Join(root, "escape.ts")))

	files, err := NewFileDiscovery(root, false).DiscoverFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"real/a.ts"}, relPaths(files), "symlinks are skipped unless followed")

	files, err = NewFileDiscovery(root, true).DiscoverFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"link.ts", "real/a.ts"}, relPaths(files), "links leaving the root are never followed")
	assert.Equal(t, "const A = z.string();", files[0].Contents)
}

func TestExpand(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/a.ts":          "a",
		"src/b.ts":          "b",
		"src/gen/c.ts":      "c",
		"other/explicit.ts": "explicit",
	})

	fd := NewFileDiscovery(root, false).WithPatterns(nil, []string{"**/gen/**", "other/**"})
	files, err := fd.Expand([]string{
		filepath.Join(root, "src"),
		filepath.Join(root, "other", "explicit.ts"),
		filepath.Join(root, "src", "a.ts"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.ts", "src/b.ts", "other/explicit.ts"}, relPaths(files))

	_, err = fd.Expand([]string{filepath.Join(root, "missing.ts")})
	assert.Error(t, err)
}

func TestValidateFilePath(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"ok.ts": "const A = 1;", "empty.ts": ""})
	binary := filepath.Join(dir, "bin.ts")
	require.NoError(t, os.WriteFile(binary, []byte{0x7f, 0x00, 0x01}, 0644))

	abs, err := ValidateFilePath(filepath.Join(dir, "ok.ts"))
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(abs))

	_, err = ValidateFilePath(filepath.Join(dir, "empty.ts"))
	assert.NoError(t, err)

	_, err = ValidateFilePath(binary)
	assert.ErrorContains(t, err, "binary")

	_, err = ValidateFilePath(dir)
	assert.ErrorContains(t, err, "directory")

	_, err = ValidateFilePath(filepath.Join(dir, "nope.ts"))
	assert.ErrorContains(t, err, "file not found")
}
