package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// initRepo creates a git repository in a temp dir, or skips the test when
// git is unavailable.
func initRepo(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()

	cmd := exec.Command("git", "init")
	cmd.Dir = tmpDir
	if err := cmd.Run(); err != nil {
		t.Skip("git not available, skipping integration test")
	}
	gitRun(t, tmpDir, "config", "user.email", "test@test.com")
	gitRun(t, tmpDir, "config", "user.name", "Test User")
	return tmpDir
}

func gitRun(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v failed: %v: %s", args, err, out)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
}

func TestIsRelevantFile(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"typescript", "src/schemas/user.ts", true},
		{"tsx", "src/App.tsx", true},
		{"javascript module", "lib/index.mjs", true},
		{"declaration file", "types/global.d.ts", false},
		{"vendored dependency", "node_modules/zod/lib/index.js", false},
		{"nested vendored", "packages/api/node_modules/x.ts", false},
		{"markdown", "README.md", false},
		{"json", "package.json", false},
		{"go source", "main.go", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := isRelevantFile(tt.path)
			if result != tt.expected {
				t.Errorf("isRelevantFile(%q) = %v, want %v", tt.path, result, tt.expected)
			}
		})
	}
}

func TestFilterRelevantFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "src", "user.ts"), "")
	writeFile(t, filepath.Join(tmpDir, "README.md"), "")

	output := "src/user.ts\n  README.md  \nsrc/deleted.ts\n\n"
	files, err := filterRelevantFiles(output, tmpDir)
	if err != nil {
		t.Fatalf("filterRelevantFiles failed: %v", err)
	}

	if len(files) != 1 || files[0] != filepath.Join(tmpDir, "src", "user.ts") {
		t.Errorf("expected only src/user.ts, got %v", files)
	}
}

func TestFilterRelevantFiles_EmptyInput(t *testing.T) {
	files, err := filterRelevantFiles("", t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected no files, got %v", files)
	}
}

func TestNonGitRepo(t *testing.T) {
	tmpDir := t.TempDir()
	if IsGitRepo(tmpDir) {
		t.Skip("temp dir is inside a git repository")
	}

	staged, err := GetStagedFiles(tmpDir)
	if err != nil || len(staged) != 0 {
		t.Errorf("GetStagedFiles outside a repo = %v, %v; want empty, nil", staged, err)
	}
	changed, err := GetChangedFiles(tmpDir)
	if err != nil || len(changed) != 0 {
		t.Errorf("GetChangedFiles outside a repo = %v, %v; want empty, nil", changed, err)
	}
}

func TestGetChangedFiles_NoCommits(t *testing.T) {
	tmpDir := initRepo(t)
	writeFile(t, filepath.Join(tmpDir, "src", "user.ts"), "export const User = z.object({});")
	writeFile(t, filepath.Join(tmpDir, "README.md"), "# README")
	gitRun(t, tmpDir, "add", ".")

	files, err := GetChangedFiles(tmpDir)
	if err != nil {
		t.Fatalf("GetChangedFiles failed: %v", err)
	}

	if len(files) != 1 || !strings.HasSuffix(files[0], "user.ts") {
		t.Errorf("expected only user.ts, got %v", files)
	}
}

func TestStagedAndChangedWithCommits(t *testing.T) {
	tmpDir := initRepo(t)
	writeFile(t, filepath.Join(tmpDir, "src", "a.ts"), "const A = z.string();")
	writeFile(t, filepath.Join(tmpDir, "src", "b.ts"), "const B = z.string();")
	gitRun(t, tmpDir, "add", ".")
	gitRun(t, tmpDir, "commit", "-m", "initial")

	writeFile(t, filepath.Join(tmpDir, "src", "a.ts"), "const A = z.string().min(1);")
	gitRun(t, tmpDir, "add", "src/a.ts")
	writeFile(t, filepath.Join(tmpDir, "src", "b.ts"), "const B = z.string().min(1);")

	staged, err := GetStagedFiles(tmpDir)
	if err != nil {
		t.Fatalf("GetStagedFiles failed: %v", err)
	}
	if len(staged) != 1 || !strings.HasSuffix(staged[0], "a.ts") {
		t.Errorf("expected only a.ts staged, got %v", staged)
	}

	changed, err := GetChangedFiles(tmpDir)
	if err != nil {
		t.Fatalf("GetChangedFiles failed: %v", err)
	}
	if len(changed) != 2 {
		t.Errorf("expected a.ts and b.ts changed, got %v", changed)
	}

	// Paths are relative to the directory asked about, not the repository root
	sub, err := GetChangedFiles(filepath.Join(tmpDir, "src"))
	if err != nil {
		t.Fatalf("GetChangedFiles in subdir failed: %v", err)
	}
	for _, f := range sub {
		if _, statErr := os.Stat(f); statErr != nil {
			t.Errorf("returned path %s does not exist", f)
		}
	}
	if len(sub) != 2 {
		t.Errorf("expected 2 files from subdir, got %v", sub)
	}
}
