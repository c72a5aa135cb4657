// Package git selects source files from the working tree for --staged and
// --changed runs.
package git

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dotcommander/zodkit/internal/discovery"
)

// GetStagedFiles returns absolute paths of JS/TS sources in the git staging area
// under rootPath. Returns an empty slice if not in a git repository.
func GetStagedFiles(rootPath string) ([]string, error) {
	if !IsGitRepo(rootPath) {
		return []string{}, nil
	}

	// --relative keeps paths relative to rootPath and drops files outside it
	output, err := run(rootPath, "diff", "--name-only", "--relative", "--staged")
	if err != nil {
		return nil, err
	}

	return filterRelevantFiles(output, rootPath)
}

// GetChangedFiles returns absolute paths of all uncommitted JS/TS changes
// (staged + unstaged) under rootPath. Returns an empty slice if not in a git
// repository.
func GetChangedFiles(rootPath string) ([]string, error) {
	if !IsGitRepo(rootPath) {
		return []string{}, nil
	}

	if _, err := run(rootPath, "rev-parse", "HEAD"); err != nil {
		// No commits yet - every tracked file is new
		output, err := run(rootPath, "ls-files")
		if err != nil {
			return nil, err
		}
		return filterRelevantFiles(output, rootPath)
	}

	output, err := run(rootPath, "diff", "--name-only", "--relative", "HEAD")
	if err != nil {
		return nil, err
	}

	return filterRelevantFiles(output, rootPath)
}

// IsGitRepo checks if the given directory is within a git repository.
func IsGitRepo(rootPath string) bool {
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = rootPath
	return cmd.Run() == nil
}

// run executes git in dir and returns its combined output.
func run(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s failed: %w: %s", strings.Join(args, " "), err, output)
	}
	return string(output), nil
}

// filterRelevantFiles keeps existing JS/TS sources from git's name-only
// output and returns them as absolute paths.
func filterRelevantFiles(gitOutput, rootPath string) ([]string, error) {
	var files []string

	for _, line := range strings.Split(strings.TrimSpace(gitOutput), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !isRelevantFile(line) {
			continue
		}

		absPath := filepath.Join(rootPath, filepath.FromSlash(line))

		// git reports deletions too
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			continue
		}

		files = append(files, absPath)
	}

	return files, nil
}

// isRelevantFile checks if a path is a lintable source outside dependency folders.
func isRelevantFile(relPath string) bool {
	if !discovery.IsSourceFile(relPath) {
		return false
	}
	for _, component := range strings.Split(filepath.ToSlash(relPath), "/") {
		if component == "node_modules" {
			return false
		}
	}
	return true
}
