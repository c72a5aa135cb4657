// Package discovery finds the JS/TS source files to lint.
package discovery

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FileType categorizes discovered files by source language
type FileType int

const (
	FileTypeUnknown FileType = iota
	FileTypeTypeScript
	FileTypeJavaScript
)

// String returns the human-readable name of the file type.
func (ft FileType) String() string {
	switch ft {
	case FileTypeTypeScript:
		return "typescript"
	case FileTypeJavaScript:
		return "javascript"
	default:
		return "unknown"
	}
}

// sourceExtensions maps lowercased extensions to their language.
var sourceExtensions = map[string]FileType{
	".ts":  FileTypeTypeScript,
	".tsx": FileTypeTypeScript,
	".mts": FileTypeTypeScript,
	".cts": FileTypeTypeScript,
	".js":  FileTypeJavaScript,
	".jsx": FileTypeJavaScript,
	".mjs": FileTypeJavaScript,
	".cjs": FileTypeJavaScript,
}

// DetectFileType determines the language of a file from its extension.
// Declaration files (.d.ts) hold no runtime schemas and are reported unknown.
func DetectFileType(path string) FileType {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".d.ts") || strings.HasSuffix(lower, ".d.mts") || strings.HasSuffix(lower, ".d.cts") {
		return FileTypeUnknown
	}
	return sourceExtensions[filepath.Ext(lower)]
}

// IsSourceFile reports whether path looks like a lintable JS/TS source.
func IsSourceFile(path string) bool {
	return DetectFileType(path) != FileTypeUnknown
}

// ValidateFilePath performs comprehensive validation of a file path for linting.
//
// This function checks all preconditions required before linting a file:
//   - File exists
//   - Path is a file (not directory)
//   - File is not binary
//
// Empty files are accepted; they simply hold no schemas.
func ValidateFilePath(path string) (absPath string, err error) {
	absPath, err = filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}

	info, err := os.Lstat(absPath) // Lstat to detect symlinks
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", absPath)
		}
		if os.IsPermission(err) {
			return "", fmt.Errorf("permission denied: %s", absPath)
		}
		return "", fmt.Errorf("cannot access file: %s: %w", absPath, err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		realPath, evalErr := filepath.EvalSymlinks(absPath)
		if evalErr != nil {
			return "", fmt.Errorf("cannot resolve symlink %s: %w", absPath, evalErr)
		}
		absPath = realPath
		info, err = os.Stat(absPath)
		if err != nil {
			return "", fmt.Errorf("symlink target inaccessible: %s: %w", absPath, err)
		}
	}

	if info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", absPath)
	}
	if info.Size() == 0 {
		return absPath, nil
	}

	f, err := os.Open(absPath)
	if err != nil {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}
	defer f.Close()

	// Read first 512 bytes for binary detection
	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}
	if bytes.Contains(buf[:n], []byte{0}) {
		return "", fmt.Errorf("file appears to be binary, not text: %s", absPath)
	}

	return absPath, nil
}

// File represents a discovered file with its metadata
type File struct {
	Path     string
	RelPath  string
	Size     int64
	Type     FileType
	Contents string
}

// FileDiscovery manages file discovery operations
type FileDiscovery struct {
	rootPath       string
	followSymlinks bool
	include        []string
	exclude        []string
}

// NewFileDiscovery creates a new FileDiscovery instance that matches every
// JS/TS source under rootPath.
func NewFileDiscovery(rootPath string, followSymlinks bool) *FileDiscovery {
	return &FileDiscovery{
		rootPath:       rootPath,
		followSymlinks: followSymlinks,
		include:        []string{"**/*"},
	}
}

// WithPatterns sets the include and exclude globs. Patterns are matched
// against slash-separated paths relative to the root. An empty include list
// keeps the current one.
func (fd *FileDiscovery) WithPatterns(include, exclude []string) *FileDiscovery {
	if len(include) > 0 {
		fd.include = include
	}
	fd.exclude = exclude
	return fd
}

// DiscoverFiles finds all source files under the root, sorted by relative path.
func (fd *FileDiscovery) DiscoverFiles() ([]File, error) {
	for _, p := range append(append([]string(nil), fd.include...), fd.exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid glob pattern: %s", p)
		}
	}

	files, err := fd.findFilesByPattern(fd.include)
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

// Expand resolves explicit command-line targets. Directories are searched
// with the configured patterns; files are taken as given, even when they
// would be excluded.
func (fd *FileDiscovery) Expand(paths []string) ([]File, error) {
	var files []File
	seen := make(map[string]bool)
	add := func(f File) {
		if !seen[f.Path] {
			seen[f.Path] = true
			files = append(files, f)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", p, err)
		}
		if info.IsDir() {
			sub := &FileDiscovery{rootPath: p, followSymlinks: fd.followSymlinks, include: fd.include, exclude: fd.exclude}
			found, err := sub.DiscoverFiles()
			if err != nil {
				return nil, err
			}
			for _, f := range found {
				f.RelPath = fd.relative(f.Path)
				add(f)
			}
			continue
		}

		absPath, err := ValidateFilePath(p)
		if err != nil {
			return nil, err
		}
		contents, err := os.ReadFile(absPath)
		if err != nil {
			return nil, fmt.Errorf("cannot read file: %s: %w", absPath, err)
		}
		add(File{
			Path:     absPath,
			RelPath:  fd.relative(absPath),
			Size:     int64(len(contents)),
			Type:     DetectFileType(absPath),
			Contents: string(contents),
		})
	}

	return files, nil
}

// relative returns path relative to the root with forward slashes, or path
// itself when it lies outside the root.
func (fd *FileDiscovery) relative(path string) string {
	absRoot, err := filepath.Abs(fd.rootPath)
	if err != nil {
		return filepath.ToSlash(path)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// findFilesByPattern finds files matching the given glob patterns
func (fd *FileDiscovery) findFilesByPattern(patterns []string) ([]File, error) {
	var files []File
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		// Use doublestar for glob matching with ** patterns
		matches, err := doublestar.Glob(os.DirFS(fd.rootPath), pattern)
		if err != nil {
			return nil, fmt.Errorf("error evaluating pattern %s: %w", pattern, err)
		}

		for _, match := range matches {
			if seen[match] || !IsSourceFile(match) || fd.excluded(match) {
				continue
			}
			seen[match] = true
			if f, ok := fd.processMatch(match); ok {
				files = append(files, f)
			}
		}
	}

	return files, nil
}

// excluded reports whether a relative path matches an exclude pattern.
func (fd *FileDiscovery) excluded(relPath string) bool {
	for _, pattern := range fd.exclude {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
	}
	return false
}

// processMatch converts a glob match into a File, returning false if the match should be skipped.
func (fd *FileDiscovery) processMatch(match string) (File, bool) {
	fullPath := filepath.Join(fd.rootPath, filepath.FromSlash(match))

	info, err := os.Lstat(fullPath)
	if err != nil || info.IsDir() {
		return File{}, false
	}

	readPath := fullPath
	if info.Mode()&os.ModeSymlink != 0 {
		resolved, resolvedInfo, ok := fd.resolveSymlink(fullPath)
		if !ok || resolvedInfo.IsDir() {
			return File{}, false
		}
		readPath = resolved
		info = resolvedInfo
	}

	contents, err := os.ReadFile(readPath)
	if err != nil {
		return File{}, false
	}

	return File{
		Path:     fullPath,
		RelPath:  match,
		Size:     info.Size(),
		Type:     DetectFileType(match),
		Contents: string(contents),
	}, true
}

// resolveSymlink follows a symlink if configured, returning the resolved path and info.
// Returns false if the symlink should be skipped.
func (fd *FileDiscovery) resolveSymlink(fullPath string) (string, os.FileInfo, bool) {
	if !fd.followSymlinks {
		return "", nil, false
	}

	realPath, err := filepath.EvalSymlinks(fullPath)
	if err != nil {
		return "", nil, false
	}

	realRoot, err := filepath.EvalSymlinks(fd.rootPath)
	if err != nil {
		return "", nil, false
	}
	if rel, err := filepath.Rel(realRoot, realPath); err != nil || strings.HasPrefix(rel, "..") {
		return "", nil, false
	}

	info, err := os.Stat(realPath)
	if err != nil {
		return "", nil, false
	}

	return realPath, info, true
}
