// Package project locates the root of the JS/TS project being linted.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// rootMarkers are files or directories whose presence marks a project root.
// Checked in order; a zodkit config file is the strongest signal.
var rootMarkers = []string{
	".zodkitrc.json",
	".zodkitrc.yaml",
	".zodkitrc.yml",
	"package.json",
	"deno.json",
	"tsconfig.json",
	".git",
}

// Info contains information about the detected project.
// Named 'Info' instead of 'ProjectInfo' to avoid stuttering (project.Info vs project.ProjectInfo).
type Info struct {
	Root       string
	HasGit     bool
	HasZod     bool
	Type       string
	ConfigFile string
}

// FindProjectRoot searches for a project root starting from the given path
// and climbing up the directory tree if needed. When no marker is found the
// start path itself is returned.
func FindProjectRoot(startPath string) (string, error) {
	if startPath == "" {
		startPath = "."
	}
	absPath, err := filepath.Abs(startPath)
	if err != nil {
		return "", err
	}

	currentDir := absPath
	for {
		if isProjectRoot(currentDir) {
			return currentDir, nil
		}

		parent := filepath.Dir(currentDir)
		if parent == currentDir {
			// Reached filesystem root
			break
		}
		currentDir = parent
	}

	return absPath, nil
}

// isProjectRoot determines if a directory is a project root
func isProjectRoot(path string) bool {
	for _, marker := range rootMarkers {
		if exists(filepath.Join(path, marker)) {
			return true
		}
	}
	return false
}

// Detect detects project information at the given path.
// Named 'Detect' instead of 'DetectProjectInfo' to avoid stuttering.
func Detect(rootPath string) (*Info, error) {
	info := &Info{
		Root: rootPath,
		Type: "unknown",
	}

	info.HasGit = exists(filepath.Join(rootPath, ".git"))

	for _, name := range []string{".zodkitrc.json", ".zodkitrc.yaml", ".zodkitrc.yml"} {
		if exists(filepath.Join(rootPath, name)) {
			info.ConfigFile = name
			break
		}
	}

	switch {
	case exists(filepath.Join(rootPath, "deno.json")):
		info.Type = "deno"
	case exists(filepath.Join(rootPath, "package.json")):
		info.Type = "node"
		hasZod, err := dependsOnZod(filepath.Join(rootPath, "package.json"))
		if err != nil {
			return nil, err
		}
		info.HasZod = hasZod
	case exists(filepath.Join(rootPath, "tsconfig.json")):
		info.Type = "typescript"
	}

	return info, nil
}

// packageManifest is the subset of package.json that Detect reads.
type packageManifest struct {
	Dependencies     map[string]string `json:"dependencies"`
	DevDependencies  map[string]string `json:"devDependencies"`
	PeerDependencies map[string]string `json:"peerDependencies"`
}

// dependsOnZod reports whether package.json lists zod in any dependency group.
// An unparsable manifest is treated as not depending on zod.
func dependsOnZod(manifestPath string) (bool, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return false, err
	}

	var m packageManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return false, nil
	}

	for _, deps := range []map[string]string{m.Dependencies, m.DevDependencies, m.PeerDependencies} {
		if _, ok := deps["zod"]; ok {
			return true, nil
		}
	}
	return false, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
