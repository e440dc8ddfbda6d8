package solution

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/willibrandon/goclide/project"
)

func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", path, err)
	}
	return abs, nil
}

// RelativeProjectPath returns the path of a project file relative to the
// directory of a solution file, with backslash separators.
func RelativeProjectPath(solutionPath, projectPath string) (string, error) {
	slnAbs, err := absPath(solutionPath)
	if err != nil {
		return "", err
	}
	projAbs, err := absPath(projectPath)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(filepath.Dir(slnAbs), projAbs)
	if err != nil {
		return project.NormalizePath(projAbs), nil
	}
	return project.NormalizePath(rel), nil
}

// ResolveProjectPath converts a project path stored in a solution file into
// a host path. Relative paths are resolved against the solution directory.
func ResolveProjectPath(solutionDir, projectPath string) string {
	if projectPath == "" {
		return ""
	}

	// Convert backslashes to the host separator
	normalized := filepath.FromSlash(strings.ReplaceAll(projectPath, `\`, "/"))

	if filepath.IsAbs(normalized) {
		return filepath.Clean(normalized)
	}

	return filepath.Clean(filepath.Join(solutionDir, normalized))
}
