package solution

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Extension is the file extension of solution files.
const Extension = ".sln"

// ProjectExtensions are the project file extensions clide edits.
var ProjectExtensions = []string{".csproj", ".fsproj", ".vbproj"}

// ErrAmbiguousSolution is returned when a directory holds more than one
// solution file and none was named.
var ErrAmbiguousSolution = errors.New("multiple solution files found")

// IsSolutionFile reports whether path has the .sln extension.
func IsSolutionFile(path string) bool {
	return path != "" && strings.EqualFold(filepath.Ext(path), Extension)
}

// IsProjectFile reports whether path has a project file extension.
func IsProjectFile(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range ProjectExtensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// SolutionFiles lists the solution files directly inside dir, sorted by
// name. A missing directory has none.
func SolutionFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && IsSolutionFile(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// FindSolutionFile returns the only solution file directly inside dir, or
// "" when there is none. More than one is ErrAmbiguousSolution.
func FindSolutionFile(dir string) (string, error) {
	files, err := SolutionFiles(dir)
	if err != nil {
		return "", err
	}
	switch len(files) {
	case 0:
		return "", nil
	case 1:
		return files[0], nil
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = filepath.Base(f)
	}
	return "", fmt.Errorf("%w in %s (%s), pass --name", ErrAmbiguousSolution, dir, strings.Join(names, ", "))
}
