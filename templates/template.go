// Package templates discovers clide templates: directories holding a
// .clide-template (or _clide-template) marker file whose contents are
// generated with the tokenizer.
package templates

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/willibrandon/goclide/tokenizer"
)

// MarkerNames are the metadata file names that make a directory a template,
// in lookup order.
var MarkerNames = []string{".clide-template", "_clide-template"}

// ErrNotTemplate is returned when a directory has no marker file.
var ErrNotTemplate = errors.New("not a template directory")

// descriptionPattern matches a "Description:" line. The value may start on
// the following line.
var descriptionPattern = regexp.MustCompile(`(?m)^Description:\s+(.*)`)

// Template is a template directory and the text of its marker file.
type Template struct {
	Path       string
	MarkerPath string

	usage string
}

// Load reads the template rooted at dir.
func Load(dir string) (*Template, error) {
	marker := markerPath(dir)
	if marker == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotTemplate, dir)
	}
	data, err := os.ReadFile(marker)
	if err != nil {
		return nil, fmt.Errorf("failed to read template marker: %w", err)
	}
	return &Template{Path: dir, MarkerPath: marker, usage: string(data)}, nil
}

// markerPath returns the first marker file in dir, or "".
func markerPath(dir string) string {
	for _, name := range MarkerNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// IsMarkerFile reports whether path names a template marker file.
func IsMarkerFile(path string) bool {
	base := filepath.Base(path)
	for _, name := range MarkerNames {
		if base == name {
			return true
		}
	}
	return false
}

// Name is the template directory's base name.
func (t *Template) Name() string { return filepath.Base(t.Path) }

// Usage is the full text of the marker file.
func (t *Template) Usage() string { return t.usage }

// Description is the trimmed value of the marker's Description line, or "".
func (t *Template) Description() string {
	m := descriptionPattern.FindStringSubmatch(t.usage)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// Generate writes the template's tree to outputDir with tok, leaving out
// marker files in addition to anything tok already excludes.
func (t *Template) Generate(tok *tokenizer.Tokenizer, outputDir string, tokens tokenizer.Source) (*tokenizer.Result, error) {
	gen := *tok
	exclude := tok.Exclude
	gen.Exclude = func(path string) bool {
		return IsMarkerFile(path) || (exclude != nil && exclude(path))
	}
	return gen.ProcessDirectory(t.Path, outputDir, tokens)
}
