package templates

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/willibrandon/goclide/observability"
)

// DefaultSearchPath is the template search path used when none is configured.
// Relative entries resolve against the working directory and "~" against the
// home directory.
const DefaultSearchPath = ".clide/templates;_clide/templates;~/.clide/templates;~/_clide/templates"

// ParseSearchPath splits a search path on ";" or the OS list separator and
// resolves each entry. Empty entries are dropped.
func ParseSearchPath(searchPath, workingDir, homeDir string) []string {
	fields := strings.FieldsFunc(searchPath, func(r rune) bool {
		return r == ';' || r == os.PathListSeparator
	})
	var roots []string
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		f = filepath.FromSlash(strings.ReplaceAll(f, `\`, "/"))
		switch {
		case f == "~":
			f = homeDir
		case strings.HasPrefix(f, "~"+string(filepath.Separator)):
			f = filepath.Join(homeDir, f[2:])
		case !filepath.IsAbs(f):
			f = filepath.Join(workingDir, f)
		}
		roots = append(roots, f)
	}
	return roots
}

// Catalog finds templates in an ordered list of root directories. Earlier
// roots win when two templates share a name.
type Catalog struct {
	Roots  []string
	Logger observability.Logger
}

// NewCatalog returns a Catalog over roots.
func NewCatalog(roots ...string) *Catalog {
	return &Catalog{Roots: roots}
}

// All returns the templates of every root, one per name.
func (c *Catalog) All() []*Template {
	var out []*Template
	seen := map[string]bool{}
	for _, root := range c.Roots {
		for _, t := range c.InDirectory(root) {
			if seen[t.Name()] {
				continue
			}
			seen[t.Name()] = true
			out = append(out, t)
		}
	}
	return out
}

// Sorted returns All ordered by name, ignoring case.
func (c *Catalog) Sorted() []*Template {
	all := c.All()
	sort.SliceStable(all, func(i, j int) bool {
		return strings.ToLower(all[i].Name()) < strings.ToLower(all[j].Name())
	})
	return all
}

// Get returns the template with the given name, ignoring case.
func (c *Catalog) Get(name string) (*Template, bool) {
	for _, t := range c.All() {
		if strings.EqualFold(t.Name(), name) {
			return t, true
		}
	}
	return nil, false
}

// Resolve looks name up in the catalog and then, failing that, treats it as
// the path of a template directory.
func (c *Catalog) Resolve(name string) (*Template, bool) {
	if t, ok := c.Get(name); ok {
		return t, true
	}
	t, err := Load(name)
	if err != nil {
		return nil, false
	}
	return t, true
}

// InDirectory returns the templates directly under root. Subdirectories
// without a marker file are not searched. A missing root has no templates.
func (c *Catalog) InDirectory(root string) []*Template {
	log := observability.OrNull(c.Logger)
	entries, err := os.ReadDir(root)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn("Cannot read template root {Root}: {Error}", root, err)
		}
		return nil
	}

	var out []*Template
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		t, err := Load(dir)
		if err != nil {
			if !errors.Is(err, ErrNotTemplate) {
				log.Warn("Skipping template {Path}: {Error}", dir, err)
			}
			continue
		}
		out = append(out, t)
	}
	if len(out) > 0 {
		observability.TemplatesDiscoveredTotal.WithLabelValues(root).Add(float64(len(out)))
	}
	log.Debug("Found {Count} templates in {Root}", len(out), root)
	return out
}
