// Package project provides a live, mutable model of MSBuild project files
// (.csproj, .fsproj, .vbproj).
//
// A Project owns an in-memory XML tree. Configurations, references, item
// paths and imports are views computed from that tree on every call, and
// every mutation made through them edits the tree immediately. Nothing is
// written to disk until Save is called.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/willibrandon/goclide/observability"
	"github.com/willibrandon/goclide/xmldoc"
)

// Namespace is the MSBuild 2003 XML namespace.
const Namespace = "http://schemas.microsoft.com/developer/msbuild/2003"

// CSharpProjectTypeID is the project type GUID of C# projects.
var CSharpProjectTypeID = uuid.MustParse("FAE04EC0-301F-11D3-BF4B-00C04F79EFBC")

// ErrNoPath is returned when saving a project that has no Path.
var ErrNoPath = errors.New("project has no path")

// ErrNoProjectFile is returned by FindProjectFile when a directory holds no
// project file.
var ErrNoProjectFile = errors.New("no project file found in directory")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SolutionFile is the solution a project belongs to.
type SolutionFile interface {
	FilePath() string
}

// Project is an MSBuild project document.
type Project struct {
	// Path is the real file system path of the project file. It is not
	// normalized.
	Path string

	// TypeID is the project type GUID written to solution files.
	TypeID uuid.UUID

	doc          *xmldoc.Document
	id           uuid.UUID
	name         string
	relativePath string
	solution     SolutionFile
}

// New creates a blank project with a fresh random ID.
func New() *Project {
	return &Project{
		TypeID: CSharpProjectTypeID,
		doc:    blankDocument(),
		id:     uuid.New(),
	}
}

// Load reads the project file at path. When the file does not exist the
// project starts from a blank document, so creating and opening share one
// code path; use Exists to tell them apart.
func Load(path string) (*Project, error) {
	p := &Project{Path: path, TypeID: CSharpProjectTypeID}
	if err := p.Reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// Reload discards any unsaved changes and re-reads the project from Path.
func (p *Project) Reload() error {
	if p.Path == "" {
		p.doc = blankDocument()
		return nil
	}

	data, err := os.ReadFile(p.Path)
	if errors.Is(err, os.ErrNotExist) {
		p.doc = blankDocument()
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read project file: %w", err)
	}

	doc, err := xmldoc.Parse(data)
	if err != nil {
		return fmt.Errorf("failed to parse project file %s: %w", p.Path, err)
	}
	p.doc = doc
	return nil
}

func blankDocument() *xmldoc.Document {
	return xmldoc.New("Project", xmldoc.Attr{Name: "xmlns", Value: Namespace})
}

// Exists reports whether the project file is present on disk.
func (p *Project) Exists() bool {
	if p.Path == "" {
		return false
	}
	info, err := os.Stat(p.Path)
	return err == nil && !info.IsDir()
}

// Save writes the project to Path with a UTF-8 BOM, overwriting any
// existing file.
func (p *Project) Save() (err error) {
	if p.Path == "" {
		return ErrNoPath
	}

	if dir := filepath.Dir(p.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create project directory: %w", err)
		}
	}

	file, err := os.Create(p.Path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	// .NET tooling expects the BOM
	if _, err := file.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}
	if _, err := file.Write(p.doc.Bytes()); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}
	observability.DocumentsSavedTotal.WithLabelValues("project").Inc()
	return nil
}

// ToXml returns the serialized document without writing it to disk.
func (p *Project) ToXml() string {
	return p.doc.String()
}

// Document exposes the underlying XML tree.
func (p *Project) Document() *xmldoc.Document {
	return p.doc
}

// ID returns the project GUID. An explicitly set ID wins, then the global
// ProjectGuid property, then an ID generated once for this instance.
func (p *Project) ID() uuid.UUID {
	if p.id != uuid.Nil {
		return p.id
	}
	for _, prop := range p.GlobalProperties() {
		if prop.Name() == "ProjectGuid" {
			if id, ok := ParseGUID(prop.Text()); ok {
				return id
			}
		}
	}
	p.id = uuid.New()
	return p.id
}

// SetID overrides the project GUID.
func (p *Project) SetID(id uuid.UUID) {
	p.id = id
}

// Name returns the explicit name if one was set, else the AssemblyName
// property, else the project file name without its extension.
func (p *Project) Name() string {
	if p.name != "" {
		return p.name
	}
	for _, prop := range p.GlobalProperties() {
		if prop.Name() == "AssemblyName" && prop.Text() != "" {
			return prop.Text()
		}
	}
	if p.Path != "" {
		base := filepath.Base(p.Path)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return ""
}

// SetName overrides the project name.
func (p *Project) SetName(name string) {
	p.name = name
}

// RelativePath returns the path of the project as written into solution
// files, always with backslash separators.
func (p *Project) RelativePath() string {
	if p.relativePath != "" {
		return p.relativePath
	}
	return NormalizePath(p.Path)
}

// SetRelativePath sets the solution-relative path. When the value names an
// existing file it also becomes the project's Path.
func (p *Project) SetRelativePath(path string) {
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		p.Path = path
	}
	p.relativePath = NormalizePath(path)
}

// Solution returns the solution this project was added to, if any.
func (p *Project) Solution() SolutionFile {
	return p.solution
}

// SetSolution records the owning solution. The project is not owned by it.
func (p *Project) SetSolution(s SolutionFile) {
	p.solution = s
}

// DefaultTargets returns the DefaultTargets attribute of the root element.
func (p *Project) DefaultTargets() string {
	v, _ := p.doc.Attr(p.doc.Root(), "DefaultTargets")
	return v
}

// SetDefaultTargets sets the DefaultTargets attribute of the root element.
func (p *Project) SetDefaultTargets(v string) {
	p.doc.SetAttr(p.doc.Root(), "DefaultTargets", v)
}

// ToolsVersion returns the ToolsVersion attribute of the root element.
func (p *Project) ToolsVersion() string {
	v, _ := p.doc.Attr(p.doc.Root(), "ToolsVersion")
	return v
}

// SetToolsVersion sets the ToolsVersion attribute of the root element.
func (p *Project) SetToolsVersion(v string) {
	p.doc.SetAttr(p.doc.Root(), "ToolsVersion", v)
}

// SetDefaultProjectAttributes sets DefaultTargets to Build and ToolsVersion
// to 4.0.
func (p *Project) SetDefaultProjectAttributes() {
	p.SetDefaultTargets("Build")
	p.SetToolsVersion("4.0")
}

// FindProjectFile returns the alphabetically first project file directly
// inside dir, or ErrNoProjectFile.
func FindProjectFile(dir string) (string, error) {
	var allMatches []string
	for _, pattern := range []string{"*.csproj", "*.fsproj", "*.vbproj"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return "", err
		}
		allMatches = append(allMatches, matches...)
	}

	if len(allMatches) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoProjectFile, dir)
	}

	sort.Strings(allMatches)
	return allMatches[0], nil
}
