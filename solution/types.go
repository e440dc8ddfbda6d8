// Package solution reads and writes Visual Studio .sln solution files.
//
// Parsing is lenient: lines that do not match the expected shapes are
// skipped. Serializing an unmodified solution with
// AutoGenerateProjectConfigurationPlatforms disabled reproduces the parsed
// text, including the literal bodies of GlobalSection blocks.
package solution

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/willibrandon/goclide/project"
)

// Defaults for new solutions.
const (
	DefaultFormatVersion       = "11.00"
	DefaultVisualStudioVersion = "2010"
	DefaultProduct             = "Visual Studio"
	DefaultLineEnding          = "\r\n"
)

// Well-known section names.
const (
	SolutionConfigurationPlatforms = "SolutionConfigurationPlatforms"
	ProjectConfigurationPlatforms  = "ProjectConfigurationPlatforms"
)

// DefaultConfigurations are listed in generated configuration sections.
var DefaultConfigurations = []string{"Debug", "Release"}

// DefaultPlatform is the solution platform of generated configuration sections.
const DefaultPlatform = "Any CPU"

// Project type GUIDs for common project types.
var (
	ProjectTypeCSProject      = project.CSharpProjectTypeID
	ProjectTypeCSProjectSDK   = uuid.MustParse("9A19103F-16F7-4668-BE54-9A1E7A4F7556")
	ProjectTypeVBProject      = uuid.MustParse("F184B08F-C81C-45F6-A57F-5ABD9991F28F")
	ProjectTypeFSProject      = uuid.MustParse("F2A71F9B-5D33-465A-A702-920D77279786")
	ProjectTypeSolutionFolder = uuid.MustParse("2150E333-8FDC-42A3-9474-1A3956D46DE8")
)

// ErrNoPath is returned when saving a solution that has no Path.
var ErrNoPath = errors.New("solution has no path")

// Solution is a parsed .sln file.
type Solution struct {
	// Path is the file system path of the .sln file.
	Path string

	// FormatVersion is the "Format Version" of the header line, e.g. "11.00".
	FormatVersion string

	// VisualStudioVersion is the trailing number of the "# Visual Studio"
	// comment line, e.g. "2010".
	VisualStudioVersion string

	// Product is the text of the comment line before the version,
	// normally "Visual Studio".
	Product string

	// FullVisualStudioVersion and MinimumVisualStudioVersion hold the
	// optional "VisualStudioVersion = " and "MinimumVisualStudioVersion = "
	// header lines written by newer tooling.
	FullVisualStudioVersion    string
	MinimumVisualStudioVersion string

	Projects []Project
	Sections []Section

	// AutoGenerateProjectConfigurationPlatforms replaces the stored
	// sections with generated configuration sections when the solution
	// has projects.
	AutoGenerateProjectConfigurationPlatforms bool

	// LineEnding separates lines in ToText.
	LineEnding string

	// ByteOrderMark prefixes saved files with a UTF-8 BOM.
	ByteOrderMark bool
}

// Project is a project entry of a solution. It is a summary of a project
// file, not the project document itself.
type Project struct {
	Name   string
	Path   string
	ID     uuid.UUID
	TypeID uuid.UUID

	// Body holds the raw lines between the Project line and EndProject,
	// such as ProjectSection blocks.
	Body []string
}

// Section is one GlobalSection block.
type Section struct {
	Name        string
	PreSolution bool

	// Text is the body with the two-tab body indentation removed, lines
	// joined with "\n".
	Text string
}

// Phase returns "preSolution" or "postSolution".
func (s Section) Phase() string {
	if s.PreSolution {
		return "preSolution"
	}
	return "postSolution"
}

// Lines returns the body lines of the section.
func (s Section) Lines() []string {
	if s.Text == "" {
		return nil
	}
	return strings.Split(s.Text, "\n")
}

// ParseError represents an error during solution file parsing
type ParseError struct {
	// FilePath is the path to the file being parsed
	FilePath string

	// Line is the line number where the error occurred
	Line int

	// Message describes what went wrong
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.FilePath, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// New creates a blank solution.
func New() *Solution {
	s := &Solution{
		FormatVersion:       DefaultFormatVersion,
		VisualStudioVersion: DefaultVisualStudioVersion,
		Product:             DefaultProduct,
		LineEnding:          DefaultLineEnding,
		ByteOrderMark:       true,
	}
	s.AutoGenerateProjectConfigurationPlatforms = true
	return s
}

// FilePath returns Path. It lets projects refer back to the solution they
// were added to.
func (s *Solution) FilePath() string {
	return s.Path
}

// Exists reports whether the solution file is present on disk.
func (s *Solution) Exists() bool {
	if s.Path == "" {
		return false
	}
	info, err := os.Stat(s.Path)
	return err == nil && !info.IsDir()
}

// FindProject returns the project entry with the given name, ignoring case.
func (s *Solution) FindProject(name string) (Project, bool) {
	for _, p := range s.Projects {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Project{}, false
}

// AddProject appends a project entry.
func (s *Solution) AddProject(p Project) {
	s.Projects = append(s.Projects, p)
}

// RemoveProject deletes every project entry with the given name, ignoring
// case, and reports whether any was found.
func (s *Solution) RemoveProject(name string) bool {
	kept := s.Projects[:0]
	removed := false
	for _, p := range s.Projects {
		if strings.EqualFold(p.Name, name) {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	s.Projects = kept
	return removed
}

// AddSection appends a GlobalSection.
func (s *Solution) AddSection(section Section) {
	s.Sections = append(s.Sections, section)
}

// Section returns the first section with the given name.
func (s *Solution) Section(name string) (Section, bool) {
	for _, sec := range s.Sections {
		if sec.Name == name {
			return sec, true
		}
	}
	return Section{}, false
}

// Add appends an entry describing a project document and records this
// solution as the project's owner. The entry path is relative to the
// solution directory when the solution has a Path, absolute otherwise.
func (s *Solution) Add(p *project.Project) (Project, error) {
	path, err := s.entryPath(p)
	if err != nil {
		return Project{}, err
	}

	entry := Project{
		Name:   p.Name(),
		Path:   path,
		ID:     p.ID(),
		TypeID: p.TypeID,
	}
	s.AddProject(entry)
	p.SetSolution(s)
	return entry, nil
}

func (s *Solution) entryPath(p *project.Project) (string, error) {
	if p.Path == "" {
		return p.RelativePath(), nil
	}
	if s.Path == "" {
		abs, err := absPath(p.Path)
		if err != nil {
			return "", err
		}
		return project.NormalizePath(abs), nil
	}
	return RelativeProjectPath(s.Path, p.Path)
}
