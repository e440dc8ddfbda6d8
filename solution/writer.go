package solution

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/willibrandon/goclide/observability"
	"github.com/willibrandon/goclide/project"
)

// ToText renders the solution file. The text starts with an empty line and
// ends with a line ending, as Visual Studio writes it.
func (s *Solution) ToText() string {
	lines := []string{""}
	lines = append(lines, "Microsoft Visual Studio Solution File, Format Version "+s.FormatVersion)
	lines = append(lines, s.productLine())
	if s.FullVisualStudioVersion != "" {
		lines = append(lines, "VisualStudioVersion = "+s.FullVisualStudioVersion)
	}
	if s.MinimumVisualStudioVersion != "" {
		lines = append(lines, "MinimumVisualStudioVersion = "+s.MinimumVisualStudioVersion)
	}

	for _, p := range s.Projects {
		lines = append(lines, FormatProjectLine(p))
		lines = append(lines, p.Body...)
		lines = append(lines, "EndProject")
	}

	lines = append(lines, "Global")
	for _, sec := range s.outputSections() {
		lines = append(lines, fmt.Sprintf("\tGlobalSection(%s) = %s", sec.Name, sec.Phase()))
		for _, body := range sec.Lines() {
			lines = append(lines, "\t\t"+body)
		}
		lines = append(lines, "\tEndGlobalSection")
	}
	lines = append(lines, "EndGlobal")

	eol := s.LineEnding
	if eol == "" {
		eol = DefaultLineEnding
	}
	return strings.Join(lines, eol) + eol
}

func (s *Solution) productLine() string {
	product := s.Product
	if product == "" {
		product = DefaultProduct
	}
	if s.VisualStudioVersion == "" {
		return "# " + product
	}
	return "# " + product + " " + s.VisualStudioVersion
}

// outputSections returns the stored sections, or the generated
// configuration sections when auto-generation applies.
func (s *Solution) outputSections() []Section {
	if !s.AutoGenerateProjectConfigurationPlatforms || len(s.Projects) == 0 {
		return s.Sections
	}
	return GenerateConfigurationSections(s.Projects)
}

// GenerateConfigurationSections builds the SolutionConfigurationPlatforms
// and ProjectConfigurationPlatforms sections for the default
// configurations on the "Any CPU" platform.
func GenerateConfigurationSections(projects []Project) []Section {
	var solutionLines, projectLines []string
	for _, cfg := range DefaultConfigurations {
		pair := cfg + "|" + DefaultPlatform
		solutionLines = append(solutionLines, pair+" = "+pair)
	}
	for _, p := range projects {
		id := project.FormatGUID(p.ID)
		for _, cfg := range DefaultConfigurations {
			pair := cfg + "|" + DefaultPlatform
			projectLines = append(projectLines,
				fmt.Sprintf("%s.%s.ActiveCfg = %s", id, pair, pair),
				fmt.Sprintf("%s.%s.Build.0 = %s", id, pair, pair),
			)
		}
	}
	return []Section{
		{Name: SolutionConfigurationPlatforms, PreSolution: true, Text: strings.Join(solutionLines, "\n")},
		{Name: ProjectConfigurationPlatforms, PreSolution: false, Text: strings.Join(projectLines, "\n")},
	}
}

// FormatProjectLine renders the Project line of an entry. Entries without a
// type GUID are written as C# projects.
func FormatProjectLine(p Project) string {
	typeID := p.TypeID
	if typeID == uuid.Nil {
		typeID = ProjectTypeCSProject
	}
	return fmt.Sprintf(`Project("%s") = "%s", "%s", "%s"`,
		project.FormatGUID(typeID), p.Name, project.NormalizePath(p.Path), project.FormatGUID(p.ID))
}

// Save writes ToText to Path.
func (s *Solution) Save() error {
	if s.Path == "" {
		return ErrNoPath
	}

	data := s.ToText()
	if s.ByteOrderMark {
		data = "\ufeff" + data
	}
	if err := os.WriteFile(s.Path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("failed to write solution file: %w", err)
	}
	observability.DocumentsSavedTotal.WithLabelValues("solution").Inc()
	return nil
}
