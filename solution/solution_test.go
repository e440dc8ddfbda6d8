package solution

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/goclide/project"
)

// lf builds expected solution text from lines, the way ToText joins them
// with a "\n" line ending.
func lf(lines ...string) string {
	return "\n" + strings.Join(lines, "\n") + "\n"
}

func newLF() *Solution {
	s := New()
	s.LineEnding = "\n"
	return s
}

func loadTestdata(t *testing.T, name string) *Solution {
	t.Helper()
	s, err := Load(filepath.Join("testdata", name))
	require.NoError(t, err)
	return s
}

func TestLoad_HeaderVersions(t *testing.T) {
	web := loadTestdata(t, "WebApplication1.sln")
	assert.Equal(t, "11.00", web.FormatVersion)
	assert.Equal(t, "2010", web.VisualStudioVersion)
	assert.True(t, web.ByteOrderMark)
	assert.Equal(t, "\r\n", web.LineEnding)

	mono := loadTestdata(t, "CsharpConsoleProject.sln")
	assert.Equal(t, "10.00", mono.FormatVersion)
	assert.Equal(t, "2008", mono.VisualStudioVersion)
	assert.False(t, mono.ByteOrderMark)
	assert.Equal(t, "\n", mono.LineEnding)
}

func TestLoad_Projects(t *testing.T) {
	web := loadTestdata(t, "WebApplication1.sln")
	require.Len(t, web.Projects, 1)
	assert.Equal(t, "WebApplication1", web.Projects[0].Name)
	assert.Equal(t, `WebApplication1\WebApplication1.csproj`, web.Projects[0].Path)
	assert.Equal(t, uuid.MustParse("11FC4B99-DB31-4D0C-A472-4F794098F900"), web.Projects[0].ID)
	assert.Equal(t, ProjectTypeCSProject, web.Projects[0].TypeID)

	// the entry with a malformed type GUID is skipped
	mono := loadTestdata(t, "CsharpConsoleProject.sln")
	require.Len(t, mono.Projects, 2)
	assert.Equal(t, "CsharpConsoleProject", mono.Projects[0].Name)
	assert.Equal(t, uuid.MustParse("DE8DC42E-C399-4367-8E34-735B7F9AA54C"), mono.Projects[0].ID)
	assert.Equal(t, ProjectTypeSolutionFolder, mono.Projects[1].TypeID)
	assert.Equal(t, []string{
		"\tProjectSection(SolutionItems) = preProject",
		"\t\tREADME.txt = README.txt",
		"\tEndProjectSection",
	}, mono.Projects[1].Body)

	_, ok := mono.FindProject("broken")
	assert.False(t, ok)
	found, ok := mono.FindProject("csharpconsoleproject")
	assert.True(t, ok)
	assert.Equal(t, "CsharpConsoleProject", found.Name)
}

func TestLoad_Sections(t *testing.T) {
	web := loadTestdata(t, "WebApplication1.sln")
	require.Len(t, web.Sections, 3)

	assert.Equal(t, "SolutionConfigurationPlatforms", web.Sections[0].Name)
	assert.True(t, web.Sections[0].PreSolution)
	assert.Equal(t, "Debug|Any CPU = Debug|Any CPU\nRelease|Any CPU = Release|Any CPU", web.Sections[0].Text)

	assert.Equal(t, "ProjectConfigurationPlatforms", web.Sections[1].Name)
	assert.False(t, web.Sections[1].PreSolution)
	assert.Equal(t,
		"{11FC4B99-DB31-4D0C-A472-4F794098F900}.Debug|Any CPU.ActiveCfg = Debug|Any CPU\n"+
			"{11FC4B99-DB31-4D0C-A472-4F794098F900}.Debug|Any CPU.Build.0 = Debug|Any CPU\n"+
			"{11FC4B99-DB31-4D0C-A472-4F794098F900}.Release|Any CPU.ActiveCfg = Release|Any CPU\n"+
			"{11FC4B99-DB31-4D0C-A472-4F794098F900}.Release|Any CPU.Build.0 = Release|Any CPU",
		web.Sections[1].Text)

	assert.Equal(t, "SolutionProperties", web.Sections[2].Name)
	assert.True(t, web.Sections[2].PreSolution)
	assert.Equal(t, "HideSolutionNode = FALSE", web.Sections[2].Text)

	mono := loadTestdata(t, "CsharpConsoleProject.sln")
	require.Len(t, mono.Sections, 3)
	assert.Equal(t, "Debug|x86 = Debug|x86\nRelease|x86 = Release|x86", mono.Sections[0].Text)
	assert.Equal(t, "MonoDevelopProperties", mono.Sections[2].Name)
	assert.Equal(t,
		`StartupItem = CsharpConsoleProject\CsharpConsoleProject.csproj`+"\n"+
			"Policies = $0\n$0.TextStylePolicy = $1\n\t$1.FileWidth = 120",
		mono.Sections[2].Text)
}

func TestRoundTrip_Exact(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "WebApplication1.sln"))
	require.NoError(t, err)

	s := loadTestdata(t, "WebApplication1.sln")
	s.AutoGenerateProjectConfigurationPlatforms = false

	want := strings.TrimPrefix(string(data), "\ufeff")
	if diff := cmp.Diff(want, s.ToText()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	path := filepath.Join(t.TempDir(), "Copy.sln")
	s.Path = path
	require.NoError(t, s.Save())
	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, saved)
}

func TestRoundTrip_NestedIndentation(t *testing.T) {
	text := lf(
		"Microsoft Visual Studio Solution File, Format Version 12.00",
		"# Visual Studio Version 17",
		"VisualStudioVersion = 17.0.31903.59",
		"MinimumVisualStudioVersion = 10.0.40219.1",
		"Global",
		"\tGlobalSection(MonoDevelopProperties) = preSolution",
		"\t\tPolicies = $0",
		"\t\t\t$0.TextStylePolicy = $1",
		"\t\t\t\t$1.FileWidth = 120",
		"\tEndGlobalSection",
		"EndGlobal",
	)
	s, err := Parse(strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, "Visual Studio Version", s.Product)
	assert.Equal(t, "17", s.VisualStudioVersion)
	assert.Equal(t, "17.0.31903.59", s.FullVisualStudioVersion)
	assert.Equal(t, "10.0.40219.1", s.MinimumVisualStudioVersion)
	assert.Equal(t, text, s.ToText())
}

func TestRoundTrip_CRLF(t *testing.T) {
	text := strings.ReplaceAll(lf(
		"Microsoft Visual Studio Solution File, Format Version 11.00",
		"# Visual Studio 2010",
		`Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "Cool", "src\Cool.csproj", "{5791AA11-CBF2-4B79-BCB8-E7C1C7882F3E}"`,
		"EndProject",
		"Global",
		"\tGlobalSection(SolutionProperties) = preSolution",
		"\t\tHideSolutionNode = FALSE",
		"\tEndGlobalSection",
		"EndGlobal",
	), "\n", "\r\n")

	s, err := Parse(strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, "\r\n", s.LineEnding)
	assert.Equal(t, "HideSolutionNode = FALSE", s.Sections[0].Text)
	assert.Equal(t, "src\\Cool.csproj", s.Projects[0].Path)

	s.AutoGenerateProjectConfigurationPlatforms = false
	if diff := cmp.Diff(text, s.ToText()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSave_KeepsCRLFAfterEdit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Edit.sln")
	require.NoError(t, os.WriteFile(path, []byte(New().ToText()), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	s.AddProject(Project{Name: "A", Path: `A\A.csproj`, ID: uuid.MustParse("5791AA11-CBF2-4B79-BCB8-E7C1C7882F3E")})
	require.NoError(t, s.Save())

	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strings.Count(string(saved), "\n"), strings.Count(string(saved), "\r\n"))
	assert.Contains(t, string(saved), "EndProject\r\n")
}

func TestToText_BlankSolution(t *testing.T) {
	s := newLF()
	assert.Equal(t, lf(
		"Microsoft Visual Studio Solution File, Format Version 11.00",
		"# Visual Studio 2010",
		"Global",
		"EndGlobal",
	), s.ToText())

	assert.True(t, strings.HasPrefix(New().ToText(), "\r\nMicrosoft Visual Studio Solution File, Format Version 11.00\r\n"))
}

func TestToText_OneSection(t *testing.T) {
	s := newLF()
	s.AddSection(Section{Name: "SolutionProperties", PreSolution: true, Text: "HideSolutionNode = FALSE"})
	assert.Equal(t, lf(
		"Microsoft Visual Studio Solution File, Format Version 11.00",
		"# Visual Studio 2010",
		"Global",
		"\tGlobalSection(SolutionProperties) = preSolution",
		"\t\tHideSolutionNode = FALSE",
		"\tEndGlobalSection",
		"EndGlobal",
	), s.ToText())
}

func TestToText_OneProject(t *testing.T) {
	s := newLF()
	s.AutoGenerateProjectConfigurationPlatforms = false
	s.AddProject(Project{Name: "CoolProject", Path: `src\CoolProject.csproj`, ID: uuid.MustParse("5791AA11-CBF2-4B79-BCB8-E7C1C7882F3E")})
	assert.Equal(t, lf(
		"Microsoft Visual Studio Solution File, Format Version 11.00",
		"# Visual Studio 2010",
		`Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "CoolProject", "src\CoolProject.csproj", "{5791AA11-CBF2-4B79-BCB8-E7C1C7882F3E}"`,
		"EndProject",
		"Global",
		"EndGlobal",
	), s.ToText())
}

func TestToText_ProjectsAndEmptySections(t *testing.T) {
	s := newLF()
	s.AutoGenerateProjectConfigurationPlatforms = false
	s.AddSection(Section{Name: "SolutionConfigurationPlatforms", PreSolution: true})
	s.AddSection(Section{Name: "ProjectConfigurationPlatforms"})
	s.AddProject(Project{Name: "CoolProject", Path: "src/CoolProject.csproj", ID: uuid.MustParse("5791AA11-CBF2-4B79-BCB8-E7C1C7882F3E")})
	s.AddProject(Project{Name: "FooProject", Path: `src\FooProject.csproj`, ID: uuid.MustParse("F68046A5-0C57-4765-B6D8-4F1E1140E991")})

	assert.Equal(t, lf(
		"Microsoft Visual Studio Solution File, Format Version 11.00",
		"# Visual Studio 2010",
		`Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "CoolProject", "src\CoolProject.csproj", "{5791AA11-CBF2-4B79-BCB8-E7C1C7882F3E}"`,
		"EndProject",
		`Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "FooProject", "src\FooProject.csproj", "{F68046A5-0C57-4765-B6D8-4F1E1140E991}"`,
		"EndProject",
		"Global",
		"\tGlobalSection(SolutionConfigurationPlatforms) = preSolution",
		"\tEndGlobalSection",
		"\tGlobalSection(ProjectConfigurationPlatforms) = postSolution",
		"\tEndGlobalSection",
		"EndGlobal",
	), s.ToText())
}

func TestAdd_AutoGeneratesConfigurationPlatforms(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "project", "testdata", "WebApplication.csproj"))
	require.NoError(t, err)
	projPath := filepath.Join(t.TempDir(), "WebApplication.csproj")
	require.NoError(t, os.WriteFile(projPath, data, 0o644))

	proj, err := project.Load(projPath)
	require.NoError(t, err)

	s := newLF()
	entry, err := s.Add(proj)
	require.NoError(t, err)
	assert.Equal(t, s, proj.Solution())

	abs, err := filepath.Abs(projPath)
	require.NoError(t, err)
	assert.Equal(t, project.NormalizePath(abs), entry.Path)

	projectLine := `Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "WebApplication", "` + entry.Path + `", "{ABE3332A-1495-4703-A248-7E47B6F871FC}"`

	s.AutoGenerateProjectConfigurationPlatforms = false
	assert.Equal(t, lf(
		"Microsoft Visual Studio Solution File, Format Version 11.00",
		"# Visual Studio 2010",
		projectLine,
		"EndProject",
		"Global",
		"EndGlobal",
	), s.ToText())

	s.AutoGenerateProjectConfigurationPlatforms = true
	assert.Equal(t, lf(
		"Microsoft Visual Studio Solution File, Format Version 11.00",
		"# Visual Studio 2010",
		projectLine,
		"EndProject",
		"Global",
		"\tGlobalSection(SolutionConfigurationPlatforms) = preSolution",
		"\t\tDebug|Any CPU = Debug|Any CPU",
		"\t\tRelease|Any CPU = Release|Any CPU",
		"\tEndGlobalSection",
		"\tGlobalSection(ProjectConfigurationPlatforms) = postSolution",
		"\t\t{ABE3332A-1495-4703-A248-7E47B6F871FC}.Debug|Any CPU.ActiveCfg = Debug|Any CPU",
		"\t\t{ABE3332A-1495-4703-A248-7E47B6F871FC}.Debug|Any CPU.Build.0 = Debug|Any CPU",
		"\t\t{ABE3332A-1495-4703-A248-7E47B6F871FC}.Release|Any CPU.ActiveCfg = Release|Any CPU",
		"\t\t{ABE3332A-1495-4703-A248-7E47B6F871FC}.Release|Any CPU.Build.0 = Release|Any CPU",
		"\tEndGlobalSection",
		"EndGlobal",
	), s.ToText())
}

func TestAdd_RelativeToSolution(t *testing.T) {
	dir := t.TempDir()
	s := New()
	s.Path = filepath.Join(dir, "All.sln")

	proj := project.New()
	proj.Path = filepath.Join(dir, "src", "Cool", "Cool.csproj")

	entry, err := s.Add(proj)
	require.NoError(t, err)
	assert.Equal(t, "Cool", entry.Name)
	assert.Equal(t, `src\Cool\Cool.csproj`, entry.Path)
	assert.Equal(t, proj.ID(), entry.ID)

	assert.Equal(t, filepath.Join(dir, "src", "Cool", "Cool.csproj"), ResolveProjectPath(dir, entry.Path))
}

func TestRemoveProject(t *testing.T) {
	s := New()
	s.AddProject(Project{Name: "A", ID: uuid.New()})
	s.AddProject(Project{Name: "B", ID: uuid.New()})

	assert.True(t, s.RemoveProject("a"))
	assert.False(t, s.RemoveProject("a"))
	require.Len(t, s.Projects, 1)
	assert.Equal(t, "B", s.Projects[0].Name)
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "New.sln")
	s, err := Load(path)
	require.NoError(t, err)
	assert.False(t, s.Exists())
	assert.Equal(t, path, s.FilePath())
	assert.Equal(t, DefaultFormatVersion, s.FormatVersion)

	require.NoError(t, s.Save())
	assert.True(t, s.Exists())
}

func TestSave_NoPath(t *testing.T) {
	assert.ErrorIs(t, New().Save(), ErrNoPath)
}

func TestParseProjectLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		ok   bool
	}{
		{"valid", `Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "A", "A\A.csproj", "{5791AA11-CBF2-4B79-BCB8-E7C1C7882F3E}"`, true},
		{"lowercase guids", `Project("{fae04ec0-301f-11d3-bf4b-00c04f79efbc}") = "A", "A.csproj", "{5791aa11-cbf2-4b79-bcb8-e7c1c7882f3e}"`, true},
		{"missing fields", `Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "A", "A.csproj"`, false},
		{"bad project guid", `Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "A", "A.csproj", "{nope}"`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ParseProjectLine(tt.line)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestParseSectionLine(t *testing.T) {
	sec := ParseSectionLine("\tGlobalSection(NestedProjects) = preSolution")
	assert.Equal(t, "NestedProjects", sec.Name)
	assert.True(t, sec.PreSolution)

	sec = ParseSectionLine("GlobalSection(ExtensibilityGlobals) = postSolution")
	assert.Equal(t, "ExtensibilityGlobals", sec.Name)
	assert.False(t, sec.PreSolution)
	assert.Equal(t, "postSolution", sec.Phase())
}

func TestFindSolutionFile(t *testing.T) {
	dir := t.TempDir()
	found, err := FindSolutionFile(dir)
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = FindSolutionFile(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, found)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "Deep.sln"), []byte(New().ToText()), 0o644))
	found, err = FindSolutionFile(dir)
	require.NoError(t, err)
	assert.Empty(t, found)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "Top.sln"), []byte(New().ToText()), 0o644))
	found, err = FindSolutionFile(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Top.sln"), found)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "Other.SLN"), []byte(New().ToText()), 0o644))
	files, err := SolutionFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "Other.SLN"), filepath.Join(dir, "Top.sln")}, files)

	_, err = FindSolutionFile(dir)
	assert.ErrorIs(t, err, ErrAmbiguousSolution)
	assert.Contains(t, err.Error(), "Other.SLN, Top.sln")
}

func TestFileKinds(t *testing.T) {
	assert.True(t, IsSolutionFile("a/B.SLN"))
	assert.False(t, IsSolutionFile("a/B.slnx"))
	assert.False(t, IsSolutionFile(""))
	assert.True(t, IsProjectFile("App.fsproj"))
	assert.True(t, IsProjectFile(`src\App.CSPROJ`))
	assert.False(t, IsProjectFile("App.proj"))
}
