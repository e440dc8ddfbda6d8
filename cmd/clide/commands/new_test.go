package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/goclide/project"
)

func TestNew_WithoutNamePrintsUsage(t *testing.T) {
	out := clide(t, t.TempDir(), "new")
	assert.Contains(t, out, "Usage: clide new NAME")
}

func TestNew_CreatesProject(t *testing.T) {
	dir := t.TempDir()
	out := clide(t, dir, "new", "CoolProject")
	assert.Equal(t, "Created new projet: CoolProject\n", out)

	p := loadProject(t, filepath.Join(dir, "CoolProject.csproj"))
	assert.Equal(t, "CoolProject", p.Name())
	assert.Equal(t, "Build", p.DefaultTargets())
	assert.Equal(t, "4.0", p.ToolsVersion())
	assert.Equal(t, []string{"Debug", "Release"}, p.Configurations().Names())
	assert.Equal(t, "Debug", p.DefaultConfigurationName())

	v, ok := p.GlobalProperty("TargetFrameworkVersion")
	require.True(t, ok)
	assert.Equal(t, "v4.0", v)
	v, _ = p.GlobalProperty("RootNamespace")
	assert.Equal(t, "CoolProject", v)
	v, _ = p.GlobalProperty("ProjectGuid")
	assert.Equal(t, project.FormatGUID(p.ID()), v)

	outputPath, _ := p.Config("Debug").Get("OutputPath")
	assert.Equal(t, `bin\Debug\`, outputPath)

	require.Equal(t, 1, p.Imports().Len())
	assert.Equal(t, project.DefaultCSharpImport, p.Imports().All()[0].Project())

	assert.Zero(t, p.References().Len())
	assert.Zero(t, p.Content().Len())
}

func TestNew_Options(t *testing.T) {
	dir := t.TempDir()
	clide(t, dir, "new", "Tool.csproj", "--framework", "35", "--output-type", "Exe")

	p := loadProject(t, filepath.Join(dir, "Tool.csproj"))
	v, _ := p.GlobalProperty("TargetFrameworkVersion")
	assert.Equal(t, "v3.5", v)
	v, _ = p.GlobalProperty("OutputType")
	assert.Equal(t, "Exe", v)
}

func TestNew_Bare(t *testing.T) {
	dir := t.TempDir()
	clide(t, dir, "new", "Empty", "--bare")

	p := loadProject(t, filepath.Join(dir, "Empty.csproj"))
	assert.Zero(t, p.Configurations().Len())
	assert.Zero(t, p.Imports().Len())
}

func TestNew_ExistingProject(t *testing.T) {
	dir := t.TempDir()
	clide(t, dir, "new", "CoolProject")

	_, _, err := clideErr(t, dir, "new", "CoolProject")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project already exists")
}
