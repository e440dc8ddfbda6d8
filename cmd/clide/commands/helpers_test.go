package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/willibrandon/goclide/cmd/clide/cli"
	"github.com/willibrandon/goclide/cmd/clide/output"
	"github.com/willibrandon/goclide/project"
)

// clide runs one command line in wd with an isolated template path and
// returns what it printed to stdout.
func clide(t *testing.T, wd string, args ...string) string {
	t.Helper()
	out, _, err := clideErr(t, wd, args...)
	require.NoError(t, err)
	return out
}

func clideErr(t *testing.T, wd string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := cli.NewApp(output.NewConsole(&out, &errOut, output.VerbosityNormal))
	Register(app)

	full := append([]string{}, args...)
	full = append(full, "-W", wd)
	if !hasFlag(args, "-T", "--templates") {
		full = append(full, "-T", filepath.Join(wd, ".clide", "templates"))
	}
	err := app.Execute(context.Background(), full)
	return out.String(), errOut.String(), err
}

func hasFlag(args []string, names ...string) bool {
	for _, a := range args {
		for _, n := range names {
			if a == n {
				return true
			}
		}
	}
	return false
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func loadProject(t *testing.T, path string) *project.Project {
	t.Helper()
	p, err := project.Load(path)
	require.NoError(t, err)
	require.True(t, p.Exists(), "project %s should exist", path)
	return p
}

// copyFluentXml copies the FluentXml.Specs.csproj fixture into dir.
func copyFluentXml(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "..", "project", "testdata", "FluentXml.Specs.csproj"))
	require.NoError(t, err)
	path := filepath.Join(dir, "FluentXml.Specs.csproj")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
