// Package config resolves the global options shared by every clide command.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/willibrandon/goclide/observability"
	"github.com/willibrandon/goclide/project"
	"github.com/willibrandon/goclide/templates"
)

// EnvPrefix is the prefix of environment variables read by clide, e.g.
// CLIDE_WORKING_DIRECTORY.
const EnvPrefix = "CLIDE"

// Option keys. Flags and environment variables bind to the same names.
const (
	KeyWorkingDirectory = "working-directory"
	KeyProject          = "project"
	KeyTemplates        = "templates"
	KeyVerbosity        = "verbosity"
	KeyDebug            = "debug"
	KeyTrace            = "trace"
	KeyOTLPEndpoint     = "otlp-endpoint"
)

// Options are the resolved global options.
type Options struct {
	WorkingDirectory string `mapstructure:"working-directory" json:"workingDirectory" yaml:"workingDirectory"`
	Project          string `mapstructure:"project" json:"project" yaml:"project"`
	Templates        string `mapstructure:"templates" json:"templates" yaml:"templates"`
	Verbosity        string `mapstructure:"verbosity" json:"verbosity" yaml:"verbosity"`
	Debug            bool   `mapstructure:"debug" json:"debug" yaml:"debug"`
	Trace            string `mapstructure:"trace" json:"trace" yaml:"trace"`
	OTLPEndpoint     string `mapstructure:"otlp-endpoint" json:"otlpEndpoint,omitempty" yaml:"otlpEndpoint,omitempty"`
}

// Defaults returns the options used when neither a flag nor an environment
// variable is set. WorkingDirectory and Project are resolved by Load.
func Defaults() Options {
	return Options{
		Templates: templates.DefaultSearchPath,
		Verbosity: "normal",
		Trace:     observability.ExporterNone,
	}
}

// NewViper returns a viper instance with clide's defaults and environment
// bindings.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault(KeyWorkingDirectory, d.WorkingDirectory)
	v.SetDefault(KeyProject, d.Project)
	v.SetDefault(KeyTemplates, d.Templates)
	v.SetDefault(KeyVerbosity, d.Verbosity)
	v.SetDefault(KeyDebug, d.Debug)
	v.SetDefault(KeyTrace, d.Trace)
	v.SetDefault(KeyOTLPEndpoint, d.OTLPEndpoint)
	return v
}

// Load reads the options from v. An empty working directory means the
// process working directory. An empty project means the alphabetically
// first project file in the working directory, if any.
func Load(v *viper.Viper) (*Options, error) {
	var opts Options
	if err := v.Unmarshal(&opts); err != nil {
		return nil, fmt.Errorf("failed to read options: %w", err)
	}

	if opts.WorkingDirectory == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		opts.WorkingDirectory = wd
	}
	wd, err := filepath.Abs(opts.WorkingDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}
	opts.WorkingDirectory = wd

	if opts.Project == "" {
		found, err := project.FindProjectFile(wd)
		switch {
		case err == nil:
			opts.Project = found
		case !errors.Is(err, project.ErrNoProjectFile):
			return nil, err
		}
	}
	return &opts, nil
}

// Resolve joins a relative path onto the working directory.
func (o *Options) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(o.WorkingDirectory, path)
}

// ProjectPath returns the absolute path of the selected project, or "".
func (o *Options) ProjectPath() string {
	return o.Resolve(o.Project)
}

// HasProject reports whether a project was named or found.
func (o *Options) HasProject() bool {
	return o.Project != ""
}

// LoadProject opens the selected project. When no project is selected it
// returns nil and no error.
func (o *Options) LoadProject() (*project.Project, error) {
	if !o.HasProject() {
		return nil, nil
	}
	p, err := project.Load(o.ProjectPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load project %s: %w", o.Project, err)
	}
	return p, nil
}

// TemplateRoots returns the template search path as absolute directories.
func (o *Options) TemplateRoots() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = o.WorkingDirectory
	}
	return templates.ParseSearchPath(o.Templates, o.WorkingDirectory, home)
}

// LogLevel maps the verbosity to a logger level. Debug forces diagnostic
// logging.
func (o *Options) LogLevel() (observability.LogLevel, error) {
	if o.Debug {
		return observability.DebugLevel, nil
	}
	return observability.ParseLogLevel(o.Verbosity)
}

// TracerConfig builds the tracing setup for the selected exporter.
func (o *Options) TracerConfig(version string) observability.TracerConfig {
	cfg := observability.DefaultTracerConfig()
	cfg.ServiceVersion = version
	cfg.ExporterType = o.Trace
	cfg.OTLPEndpoint = o.OTLPEndpoint
	return cfg
}

// Entries lists the options in display order for `clide info`.
func (o *Options) Entries() [][2]string {
	return [][2]string{
		{"WorkingDirectory", o.WorkingDirectory},
		{"Project", o.Project},
		{"Templates", o.Templates},
		{"Verbosity", o.Verbosity},
		{"Debug", fmt.Sprint(o.Debug)},
		{"Trace", o.Trace},
	}
}
