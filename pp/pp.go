// Package pp renders "pp" templates with tokens taken from a project's
// configuration properties.
package pp

import (
	"strings"

	"github.com/willibrandon/goclide/project"
	"github.com/willibrandon/goclide/tokenizer"
)

// ConfigurationToken is the token set to the selected configuration name.
const ConfigurationToken = "configuration"

// ProjectTokens returns p's properties as tokens. Global properties come
// first when includeGlobal is set, then the properties of config override
// them. An empty config means the project's default configuration.
//
// When a configuration is selected, the Configuration token (any casing
// already present, else "configuration") is set to its name.
func ProjectTokens(p *project.Project, config string, includeGlobal bool) tokenizer.Ordered {
	if p == nil {
		return nil
	}
	if config == "" {
		config = p.DefaultConfigurationName()
	}

	var sources []tokenizer.Source
	if includeGlobal {
		sources = append(sources, propertyTokens(p.GlobalProperties()))
	}
	if c := p.Config(config); config != "" && c != nil {
		sources = append(sources, propertyTokens(c.Properties()))
	}
	tokens := tokenizer.Merge(sources...)

	if config != "" {
		key := ConfigurationToken
		for _, t := range tokens {
			if strings.EqualFold(t.Key, ConfigurationToken) {
				key = t.Key
				break
			}
		}
		tokens = tokenizer.Merge(tokens, tokenizer.Ordered{{Key: key, Value: config}})
	}
	return tokens
}

func propertyTokens(props []*project.Property) tokenizer.Ordered {
	out := make(tokenizer.Ordered, 0, len(props))
	for _, prop := range props {
		out = append(out, tokenizer.Token{Key: prop.Name(), Value: prop.Text()})
	}
	return out
}

// Processor generates files with a Tokenizer, seeding tokens from Project
// when one is set. Caller tokens override project tokens.
type Processor struct {
	*tokenizer.Tokenizer

	Project *project.Project

	// Config selects the project configuration; empty means the default.
	Config string
}

// New returns a Processor with a default Tokenizer.
func New(p *project.Project) *Processor {
	return &Processor{Tokenizer: tokenizer.New(), Project: p}
}

// Tokens returns the project tokens merged with extra.
func (pr *Processor) Tokens(extra tokenizer.Source) tokenizer.Ordered {
	return tokenizer.Merge(ProjectTokens(pr.Project, pr.Config, true), extra)
}

// Render replaces project and extra tokens in text.
func (pr *Processor) Render(text string, extra tokenizer.Source) string {
	return pr.Tokenizer.Render(text, pr.Tokens(extra))
}

// ProcessFile generates one file with project and extra tokens.
func (pr *Processor) ProcessFile(path, outputPath string, extra tokenizer.Source) (string, error) {
	return pr.Tokenizer.ProcessFile(path, pr.Tokens(extra), outputPath)
}

// ProcessDirectory generates a directory tree with project and extra tokens.
func (pr *Processor) ProcessDirectory(srcDir, dstDir string, extra tokenizer.Source) (*tokenizer.Result, error) {
	return pr.Tokenizer.ProcessDirectory(srcDir, dstDir, pr.Tokens(extra))
}

// Replace renders text with tokens from p.
func Replace(text string, p *project.Project, config string, includeGlobal bool) string {
	return tokenizer.Render(text, ProjectTokens(p, config, includeGlobal))
}
