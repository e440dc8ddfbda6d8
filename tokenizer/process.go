package tokenizer

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/willibrandon/goclide/observability"
)

// ErrSourceNotFound is returned when the file or directory to process does not exist.
var ErrSourceNotFound = errors.New("source not found")

// Skip reasons recorded in Result.Skipped.
const (
	SkipExcluded      = "excluded"
	SkipMissingTokens = "missing_tokens"
	SkipEmptyName     = "empty_name"
)

// SkippedPath is a source path left out of a generation.
type SkippedPath struct {
	Source string
	Target string
	Reason string
}

// Result lists what ProcessDirectory wrote.
type Result struct {
	Directories []string
	Files       []string
	Skipped     []SkippedPath
}

// Processes reports whether path carries the process extension. A file
// named only by the extension, such as ".pp", is copied.
func (t *Tokenizer) Processes(path string) bool {
	if t.ProcessExtension == "" {
		return true
	}
	base := filepath.Base(path)
	ext := "." + t.ProcessExtension
	return len(base) > len(ext) && hasSuffixFold(base, ext)
}

// OutputName returns the name a source file is generated under: processed
// files lose the extension and have tokens rendered, others keep their name.
func (t *Tokenizer) OutputName(name string, src Source) string {
	if !t.Processes(name) {
		return name
	}
	if t.ProcessExtension != "" {
		name = name[:len(name)-len(t.ProcessExtension)-1]
	}
	return t.Render(name, src)
}

// ProcessFile generates one file from path and returns the path written.
//
// With an empty outputPath the file goes to the working directory. An
// outputPath naming an existing directory receives the file under its own
// name. Processed files have their output name and content rendered; other
// files are copied byte for byte.
func (t *Tokenizer) ProcessFile(path string, src Source, outputPath string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}

	if outputPath == "" {
		wd, err := t.workingDirectory()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		outputPath = filepath.Join(wd, filepath.Base(path))
	} else if st, err := os.Stat(outputPath); err == nil && st.IsDir() {
		outputPath = filepath.Join(outputPath, filepath.Base(path))
	}

	if t.Processes(path) {
		name := t.OutputName(filepath.Base(outputPath), src)
		if name == "" {
			return "", fmt.Errorf("output name of %s is empty", path)
		}
		outputPath = filepath.Join(filepath.Dir(outputPath), name)
	}
	if err := t.writeFile(path, outputPath, info.Mode().Perm(), src); err != nil {
		return "", err
	}
	return outputPath, nil
}

// ProcessDirectory mirrors the tree under srcDir into dstDir. Directory names
// are rendered, empty directories included. Files follow the ProcessFile
// rules. Files matched by Exclude, and names left with a token when
// SkipIfMissingTokens is set, are recorded as skipped. A failure partway
// leaves whatever was already written.
func (t *Tokenizer) ProcessDirectory(srcDir, dstDir string, src Source) (*Result, error) {
	info, err := os.Stat(srcDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, srcDir)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", srcDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", srcDir)
	}
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dstDir, err)
	}

	log := t.logger().ForContext("Template", srcDir)
	result := &Result{}
	// source directory -> generated directory
	targets := map[string]string{srcDir: dstDir}

	skip := func(source, target, reason string) {
		result.Skipped = append(result.Skipped, SkippedPath{Source: source, Target: target, Reason: reason})
		observability.PathsSkippedTotal.WithLabelValues(reason).Inc()
		log.Debug("Skipped {Path} ({Reason})", source, reason)
	}

	err = filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == srcDir {
			return nil
		}
		parent, ok := targets[filepath.Dir(path)]
		if !ok {
			return nil
		}

		if d.IsDir() {
			target := filepath.Join(parent, t.Render(d.Name(), src))
			if t.SkipIfMissingTokens && t.HasUnresolvedToken(filepath.Base(target)) {
				skip(path, target, SkipMissingTokens)
				return fs.SkipDir
			}
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create %s: %w", target, err)
			}
			targets[path] = target
			result.Directories = append(result.Directories, target)
			log.Debug("Created {Directory}", target)
			return nil
		}

		if t.Exclude != nil && t.Exclude(path) {
			skip(path, "", SkipExcluded)
			return nil
		}
		name := t.OutputName(d.Name(), src)
		if name == "" {
			skip(path, "", SkipEmptyName)
			return nil
		}
		target := filepath.Join(parent, name)
		if t.SkipIfMissingTokens && t.HasUnresolvedToken(name) {
			skip(path, target, SkipMissingTokens)
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if err := t.writeFile(path, target, fi.Mode().Perm(), src); err != nil {
			return err
		}
		result.Files = append(result.Files, target)
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("failed to process %s: %w", srcDir, err)
	}
	return result, nil
}

// writeFile renders or copies source into target.
func (t *Tokenizer) writeFile(source, target string, perm fs.FileMode, src Source) error {
	if t.Processes(source) {
		data, err := os.ReadFile(source)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", source, err)
		}
		if err := os.WriteFile(target, []byte(t.Render(string(data), src)), perm); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
		observability.FilesGeneratedTotal.WithLabelValues("processed").Inc()
		t.logger().Debug("Generated {Path} from {Source}", target, source)
		return nil
	}
	if err := copyFile(source, target, perm); err != nil {
		return err
	}
	observability.FilesGeneratedTotal.WithLabelValues("copied").Inc()
	t.logger().Debug("Copied {Source} to {Path}", source, target)
	return nil
}

func copyFile(source, target string, perm fs.FileMode) (err error) {
	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", source, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", target, cerr)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s: %w", source, err)
	}
	return nil
}

func hasSuffixFold(s, suffix string) bool {
	return len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix)
}
