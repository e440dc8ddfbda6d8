package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Verbosity levels
type Verbosity int

const (
	// VerbosityQuiet shows results and errors only
	VerbosityQuiet Verbosity = iota
	// VerbosityNormal adds confirmations and warnings (default)
	VerbosityNormal
	// VerbosityDetailed adds every generated and skipped path
	VerbosityDetailed
	// VerbosityDiagnostic adds debug messages
	VerbosityDiagnostic
)

var verbosityNames = map[string]Verbosity{
	"quiet":      VerbosityQuiet,
	"minimal":    VerbosityQuiet,
	"normal":     VerbosityNormal,
	"detailed":   VerbosityDetailed,
	"diagnostic": VerbosityDiagnostic,
}

// ParseVerbosity maps a --verbosity value to a level. Empty means normal.
func ParseVerbosity(name string) (Verbosity, error) {
	if name == "" {
		return VerbosityNormal, nil
	}
	v, ok := verbosityNames[strings.ToLower(name)]
	if !ok {
		return VerbosityNormal, fmt.Errorf("unknown verbosity %q", name)
	}
	return v, nil
}

// Console serializes writes to the command's output streams.
type Console struct {
	out       io.Writer
	err       io.Writer
	verbosity Verbosity
	mu        sync.Mutex
	colors    bool
}

// NewConsole creates a console. Colors are only used when stdout is a
// terminal, so buffers in tests always receive plain text.
func NewConsole(out, err io.Writer, verbosity Verbosity) *Console {
	c := &Console{
		out:       out,
		err:       err,
		verbosity: verbosity,
		colors:    out == io.Writer(os.Stdout) && IsColorEnabled(),
	}
	if !c.colors {
		DisableColors()
	}
	return c
}

// DefaultConsole creates a console with stdout/stderr and normal verbosity
func DefaultConsole() *Console {
	return NewConsole(os.Stdout, os.Stderr, VerbosityNormal)
}

// Out returns the result stream.
func (c *Console) Out() io.Writer { return c.out }

// Err returns the diagnostic stream.
func (c *Console) Err() io.Writer { return c.err }

// SetVerbosity sets the verbosity level
func (c *Console) SetVerbosity(v Verbosity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.verbosity = v
}

// GetVerbosity returns the current verbosity level
func (c *Console) GetVerbosity() Verbosity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.verbosity
}

// SetColors enables or disables color output
func (c *Console) SetColors(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.colors = enabled
	if enabled {
		EnableColors()
	} else {
		DisableColors()
	}
}

// Print writes to output
func (c *Console) Print(a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprint(c.out, a...)
}

// Println writes line to output
func (c *Console) Println(a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.out, a...)
}

// Printf writes formatted output
func (c *Console) Printf(format string, a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.out, format, a...)
}

// Success writes a confirmation (green). Quiet suppresses it.
func (c *Console) Success(format string, a ...any) {
	c.colored(VerbosityNormal, ColorSuccess, c.out, format, a...)
}

// Error writes an error message (red) to the error stream.
func (c *Console) Error(format string, a ...any) {
	c.colored(VerbosityQuiet, ColorError, c.err, "Error: "+format, a...)
}

// Warning writes a warning message (yellow)
func (c *Console) Warning(format string, a ...any) {
	c.colored(VerbosityNormal, ColorWarning, c.out, "Warning: "+format, a...)
}

// Info writes info message (cyan)
func (c *Console) Info(format string, a ...any) {
	c.colored(VerbosityNormal, ColorInfo, c.out, format, a...)
}

// Debug writes debug message (white)
func (c *Console) Debug(format string, a ...any) {
	c.colored(VerbosityDiagnostic, ColorDebug, c.out, "[DEBUG] "+format, a...)
}

// Detail writes detailed message
func (c *Console) Detail(format string, a ...any) {
	if c.GetVerbosity() < VerbosityDetailed {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.out, format+"\n", a...)
}

func (c *Console) colored(min Verbosity, col *color.Color, w io.Writer, format string, a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.verbosity < min {
		return
	}
	if c.colors {
		_, _ = col.Fprintf(w, format+"\n", a...)
		return
	}
	_, _ = fmt.Fprintf(w, format+"\n", a...)
}
