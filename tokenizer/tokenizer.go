// Package tokenizer replaces delimited tokens such as $Name$ in text, file
// names and whole directory trees.
//
// Tokens are applied one key at a time in the order their Source returns them.
// Each replacement is global, so a key whose delimited form appears inside a
// longer unresolved token can change that token before its own key is applied.
// Map and ObjectMap sources sort keys to keep the result repeatable.
package tokenizer

import (
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/willibrandon/goclide/observability"
)

// Defaults for a new Tokenizer.
const (
	DefaultLeftDelimiter    = "$"
	DefaultRightDelimiter   = "$"
	DefaultProcessExtension = "pp"
)

// Tokenizer renders tokens into text and generates files from templates.
// Use New for the default settings; the zero value matches case-sensitively
// and has no delimiters.
type Tokenizer struct {
	LeftDelimiter  string
	RightDelimiter string

	// CaseInsensitive matches keys ignoring case. The casing found in the
	// text is what gets replaced.
	CaseInsensitive bool

	// WorkingDirectory is where ProcessFile writes when no output path is
	// given. Empty means the process working directory.
	WorkingDirectory string

	// ProcessExtension marks files whose content and name are rendered. The
	// extension is dropped from the output name. Other files are copied.
	// Empty means every file is rendered.
	ProcessExtension string

	// SkipIfMissingTokens leaves out files and directories whose rendered
	// name still holds a token.
	SkipIfMissingTokens bool

	// Exclude reports whether a source file must not be generated.
	Exclude func(path string) bool

	Logger observability.Logger
}

// New returns a Tokenizer with $ delimiters, case-insensitive matching, the
// pp process extension and missing-token skipping enabled.
func New() *Tokenizer {
	return &Tokenizer{
		LeftDelimiter:       DefaultLeftDelimiter,
		RightDelimiter:      DefaultRightDelimiter,
		CaseInsensitive:     true,
		ProcessExtension:    DefaultProcessExtension,
		SkipIfMissingTokens: true,
	}
}

// Render returns text with every token from src replaced. Unknown tokens are
// left as they are.
func (t *Tokenizer) Render(text string, src Source) string {
	if src == nil {
		return text
	}
	for _, tok := range src.Tokens() {
		text = t.replace(text, t.LeftDelimiter+tok.Key+t.RightDelimiter, tok.Value)
	}
	return text
}

// Render replaces tokens using a default Tokenizer.
func Render(text string, src Source) string {
	return New().Render(text, src)
}

// replace substitutes every occurrence of key. After each pass the text is
// searched again from the start, so text formed by a replacement can match too.
func (t *Tokenizer) replace(text, key, value string) string {
	if text == "" || key == "" {
		return text
	}
	index, end := t.index(text, key)
	if index < 0 {
		return text
	}
	if i, _ := t.index(value, key); i >= 0 {
		// the value would match forever; replace what is there once
		return t.replaceOnce(text, key, value)
	}
	for index >= 0 {
		text = strings.ReplaceAll(text, text[index:end], value)
		index, end = t.index(text, key)
	}
	return text
}

func (t *Tokenizer) replaceOnce(text, key, value string) string {
	var b strings.Builder
	for {
		i, end := t.index(text, key)
		if i < 0 {
			b.WriteString(text)
			return b.String()
		}
		b.WriteString(text[:i])
		b.WriteString(value)
		text = text[end:]
	}
}

// index returns the byte span of the first match of substr in s, or -1, -1.
func (t *Tokenizer) index(s, substr string) (int, int) {
	if !t.CaseInsensitive {
		i := strings.Index(s, substr)
		if i < 0 {
			return -1, -1
		}
		return i, i + len(substr)
	}
	return indexFold(s, substr)
}

// indexFold is strings.Index under Unicode case folding. The match can differ
// in byte length from substr, as with the Kelvin sign and k.
func indexFold(s, substr string) (int, int) {
	if substr == "" {
		return 0, 0
	}
	for i := 0; i < len(s); {
		if n := prefixFold(s[i:], substr); n >= 0 {
			return i, i + n
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return -1, -1
}

// prefixFold returns how many bytes of s match prefix under case folding,
// or -1.
func prefixFold(s, prefix string) int {
	n := 0
	for prefix != "" {
		if s == "" {
			return -1
		}
		r1, size1 := utf8.DecodeRuneInString(s)
		r2, size2 := utf8.DecodeRuneInString(prefix)
		if r1 != r2 && !strings.EqualFold(string(r1), string(r2)) {
			return -1
		}
		s, prefix = s[size1:], prefix[size2:]
		n += size1
	}
	return n
}

// HasUnresolvedToken reports whether s still holds a delimited token: a
// non-empty run between the delimiters with no spaces or path separators.
func (t *Tokenizer) HasUnresolvedToken(s string) bool {
	left, right := t.LeftDelimiter, t.RightDelimiter
	if left == "" || right == "" {
		return false
	}
	for {
		i := strings.Index(s, left)
		if i < 0 {
			return false
		}
		s = s[i+len(left):]
		j := strings.Index(s, right)
		if j < 0 {
			return false
		}
		if j > 0 && !strings.ContainsFunc(s[:j], isTokenBreak) {
			return true
		}
		// the closing delimiter may open the next token
		s = s[j:]
	}
}

func isTokenBreak(r rune) bool {
	return unicode.IsSpace(r) || r == '/' || r == '\\'
}

func (t *Tokenizer) workingDirectory() (string, error) {
	if t.WorkingDirectory != "" {
		return t.WorkingDirectory, nil
	}
	return os.Getwd()
}

func (t *Tokenizer) logger() observability.Logger {
	return observability.OrNull(t.Logger)
}
