package solution

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/willibrandon/goclide/project"
)

var (
	formatVersionPattern = regexp.MustCompile(`(\d+(?:\.\d+)*)\s*$`)
	productLinePattern   = regexp.MustCompile(`^#\s*(.*?)\s+(\d+)\s*$`)
	quotedFieldPattern   = regexp.MustCompile(`"([^"]*)"`)
	sectionNamePattern   = regexp.MustCompile(`^GlobalSection\(([^)]*)\)`)
)

// Load reads the solution file at path. A missing file yields a blank
// solution carrying the path; use Exists to tell the cases apart.
func Load(path string) (*Solution, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		s := New()
		s.Path = path
		return s, nil
	}
	if err != nil {
		return nil, &ParseError{
			FilePath: path,
			Message:  fmt.Sprintf("cannot open file: %v", err),
		}
	}
	defer file.Close()

	s, err := Parse(file)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.FilePath = path
		}
		return nil, err
	}
	s.Path = path
	return s, nil
}

// Parse reads solution text. Header values missing from the text keep the
// defaults of New.
func Parse(r io.Reader) (*Solution, error) {
	s := New()
	s.ByteOrderMark = false
	s.LineEnding = "\n"

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	scanner.Split(scanRawLines)

	lineNum := 0
	currentProject := -1
	currentSection := -1

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if lineNum == 1 && strings.HasPrefix(line, "\ufeff") {
			line = strings.TrimPrefix(line, "\ufeff")
			s.ByteOrderMark = true
		}
		if strings.HasSuffix(line, "\r") {
			line = strings.TrimSuffix(line, "\r")
			s.LineEnding = "\r\n"
		}
		trimmed := strings.TrimSpace(line)

		switch {
		case currentProject >= 0:
			if trimmed == "EndProject" {
				currentProject = -1
				continue
			}
			s.Projects[currentProject].Body = append(s.Projects[currentProject].Body, line)

		case currentSection >= 0:
			if trimmed == "EndGlobalSection" || trimmed == "EndGlobal" {
				currentSection = -1
				continue
			}
			if trimmed == "" {
				continue
			}
			sec := &s.Sections[currentSection]
			body := stripBodyIndent(line)
			if sec.Text == "" {
				sec.Text = body
			} else {
				sec.Text += "\n" + body
			}

		case strings.HasPrefix(line, "Microsoft Visual Studio Solution File"):
			if m := formatVersionPattern.FindStringSubmatch(line); m != nil {
				s.FormatVersion = m[1]
			}

		case strings.HasPrefix(line, "# Visual Studio"):
			if m := productLinePattern.FindStringSubmatch(line); m != nil {
				s.Product = m[1]
				s.VisualStudioVersion = m[2]
			} else {
				s.Product = strings.TrimSpace(strings.TrimPrefix(line, "#"))
				s.VisualStudioVersion = ""
			}

		case strings.HasPrefix(line, "VisualStudioVersion"):
			s.FullVisualStudioVersion = headerValue(line)

		case strings.HasPrefix(line, "MinimumVisualStudioVersion"):
			s.MinimumVisualStudioVersion = headerValue(line)

		case strings.HasPrefix(line, "Project("):
			entry, ok := ParseProjectLine(line)
			if !ok {
				continue
			}
			s.Projects = append(s.Projects, entry)
			currentProject = len(s.Projects) - 1

		case strings.HasPrefix(trimmed, "GlobalSection("):
			s.Sections = append(s.Sections, ParseSectionLine(trimmed))
			currentSection = len(s.Sections) - 1
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, &ParseError{
			Line:    lineNum,
			Message: fmt.Sprintf("error reading file: %v", err),
		}
	}

	return s, nil
}

// ParseProjectLine parses
//
//	Project("{TYPE-GUID}") = "Name", "Path\To\Name.csproj", "{GUID}"
//
// by taking the first four quoted fields in order. Lines with fewer fields
// or invalid GUIDs report ok == false.
func ParseProjectLine(line string) (Project, bool) {
	fields := quotedFieldPattern.FindAllStringSubmatch(line, -1)
	if len(fields) < 4 {
		return Project{}, false
	}

	typeID, ok := project.ParseGUID(fields[0][1])
	if !ok {
		return Project{}, false
	}
	id, ok := project.ParseGUID(fields[3][1])
	if !ok {
		return Project{}, false
	}

	return Project{
		TypeID: typeID,
		Name:   fields[1][1],
		Path:   fields[2][1],
		ID:     id,
	}, true
}

// ParseSectionLine parses "GlobalSection(Name) = preSolution". Any phase
// other than preSolution is treated as postSolution.
func ParseSectionLine(line string) Section {
	line = strings.TrimSpace(line)
	sec := Section{PreSolution: strings.Contains(line, "= preSolution")}
	if m := sectionNamePattern.FindStringSubmatch(line); m != nil {
		sec.Name = m[1]
	}
	return sec
}

// stripBodyIndent removes the indentation section bodies are written with.
func stripBodyIndent(line string) string {
	if strings.HasPrefix(line, "\t\t") {
		return line[2:]
	}
	return strings.TrimPrefix(line, "\t")
}

// scanRawLines splits on '\n' only, leaving any '\r' on the line so Parse
// can record the file's line ending.
func scanRawLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func headerValue(line string) string {
	_, value, _ := strings.Cut(line, "=")
	return strings.TrimSpace(value)
}
