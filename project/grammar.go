package project

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// DefaultPlatform is the platform given to configurations added by name only.
const DefaultPlatform = "AnyCPU"

// Matches the tail of " '$(Configuration)|$(Platform)' == 'Debug|AnyCPU' ".
// Neither part may contain a quote, and the name may not contain a pipe.
var conditionPattern = regexp.MustCompile(`==\s*'([^|']+)\|([^']+)'`)

// ParseConfigurationCondition extracts the configuration name and platform
// from a PropertyGroup Condition attribute. Conditions of any other shape
// report ok == false.
func ParseConfigurationCondition(condition string) (name, platform string, ok bool) {
	m := conditionPattern.FindStringSubmatch(condition)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// FormatConfigurationCondition renders the Condition attribute for a named
// configuration.
func FormatConfigurationCondition(name, platform string) string {
	return fmt.Sprintf(" '$(Configuration)|$(Platform)' == '%s|%s' ", name, platform)
}

// NormalizePath replaces every forward slash with a backslash. Project and
// solution files always use backslashes regardless of the host OS.
func NormalizePath(path string) string {
	return strings.ReplaceAll(path, "/", `\`)
}

// ParseGUID parses a GUID with or without surrounding braces.
func ParseGUID(s string) (uuid.UUID, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "{")
	s = strings.TrimSuffix(s, "}")
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// FormatGUID renders a GUID the way MSBuild writes it: uppercase in braces.
func FormatGUID(id uuid.UUID) string {
	return "{" + strings.ToUpper(id.String()) + "}"
}

// TargetFrameworkVersionFromString expands shorthand framework versions:
// "2", "20", "v20" and "2.0" all become "v2.0", "35" becomes "v3.5".
func TargetFrameworkVersionFromString(version string) string {
	v := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(version), "v"), "V")
	if v == "" {
		return ""
	}
	if strings.Contains(v, ".") {
		return "v" + v
	}
	if len(v) == 1 {
		return "v" + v + ".0"
	}
	return "v" + v[:1] + "." + v[1:]
}
