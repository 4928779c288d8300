package common

import (
	"path"
	"regexp"
	"strings"
	"unicode"

	"github.com/stoewer/go-strcase"
)

// GeneratedMarker starts every file written by routegen. The snapshot loader
// uses it to recognize (and skip) previous output.
const GeneratedMarker = "// Code generated by routegen"

// GeneratedHeader is the first line of every generated unit.
func GeneratedHeader() string {
	return GeneratedMarker + ". DO NOT EDIT."
}

// UnitSuffix is the file name suffix of per-container units.
const UnitSuffix = "_endpoints.gen.go"

// AggregatorFile is the file name of the aggregator unit.
const AggregatorFile = "endpoints.gen.go"

// UnitFileName derives the per-container file name from the container name,
// e.g. "UserAdmin" -> "user_admin_endpoints.gen.go".
func UnitFileName(container string) string {
	return strcase.SnakeCase(container) + UnitSuffix
}

var (
	versionSuffix = regexp.MustCompile(`^v[0-9]+$`)
	gopkgSuffix   = regexp.MustCompile(`\.v[0-9]+$`)
)

// ImportName guesses the package name of an import path the way goimports
// does for unaliased imports: the last element, skipping a major version
// suffix and dropping common "go-" / "-go" decorations and ".vN" suffixes.
func ImportName(importPath string) string {
	elems := strings.Split(importPath, "/")
	name := elems[len(elems)-1]
	if versionSuffix.MatchString(name) && len(elems) > 1 {
		name = elems[len(elems)-2]
	}
	name = gopkgSuffix.ReplaceAllString(name, "")
	name = strings.TrimPrefix(name, "go-")
	name = strings.TrimSuffix(name, "-go")
	return SanitizeIdent(name)
}

// PackageName derives a valid package name from a module-relative directory.
func PackageName(dir string) string {
	base := path.Base(dir)
	if base == "." || base == "/" || base == "" {
		return "routes"
	}
	name := strings.ReplaceAll(strcase.SnakeCase(base), "_", "")
	name = SanitizeIdent(name)
	if name == "" {
		return "routes"
	}
	return name
}

// SanitizeIdent drops every rune that cannot appear in a Go identifier and
// prefixes a leading digit.
func SanitizeIdent(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out != "" && unicode.IsDigit(rune(out[0])) {
		out = "p" + out
	}
	return out
}
