package match

import (
	"regexp"
	"strings"
)

const (
	sourcePrefix = "rust-"
	binaryPrefix = "librust-"
	binarySuffix = "-dev"
)

// a single-digit "major.minor" API version appended to a package name, e.g. the "2.3" in rust-nom-2.3. Any
// character separates the two digits, so "nom-2-3" qualifies as well.
var versionedSuffixPattern = regexp.MustCompile(`^\d.\d`)

// NormalizeName maps an upstream crate name onto Debian naming, which uses hyphens where crates may use underscores.
func NormalizeName(name string) string {
	return strings.ReplaceAll(name, "_", "-")
}

// CandidateName recovers the crate name embedded in a Debian package name: "rust-<crate>" for source packages and
// "librust-<crate>-dev" for binary packages. Names following neither convention yield no candidate.
func CandidateName(name string) (string, bool) {
	name = NormalizeName(name)
	switch {
	case strings.HasPrefix(name, binaryPrefix):
		name = strings.TrimSuffix(strings.TrimPrefix(name, binaryPrefix), binarySuffix)
	case strings.HasPrefix(name, sourcePrefix):
		name = strings.TrimPrefix(name, sourcePrefix)
	default:
		return "", false
	}
	return name, name != ""
}

// NameMatches reports whether a candidate name taken from a Debian package refers to the given (normalized) crate.
// Besides an exact match, a candidate of the form "<crate>-<major>.<minor>" matches too: Debian suffixes the
// package name with the API version when several semver-incompatible versions of a crate are packaged side by side.
func NameMatches(crate, candidate string) bool {
	if crate == "" {
		return false
	}
	if candidate == crate {
		return true
	}
	if len(candidate) <= len(crate)+1 || !strings.HasPrefix(candidate, crate) || candidate[len(crate)] != '-' {
		return false
	}
	return versionedSuffixPattern.MatchString(candidate[len(crate)+1:])
}
