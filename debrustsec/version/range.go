package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Range describes which versions of a crate an advisory applies to, in terms of the cargo version requirements
// that are NOT affected. A version is vulnerable unless it satisfies at least one patched or unaffected requirement.
type Range struct {
	Patched    []string
	Unaffected []string

	patched    []*semver.Constraints
	unaffected []*semver.Constraints
}

func NewRange(patched, unaffected []string) (Range, error) {
	r := Range{
		Patched:    patched,
		Unaffected: unaffected,
	}

	var err error
	if r.patched, err = parseRequirements(patched); err != nil {
		return Range{}, err
	}
	if r.unaffected, err = parseRequirements(unaffected); err != nil {
		return Range{}, err
	}
	return r, nil
}

// MustRange is meant for testing only, do not use within the library
func MustRange(patched, unaffected []string) Range {
	r, err := NewRange(patched, unaffected)
	if err != nil {
		panic(err)
	}
	return r
}

// Vulnerable reports whether v falls outside every patched and unaffected requirement.
func (r Range) Vulnerable(v *semver.Version) bool {
	for _, c := range r.patched {
		if c.Check(v) {
			return false
		}
	}
	for _, c := range r.unaffected {
		if c.Check(v) {
			return false
		}
	}
	return true
}

func (r Range) String() string {
	var parts []string
	if len(r.Patched) > 0 {
		parts = append(parts, fmt.Sprintf("patched: %s", strings.Join(r.Patched, " | ")))
	}
	if len(r.Unaffected) > 0 {
		parts = append(parts, fmt.Sprintf("unaffected: %s", strings.Join(r.Unaffected, " | ")))
	}
	if len(parts) == 0 {
		return "all versions"
	}
	return strings.Join(parts, "; ")
}

func parseRequirements(reqs []string) ([]*semver.Constraints, error) {
	var constraints []*semver.Constraints
	for _, req := range reqs {
		c, err := semver.NewConstraint(cargoRequirement(req))
		if err != nil {
			return nil, &ParseError{Raw: req, Err: err}
		}
		constraints = append(constraints, c)
	}
	return constraints, nil
}

// cargoRequirement rewrites a cargo version requirement into the constraint syntax understood by semver. The
// only difference that matters is that cargo treats a bare version as a caret requirement, while semver treats
// it as an exact match.
func cargoRequirement(req string) string {
	comparators := strings.Split(req, ",")
	for i, c := range comparators {
		c = strings.TrimSpace(c)
		if c != "" && c[0] >= '0' && c[0] <= '9' {
			c = "^" + c
		}
		comparators[i] = c
	}
	return strings.Join(comparators, ", ")
}
