package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	deb "github.com/knqyf263/go-deb-version"
)

// Upstream returns the upstream part of a Debian version: everything before the first hyphen. Debian revisions
// (e.g. the "-1" in "1.6.0-1") are discarded.
func Upstream(debianVersion string) string {
	return strings.SplitN(debianVersion, "-", 2)[0]
}

// ParseDebian validates the given Debian version and interprets its upstream part as a semantic version.
func ParseDebian(raw string) (*semver.Version, error) {
	if _, err := deb.NewVersion(raw); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}

	upstream := Upstream(raw)
	v, err := semver.StrictNewVersion(upstream)
	if err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}
	return v, nil
}
