package match

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/debian-rust/deb-rust-sec/debrustsec/advisory"
	"github.com/debian-rust/deb-rust-sec/debrustsec/pkg"
	"github.com/debian-rust/deb-rust-sec/debrustsec/version"
	"github.com/debian-rust/deb-rust-sec/internal/log"
)

// Tracker answers whether Debian already tracks security issues for a source package.
type Tracker interface {
	Tracks(source string) bool
}

// Skip reports whether an advisory is out of scope for the audit, and why. Advisories against the Rust toolchain
// itself are not about vendored libraries, and unmaintained-crate notices have no fixed version to upgrade to.
func Skip(a advisory.Advisory) (bool, string) {
	switch {
	case a.Collection == advisory.RustCollection:
		return true, "toolchain advisory"
	case a.Informational == advisory.Unmaintained:
		return true, "unmaintained notice"
	}
	return false, ""
}

// FindMatches pairs every in-scope advisory with every package that embeds an affected version of its crate.
// Results are ordered by advisory and then by package, in input order; nothing is deduplicated. A package whose
// version cannot be interpreted aborts the whole search.
func FindMatches(advisories []advisory.Advisory, packages []pkg.Package, tracker Tracker) ([]Match, error) {
	candidates := make([]string, len(packages))
	for i, p := range packages {
		candidates[i], _ = CandidateName(p.Source)
	}
	versions := make(map[int]*semver.Version)

	var matches []Match
	for _, a := range advisories {
		if skip, reason := Skip(a); skip {
			log.Debugf("skipping advisory %s for %s: %s", a.ID, a.Package, reason)
			continue
		}

		crate := NormalizeName(a.Package)
		for i, p := range packages {
			if !NameMatches(crate, candidates[i]) {
				continue
			}

			v, ok := versions[i]
			if !ok {
				var err error
				v, err = version.ParseDebian(p.Version)
				if err != nil {
					return nil, fmt.Errorf("unable to evaluate %s against %s: %w", p, a.ID, err)
				}
				versions[i] = v
			}

			if !a.Versions.Vulnerable(v) {
				log.Debugf("%s is not affected by %s (%s)", p, a.ID, a.Versions)
				continue
			}

			matches = append(matches, Match{
				Package:         p,
				Advisory:        a,
				TrackedInDebian: tracker.Tracks(p.Source),
			})
		}
	}
	return matches, nil
}
