package internal

import (
	"github.com/scylladb/go-set/strset"

	"github.com/debian-rust/deb-rust-sec/debrustsec/advisory"
	"github.com/debian-rust/deb-rust-sec/debrustsec/match"
	"github.com/debian-rust/deb-rust-sec/debrustsec/pkg"
	"github.com/debian-rust/deb-rust-sec/debrustsec/version"
)

// GenerateMatches returns a fixed set of matches for presenter tests.
func GenerateMatches() []match.Match {
	return []match.Match{
		{
			Package: pkg.Package{Source: "rust-smallvec", Version: "1.6.0-1"},
			Advisory: advisory.Advisory{
				ID:         "RUSTSEC-2021-0003",
				Package:    "smallvec",
				Aliases:    strset.New("GHSA-43w2-9j62-hq99", "CVE-2021-25900"),
				Collection: advisory.CratesCollection,
				Versions:   version.MustRange([]string{">= 1.6.1"}, nil),
				Title:      "Buffer overflow in SmallVec::insert_many",
				URL:        "https://github.com/servo/rust-smallvec/issues/252",
			},
			TrackedInDebian: true,
		},
		{
			Package: pkg.Package{Source: "rust-tokio-1.2", Version: "1.2.0-1"},
			Advisory: advisory.Advisory{
				ID:         "RUSTSEC-2021-0124",
				Package:    "tokio",
				Aliases:    strset.New(),
				Collection: advisory.CratesCollection,
				Versions:   version.MustRange([]string{">= 1.13.1"}, nil),
				Title:      "Data race when sending and receiving after closing a `oneshot` channel",
			},
		},
	}
}
