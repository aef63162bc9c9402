package match

import (
	"fmt"

	"github.com/debian-rust/deb-rust-sec/debrustsec/advisory"
	"github.com/debian-rust/deb-rust-sec/debrustsec/pkg"
)

// Match pairs a Debian source package with an advisory that affects the crate version it embeds.
type Match struct {
	Package         pkg.Package
	Advisory        advisory.Advisory
	TrackedInDebian bool // the security tracker has a record for the source package (under any CVE)
}

func (m Match) String() string {
	return fmt.Sprintf("Match(pkg=%s advisory=%q tracked=%t)", m.Package, m.Advisory.ID, m.TrackedInDebian)
}
