package advisory

import (
	"sort"

	"github.com/scylladb/go-set/strset"

	"github.com/debian-rust/deb-rust-sec/debrustsec/version"
)

// Collection is the part of the advisory database an advisory was filed under.
type Collection string

const (
	// CratesCollection holds advisories for libraries published on crates.io.
	CratesCollection Collection = "crates"
	// RustCollection holds advisories for the Rust toolchain itself (compiler, std, cargo).
	RustCollection Collection = "rust"
)

// Informational classifies advisories that are not vulnerabilities.
type Informational string

const (
	Notice       Informational = "notice"
	Unmaintained Informational = "unmaintained"
	Unsound      Informational = "unsound"
)

// Advisory is a single disclosure against a named crate.
type Advisory struct {
	ID            string
	Package       string // the crate name as published upstream (may contain underscores)
	Aliases       *strset.Set
	Collection    Collection // empty when unknown
	Informational Informational
	Versions      version.Range
	Title         string
	URL           string // where the advisory is discussed upstream, often an issue tracker
}

// SortedAliases returns the alias identifiers (CVE, GHSA, ...) in a stable order.
func (a Advisory) SortedAliases() []string {
	if a.Aliases == nil {
		return nil
	}
	aliases := a.Aliases.List()
	sort.Strings(aliases)
	return aliases
}

// Provider supplies the advisory stream, in a stable order.
type Provider interface {
	Advisories() ([]Advisory, error)
}
