package pkg

import "fmt"

// Package is a Debian source package that ships at least one vendored Rust library binary package.
type Package struct {
	Source  string `json:"source"`  // the source package name (e.g. "rust-smallvec")
	Version string `json:"version"` // the full Debian version (e.g. "1.6.0-1")
}

func (p Package) String() string {
	return fmt.Sprintf("%s (%s)", p.Source, p.Version)
}
