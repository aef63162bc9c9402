package internal

import (
	"strconv"

	"github.com/debian-rust/deb-rust-sec/debrustsec/match"
)

// Row is the flattened form of a match shared by every presenter.
type Row struct {
	Source          string
	Version         string
	AdvisoryID      string
	Aliases         []string
	TrackedInDebian string
	Title           string
	URL             string
}

func NewRow(m match.Match) Row {
	return Row{
		Source:          m.Package.Source,
		Version:         m.Package.Version,
		AdvisoryID:      m.Advisory.ID,
		Aliases:         m.Advisory.SortedAliases(),
		TrackedInDebian: strconv.FormatBool(m.TrackedInDebian),
		Title:           m.Advisory.Title,
		URL:             m.Advisory.URL,
	}
}

func NewRows(matches []match.Match) []Row {
	rows := make([]Row, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, NewRow(m))
	}
	return rows
}
