package text

import (
	"fmt"
	"io"
	"strings"

	"github.com/debian-rust/deb-rust-sec/debrustsec/match"
	"github.com/debian-rust/deb-rust-sec/debrustsec/presenter/internal"
)

// Presenter writes one line per match, suitable for grep and friends
type Presenter struct {
	matches []match.Match
}

func NewPresenter(matches []match.Match) *Presenter {
	return &Presenter{
		matches: matches,
	}
}

func (p *Presenter) Present(output io.Writer) error {
	for _, r := range internal.NewRows(p.matches) {
		fields := []string{r.Source, r.Version, r.AdvisoryID, orDash(strings.Join(r.Aliases, ",")), r.TrackedInDebian, orDash(r.URL)}
		// the title may contain spaces, so it goes last
		if r.Title != "" {
			fields = append(fields, r.Title)
		}
		if _, err := fmt.Fprintln(output, strings.Join(fields, " ")); err != nil {
			return err
		}
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
