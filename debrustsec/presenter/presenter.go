package presenter

import (
	"io"

	"github.com/debian-rust/deb-rust-sec/debrustsec/match"
	"github.com/debian-rust/deb-rust-sec/debrustsec/presenter/table"
	"github.com/debian-rust/deb-rust-sec/debrustsec/presenter/text"
)

// Presenter is the main interface other Presenters need to implement
type Presenter interface {
	Present(io.Writer) error
}

// GetPresenter retrieves a Presenter that matches a CLI option
func GetPresenter(option Option, matches []match.Match) Presenter {
	switch option {
	case TablePresenter:
		return table.NewPresenter(matches)
	case TextPresenter:
		return text.NewPresenter(matches)
	default:
		return nil
	}
}
