package presenter

import "strings"

const (
	UnknownPresenter Option = iota
	TablePresenter
	TextPresenter
)

var optionStr = []string{
	"UnknownPresenter",
	"table",
	"text",
}

var Options = []Option{
	TablePresenter,
	TextPresenter,
}

type Option int

func ParseOption(userStr string) Option {
	switch strings.ToLower(userStr) {
	case "", strings.ToLower(TablePresenter.String()):
		return TablePresenter
	case strings.ToLower(TextPresenter.String()):
		return TextPresenter
	default:
		return UnknownPresenter
	}
}

func (o Option) String() string {
	if int(o) >= len(optionStr) || o < 0 {
		return optionStr[0]
	}

	return optionStr[o]
}
