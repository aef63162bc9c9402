package table

import (
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/debian-rust/deb-rust-sec/debrustsec/match"
	"github.com/debian-rust/deb-rust-sec/debrustsec/presenter/internal"
)

// Presenter renders matches as a table, one row per match
type Presenter struct {
	matches []match.Match
}

func NewPresenter(matches []match.Match) *Presenter {
	return &Presenter{
		matches: matches,
	}
}

func (p *Presenter) Present(output io.Writer) error {
	rows := getRows(p.matches)
	if len(rows) == 0 {
		_, err := io.WriteString(output, "No vulnerable packages found\n")
		return err
	}

	table := tablewriter.NewWriter(output)
	table.SetHeader([]string{"Source package", "Version", "Rust Advisory", "Other Id", "Bug in Debian"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetAutoFormatHeaders(true)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	table.AppendBulk(rows)
	table.Render()

	return nil
}

func getRows(matches []match.Match) [][]string {
	var rows [][]string
	for _, r := range internal.NewRows(matches) {
		// one alias per line, like the advisory itself lists them
		rows = append(rows, []string{r.Source, r.Version, r.AdvisoryID, strings.Join(r.Aliases, "\n"), r.TrackedInDebian})
	}
	return rows
}
