package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/debian-rust/deb-rust-sec/debrustsec/cache"
)

var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "show what is cached and how old each entry is",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exitOnError(cmd, runCacheShowCmd())
	},
}

func init() {
	cacheCmd.AddCommand(cacheShowCmd)
}

func runCacheShowCmd() error {
	store, err := openCache()
	if err != nil {
		return err
	}
	return showCache(os.Stdout, store)
}

func showCache(out io.Writer, store *cache.Store) error {
	keys, err := store.Keys()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Cache directory: %s\n", store.Dir())
	if len(keys) == 0 {
		fmt.Fprintln(out, "No cached entries")
		return nil
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Entry", "Captured"})
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

	now := time.Now()
	for _, key := range keys {
		captured := "unreadable"
		if age, ok := store.Age(key); ok {
			captured = humanize.RelTime(now.Add(-age), now, "ago", "from now")
		}
		table.Append([]string{key, captured})
	}

	table.Render()
	return nil
}
