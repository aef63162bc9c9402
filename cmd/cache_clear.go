package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/debian-rust/deb-rust-sec/internal/log"
)

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "delete every cached entry and the advisory database checkout",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exitOnError(cmd, runCacheClearCmd())
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
}

func runCacheClearCmd() error {
	store, err := openCache()
	if err != nil {
		return err
	}

	log.Infof("clearing cache dir=%q", store.Dir())
	if err := store.Clear(); err != nil {
		return err
	}

	fmt.Println("Cache cleared")
	return nil
}
