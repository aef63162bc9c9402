package cmd

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/debian-rust/deb-rust-sec/debrustsec/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "operate on the local cache of packages, tracker data and advisories",
}

func init() {
	rootCmd.AddCommand(cacheCmd)
}

func openCache() (*cache.Store, error) {
	return cache.NewStore(afero.NewOsFs(), appConfig.Cache.Dir)
}
