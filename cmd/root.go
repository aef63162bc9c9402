package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/debian-rust/deb-rust-sec/debrustsec"
	"github.com/debian-rust/deb-rust-sec/debrustsec/advisory"
	"github.com/debian-rust/deb-rust-sec/debrustsec/cache"
	"github.com/debian-rust/deb-rust-sec/debrustsec/presenter"
	"github.com/debian-rust/deb-rust-sec/debrustsec/tracker"
	"github.com/debian-rust/deb-rust-sec/debrustsec/udd"
	"github.com/debian-rust/deb-rust-sec/internal"
	"github.com/debian-rust/deb-rust-sec/internal/file"
	"github.com/debian-rust/deb-rust-sec/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   fmt.Sprintf("%s [RELEASE]", internal.ApplicationName),
	Short: "Find Debian source packages that embed Rust crates with known security advisories",
	Long: fmt.Sprintf(`Cross-references the RustSec advisory database with the Rust library packages of a Debian
release and reports every package whose version is affected, along with whether the Debian security
tracker already knows about the package.

    %[1]s                 audit %[2]s
    %[1]s bookworm        audit the given release codename
    %[1]s -o text sid     print one match per line
`, internal.ApplicationName, internal.DefaultRelease),
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		exitOnError(cmd, runDefaultCmd(args))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cliOpts.ConfigPath, "config", "c", "", "application config file")
	rootCmd.PersistentFlags().CountVarP(&cliOpts.Verbosity, "verbose", "v", "increase verbosity (-v = info, -vv = debug, -vvv = trace)")

	flags := rootCmd.Flags()

	flags.StringP(
		"output", "o", presenter.TablePresenter.String(),
		fmt.Sprintf("report output formatter, options=%v", presenter.Options),
	)
	bindFlag(flags, "output")

	flags.StringP(
		"file", "", "",
		"file to write the report output to (default is STDOUT)",
	)
	bindFlag(flags, "file")

	flags.BoolP(
		"quiet", "q", false,
		"suppress all logging output",
	)
	bindFlag(flags, "quiet")
}

func runDefaultCmd(args []string) error {
	release := internal.DefaultRelease
	if len(args) > 0 {
		release = args[0]
	}

	fs := afero.NewOsFs()
	store, err := cache.NewStore(fs, appConfig.Cache.Dir)
	if err != nil {
		return err
	}

	conn := udd.NewConnection(appConfig.Sources.UDDDSN)
	defer log.CloseAndLogError(conn, "udd connection")

	sources := debrustsec.Sources{
		Packages: udd.NewProvider(conn, store, appConfig.Cache.PackagesTTL),
		Tracker:  tracker.NewProvider(appConfig.Sources.TrackerURL, store, appConfig.Cache.TrackerTTL),
		Advisories: advisory.NewRepository(advisory.RepositoryConfig{
			URL: appConfig.Sources.AdvisoryDBURL,
			Dir: appConfig.Sources.AdvisoryDBDir,
			TTL: appConfig.Cache.AdvisoryDBTTL,
		}, store),
	}

	log.Infof("auditing release=%q", release)
	matches, err := debrustsec.Audit(sources, release)
	if err != nil {
		return fmt.Errorf("failed to audit release=%q: %w", release, err)
	}

	writer, closer, err := file.GetWriter(fs, os.Stdout, appConfig.File)
	if err != nil {
		return err
	}
	defer func() {
		if err := closer(); err != nil {
			log.Warnf("unable to close report file=%q: %+v", appConfig.File, err)
		}
	}()

	return presenter.GetPresenter(appConfig.PresenterOpt, matches).Present(writer)
}
