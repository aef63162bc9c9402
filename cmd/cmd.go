package cmd

import (
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/debian-rust/deb-rust-sec/debrustsec"
	"github.com/debian-rust/deb-rust-sec/internal/config"
	"github.com/debian-rust/deb-rust-sec/internal/log"
	"github.com/debian-rust/deb-rust-sec/internal/logger"
	"github.com/debian-rust/deb-rust-sec/internal/version"
)

var (
	appConfig *config.Application
	cliOpts   = config.CliOnlyOptions{}
)

func init() {
	cobra.OnInitialize(
		initAppConfig,
		initLogging,
		logAppConfig,
		logAppVersion,
	)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_ = stderrPrintLnf(err.Error())
		os.Exit(1)
	}
}

func initAppConfig() {
	cfg, err := config.LoadApplicationConfig(viper.GetViper(), cliOpts)
	if err != nil {
		fmt.Printf("failed to load application config: \n\t%+v\n", err)
		os.Exit(1)
	}
	appConfig = cfg
}

func initLogging() {
	cfg := logger.LogrusConfig{
		EnableConsole: (appConfig.Log.FileLocation == "" || appConfig.CliOptions.Verbosity > 0) && !appConfig.Quiet,
		EnableFile:    appConfig.Log.FileLocation != "",
		Level:         appConfig.Log.LevelOpt,
		Structured:    appConfig.Log.Structured,
		FileLocation:  appConfig.Log.FileLocation,
	}

	logWrapper := logger.NewLogrusLogger(cfg)

	debrustsec.SetLogger(logWrapper)
}

func logAppConfig() {
	log.Debugf("application config:\n%+v", color.Magenta.Sprint(appConfig.String()))
}

func logAppVersion() {
	versionInfo := version.FromBuild()
	if !versionInfo.Provided() {
		log.Debugf("%s version: development build", debrustsec.LibraryName)
	} else {
		log.Infof("%s version: %s", debrustsec.LibraryName, versionInfo.Version)
	}
	log.Debugf("  ├── gitCommit: %s", versionInfo.GitCommit)
	log.Debugf("  ├── buildDate: %s", versionInfo.BuildDate)
	log.Debugf("  └── platform: %s", versionInfo.Platform)
}
