package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func stderrPrintLnf(message string, args ...interface{}) error {
	if !strings.HasSuffix(message, "\n") {
		message += "\n"
	}
	_, err := fmt.Fprintf(os.Stderr, message, args...)
	return err
}

func bindFlag(flags *pflag.FlagSet, name string) {
	if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
		fmt.Printf("unable to bind flag '%s': %+v", name, err)
		os.Exit(1)
	}
}

// exitOnError reports a failed command on stderr and terminates with a non-zero status.
func exitOnError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	_ = stderrPrintLnf("%s: %+v", cmd.CommandPath(), err)
	os.Exit(1)
}
