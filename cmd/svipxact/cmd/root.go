package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "svipxact",
	Short: "SystemVerilog to IP-XACT component converter",
	Long: `Convert a SystemVerilog top-level module into an IP-XACT (IEEE 1685)
component document, recognizing standard on-chip bus interfaces (AMBA,
JEDEC DFI, user-defined) among the module's ports.

Examples:
  svipxact convert -i axi_master.sv -o axi_master.xml      # Convert with defaults
  svipxact convert -i dut.sv --revision 2009 --threshold 0.7
  svipxact catalog --library-dir library/                  # Inspect the bus library`,
	Version:       "0.9.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// newLogger builds the run's logger; --verbose raises it to debug level.
func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}
