package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/busmap/sv2ipxact/pkg/libindex"
	"github.com/busmap/sv2ipxact/pkg/runlog"
)

var (
	catalogLibraryDir string
	catalogCachePath  string
	catalogRebuild    bool
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the bus/abstraction definition library",
	Long: `Load the IP-XACT bus library (from cache if fresh) and list every
bus/abstraction definition pair the matcher would score against.

Examples:
  svipxact catalog --library-dir library
  svipxact catalog --library-dir library --rebuild -v`,
	RunE: runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)

	catalogCmd.Flags().StringVarP(&catalogLibraryDir, "library-dir", "l", "library",
		"root directory of IP-XACT bus/abstraction definitions")
	catalogCmd.Flags().StringVar(&catalogCachePath, "cache", ".svipxact.cache",
		"library catalog cache file")
	catalogCmd.Flags().BoolVar(&catalogRebuild, "rebuild", false,
		"ignore the cache and rebuild the catalog from the library tree")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	log := newLogger()
	report := runlog.New(log)

	cat, err := libindex.Load(catalogLibraryDir, catalogCachePath, catalogRebuild, report)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "BUS\tABSTRACTION\tPORTS\tADDRESSABLE\tFLAGS")
	for _, e := range cat.Entries() {
		flags := ""
		switch {
		case e.Bus.IsClock:
			flags = "clock"
		case e.Bus.IsReset:
			flags = "reset"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%v\t%s\n",
			e.Bus.VLNV, e.Abstraction.VLNV, len(e.Abstraction.Ports), e.Bus.IsAddressable, flags)
	}
	w.Flush()

	fmt.Printf("%d entries\n", cat.Len())

	if mt, err := libindex.TreeMaxMTime(catalogLibraryDir); err == nil && verbose {
		log.Debugf("library tree max mtime: %s", mt)
	}

	return nil
}
