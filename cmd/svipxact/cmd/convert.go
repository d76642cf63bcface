package cmd

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/busmap/sv2ipxact/pkg/corerr"
	"github.com/busmap/sv2ipxact/pkg/ipxact"
	"github.com/busmap/sv2ipxact/pkg/libindex"
	"github.com/busmap/sv2ipxact/pkg/matcher"
	"github.com/busmap/sv2ipxact/pkg/portgroup"
	"github.com/busmap/sv2ipxact/pkg/runlog"
	"github.com/busmap/sv2ipxact/pkg/sv"
)

var (
	inputPath     string
	outputPath    string
	libraryDir    string
	cachePath     string
	rebuildCache  bool
	threshold     float64
	revisionFlag  string
	validate      bool
	validateLocal string
	noValidate    bool
)

// xsdValidator is the pluggable XSD validation oracle. The core ships
// without one; a build that bundles a validator assigns this from its own
// init. localSchemaDir is empty unless --validate-local was given.
var xsdValidator func(path string, rev ipxact.Revision, localSchemaDir string) error

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a SystemVerilog module to an IP-XACT component",
	Long: `Parse the header of a SystemVerilog top-level module, match its ports
against the bus/abstraction definitions in the library, and write an
IP-XACT component document.

Examples:
  svipxact convert -i axi_master.sv
  svipxact convert -i dut.sv -o dut.xml --library-dir library --revision 2022
  svipxact convert -i dut.sv --threshold 0.7 --rebuild -v`,
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&inputPath, "input", "i", "",
		"input SystemVerilog source file")
	convertCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"output IP-XACT file (default: input path with .xml extension)")
	convertCmd.Flags().StringVarP(&libraryDir, "library-dir", "l", "library",
		"root directory of IP-XACT bus/abstraction definitions")
	convertCmd.Flags().StringVar(&cachePath, "cache", ".svipxact.cache",
		"library catalog cache file")
	convertCmd.Flags().BoolVar(&rebuildCache, "rebuild", false,
		"ignore the cache and rebuild the catalog from the library tree")
	convertCmd.Flags().Float64Var(&threshold, "threshold", matcher.DefaultOptions().Threshold,
		"minimum acceptance score for a bus match")
	convertCmd.Flags().StringVar(&revisionFlag, "revision", "2014",
		"IP-XACT revision to emit: 2009, 2014 or 2022")
	convertCmd.Flags().BoolVar(&validate, "validate", false,
		"validate the output against the revision's XSD schema")
	convertCmd.Flags().StringVar(&validateLocal, "validate-local", "",
		"validate against XSD schemas in the given local directory")
	convertCmd.Flags().BoolVar(&noValidate, "no-validate", false,
		"skip output validation")

	convertCmd.MarkFlagRequired("input")
	convertCmd.MarkFlagsMutuallyExclusive("validate", "validate-local", "no-validate")
}

func runConvert(cmd *cobra.Command, args []string) error {
	log := newLogger()

	rev, err := ipxact.ParseRevision(revisionFlag)
	if err != nil {
		return usageErrorf("%v", err)
	}
	if threshold < 0 || threshold > 1 {
		return usageErrorf("--threshold %v out of range [0,1]", threshold)
	}

	out := outputPath
	if out == "" {
		out = deriveOutputPath(inputPath)
	}

	report := runlog.New(log)

	src, err := os.ReadFile(inputPath)
	if err != nil {
		return corerr.Wrap(corerr.SourceIoError, "read "+inputPath, err)
	}

	mod, err := sv.NewParser(report).ParseString(string(src), inputPath)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"module":     mod.Name,
		"ports":      len(mod.Ports),
		"parameters": len(mod.Parameters),
	}).Debug("parsed module header")

	cat, err := libindex.Load(libraryDir, cachePath, rebuildCache, report)
	if err != nil {
		return err
	}
	log.WithField("entries", cat.Len()).Debug("library catalog loaded")

	groups, residual := portgroup.Partition(mod)

	opts := matcher.DefaultOptions()
	opts.Threshold = threshold
	result := matcher.Match(mod, groups, residual, cat, opts, report)

	doc := ipxact.Build(ipxact.BuildInput{
		Module:     mod,
		Interfaces: result.Interfaces,
		Revision:   rev,
	})
	if err := doc.WriteFile(out); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"output":     out,
		"revision":   rev.String(),
		"interfaces": len(result.Interfaces),
		"unmapped":   len(result.Unmapped),
	}).Info("wrote component document")
	for _, bi := range result.Interfaces {
		log.Debugf("  %s: %s as %s (score %.3f, %d portMaps)",
			bi.Name, bi.Bus, bi.Side, bi.Score, len(bi.PortMaps))
	}
	if len(result.Unmapped) > 0 && verbose {
		names := make([]string, 0, len(result.Unmapped))
		for _, p := range result.Unmapped {
			names = append(names, p.Name)
		}
		log.Debugf("unmapped ports: %s", strings.Join(names, ", "))
	}

	if !noValidate && (validate || validateLocal != "") {
		if xsdValidator == nil {
			log.Warn("no XSD validator available in this build; skipping validation")
		} else if err := xsdValidator(out, rev, validateLocal); err != nil {
			return &validationError{err: err}
		}
	}

	return nil
}

// deriveOutputPath replaces the input's .sv/.svh/.v extension (matched
// case-insensitively) with .xml, or appends .xml when the input has some
// other extension.
func deriveOutputPath(input string) string {
	lower := strings.ToLower(input)
	for _, ext := range []string{".svh", ".sv", ".v"} {
		if strings.HasSuffix(lower, ext) {
			return input[:len(input)-len(ext)] + ".xml"
		}
	}
	return input + ".xml"
}
