package libindex

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/busmap/sv2ipxact/pkg/corerr"
	"github.com/busmap/sv2ipxact/pkg/runlog"
)

// walkResult is the output of walking a library tree before linking: every
// bus/abstraction definition found.
type walkResult struct {
	busDefs   map[string]BusDefinition // key: VLNV.key()
	abstracts []AbstractionDefinition
}

// walkLibrary scans root for XML files, identifying each by its root
// element rather than its path or filename (spec §4.3, §6). Individual
// malformed files are skipped with a LibraryParseWarning; a missing or
// empty root is a LibraryIoError but not fatal to the run.
func walkLibrary(root string, report *runlog.Report) (*walkResult, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		if report != nil {
			report.Warn(corerr.LibraryIoError, "library root %q is missing or not a directory", root)
		}
		return &walkResult{busDefs: map[string]BusDefinition{}}, nil
	}

	res := &walkResult{busDefs: map[string]BusDefinition{}}
	count := 0

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // best-effort: skip unreadable entries
		}
		if d.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".xml") {
			return nil
		}

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			if report != nil {
				report.Warn(corerr.LibraryParseWarning, "cannot read %s: %v", path, readErr)
			}
			return nil
		}

		switch sniffRoot(data) {
		case "busDefinition":
			bd, parseErr := parseBusDefinition(data)
			if parseErr != nil {
				if report != nil {
					report.Warn(corerr.LibraryParseWarning, "malformed busDefinition %s: %v", path, parseErr)
				}
				return nil
			}
			res.busDefs[bd.VLNV.key()] = bd
			count++

		case "abstractionDefinition":
			ad, parseErr := parseAbstractionDefinition(data)
			if parseErr != nil {
				if report != nil {
					report.Warn(corerr.LibraryParseWarning, "malformed abstractionDefinition %s: %v", path, parseErr)
				}
				return nil
			}
			res.abstracts = append(res.abstracts, ad)
			count++

		default:
			// Not a bus/abstraction definition (could be a component, a
			// design, or unrelated XML); silently ignored per §4.3.
		}
		return nil
	})
	if walkErr != nil && report != nil {
		report.Warn(corerr.LibraryIoError, "error walking library root %q: %v", root, walkErr)
	}

	if count == 0 && report != nil {
		report.Warn(corerr.LibraryIoError, "no bus/abstraction definitions found under %q", root)
	}

	return res, nil
}

// link pairs each abstraction with its referenced bus definition, building
// the immutable Catalog. An abstraction whose busType reference has no
// matching BusDefinition is skipped with a warning.
func link(res *walkResult, report *runlog.Report) *Catalog {
	cat := newCatalog()
	for _, ad := range res.abstracts {
		bd, ok := res.busDefs[ad.BusType.key()]
		if !ok {
			if report != nil {
				report.Warn(corerr.LibraryParseWarning,
					"abstraction %s references unknown busType %s", ad.VLNV, ad.BusType)
			}
			continue
		}
		adCopy, bdCopy := ad, bd
		cat.add(&Entry{Bus: bdCopy, Abstraction: adCopy})
	}
	return cat
}

// Load builds a Catalog from a library root, consulting the on-disk cache
// first unless rebuild is requested (spec §4.3 load protocol). The cache
// check only stats the tree; library XML is read exclusively on a rebuild,
// so a fresh cache means consecutive runs touch no definition file.
func Load(libraryRoot, cachePath string, rebuild bool, report *runlog.Report) (*Catalog, error) {
	maxMTime := treeMaxMTimeUnix(libraryRoot)

	if !rebuild && cachePath != "" {
		if cached, cachedMTime, ok := readCache(cachePath); ok && cachedMTime >= maxMTime {
			return cached, nil
		}
	}

	res, err := walkLibrary(libraryRoot, report)
	if err != nil {
		return nil, err
	}
	cat := link(res, report)

	if cachePath != "" {
		if err := writeCache(cachePath, cat, maxMTime); err != nil && report != nil {
			report.Warn(corerr.LibraryIoError, "could not write cache %q: %v", cachePath, err)
		}
	}

	return cat, nil
}

// treeMaxMTimeUnix stats every file under root and returns the maximum
// modification time in Unix seconds, or 0 for a missing/empty tree.
func treeMaxMTimeUnix(root string) int64 {
	var max int64
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		fi, statErr := d.Info()
		if statErr != nil {
			return nil
		}
		if mt := fi.ModTime().Unix(); mt > max {
			max = mt
		}
		return nil
	})
	return max
}

// TreeMaxMTime reports the maximum file modification time under root; the
// `catalog` CLI subcommand logs it at debug level.
func TreeMaxMTime(root string) (time.Time, error) {
	var max time.Time
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		fi, statErr := d.Info()
		if statErr != nil {
			return nil
		}
		if fi.ModTime().After(max) {
			max = fi.ModTime()
		}
		return nil
	})
	return max, err
}
