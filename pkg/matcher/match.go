package matcher

import (
	"sort"

	"github.com/busmap/sv2ipxact/pkg/corerr"
	"github.com/busmap/sv2ipxact/pkg/libindex"
	"github.com/busmap/sv2ipxact/pkg/portgroup"
	"github.com/busmap/sv2ipxact/pkg/runlog"
	"github.com/busmap/sv2ipxact/pkg/sv"
)

// candidateScore is one scored (entry, side) pair for a group, kept around
// so the winner and runner-up can both be reported.
type candidateScore struct {
	entry *libindex.Entry
	side  Side
	sr    scoreResult
}

// Match scores every candidate group from groups against every entry in
// cat, selects the best-scoring acceptable match for each, and returns the
// resulting BusInterface set plus every port that ended up unmapped
// (spec §4.5).
func Match(mod *sv.Module, groups []portgroup.Group, residual []sv.Port, cat *libindex.Catalog, opts Options, report *runlog.Report) Result {
	var res Result
	res.Unmapped = append(res.Unmapped, residual...)

	for _, g := range groups {
		switch g.Kind {
		case portgroup.KindClockGroup, portgroup.KindResetGroup:
			bi, ok := matchClockReset(g, cat)
			if ok {
				res.Interfaces = append(res.Interfaces, bi)
			} else {
				res.Unmapped = append(res.Unmapped, g.Ports...)
			}
			continue
		}

		best, runnerUp, matched := pickBest(g.Ports, cat, opts)
		if !matched {
			if report != nil {
				report.Warn(corerr.NoMatch, "port group %q matched no catalog entry above threshold", g.Name)
			}
			res.Unmapped = append(res.Unmapped, g.Ports...)
			continue
		}

		if runnerUp != nil && best.sr.score-runnerUp.sr.score <= opts.AmbiguityMargin {
			amb := Ambiguity{
				Group:         g.Name,
				Winner:        best.entry.Abstraction.VLNV,
				RunnerUp:      runnerUp.entry.Abstraction.VLNV,
				WinnerScore:   best.sr.score,
				RunnerUpScore: runnerUp.sr.score,
			}
			res.Ambiguities = append(res.Ambiguities, amb)
			if report != nil {
				report.Warn(corerr.AmbiguousMatch, "group %q: %s (%.3f) vs %s (%.3f)",
					g.Name, amb.Winner, amb.WinnerScore, amb.RunnerUp, amb.RunnerUpScore)
			}
		}

		bi := buildBusInterface(mod, g.Name, best)
		res.Interfaces = append(res.Interfaces, bi)

		matchedNames := make(map[string]bool, len(best.sr.alignments))
		for _, a := range best.sr.alignments {
			matchedNames[a.physical.Name] = true
		}
		for _, p := range g.Ports {
			if !matchedNames[p.Name] {
				res.Unmapped = append(res.Unmapped, p)
			}
		}
	}

	sort.SliceStable(res.Interfaces, func(i, j int) bool { return res.Interfaces[i].Name < res.Interfaces[j].Name })

	return res
}

// pickBest scores ports against every catalog entry as both master and
// slave, returning the winner and (if any) the closest runner-up.
func pickBest(ports []sv.Port, cat *libindex.Catalog, opts Options) (best, runnerUp *candidateScore, ok bool) {
	var all []candidateScore
	for _, entry := range cat.Entries() {
		if entry.Bus.IsClock || entry.Bus.IsReset {
			continue
		}
		for _, side := range []Side{SideMaster, SideSlave} {
			al := alignGroup(ports, entry, side)
			sr := scoreCandidate(al, entry, side, opts)
			all = append(all, candidateScore{entry: entry, side: side, sr: sr})
		}
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].sr.score > all[j].sr.score })

	if len(all) == 0 || !all[0].sr.accepted(opts) {
		return nil, nil, false
	}
	b := all[0]
	if len(all) > 1 {
		r := all[1]
		return &b, &r, true
	}
	return &b, nil, true
}
