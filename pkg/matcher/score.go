package matcher

import (
	"github.com/busmap/sv2ipxact/pkg/libindex"
)

// scoreResult is the outcome of scoring one group against one
// (abstraction, side) candidate.
type scoreResult struct {
	score           float64
	alignments      []alignment
	requiredTotal   int
	optionalTotal   int
	requiredMatched int
	optionalMatched int
	directionMisses int
	widthMisses     int
}

// scoreCandidate implements the weighted formula of spec §4.5: required
// and optional logical-port totals come from the abstraction's side
// descriptors; matched counts and penalties come from the alignments
// alignGroup already found for this (group, entry, side) triple.
func scoreCandidate(alignments []alignment, entry *libindex.Entry, side Side, opts Options) scoreResult {
	sr := scoreResult{alignments: alignments}

	for _, lp := range entry.Abstraction.Ports {
		sd := sideDescriptor(lp, side)
		if sd == nil || sd.Presence == libindex.PresenceIllegal {
			continue
		}
		if sd.Presence == libindex.PresenceRequired {
			sr.requiredTotal++
		} else {
			sr.optionalTotal++
		}
	}

	for _, a := range alignments {
		if a.side.Presence == libindex.PresenceRequired {
			sr.requiredMatched++
		} else {
			sr.optionalMatched++
		}
		if a.directionMiss {
			sr.directionMisses++
		}
		if a.widthMiss {
			sr.widthMisses++
		}
	}

	denom := opts.WRequired*float64(sr.requiredTotal) + opts.WOptional*float64(sr.optionalTotal)
	if denom <= 0 {
		sr.score = 0
		return sr
	}
	numer := opts.WRequired*float64(sr.requiredMatched) + opts.WOptional*float64(sr.optionalMatched) -
		opts.WPenalty*float64(sr.directionMisses+sr.widthMisses)
	sr.score = numer / denom
	if sr.score < 0 {
		sr.score = 0
	}
	return sr
}

// accepted reports whether a scoreResult clears the acceptance bar: score
// at or above threshold AND at least one required signal matched, guarding
// against trivial matches on tiny groups (spec §4.5).
func (sr scoreResult) accepted(opts Options) bool {
	return sr.score >= opts.Threshold && sr.requiredMatched > 0
}
