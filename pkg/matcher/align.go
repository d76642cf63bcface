package matcher

import (
	"strings"

	"github.com/busmap/sv2ipxact/pkg/libindex"
	"github.com/busmap/sv2ipxact/pkg/portgroup"
	"github.com/busmap/sv2ipxact/pkg/sv"
)

// alignment is one physical-to-logical pairing found while scoring a
// (group, entry, side) candidate.
type alignment struct {
	logical        libindex.LogicalPort
	physical       sv.Port
	side           *libindex.SideDescriptor
	directionMiss  bool
	widthMiss      bool
}

// alignGroup attempts to align every non-illegal logical port of entry's
// abstraction (on the given side) to a physical port in group (spec §4.5).
// It returns one alignment per logical port that found a physical match;
// logical ports with no physical match are simply absent from the result.
func alignGroup(ports []sv.Port, entry *libindex.Entry, side Side) []alignment {
	used := make(map[string]bool, len(ports))
	var out []alignment

	for _, lp := range entry.Abstraction.Ports {
		sd := sideDescriptor(lp, side)
		if sd == nil || sd.Presence == libindex.PresenceIllegal {
			continue
		}
		phys, ok := bestPhysicalMatch(ports, used, lp.Name)
		if !ok {
			continue
		}
		used[phys.Name] = true

		a := alignment{logical: lp, physical: phys, side: sd}
		a.directionMiss = directionMismatch(phys.Direction, sd.Dir)
		a.widthMiss = widthMismatch(phys, sd)
		out = append(out, a)
	}
	return out
}

func sideDescriptor(lp libindex.LogicalPort, side Side) *libindex.SideDescriptor {
	switch side {
	case SideSlave:
		return lp.Slave
	default:
		return lp.Master
	}
}

func directionMismatch(physDir sv.Direction, logicalDir libindex.SideDir) bool {
	if logicalDir == libindex.SideDirUnknown {
		return false
	}
	switch physDir {
	case sv.DirInput:
		return logicalDir != libindex.SideDirIn
	case sv.DirOutput:
		return logicalDir != libindex.SideDirOut
	default:
		// inout and unknown-direction ports are never penalized: they
		// can legitimately serve either role (spec §4.2 interface ports,
		// tri-state buses).
		return false
	}
}

func widthMismatch(phys sv.Port, sd *libindex.SideDescriptor) bool {
	physW, physOK := phys.Packed.Width()
	logicalW, logicalOK := literalIntWidth(sd.Width)
	if !physOK || !logicalOK {
		return false
	}
	return physW != logicalW
}

func literalIntWidth(expr string) (int, bool) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return 0, false
	}
	n := 0
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// bestPhysicalMatch finds the unused port in ports whose longest matching
// suffix normalizes to logicalName. Trailing direction/instance tokens
// (`_o`, `_i`, `_0`..`_9`) may be stripped before the suffix comparison;
// the longest match wins, and ties are broken by preferring the candidate
// that needed the fewest tokens stripped.
func bestPhysicalMatch(ports []sv.Port, used map[string]bool, logicalName string) (sv.Port, bool) {
	target := sv.NormalizeIdent(logicalName)

	var best sv.Port
	bestSuffixLen := -1
	bestStripped := 1 << 30
	found := false

	for _, p := range ports {
		if used[p.Name] {
			continue
		}
		toks := portgroup.Tokenize(p.Name)
		maxStrip := trailingNonAlphaTokens(toks)
		for strip := 0; strip <= maxStrip; strip++ {
			eff := toks[:len(toks)-strip]
			for i, suffix := range portgroup.Suffixes(eff) {
				if sv.NormalizeIdent(suffix) != target {
					continue
				}
				suffixLen := len(eff) - i
				better := suffixLen > bestSuffixLen ||
					(suffixLen == bestSuffixLen && strip < bestStripped)
				if better {
					best = p
					bestSuffixLen = suffixLen
					bestStripped = strip
					found = true
				}
				break // suffixes are longest-first; rest are shorter
			}
		}
	}
	return best, found
}

// trailingNonAlphaTokens counts how many tokens at the end of a port's
// token list are purely numeric (instance numbers) or single-letter
// direction markers (`O`/`I`); bestPhysicalMatch strips at most that many
// before comparing suffixes.
func trailingNonAlphaTokens(toks []string) int {
	n := 0
	for i := len(toks) - 1; i >= 0; i-- {
		t := toks[i]
		if isAllDigits(t) || t == "O" || t == "I" {
			n++
			continue
		}
		break
	}
	return n
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
