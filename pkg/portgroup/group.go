package portgroup

import (
	"sort"

	"github.com/busmap/sv2ipxact/pkg/sv"
)

// Kind distinguishes a dedicated clock/reset group from an ordinary
// candidate bus group.
type Kind int

const (
	KindBus Kind = iota
	KindClockGroup
	KindResetGroup
)

// Group is a named subset of a Module's ports inferred to belong to one
// candidate bus instance, or a dedicated single-port clock/reset group
// (spec §4.4).
type Group struct {
	Name  string // bus groups: the inferred common prefix, upper-cased; clock/reset groups: the port name as written
	Kind  Kind
	Ports []sv.Port // in source order
}

// minCustomPrefixShare is how many ports must share a one-token,
// non-well-known prefix before the grouper accepts it as a bus cluster.
// Two ports that share such a token by accident (`foo_a`, `foo_b`) stay
// ungrouped, while three or more (`amb_data`, `amb_valid`, `amb_ready`)
// describe a real custom protocol the catalog may still recognize.
const minCustomPrefixShare = 3

// Partition splits mod's ports into candidate bus groups plus a residual
// list of ports assigned to no group.
func Partition(mod *sv.Module) (groups []Group, residual []sv.Port) {
	var normal []sv.Port

	for _, p := range mod.Ports {
		if p.IsInterface {
			residual = append(residual, p)
			continue
		}
		switch ClassifyClockReset(p.Name) {
		case KindClock:
			groups = append(groups, Group{Name: p.Name, Kind: KindClockGroup, Ports: []sv.Port{p}})
		case KindReset:
			groups = append(groups, Group{Name: p.Name, Kind: KindResetGroup, Ports: []sv.Port{p}})
		default:
			normal = append(normal, p)
		}
	}

	tokensByIdx := make([][]string, len(normal))
	for i, p := range normal {
		tokensByIdx[i] = Tokenize(p.Name)
	}

	// prefixPorts maps every candidate prefix to the indices (into normal)
	// of ports whose own prefix set contains it.
	prefixPorts := make(map[string][]int)
	prefixTokenLen := make(map[string]int)
	for i, toks := range tokensByIdx {
		for _, pfx := range Prefixes(toks) {
			prefixPorts[pfx] = append(prefixPorts[pfx], i)
		}
	}
	for pfx := range prefixPorts {
		prefixTokenLen[pfx] = len(splitUnderscore(pfx))
	}

	type candidate struct {
		prefix string
		tokLen int
	}
	var candidates []candidate
	for pfx, tl := range prefixTokenLen {
		candidates = append(candidates, candidate{pfx, tl})
	}
	sort.Slice(candidates, func(a, b int) bool {
		if candidates[a].tokLen != candidates[b].tokLen {
			return candidates[a].tokLen > candidates[b].tokLen
		}
		return candidates[a].prefix < candidates[b].prefix
	})

	assigned := make([]bool, len(normal))
	for _, c := range candidates {
		members := unassignedMembers(prefixPorts[c.prefix], assigned)
		if len(members) == 0 {
			continue
		}
		ok := false
		switch {
		case c.tokLen >= 2:
			ok = len(members) >= 2
		case IsWellKnownRoot(c.prefix):
			ok = len(members) >= 2
		default:
			ok = len(members) >= minCustomPrefixShare
		}
		if !ok {
			continue
		}
		g := Group{Name: c.prefix, Kind: KindBus}
		for _, idx := range members {
			g.Ports = append(g.Ports, normal[idx])
			assigned[idx] = true
		}
		groups = append(groups, g)
	}

	for i, p := range normal {
		if !assigned[i] {
			residual = append(residual, p)
		}
	}

	sort.SliceStable(groups, func(a, b int) bool { return groups[a].Name < groups[b].Name })

	return groups, residual
}

func unassignedMembers(idxs []int, assigned []bool) []int {
	var out []int
	for _, i := range idxs {
		if !assigned[i] {
			out = append(out, i)
		}
	}
	return out
}

func splitUnderscore(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '_' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return out
}
