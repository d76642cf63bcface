package matcher

import (
	"strings"

	"github.com/busmap/sv2ipxact/pkg/sv"
)

// buildBusInterface assembles the final BusInterface for an accepted
// candidate: portMaps (with bit-slices where the physical port is wider
// than its logical port), propagated bus parameters, and the role-specific
// memoryMap/addressSpace attachment.
func buildBusInterface(mod *sv.Module, name string, best *candidateScore) BusInterface {
	bi := BusInterface{
		Name:        name,
		Bus:         best.entry.Bus.VLNV,
		Abstraction: best.entry.Abstraction.VLNV,
		Side:        best.side,
		Score:       best.sr.score,
	}

	for _, a := range best.sr.alignments {
		pm := PortMap{LogicalName: a.logical.Name, PhysicalName: a.physical.Name}
		if left, right, ok := bitSlice(a); ok {
			pm.HasBitSlice = true
			pm.BitSliceLeft, pm.BitSliceRight = left, right
		}
		bi.PortMaps = append(bi.PortMaps, pm)
	}

	bi.Params = propagateBusParams(mod, best.entry.Bus.Parameters)

	dataWidth := moduleParamWidth(mod, bi.Params, 32)
	switch best.side {
	case SideSlave:
		if best.entry.Bus.IsAddressable {
			bi.MemMap = &MemoryMap{
				Name:         "MM_" + bi.Name,
				AddressBlock: "BLK_" + bi.Name,
				BaseAddress:  0,
				Range:        4096,
				Width:        dataWidth,
			}
		}
	case SideMaster:
		if best.entry.Bus.IsAddressable {
			addrWidth := addressWidthOf(bi.PortMaps, mod)
			bi.AddrSpace = &AddressSpace{
				Name:  "AS_" + bi.Name,
				Range: uint64(1) << uint(addrWidth),
				Width: dataWidth,
			}
		}
	}

	return bi
}

// bitSlice computes the left/right bit indices to emit for an alignment
// whose physical port is the wider of the two integer-literal widths
// (SPEC_FULL.md supplemented feature).
func bitSlice(a alignment) (left, right int, ok bool) {
	physW, physOK := a.physical.Packed.Width()
	logicalW, logicalOK := literalIntWidth(a.side.Width)
	if !physOK || !logicalOK || physW <= logicalW {
		return 0, 0, false
	}
	return logicalW - 1, 0, true
}

// propagateBusParams searches the Module's parameter list for each
// declared bus-parameter name, matching by normalized-name containment
// (spec §4.5).
func propagateBusParams(mod *sv.Module, busParamNames []string) []BusParam {
	var out []BusParam
	for _, name := range busParamNames {
		target := sv.NormalizeIdent(name)
		for _, p := range mod.Parameters {
			if strings.Contains(sv.NormalizeIdent(p.Name), target) {
				out = append(out, BusParam{Name: name, Value: p.DefaultValue})
				break
			}
		}
	}
	return out
}

// moduleParamWidth returns the already-propagated DATA_WIDTH bus param (if
// literal) or falls back to the Module's own DATA_WIDTH parameter, or def.
func moduleParamWidth(mod *sv.Module, params []BusParam, def int) int {
	for _, p := range params {
		if strings.Contains(sv.NormalizeIdent(p.Name), "DATAWIDTH") {
			if n, ok := literalIntWidth(p.Value); ok {
				return n
			}
		}
	}
	if n, ok := mod.ParamInt("DATA_WIDTH"); ok {
		return n
	}
	return def
}

// addressWidthOf finds the AWADDR/ARADDR/ADDR-ish portMap's physical width
// to size an addressSpace's range; defaults to 32 when no literal width is
// available (spec §4.5 role-specific attachments).
func addressWidthOf(pms []PortMap, mod *sv.Module) int {
	for _, pm := range pms {
		u := strings.ToUpper(pm.LogicalName)
		if strings.Contains(u, "ADDR") {
			for _, p := range mod.Ports {
				if p.Name == pm.PhysicalName {
					if w, ok := p.Packed.Width(); ok {
						return w
					}
				}
			}
		}
	}
	if n, ok := mod.ParamInt("ADDR_WIDTH"); ok {
		return n
	}
	return 32
}
