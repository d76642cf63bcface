package matcher

import (
	"github.com/busmap/sv2ipxact/pkg/libindex"
	"github.com/busmap/sv2ipxact/pkg/portgroup"
)

// matchClockReset binds a dedicated clock/reset group to the first
// matching clock/reset bus definition in the catalog. These groups skip
// the weighted scoring: a single-port group can never clear the normal
// acceptance bar, and the catalog entry is already classified by name
// (spec §4.3), so the binding is direct. The resulting interface carries
// the isClock / isReset+POLARITY convention parameters from spec §4.5.
func matchClockReset(g portgroup.Group, cat *libindex.Catalog) (BusInterface, bool) {
	wantClock := g.Kind == portgroup.KindClockGroup

	var entry *libindex.Entry
	for _, e := range cat.ClockResetEntries() {
		if wantClock && e.Bus.IsClock {
			entry = e
			break
		}
		if !wantClock && e.Bus.IsReset {
			entry = e
			break
		}
	}
	if entry == nil || len(g.Ports) == 0 {
		return BusInterface{}, false
	}
	port := g.Ports[0]

	bi := BusInterface{
		Name:        g.Name,
		Bus:         entry.Bus.VLNV,
		Abstraction: entry.Abstraction.VLNV,
		Side:        SideSlave,
		Score:       1.0,
	}
	if wantClock {
		bi.IsClock = true
	} else {
		bi.IsReset = true
		bi.Polarity = portgroup.Polarity(port.Name)
	}

	// A clock/reset abstraction defines a single wire signal (e.g. CLK or
	// RESETn); map the group's port onto the first usable logical port.
	for _, lp := range entry.Abstraction.Ports {
		sd := sideDescriptor(lp, SideSlave)
		if sd == nil || sd.Presence == libindex.PresenceIllegal {
			continue
		}
		bi.PortMaps = append(bi.PortMaps, PortMap{
			LogicalName:  lp.Name,
			PhysicalName: port.Name,
		})
		break
	}
	if len(bi.PortMaps) == 0 {
		return BusInterface{}, false
	}
	return bi, true
}
