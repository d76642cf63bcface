// Package matcher scores port groups against catalog entries, selects the
// best match per group, and produces BusInterface assignments plus the set
// of ports left unmapped (spec §4.5).
package matcher

import (
	"github.com/busmap/sv2ipxact/pkg/libindex"
	"github.com/busmap/sv2ipxact/pkg/sv"
)

// Side is which half of a bus a group was matched as.
type Side int

const (
	SideMaster Side = iota
	SideSlave
	SideSystem
	SideMonitor
)

func (s Side) String() string {
	switch s {
	case SideMaster:
		return "master"
	case SideSlave:
		return "slave"
	case SideSystem:
		return "system"
	case SideMonitor:
		return "monitor"
	default:
		return "unknown"
	}
}

// PortMap pairs one logical port with the physical port it was aligned to.
type PortMap struct {
	LogicalName  string
	PhysicalName string
	// BitSlice is set when the physical port is wider than the logical
	// port it aligns to (supplemented feature, SPEC_FULL.md).
	BitSliceLeft, BitSliceRight int
	HasBitSlice                bool
}

// BusParam is one bus-parameter value propagated from the Module's
// parameter list (spec §4.5).
type BusParam struct {
	Name  string
	Value string
}

// MemoryMap is attached to an addressable slave busInterface (spec §4.5).
type MemoryMap struct {
	Name         string
	AddressBlock string
	BaseAddress  uint64
	Range        uint64
	Width        int
}

// AddressSpace is attached to an addressable master busInterface (spec §4.5).
type AddressSpace struct {
	Name  string
	Range uint64
	Width int
}

// BusInterface is one matched bus instance, ready for serialization
// (spec §3).
type BusInterface struct {
	Name         string
	Bus          libindex.VLNV
	Abstraction  libindex.VLNV
	Side         Side
	PortMaps     []PortMap
	Params       []BusParam
	MemMap       *MemoryMap
	AddrSpace    *AddressSpace
	Score        float64
	IsClock      bool
	IsReset      bool
	Polarity     string // "" unless IsReset
}

// Ambiguity records a near-tied runner-up candidate for a matched group,
// surfaced as a warning (spec §4.5).
type Ambiguity struct {
	Group     string
	Winner    libindex.VLNV
	RunnerUp  libindex.VLNV
	WinnerScore, RunnerUpScore float64
}

// Options configures the scoring/acceptance policy (spec §4.5 defaults).
type Options struct {
	Threshold       float64
	WRequired       float64
	WOptional       float64
	WPenalty        float64
	AmbiguityMargin float64
}

// DefaultOptions returns the spec's documented defaults.
func DefaultOptions() Options {
	return Options{
		Threshold:       0.6,
		WRequired:       1.0,
		WOptional:       0.3,
		WPenalty:        0.5,
		AmbiguityMargin: 0.05,
	}
}

// Result is the matcher's full output for one run.
type Result struct {
	Interfaces  []BusInterface
	Unmapped    []sv.Port
	Ambiguities []Ambiguity
}
