package libindex

import (
	"testing"

	"github.com/busmap/sv2ipxact/pkg/runlog"
)

// The testdata tree follows the canonical library layout
// (<root>/<vendor>/<library>/<name>/<version>/<name>.xml); no cache path
// is passed so the fixture directory is never written to.
func TestLoadTestdataLibrary(t *testing.T) {
	cat, err := Load("testdata", "", false, runlog.New(nil))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cat.Len() != 2 {
		t.Fatalf("catalog has %d entries, want 2", cat.Len())
	}

	axi, ok := cat.Lookup(VLNV{Vendor: "amba.com", Library: "AMBA4", Name: "AXI4-Lite_rtl", Version: "r0p0"})
	if !ok {
		t.Fatalf("AXI4-Lite_rtl not found")
	}
	if !axi.Bus.IsAddressable || len(axi.Bus.Parameters) != 2 {
		t.Fatalf("AXI4-Lite bus = %+v", axi.Bus)
	}
	if len(axi.Abstraction.Ports) != 9 {
		t.Fatalf("AXI4-Lite_rtl ports = %d, want 9", len(axi.Abstraction.Ports))
	}

	// AWADDR has no on-disk slave side and must come back mirrored;
	// AWREADY has an explicit one and must not.
	var awaddr, awready *LogicalPort
	for i := range axi.Abstraction.Ports {
		switch axi.Abstraction.Ports[i].Name {
		case "AWADDR":
			awaddr = &axi.Abstraction.Ports[i]
		case "AWREADY":
			awready = &axi.Abstraction.Ports[i]
		}
	}
	if awaddr == nil || awaddr.Slave == nil || !awaddr.Mirrored || awaddr.Slave.Dir != SideDirIn {
		t.Fatalf("AWADDR mirror inference wrong: %+v", awaddr)
	}
	if awready == nil || awready.Mirrored {
		t.Fatalf("AWREADY should keep its explicit slave side: %+v", awready)
	}

	cr := cat.ClockResetEntries()
	if len(cr) != 1 || !cr[0].Bus.IsClock {
		t.Fatalf("clock entries = %+v", cr)
	}
}
