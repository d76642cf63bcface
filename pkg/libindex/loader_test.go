package libindex

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/busmap/sv2ipxact/pkg/corerr"
	"github.com/busmap/sv2ipxact/pkg/runlog"
)

func busDefXML(name string, addressable bool) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<ipxact:busDefinition xmlns:ipxact="http://www.accellera.org/XMLSchema/IPXACT/1685-2014">
  <ipxact:vendor>amba.com</ipxact:vendor>
  <ipxact:library>AMBA4</ipxact:library>
  <ipxact:name>%s</ipxact:name>
  <ipxact:version>r0p0</ipxact:version>
  <ipxact:directConnection>true</ipxact:directConnection>
  <ipxact:isAddressable>%v</ipxact:isAddressable>
  <ipxact:parameters>
    <ipxact:parameter>
      <ipxact:name>DATA_WIDTH</ipxact:name>
      <ipxact:value>32</ipxact:value>
    </ipxact:parameter>
  </ipxact:parameters>
</ipxact:busDefinition>
`, name, addressable)
}

func absDefXML(name, busName string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<ipxact:abstractionDefinition xmlns:ipxact="http://www.accellera.org/XMLSchema/IPXACT/1685-2014">
  <ipxact:vendor>amba.com</ipxact:vendor>
  <ipxact:library>AMBA4</ipxact:library>
  <ipxact:name>%s</ipxact:name>
  <ipxact:version>r0p0</ipxact:version>
  <ipxact:busType vendor="amba.com" library="AMBA4" name="%s" version="r0p0"/>
  <ipxact:ports>
    <ipxact:port>
      <ipxact:logicalName>AWADDR</ipxact:logicalName>
      <ipxact:wire>
        <ipxact:onMaster>
          <ipxact:presence>required</ipxact:presence>
          <ipxact:direction>out</ipxact:direction>
        </ipxact:onMaster>
      </ipxact:wire>
    </ipxact:port>
    <ipxact:port>
      <ipxact:logicalName>AWREADY</ipxact:logicalName>
      <ipxact:wire>
        <ipxact:onMaster>
          <ipxact:presence>required</ipxact:presence>
          <ipxact:direction>in</ipxact:direction>
          <ipxact:width>1</ipxact:width>
        </ipxact:onMaster>
        <ipxact:onSlave>
          <ipxact:presence>required</ipxact:presence>
          <ipxact:direction>out</ipxact:direction>
          <ipxact:width>1</ipxact:width>
        </ipxact:onSlave>
      </ipxact:wire>
    </ipxact:port>
  </ipxact:ports>
</ipxact:abstractionDefinition>
`, name, busName)
}

func writeLibrary(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}
}

func TestLoadLinksBusAndAbstraction(t *testing.T) {
	root := t.TempDir()
	writeLibrary(t, root, map[string]string{
		"amba.com/AMBA4/AXI4/r0p0/AXI4.xml":     busDefXML("AXI4", true),
		"amba.com/AMBA4/AXI4/r0p0/AXI4_rtl.xml": absDefXML("AXI4_rtl", "AXI4"),
	})

	cat, err := Load(root, "", false, runlog.New(nil))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cat.Len() != 1 {
		t.Fatalf("catalog has %d entries, want 1", cat.Len())
	}
	e := cat.Entries()[0]
	if e.Bus.VLNV.Name != "AXI4" || !e.Bus.IsAddressable || !e.Bus.DirectConnection {
		t.Fatalf("bus = %+v", e.Bus)
	}
	if len(e.Bus.Parameters) != 1 || e.Bus.Parameters[0] != "DATA_WIDTH" {
		t.Fatalf("bus parameters = %v", e.Bus.Parameters)
	}
	if len(e.Abstraction.Ports) != 2 {
		t.Fatalf("abstraction ports = %+v", e.Abstraction.Ports)
	}
}

func TestLoadMirrorInference(t *testing.T) {
	root := t.TempDir()
	writeLibrary(t, root, map[string]string{
		"AXI4.xml":     busDefXML("AXI4", true),
		"AXI4_rtl.xml": absDefXML("AXI4_rtl", "AXI4"),
	})

	cat, err := Load(root, "", false, runlog.New(nil))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	ports := cat.Entries()[0].Abstraction.Ports

	awaddr := ports[0]
	if awaddr.Name != "AWADDR" || awaddr.Slave == nil || !awaddr.Mirrored {
		t.Fatalf("AWADDR slave side should be mirrored: %+v", awaddr)
	}
	if awaddr.Slave.Dir != SideDirIn {
		t.Fatalf("mirrored AWADDR slave direction = %v, want in", awaddr.Slave.Dir)
	}
	if awaddr.Slave.Presence != PresenceRequired {
		t.Fatalf("mirrored presence = %v", awaddr.Slave.Presence)
	}

	awready := ports[1]
	if awready.Mirrored {
		t.Fatalf("AWREADY has an explicit slave side and must not be mirrored")
	}
}

func TestLoadClockResetClassification(t *testing.T) {
	root := t.TempDir()
	writeLibrary(t, root, map[string]string{
		"Clock.xml":     busDefXML("Clock", false),
		"Clock_rtl.xml": absDefXML("Clock_rtl", "Clock"),
		"Reset.xml":     busDefXML("Reset", false),
		"Reset_rtl.xml": absDefXML("Reset_rtl", "Reset"),
		"AXI4.xml":      busDefXML("AXI4", true),
		"AXI4_rtl.xml":  absDefXML("AXI4_rtl", "AXI4"),
		// Exact-name rule: a bus merely containing "clock" must not be
		// classified as the dedicated clock definition.
		"ClockGating.xml":     busDefXML("ClockGating", false),
		"ClockGating_rtl.xml": absDefXML("ClockGating_rtl", "ClockGating"),
	})

	cat, err := Load(root, "", false, runlog.New(nil))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cr := cat.ClockResetEntries()
	if len(cr) != 2 {
		t.Fatalf("clock/reset entries = %d, want 2", len(cr))
	}
	for _, e := range cr {
		if e.Bus.VLNV.Name != "Clock" && e.Bus.VLNV.Name != "Reset" {
			t.Fatalf("unexpected clock/reset entry %s", e.Bus.VLNV)
		}
	}
}

func TestLoadSkipsMalformedXML(t *testing.T) {
	root := t.TempDir()
	writeLibrary(t, root, map[string]string{
		"good.xml":   busDefXML("AXI4", true),
		"good2.xml":  absDefXML("AXI4_rtl", "AXI4"),
		"broken.xml": "<ipxact:busDefinition><unclosed>",
		"other.xml":  "<component>not a definition</component>",
	})

	report := runlog.New(nil)
	cat, err := Load(root, "", false, report)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cat.Len() != 1 {
		t.Fatalf("catalog has %d entries, want 1", cat.Len())
	}
}

func TestLoadMissingRootIsNonFatal(t *testing.T) {
	report := runlog.New(nil)
	cat, err := Load(filepath.Join(t.TempDir(), "nope"), "", false, report)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cat.Len() != 0 {
		t.Fatalf("catalog should be empty")
	}
	if report.CountKind(corerr.LibraryIoError) == 0 {
		t.Fatalf("expected a LibraryIoError diagnostic")
	}
}

func TestCacheRoundTrip(t *testing.T) {
	root := t.TempDir()
	writeLibrary(t, root, map[string]string{
		"AXI4.xml":     busDefXML("AXI4", true),
		"AXI4_rtl.xml": absDefXML("AXI4_rtl", "AXI4"),
	})
	cachePath := filepath.Join(t.TempDir(), "catalog.cache")

	cat1, err := Load(root, cachePath, false, runlog.New(nil))
	if err != nil {
		t.Fatalf("first Load failed: %v", err)
	}
	if _, err := os.Stat(cachePath); err != nil {
		t.Fatalf("cache file not written: %v", err)
	}

	// Remove the library; a fresh Load must still succeed from the cache
	// because the observed max mtime (0 for a missing tree) is not newer
	// than the recorded one.
	if err := os.RemoveAll(root); err != nil {
		t.Fatalf("RemoveAll failed: %v", err)
	}
	cat2, err := Load(root, cachePath, false, runlog.New(nil))
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if cat2.Len() != cat1.Len() {
		t.Fatalf("cache round trip changed entry count: %d -> %d", cat1.Len(), cat2.Len())
	}
	e1, e2 := cat1.Entries()[0], cat2.Entries()[0]
	if e1.Bus.VLNV != e2.Bus.VLNV || e1.Abstraction.VLNV != e2.Abstraction.VLNV {
		t.Fatalf("cache round trip changed VLNVs: %+v vs %+v", e1, e2)
	}
	if len(e2.Abstraction.Ports) != len(e1.Abstraction.Ports) {
		t.Fatalf("cache round trip lost logical ports")
	}
}

func TestCacheStaleness(t *testing.T) {
	root := t.TempDir()
	writeLibrary(t, root, map[string]string{
		"AXI4.xml":     busDefXML("AXI4", true),
		"AXI4_rtl.xml": absDefXML("AXI4_rtl", "AXI4"),
	})
	cachePath := filepath.Join(t.TempDir(), "catalog.cache")

	if _, err := Load(root, cachePath, false, runlog.New(nil)); err != nil {
		t.Fatalf("first Load failed: %v", err)
	}

	// Grow the library and bump its mtime past the cached one.
	writeLibrary(t, root, map[string]string{
		"APB.xml":     busDefXML("APB", true),
		"APB_rtl.xml": absDefXML("APB_rtl", "APB"),
	})
	future := time.Now().Add(2 * time.Second)
	for _, name := range []string{"APB.xml", "APB_rtl.xml"} {
		if err := os.Chtimes(filepath.Join(root, name), future, future); err != nil {
			t.Fatalf("Chtimes failed: %v", err)
		}
	}

	cat, err := Load(root, cachePath, false, runlog.New(nil))
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if cat.Len() != 2 {
		t.Fatalf("stale cache not rebuilt: %d entries, want 2", cat.Len())
	}
}

func TestRebuildBypassesCache(t *testing.T) {
	root := t.TempDir()
	writeLibrary(t, root, map[string]string{
		"AXI4.xml":     busDefXML("AXI4", true),
		"AXI4_rtl.xml": absDefXML("AXI4_rtl", "AXI4"),
	})
	cachePath := filepath.Join(t.TempDir(), "catalog.cache")

	if _, err := Load(root, cachePath, false, runlog.New(nil)); err != nil {
		t.Fatalf("first Load failed: %v", err)
	}
	if err := os.RemoveAll(root); err != nil {
		t.Fatalf("RemoveAll failed: %v", err)
	}

	cat, err := Load(root, cachePath, true, runlog.New(nil))
	if err != nil {
		t.Fatalf("rebuild Load failed: %v", err)
	}
	if cat.Len() != 0 {
		t.Fatalf("rebuild should reflect the (now empty) tree, got %d entries", cat.Len())
	}
}
