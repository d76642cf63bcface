package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFixture(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func fixtureBusDef(name string, addressable bool) string {
	return fmt.Sprintf(`<?xml version="1.0"?>
<ipxact:busDefinition xmlns:ipxact="http://www.accellera.org/XMLSchema/IPXACT/1685-2014">
  <ipxact:vendor>amba.com</ipxact:vendor>
  <ipxact:library>AMBA4</ipxact:library>
  <ipxact:name>%s</ipxact:name>
  <ipxact:version>r0p0</ipxact:version>
  <ipxact:isAddressable>%v</ipxact:isAddressable>
</ipxact:busDefinition>
`, name, addressable)
}

func fixtureAbsDef(name, busName string, logicals []string) string {
	var ports strings.Builder
	for _, l := range logicals {
		dir := "out"
		if strings.HasSuffix(l, "READY") {
			dir = "in"
		}
		fmt.Fprintf(&ports, `    <ipxact:port>
      <ipxact:logicalName>%s</ipxact:logicalName>
      <ipxact:wire>
        <ipxact:onMaster>
          <ipxact:presence>required</ipxact:presence>
          <ipxact:direction>%s</ipxact:direction>
        </ipxact:onMaster>
      </ipxact:wire>
    </ipxact:port>
`, l, dir)
	}
	return fmt.Sprintf(`<?xml version="1.0"?>
<ipxact:abstractionDefinition xmlns:ipxact="http://www.accellera.org/XMLSchema/IPXACT/1685-2014">
  <ipxact:vendor>amba.com</ipxact:vendor>
  <ipxact:library>AMBA4</ipxact:library>
  <ipxact:name>%s</ipxact:name>
  <ipxact:version>r0p0</ipxact:version>
  <ipxact:busType vendor="amba.com" library="AMBA4" name="%s" version="r0p0"/>
  <ipxact:ports>
%s  </ipxact:ports>
</ipxact:abstractionDefinition>
`, name, busName, ports.String())
}

const fixtureSource = `
module axi_writer (
    input  wire        clk,
    input  wire        rst_n,
    output wire [31:0] m_axi_awaddr,
    output wire        m_axi_awvalid,
    input  wire        m_axi_awready,
    output wire [31:0] m_axi_wdata,
    output wire        m_axi_wvalid,
    input  wire        m_axi_wready,
    input  wire        start,
    output wire        done
);
endmodule
`

func TestConvertEndToEnd(t *testing.T) {
	dir := t.TempDir()

	lib := filepath.Join(dir, "library")
	writeFixture(t, filepath.Join(lib, "amba.com/AMBA4/AXI4W/r0p0/AXI4W.xml"),
		fixtureBusDef("AXI4W", true))
	writeFixture(t, filepath.Join(lib, "amba.com/AMBA4/AXI4W/r0p0/AXI4W_rtl.xml"),
		fixtureAbsDef("AXI4W_rtl", "AXI4W",
			[]string{"AWADDR", "AWVALID", "AWREADY", "WDATA", "WVALID", "WREADY"}))
	writeFixture(t, filepath.Join(lib, "amba.com/AMBA4/Clock/r0p0/Clock.xml"),
		fixtureBusDef("Clock", false))
	writeFixture(t, filepath.Join(lib, "amba.com/AMBA4/Clock/r0p0/Clock_rtl.xml"),
		fixtureAbsDef("Clock_rtl", "Clock", []string{"CLK"}))
	writeFixture(t, filepath.Join(lib, "amba.com/AMBA4/Reset/r0p0/Reset.xml"),
		fixtureBusDef("Reset", false))
	writeFixture(t, filepath.Join(lib, "amba.com/AMBA4/Reset/r0p0/Reset_rtl.xml"),
		fixtureAbsDef("Reset_rtl", "Reset", []string{"RESETn"}))

	input := filepath.Join(dir, "axi_writer.sv")
	writeFixture(t, input, fixtureSource)
	output := filepath.Join(dir, "axi_writer.xml")

	inputPath = input
	outputPath = output
	libraryDir = lib
	cachePath = filepath.Join(dir, "cache.db")
	rebuildCache = false
	threshold = 0.6
	revisionFlag = "2014"
	noValidate = true
	defer func() {
		inputPath, outputPath, libraryDir, cachePath = "", "", "library", ".svipxact.cache"
		revisionFlag, noValidate = "2014", false
	}()

	if err := runConvert(convertCmd, nil); err != nil {
		t.Fatalf("runConvert failed: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	out := string(data)

	for _, want := range []string{
		"<ipxact:component",
		"<ipxact:name>M_AXI</ipxact:name>",
		"<ipxact:master>",
		`addressSpaceRef="AS_M_AXI"`,
		"<ipxact:name>AS_M_AXI</ipxact:name>",
		"<ipxact:name>isClock</ipxact:name>",
		"<ipxact:name>start</ipxact:name>",
		"<ipxact:name>done</ipxact:name>",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	// Determinism across a second run (which will hit the catalog cache).
	if err := os.Remove(output); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	inputPath, outputPath, libraryDir = input, output, lib
	cachePath = filepath.Join(dir, "cache.db")
	noValidate = true
	if err := runConvert(convertCmd, nil); err != nil {
		t.Fatalf("second runConvert failed: %v", err)
	}
	data2, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("second output not written: %v", err)
	}
	if string(data2) != out {
		t.Fatalf("two runs over identical input differ")
	}
}

func TestDeriveOutputPath(t *testing.T) {
	cases := map[string]string{
		"dut.sv":      "dut.xml",
		"dut.SV":      "dut.xml",
		"dut.svh":     "dut.xml",
		"a/b/dut.sv":  "a/b/dut.xml",
		"weird.txt":   "weird.txt.xml",
	}
	for in, want := range cases {
		if got := deriveOutputPath(in); got != want {
			t.Fatalf("deriveOutputPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExitCodes(t *testing.T) {
	if got := exitCodeFor(nil); got != exitOK {
		t.Fatalf("nil error -> %d", got)
	}
	if got := exitCodeFor(usageErrorf("bad flag")); got != exitUsage {
		t.Fatalf("usage error -> %d", got)
	}
	if got := exitCodeFor(&validationError{err: os.ErrInvalid}); got != exitValidation {
		t.Fatalf("validation error -> %d", got)
	}
	if got := exitCodeFor(os.ErrNotExist); got != exitRunFailure {
		t.Fatalf("generic error -> %d", got)
	}
}
