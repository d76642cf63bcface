package portgroup

import (
	"reflect"
	"testing"

	"github.com/busmap/sv2ipxact/pkg/sv"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		name string
		want []string
	}{
		{"M_AXI_AWADDR", []string{"M", "AXI", "AWADDR"}},
		{"m_axi_awaddr_o", []string{"M", "AXI", "AWADDR", "O"}},
		{"DfiWrDataEn", []string{"DFI", "WR", "DATA", "EN"}},
		{"clk", []string{"CLK"}},
	}
	for _, c := range cases {
		if got := Tokenize(c.name); !reflect.DeepEqual(got, c.want) {
			t.Fatalf("Tokenize(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestPrefixesAndSuffixes(t *testing.T) {
	toks := []string{"M", "AXI", "AWADDR"}
	wantP := []string{"M", "M_AXI", "M_AXI_AWADDR"}
	if got := Prefixes(toks); !reflect.DeepEqual(got, wantP) {
		t.Fatalf("Prefixes = %v, want %v", got, wantP)
	}
	wantS := []string{"M_AXI_AWADDR", "AXI_AWADDR", "AWADDR"}
	if got := Suffixes(toks); !reflect.DeepEqual(got, wantS) {
		t.Fatalf("Suffixes = %v, want %v", got, wantS)
	}
}

func TestClassifyClockReset(t *testing.T) {
	clocks := []string{"clk", "CLK", "clock", "aclk"}
	for _, n := range clocks {
		if ClassifyClockReset(n) != KindClock {
			t.Fatalf("%q should classify as clock", n)
		}
	}
	resets := []string{"rst", "rst_n", "reset", "aresetn", "ARESETN"}
	for _, n := range resets {
		if ClassifyClockReset(n) != KindReset {
			t.Fatalf("%q should classify as reset", n)
		}
	}
	if ClassifyClockReset("m_axi_aclk_en") != NotClockReset {
		t.Fatalf("compound name wrongly classified")
	}
}

func TestPolarity(t *testing.T) {
	if Polarity("rst_n") != "ACTIVE_LOW" {
		t.Fatalf("rst_n should be active low")
	}
	if Polarity("aresetn") != "ACTIVE_LOW" {
		t.Fatalf("aresetn should be active low")
	}
	if Polarity("reset") != "ACTIVE_HIGH" {
		t.Fatalf("reset should be active high")
	}
}

func mkPorts(names ...string) []sv.Port {
	out := make([]sv.Port, len(names))
	for i, n := range names {
		out[i] = sv.Port{Name: n, Direction: sv.DirInput}
	}
	return out
}

func groupByName(groups []Group, name string) *Group {
	for i := range groups {
		if groups[i].Name == name {
			return &groups[i]
		}
	}
	return nil
}

func TestGroupAxiMasterExample(t *testing.T) {
	mod := &sv.Module{Name: "axi_master_example"}
	mod.Ports = append(mod.Ports, mkPorts("clk", "rst_n", "start", "done")...)
	axi := []string{
		"m_axi_awaddr", "m_axi_awvalid", "m_axi_awready",
		"m_axi_wdata", "m_axi_wvalid", "m_axi_wready",
		"m_axi_bresp", "m_axi_bvalid", "m_axi_bready",
		"m_axi_araddr", "m_axi_arvalid", "m_axi_arready",
		"m_axi_rdata", "m_axi_rvalid", "m_axi_rready",
	}
	mod.Ports = append(mod.Ports, mkPorts(axi...)...)

	groups, residual := Partition(mod)

	g := groupByName(groups, "M_AXI")
	if g == nil {
		t.Fatalf("no M_AXI group; groups = %+v", groups)
	}
	if len(g.Ports) != len(axi) {
		t.Fatalf("M_AXI group has %d ports, want %d", len(g.Ports), len(axi))
	}
	if c := groupByName(groups, "clk"); c == nil || c.Kind != KindClockGroup {
		t.Fatalf("clk not a clock group: %+v", c)
	}
	if r := groupByName(groups, "rst_n"); r == nil || r.Kind != KindResetGroup {
		t.Fatalf("rst_n not a reset group: %+v", r)
	}
	if len(residual) != 2 {
		t.Fatalf("residual = %+v, want start and done", residual)
	}
}

func TestGroupSplitsSharedRoot(t *testing.T) {
	// AXI_M_* and AXI_S_* share the one-token root AXI but must split at
	// their longest common prefixes.
	mod := &sv.Module{}
	mod.Ports = append(mod.Ports, mkPorts(
		"axi_m_awaddr", "axi_m_awvalid", "axi_m_awready",
		"axi_s_awaddr", "axi_s_awvalid", "axi_s_awready",
	)...)

	groups, residual := Partition(mod)
	if len(residual) != 0 {
		t.Fatalf("unexpected residual: %+v", residual)
	}
	m := groupByName(groups, "AXI_M")
	s := groupByName(groups, "AXI_S")
	if m == nil || s == nil {
		t.Fatalf("expected AXI_M and AXI_S groups, got %+v", groups)
	}
	if len(m.Ports) != 3 || len(s.Ports) != 3 {
		t.Fatalf("group sizes wrong: M=%d S=%d", len(m.Ports), len(s.Ports))
	}
	if groupByName(groups, "AXI") != nil {
		t.Fatalf("one-token AXI group should not form when longer prefixes exist")
	}
}

func TestGroupCustomPrefixNeedsThreePorts(t *testing.T) {
	mod := &sv.Module{}
	mod.Ports = append(mod.Ports, mkPorts("amb_data", "amb_valid", "amb_ready")...)
	groups, residual := Partition(mod)
	if g := groupByName(groups, "AMB"); g == nil || len(g.Ports) != 3 {
		t.Fatalf("amb_* should form a group: %+v", groups)
	}
	if len(residual) != 0 {
		t.Fatalf("residual = %+v", residual)
	}

	// Two incidentally similar ports are not enough for a custom root.
	mod2 := &sv.Module{}
	mod2.Ports = append(mod2.Ports, mkPorts("foo_a", "foo_b")...)
	groups2, residual2 := Partition(mod2)
	if len(groups2) != 0 || len(residual2) != 2 {
		t.Fatalf("foo_* pair should stay ungrouped: %+v / %+v", groups2, residual2)
	}
}

func TestGroupPostfixedPorts(t *testing.T) {
	mod := &sv.Module{}
	mod.Ports = append(mod.Ports, mkPorts(
		"m_axi_awaddr_o", "m_axi_awvalid_o", "m_axi_awready_i",
	)...)
	groups, _ := Partition(mod)
	if g := groupByName(groups, "M_AXI"); g == nil || len(g.Ports) != 3 {
		t.Fatalf("postfixed ports should still group under M_AXI: %+v", groups)
	}
}

func TestGroupInterfacePortsGoToResidual(t *testing.T) {
	mod := &sv.Module{}
	mod.Ports = []sv.Port{
		{Name: "bus_m", Direction: sv.DirInout, IsInterface: true},
		{Name: "clk", Direction: sv.DirInput},
	}
	groups, residual := Partition(mod)
	if len(residual) != 1 || residual[0].Name != "bus_m" {
		t.Fatalf("interface port should be residual: %+v", residual)
	}
	if c := groupByName(groups, "clk"); c == nil {
		t.Fatalf("clk group missing")
	}
}
