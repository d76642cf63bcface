package runlog

import (
	"testing"

	"github.com/busmap/sv2ipxact/pkg/corerr"
)

func TestReportCollectsWithoutLogger(t *testing.T) {
	r := New(nil)
	if !r.Empty() {
		t.Fatalf("fresh report not empty")
	}
	r.Warn(corerr.NoMatch, "group %q unmatched", "M_AXI")
	r.WarnAt(corerr.PreprocessorError, 12, "unterminated comment")

	if r.Empty() || len(r.Entries) != 2 {
		t.Fatalf("entries = %+v", r.Entries)
	}
	if r.CountKind(corerr.NoMatch) != 1 || r.CountKind(corerr.PreprocessorError) != 1 {
		t.Fatalf("kind counts wrong: %+v", r.Entries)
	}
	if r.CountKind(corerr.AmbiguousMatch) != 0 {
		t.Fatalf("unexpected kind counted")
	}
	if r.Entries[1].Line != 12 {
		t.Fatalf("line not recorded: %+v", r.Entries[1])
	}
	if r.Entries[0].Message != `group "M_AXI" unmatched` {
		t.Fatalf("message = %q", r.Entries[0].Message)
	}
}
