// Package runlog collects the non-fatal diagnostics a conversion run
// produces (spec §7) and mirrors them to a logrus logger so both a human
// reading stderr and a library caller inspecting the returned Report see
// the same information.
package runlog

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/busmap/sv2ipxact/pkg/corerr"
)

// Entry is one recorded diagnostic.
type Entry struct {
	Kind    corerr.Kind
	Message string
	Line    int
}

// Report accumulates diagnostics over the lifetime of one conversion run.
type Report struct {
	Entries []Entry
	log     *logrus.Logger
}

// New creates a Report that mirrors every entry to the given logger. A nil
// logger disables mirroring; entries are still collected.
func New(log *logrus.Logger) *Report {
	return &Report{log: log}
}

// Warn records a non-fatal diagnostic.
func (r *Report) Warn(kind corerr.Kind, format string, args ...any) {
	r.warnAt(kind, 0, format, args...)
}

// WarnAt records a non-fatal diagnostic anchored to a source line.
func (r *Report) WarnAt(kind corerr.Kind, line int, format string, args ...any) {
	r.warnAt(kind, line, format, args...)
}

func (r *Report) warnAt(kind corerr.Kind, line int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.Entries = append(r.Entries, Entry{Kind: kind, Message: msg, Line: line})
	if r.log == nil {
		return
	}
	fields := logrus.Fields{"kind": kind.String()}
	if line > 0 {
		fields["line"] = line
	}
	r.log.WithFields(fields).Warn(msg)
}

// CountKind returns how many entries were recorded for a given kind.
func (r *Report) CountKind(kind corerr.Kind) int {
	n := 0
	for _, e := range r.Entries {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Empty reports whether no diagnostics were recorded.
func (r *Report) Empty() bool {
	return len(r.Entries) == 0
}
