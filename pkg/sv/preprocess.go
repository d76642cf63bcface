package sv

import (
	"github.com/busmap/sv2ipxact/pkg/corerr"
	"github.com/busmap/sv2ipxact/pkg/runlog"
)

// preprocState is the scanner state for comment/string recognition (spec
// §4.1). Conditional-compilation tracking is a separate stack threaded
// alongside it.
type preprocState int

const (
	stateNormal preprocState = iota
	stateLineComment
	stateBlockComment
	stateDQuoteString
)

// condFrame is one level of `ifdef/`ifndef/`else nesting.
type condFrame struct {
	// emitting is whether this frame's currently active branch should be
	// emitted.
	emitting bool
	// everEmitted tracks whether any branch of this frame has emitted
	// yet, so a later `else after an emitting branch stays suppressed.
	everEmitted bool
}

// Preprocess strips comments and inactive conditional regions from raw
// SystemVerilog source text, replacing removed characters with spaces so
// that line and column positions of the surviving text are preserved.
// Because no macro-definition table is evaluated, every `ifdef NAME is
// treated as NAME undefined: the `ifdef branch is dropped and the
// `ifndef/`else branch is kept (spec §4.1 rationale: under-expose rather
// than fabricate ports). report may be nil.
func Preprocess(src string, report *runlog.Report) string {
	out := []byte(src)

	state := stateNormal
	conds := []condFrame{{emitting: true, everEmitted: true}}
	line := 1

	emitting := func() bool {
		return conds[len(conds)-1].emitting
	}
	blank := func(i int) {
		if src[i] != '\n' {
			out[i] = ' '
		}
	}
	blankRange := func(from, to int) {
		for j := from; j < to && j < len(src); j++ {
			if src[j] != '\n' {
				out[j] = ' '
			}
		}
	}
	warn := func(msg string) {
		if report != nil {
			report.WarnAt(corerr.PreprocessorError, line, "%s", msg)
		}
	}

	i, n := 0, len(src)
	for i < n {
		c := src[i]
		if c == '\n' {
			line++
		}

		switch state {
		case stateLineComment:
			blank(i)
			if c == '\n' {
				state = stateNormal
			}
			i++

		case stateBlockComment:
			if c == '*' && i+1 < n && src[i+1] == '/' {
				blank(i)
				blank(i + 1)
				i += 2
				state = stateNormal
				continue
			}
			blank(i)
			i++

		case stateDQuoteString:
			if !emitting() {
				blank(i)
			}
			if c == '\\' && i+1 < n {
				if !emitting() {
					blank(i + 1)
				}
				i += 2
				continue
			}
			if c == '"' {
				state = stateNormal
			}
			i++

		case stateNormal:
			switch {
			case c == '/' && i+1 < n && src[i+1] == '/':
				blank(i)
				blank(i + 1)
				i += 2
				state = stateLineComment

			case c == '/' && i+1 < n && src[i+1] == '*':
				blank(i)
				blank(i + 1)
				i += 2
				state = stateBlockComment

			case c == '"':
				if !emitting() {
					blank(i)
				}
				state = stateDQuoteString
				i++

			case c == '`':
				directive, rest := readDirectiveName(src[i+1:])
				switch directive {
				case "ifdef", "ifndef":
					active := directive == "ifndef" // undefined-NAME assumption
					consumed := 1 + len(directive) + nameSpan(rest)
					blankRange(i, i+consumed)
					i += consumed
					conds = append(conds, condFrame{emitting: emitting() && active, everEmitted: active})

				case "else":
					if len(conds) <= 1 {
						warn("`else without matching `ifdef/`ifndef")
					} else {
						top := &conds[len(conds)-1]
						parentActive := conds[len(conds)-2].emitting
						top.emitting = parentActive && !top.everEmitted
						top.everEmitted = top.everEmitted || top.emitting
					}
					consumed := 1 + len(directive)
					blankRange(i, i+consumed)
					i += consumed

				case "endif":
					if len(conds) <= 1 {
						warn("`endif without matching `ifdef/`ifndef")
					} else {
						conds = conds[:len(conds)-1]
					}
					consumed := 1 + len(directive)
					blankRange(i, i+consumed)
					i += consumed

				case "define", "include":
					end := i
					for end < n && src[end] != '\n' {
						end++
					}
					blankRange(i, end)
					i = end

				default:
					// Any other `NAME reference expands to the empty
					// string (conservative, no macro table).
					if directive == "" {
						if !emitting() {
							blank(i)
						}
						i++
						continue
					}
					consumed := 1 + len(directive)
					blankRange(i, i+consumed)
					i += consumed
				}

			default:
				if !emitting() {
					blank(i)
				}
				i++
			}
		}
	}

	if state == stateBlockComment {
		warn("unterminated block comment")
	}
	if len(conds) > 1 {
		warn("unbalanced `ifdef/`endif")
	}

	return string(out)
}

// readDirectiveName reads the backtick-keyword immediately following a `.
func readDirectiveName(rest string) (name string, remainder string) {
	j := 0
	for j < len(rest) && isIdentByte(rest[j], j == 0) {
		j++
	}
	return rest[:j], rest[j:]
}

// nameSpan measures how much of rest is consumed by optional leading
// whitespace followed by one identifier (the macro/conditional name).
func nameSpan(rest string) int {
	j := 0
	for j < len(rest) && (rest[j] == ' ' || rest[j] == '\t') {
		j++
	}
	start := j
	for j < len(rest) && isIdentByte(rest[j], j == start) {
		j++
	}
	return j
}

func isIdentByte(c byte, first bool) bool {
	if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' {
		return true
	}
	return !first && c >= '0' && c <= '9'
}
