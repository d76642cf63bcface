// Package corerr defines the error-kind vocabulary shared by every stage of
// the conversion pipeline (spec §7).
package corerr

import "fmt"

// Kind discriminates the error categories the pipeline can raise. Fatal
// kinds abort the run; the rest are collected into a run report.
type Kind int

const (
	// SourceIoError means the input SystemVerilog file could not be read.
	SourceIoError Kind = iota
	// PreprocessorError means an unterminated comment or unbalanced
	// `ifdef region was found; recovery continues with partial text.
	PreprocessorError
	// NoModuleFound means the parser located zero module declarations.
	NoModuleFound
	// MalformedPort means a single port entry failed to parse and was
	// dropped; the module is still returned.
	MalformedPort
	// MalformedParameter means a single parameter entry failed to parse
	// and was dropped.
	MalformedParameter
	// LibraryIoError means the library root is missing or empty.
	LibraryIoError
	// LibraryParseWarning means one catalog XML file failed to parse and
	// was skipped.
	LibraryParseWarning
	// NoMatch means a port group failed to clear the acceptance
	// threshold against every catalog candidate.
	NoMatch
	// AmbiguousMatch means two candidates scored within the ambiguity
	// margin of each other.
	AmbiguousMatch
	// OutputIoError means the serializer could not write its output.
	OutputIoError
)

func (k Kind) String() string {
	switch k {
	case SourceIoError:
		return "SourceIoError"
	case PreprocessorError:
		return "PreprocessorError"
	case NoModuleFound:
		return "NoModuleFound"
	case MalformedPort:
		return "MalformedPort"
	case MalformedParameter:
		return "MalformedParameter"
	case LibraryIoError:
		return "LibraryIoError"
	case LibraryParseWarning:
		return "LibraryParseWarning"
	case NoMatch:
		return "NoMatch"
	case AmbiguousMatch:
		return "AmbiguousMatch"
	case OutputIoError:
		return "OutputIoError"
	default:
		return "UnknownError"
	}
}

// Fatal reports whether an error of this kind must abort the run, per the
// propagation policy in spec §7.
func (k Kind) Fatal() bool {
	switch k {
	case SourceIoError, NoModuleFound, OutputIoError:
		return true
	default:
		return false
	}
}

// Error is the concrete error type carried through the pipeline. Line is
// 0 when the error has no source-position context.
type Error struct {
	Kind   Kind
	Msg    string
	Line   int
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Line > 0 {
		if e.Detail != "" {
			return fmt.Sprintf("%s: line %d: %s (%s)", e.Kind, e.Line, e.Msg, e.Detail)
		}
		return fmt.Sprintf("%s: line %d: %s", e.Kind, e.Line, e.Msg)
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Msg, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error with no source position.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf builds an Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// At builds an Error anchored to a source line.
func At(kind Kind, line int, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Line: line}
}

// Wrap builds an Error that chains an underlying cause.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}
