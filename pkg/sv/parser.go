package sv

import (
	plexer "github.com/alecthomas/participle/v2/lexer"

	"github.com/busmap/sv2ipxact/pkg/corerr"
	"github.com/busmap/sv2ipxact/pkg/runlog"
)

// Parser turns preprocessed SystemVerilog source into a Module (spec §4.2).
// Unlike pkg/bsdl's declarative participle grammar, the header grammar here
// is walked by hand over the participle-generated token stream: direction
// "stickiness" across commas and balanced-delimiter expression capture
// don't compose cleanly as a static struct grammar, so the parser tracks
// bracket/paren depth itself while still reusing participle for lexing.
type Parser struct {
	Report *runlog.Report
}

// NewParser creates a header parser. report may be nil.
func NewParser(report *runlog.Report) *Parser {
	return &Parser{Report: report}
}

// ParseString preprocesses and parses raw SystemVerilog source, returning
// the first top-level module found.
func (p *Parser) ParseString(src, sourceFile string) (*Module, error) {
	cleaned := Preprocess(src, p.Report)

	ts, err := newTokenStream(cleaned)
	if err != nil {
		return nil, corerr.Wrap(corerr.NoModuleFound, "tokenize failed", err)
	}

	if !skipToModule(ts) {
		return nil, corerr.New(corerr.NoModuleFound, "no `module` declaration found")
	}
	ts.next() // consume KwModule

	if !ts.is("Ident") {
		return nil, corerr.New(corerr.NoModuleFound, "module keyword not followed by a name")
	}
	nameTok := ts.next()

	mod := &Module{Name: nameTok.Value, SourceFile: sourceFile}

	if ts.is("Hash") {
		ts.next()
		if err := p.parseParameterPortList(ts, mod); err != nil {
			return mod, err
		}
	}

	var bareNames []string
	if ts.is("LParen") {
		bare, err := p.parsePortList(ts, mod)
		if err != nil {
			return mod, err
		}
		bareNames = bare
	}

	// Consume up to the header terminator; body scanning continues from
	// here for non-ANSI port declarations.
	for !ts.eof() && !ts.is("Semicolon") {
		ts.next()
	}
	if ts.is("Semicolon") {
		ts.next()
	}

	if len(bareNames) > 0 {
		p.scanBodyPortDecls(ts, mod, bareNames)
	}

	return mod, nil
}

func skipToModule(ts *tokenStream) bool {
	for !ts.eof() {
		if ts.is("KwModule") {
			return true
		}
		ts.next()
	}
	return false
}

// consumeExprUntil advances past a balanced-delimiter expression, stopping
// when, at bracket depth zero, the next token's symbolic name is one of
// stop. It returns the verbatim source text of the expression (trimmed).
func consumeExprUntil(ts *tokenStream, stop ...string) string {
	start := ts.peek()
	depth := 0
	for !ts.eof() {
		t := ts.peek()
		if depth == 0 {
			for _, s := range stop {
				if ts.is(s) {
					return ts.textToCurrent(start)
				}
			}
		}
		switch symbolName(t.Type) {
		case "LParen", "LBracket", "LBrace":
			depth++
		case "RParen", "RBracket", "RBrace":
			if depth == 0 {
				return ts.textToCurrent(start)
			}
			depth--
		}
		ts.next()
	}
	return ts.textToCurrent(start)
}

var tokenNames map[plexer.TokenType]string

func symbolName(t plexer.TokenType) string {
	if tokenNames == nil {
		tokenNames = make(map[plexer.TokenType]string)
		for name, tt := range svLexer.Symbols() {
			tokenNames[tt] = name
		}
	}
	return tokenNames[t]
}

// scannedEntry is the result of scanEntry, which consumes tokens forward
// while tracking bracket depth, recording every top-level Ident token,
// until a stop token (left unconsumed) is seen at depth zero or an
// unmatched closing bracket is reached. It holds the tokens consumed, the
// last Ident seen (the declared name), and the stop token's symbolic name.
type scannedEntry struct {
	tokens   []plexer.Token
	lastName plexer.Token
	hasName  bool
	hasDot   bool
	hasSign  string // "signed" | "unsigned" | ""
	stop     string
}

func scanEntry(ts *tokenStream, stop ...string) scannedEntry {
	var se scannedEntry
	depth := 0
	for !ts.eof() {
		if depth == 0 {
			matched := false
			for _, s := range stop {
				if ts.is(s) {
					se.stop = s
					matched = true
					break
				}
			}
			if matched {
				return se
			}
		}
		t := ts.peek()
		switch symbolName(t.Type) {
		case "LParen", "LBracket", "LBrace":
			depth++
		case "RParen", "RBracket", "RBrace":
			if depth == 0 {
				se.stop = symbolName(t.Type)
				return se
			}
			depth--
		case "Ident":
			if depth == 0 {
				se.lastName = t
				se.hasName = true
			}
		case "Dot":
			if depth == 0 {
				se.hasDot = true
			}
		case "KwSigned":
			se.hasSign = "signed"
		case "KwUnsigned":
			se.hasSign = "unsigned"
		}
		se.tokens = append(se.tokens, t)
		ts.next()
	}
	se.stop = "EOF"
	return se
}

// parseOptionalRange parses a `[ expr ( : expr )? ]` group if present.
func parseOptionalRange(ts *tokenStream) *Range {
	if !ts.is("LBracket") {
		return nil
	}
	ts.next()
	left := consumeExprUntil(ts, "Colon", "RBracket")
	endian := EndianBig
	right := left
	if ts.is("Colon") {
		ts.next()
		right = consumeExprUntil(ts, "RBracket")
	}
	if ts.is("RBracket") {
		ts.next()
	}
	// [L:H] with the numerically larger bound on the right is ascending,
	// i.e. little-endian; only decidable when both bounds are literals.
	if rv, rOK := literalInt(right); rOK {
		if lv, lOK := literalInt(left); lOK && lv < rv {
			endian = EndianLittle
		}
	}
	return &Range{Left: left, Right: right, Endianness: endian}
}
