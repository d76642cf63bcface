package sv

import (
	plexer "github.com/alecthomas/participle/v2/lexer"

	"github.com/busmap/sv2ipxact/pkg/corerr"
)

var reverseSymbols map[string]plexer.TokenType

func tokenTypeOf(name string) plexer.TokenType {
	if reverseSymbols == nil {
		reverseSymbols = svLexer.Symbols()
	}
	return reverseSymbols[name]
}

func identFollowedByDot(ts *tokenStream) bool {
	return ts.is("Ident") && ts.peekN(1).Type == tokenTypeOf("Dot")
}

// hasDirectionKeywordAhead reports whether an input/output/inout keyword
// appears before the closing paren of the port list whose opening '(' the
// caller has just consumed. It does not consume any tokens.
func hasDirectionKeywordAhead(ts *tokenStream) bool {
	depth := 1
	for i := ts.pos; i < len(ts.toks); i++ {
		t := ts.toks[i]
		switch symbolName(t.Type) {
		case "LParen", "LBracket", "LBrace":
			depth++
		case "RParen", "RBracket", "RBrace":
			depth--
			if depth <= 0 {
				return false
			}
		case "KwInput", "KwOutput", "KwInout":
			if depth == 1 {
				return true
			}
		}
	}
	return false
}

func rangeExprString(r *Range) string {
	if r == nil {
		return ""
	}
	if r.Left == r.Right {
		return r.Left
	}
	return r.Left + ":" + r.Right
}

// parsePortList parses the module's `( ... )` port list, which may be
// ANSI-style (direction and type given inline) or non-ANSI (bare names,
// resolved later from body declarations via scanBodyPortDecls). It returns
// the bare names that still need resolving, in declaration order.
func (p *Parser) parsePortList(ts *tokenStream, mod *Module) ([]string, error) {
	ts.next() // consume LParen
	ansi := hasDirectionKeywordAhead(ts)

	var bareNames []string

	if !ansi {
		for !ts.eof() && !ts.is("RParen") {
			switch {
			case identFollowedByDot(ts):
				iface := ts.next()
				ts.next() // Dot
				if ts.is("Ident") {
					ts.next() // modport
				}
				if ts.is("Ident") {
					name := ts.next()
					mod.Ports = append(mod.Ports, Port{
						Name: name.Value, Direction: DirInout,
						IsInterface: true, TypeToken: iface.Value,
					})
				}
			case ts.is("Ident"):
				name := ts.next()
				for ts.is("LBracket") {
					parseOptionalRange(ts)
				}
				mod.Ports = append(mod.Ports, Port{Name: name.Value, Direction: DirUnknown})
				bareNames = append(bareNames, name.Value)
			default:
				if p.Report != nil {
					p.Report.Warn(corerr.MalformedPort, "expected port name in port list")
				}
				ts.next()
			}
			if ts.is("Comma") {
				ts.next()
				continue
			}
			break
		}
		if ts.is("RParen") {
			ts.next()
		}
		return bareNames, nil
	}

	for !ts.eof() && !ts.is("RParen") {
		var dir Direction
		switch {
		case ts.is("KwInput"):
			dir = DirInput
			ts.next()
		case ts.is("KwOutput"):
			dir = DirOutput
			ts.next()
		case ts.is("KwInout"):
			dir = DirInout
			ts.next()
		case identFollowedByDot(ts):
			iface := ts.next()
			ts.next()
			if ts.is("Ident") {
				ts.next()
			}
			if ts.is("Ident") {
				name := ts.next()
				mod.Ports = append(mod.Ports, Port{
					Name: name.Value, Direction: DirInout,
					IsInterface: true, TypeToken: iface.Value,
				})
			}
			if ts.is("Comma") {
				ts.next()
				continue
			}
			continue
		default:
			if p.Report != nil {
				p.Report.Warn(corerr.MalformedPort, "port entry has no direction and is not an interface reference")
			}
			for !ts.eof() && !ts.is("Comma") && !ts.is("RParen") {
				ts.next()
			}
			if ts.is("Comma") {
				ts.next()
				continue
			}
			continue
		}

		signed := false
	prefixLoop:
		for {
			switch {
			case ts.is("KwSigned"):
				signed = true
				ts.next()
			case ts.is("KwUnsigned"):
				signed = false
				ts.next()
			case ts.is("Ident"):
				nxt := ts.peekN(1)
				if nxt.Type == tokenTypeOf("Ident") || nxt.Type == tokenTypeOf("LBracket") ||
					nxt.Type == tokenTypeOf("KwSigned") || nxt.Type == tokenTypeOf("KwUnsigned") {
					ts.next() // net-type token, opaque
					continue
				}
				break prefixLoop
			default:
				break prefixLoop
			}
		}
		packed := parseOptionalRange(ts)

		for {
			if !ts.is("Ident") {
				if p.Report != nil {
					p.Report.Warn(corerr.MalformedPort, "expected port name")
				}
				break
			}
			name := ts.next()
			var unpacked []Range
			for ts.is("LBracket") {
				if r := parseOptionalRange(ts); r != nil {
					unpacked = append(unpacked, *r)
				}
			}
			mod.Ports = append(mod.Ports, Port{
				Name: name.Value, Direction: dir, Signed: signed,
				Packed: packed, WidthExpr: rangeExprString(packed), Unpacked: unpacked,
			})
			if ts.is("Comma") {
				ts.next()
				if ts.is("KwInput") || ts.is("KwOutput") || ts.is("KwInout") || identFollowedByDot(ts) {
					break
				}
				continue
			}
			break
		}
	}
	if ts.is("RParen") {
		ts.next()
	}
	return bareNames, nil
}

// scanBodyPortDecls resolves non-ANSI port declarations that live in the
// module body (`input wire [W-1:0] name;`) by linear scan, stopping at
// `endmodule`.
func (p *Parser) scanBodyPortDecls(ts *tokenStream, mod *Module, bareNames []string) {
	pending := make(map[string]bool, len(bareNames))
	for _, n := range bareNames {
		pending[n] = true
	}

	for !ts.eof() && !ts.is("KwEndmodule") && len(pending) > 0 {
		var dir Direction
		switch {
		case ts.is("KwInput"):
			dir = DirInput
		case ts.is("KwOutput"):
			dir = DirOutput
		case ts.is("KwInout"):
			dir = DirInout
		default:
			ts.next()
			continue
		}
		ts.next()

		signed := false
		for {
			switch {
			case ts.is("KwSigned"):
				signed = true
				ts.next()
			case ts.is("KwUnsigned"):
				signed = false
				ts.next()
			case ts.is("Ident"):
				nxt := ts.peekN(1)
				if nxt.Type == tokenTypeOf("Ident") || nxt.Type == tokenTypeOf("LBracket") {
					ts.next()
					continue
				}
				goto names
			default:
				goto names
			}
		}
	names:
		packed := parseOptionalRange(ts)

		for ts.is("Ident") {
			name := ts.next()
			var unpacked []Range
			for ts.is("LBracket") {
				if r := parseOptionalRange(ts); r != nil {
					unpacked = append(unpacked, *r)
				}
			}
			if pending[name.Value] {
				for i := range mod.Ports {
					if mod.Ports[i].Name == name.Value {
						mod.Ports[i].Direction = dir
						mod.Ports[i].Signed = signed
						mod.Ports[i].Packed = packed
						mod.Ports[i].WidthExpr = rangeExprString(packed)
						mod.Ports[i].Unpacked = unpacked
						break
					}
				}
				delete(pending, name.Value)
			}
			if ts.is("Comma") {
				ts.next()
				continue
			}
			break
		}
		for !ts.eof() && !ts.is("Semicolon") && !ts.is("KwInput") && !ts.is("KwOutput") &&
			!ts.is("KwInout") && !ts.is("KwEndmodule") {
			ts.next()
		}
		if ts.is("Semicolon") {
			ts.next()
		}
	}
}
