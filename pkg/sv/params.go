package sv

import "github.com/busmap/sv2ipxact/pkg/corerr"

// parseParameterPortList parses the `#( ... )` parameter port list, after
// the caller has already consumed the leading `#`.
func (p *Parser) parseParameterPortList(ts *tokenStream, mod *Module) error {
	if !ts.is("LParen") {
		return corerr.New(corerr.MalformedParameter, "expected '(' after '#'")
	}
	ts.next()

	isLocal := false
	for !ts.eof() && !ts.is("RParen") {
		if ts.is("KwParameter") {
			isLocal = false
			ts.next()
		} else if ts.is("KwLocalparam") {
			isLocal = true
			ts.next()
		}

		se := scanEntry(ts, "Comma", "RParen", "Assign")
		if !se.hasName {
			if p.Report != nil {
				p.Report.Warn(corerr.MalformedParameter, "parameter entry has no identifiable name")
			}
			if ts.is("Comma") {
				ts.next()
				continue
			}
			break
		}

		typeTag := ""
		if len(se.tokens) > 0 {
			typeTag = trimSpace(ts.textBetween(se.tokens[0], se.lastName))
		}
		param := Parameter{Name: se.lastName.Value, TypeTag: typeTag, IsLocal: isLocal}

		if ts.is("Assign") {
			ts.next()
			param.DefaultValue = consumeExprUntil(ts, "Comma", "RParen")
		}

		mod.Parameters = append(mod.Parameters, param)

		if ts.is("Comma") {
			ts.next()
			continue
		}
		break
	}
	if ts.is("RParen") {
		ts.next()
	}
	return nil
}
