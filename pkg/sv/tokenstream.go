package sv

import (
	"strings"

	plexer "github.com/alecthomas/participle/v2/lexer"
)

// tokenStream wraps the participle-generated lexer with one-token lookahead
// and whitespace elision, and remembers the source text so expressions can
// be sliced out verbatim by byte offset instead of reassembled from tokens.
type tokenStream struct {
	src  string
	toks []plexer.Token
	pos  int
}

func newTokenStream(src string) (*tokenStream, error) {
	wsType := svLexer.Symbols()["Whitespace"]

	lx, err := svLexer.Lex("", strings.NewReader(src))
	if err != nil {
		return nil, err
	}

	ts := &tokenStream{src: src}
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF() {
			ts.toks = append(ts.toks, tok)
			break
		}
		if tok.Type == wsType {
			continue
		}
		ts.toks = append(ts.toks, tok)
	}
	return ts, nil
}

func (ts *tokenStream) eof() bool {
	return ts.pos >= len(ts.toks) || ts.toks[ts.pos].EOF()
}

func (ts *tokenStream) peek() plexer.Token {
	if ts.pos >= len(ts.toks) {
		return ts.toks[len(ts.toks)-1]
	}
	return ts.toks[ts.pos]
}

func (ts *tokenStream) peekN(n int) plexer.Token {
	i := ts.pos + n
	if i >= len(ts.toks) {
		return ts.toks[len(ts.toks)-1]
	}
	return ts.toks[i]
}

func (ts *tokenStream) next() plexer.Token {
	t := ts.peek()
	if ts.pos < len(ts.toks) {
		ts.pos++
	}
	return t
}

// is reports whether the next token has the given symbolic name.
func (ts *tokenStream) is(name string) bool {
	return !ts.eof() && ts.peek().Type == svLexer.Symbols()[name]
}

// textBetween returns the verbatim source text spanning from the start
// token's offset up to (not including) the end token's offset.
func (ts *tokenStream) textBetween(startTok, endTokExclusive plexer.Token) string {
	from := startTok.Pos.Offset
	to := endTokExclusive.Pos.Offset
	if to <= from || to > len(ts.src) {
		return ""
	}
	return ts.src[from:to]
}

// textToCurrent returns source text from startTok up to (not including) the
// current lookahead token, trimmed.
func (ts *tokenStream) textToCurrent(startTok plexer.Token) string {
	return trimSpace(ts.textBetween(startTok, ts.peek()))
}
