package sv

import "github.com/alecthomas/participle/v2/lexer"

// svLexer tokenizes cleaned SystemVerilog header text. It follows the same
// participle lexer.MustSimple construction the BSDL grammar uses, adapted
// to SystemVerilog's token set; the header parser below walks the token
// stream by hand (rather than a declarative participle grammar) so it can
// track balanced-delimiter depth and "sticky" port direction the way the
// language actually requires.
var svLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},

	{Name: "KwModule", Pattern: `\bmodule\b`},
	{Name: "KwEndmodule", Pattern: `\bendmodule\b`},
	{Name: "KwParameter", Pattern: `\bparameter\b`},
	{Name: "KwLocalparam", Pattern: `\blocalparam\b`},
	{Name: "KwInput", Pattern: `\binput\b`},
	{Name: "KwOutput", Pattern: `\boutput\b`},
	{Name: "KwInout", Pattern: `\binout\b`},
	{Name: "KwSigned", Pattern: `\bsigned\b`},
	{Name: "KwUnsigned", Pattern: `\bunsigned\b`},
	{Name: "KwType", Pattern: `\btype\b`},

	{Name: "BacktickIdent", Pattern: "`[a-zA-Z_][a-zA-Z0-9_$]*"},

	{Name: "Real", Pattern: `[0-9][0-9_]*\.[0-9][0-9_]*([eE][-+]?[0-9]+)?`},
	{Name: "BasedNumber", Pattern: `[0-9]*'[sS]?[bBoOdDhH][0-9a-fA-FxXzZ_?]+`},
	{Name: "Integer", Pattern: `[0-9][0-9_]*`},
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},

	{Name: "Ident", Pattern: `[a-zA-Z_$][a-zA-Z0-9_$]*`},

	{Name: "Assign", Pattern: `=`},
	{Name: "Hash", Pattern: `#`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Semicolon", Pattern: `;`},
	{Name: "Colon", Pattern: `:`},
	{Name: "Dot", Pattern: `\.`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "LBracket", Pattern: `\[`},
	{Name: "RBracket", Pattern: `\]`},
	{Name: "LBrace", Pattern: `\{`},
	{Name: "RBrace", Pattern: `\}`},
	{Name: "Op", Pattern: `[-+*/%<>!&|^~@$]+`},
})
