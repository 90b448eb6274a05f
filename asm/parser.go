// Package asm assembles CHIP-8 source in Cowgod's mnemonic syntax.
//
// A source line holds an optional "label:" followed by an instruction or a
// db/dw data directive. Comments start with ';'. Numbers are written as
// decimal, $hex, 0xhex, #hex or %binary. Output is placed at 0x200.
package asm

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// File is the parsed source.
type File struct {
	Lines []*Line `@@*`
}

// Line is one source line.
type Line struct {
	Pos lexer.Position

	Label string `@Label?`
	Instr *Instr `@@?`
	End   bool   `@EOL`
}

// Instr is a mnemonic or directive with its operands.
type Instr struct {
	Pos lexer.Position

	Mnemonic string     `@Ident`
	Operands []*Operand `( @@ ( "," @@ )* )?`
}

// Operand is a register, number, label reference or [I].
type Operand struct {
	Pos lexer.Position

	Indirect bool    `(  @"[" ( "I" | "i" ) "]"`
	Number   *string ` | @Number`
	Ident    *string ` | @Ident )`
}

var sourceLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `;[^\n]*`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	{Name: "EOL", Pattern: `\n`},
	{Name: "Label", Pattern: `[A-Za-z_][A-Za-z0-9_]*:`},
	{Name: "Number", Pattern: `\$[0-9A-Fa-f]+|#[0-9A-Fa-f]+|%[01]+|0[xX][0-9A-Fa-f]+|[0-9]+`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[,\[\]]`},
})

var parser = participle.MustBuild[File](
	participle.Lexer(sourceLexer),
	participle.Elide("Whitespace", "Comment"),
)

// Parse parses source without assembling it. filename is used in error
// positions only.
func Parse(filename, source string) (*File, error) {
	if len(source) == 0 || source[len(source)-1] != '\n' {
		source += "\n"
	}
	return parser.ParseString(filename, source)
}
