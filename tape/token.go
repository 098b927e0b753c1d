package tape

// TokenType identifies the lexical category of a token.
type TokenType string

const (
	TokenMoveRight TokenType = ">"
	TokenMoveLeft  TokenType = "<"
	TokenIncrement TokenType = "+"
	TokenDecrement TokenType = "-"
	TokenInput     TokenType = ","
	TokenOutput    TokenType = "."
	TokenLoopStart TokenType = "["
	TokenLoopEnd   TokenType = "]"

	// TokenNoop covers every rune without an assigned meaning.
	TokenNoop TokenType = "NOOP"
)

// Token captures lexical information for the structurer.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

// Position identifies a rune in the program line. Both fields are 1-based.
type Position struct {
	Line   int
	Column int
}
