package tape

import (
	"strings"
	"unicode/utf8"
)

type lexer struct {
	input string

	offset int
	width  int

	line   int
	column int

	ch rune
}

func newLexer(input string) *lexer {
	l := &lexer{input: input, line: 1, column: 0}
	l.readRune()
	return l
}

func (l *lexer) readRune() {
	if l.offset >= len(l.input) {
		l.width = 0
		l.ch = 0
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.offset:])
	l.width = w
	l.offset += w
	l.column++
	l.ch = r
}

func (l *lexer) atEnd() bool {
	return l.width == 0
}

// NextToken returns the next token and false once the line terminator or the
// end of input is reached.
func (l *lexer) NextToken() (Token, bool) {
	if l.atEnd() || l.ch == '\n' {
		return Token{}, false
	}

	tok := Token{
		Type:    lookupTokenType(l.ch),
		Literal: string(l.ch),
		Pos:     Position{Line: l.line, Column: l.column},
	}
	l.readRune()
	return tok, true
}

func lookupTokenType(ch rune) TokenType {
	switch ch {
	case '>':
		return TokenMoveRight
	case '<':
		return TokenMoveLeft
	case '+':
		return TokenIncrement
	case '-':
		return TokenDecrement
	case ',':
		return TokenInput
	case '.':
		return TokenOutput
	case '[':
		return TokenLoopStart
	case ']':
		return TokenLoopEnd
	default:
		return TokenNoop
	}
}

// Scan converts program text into one token per rune, stopping at the first
// newline. Unrecognized runes are kept as TokenNoop so that token indexes stay
// aligned with source columns.
func Scan(source string) []Token {
	l := newLexer(source)
	tokens := make([]Token, 0, len(source))
	for {
		tok, ok := l.NextToken()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// sourceOf rebuilds the scanned line from its tokens.
func sourceOf(tokens []Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok.Literal)
	}
	return b.String()
}
