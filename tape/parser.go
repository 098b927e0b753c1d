package tape

import (
	"errors"
	"fmt"
)

// unset marks a loop boundary that has not been seen yet.
const unset = -1

type parser struct {
	source   string
	maxDepth int
	errors   []error
}

func newParser(tokens []Token, maxDepth int) *parser {
	return &parser{source: sourceOf(tokens), maxDepth: maxDepth}
}

// Parse structures a flat token sequence into an instruction tree, resolving
// matched brackets into nested loops. Unmatched brackets are reported as
// positioned errors and no instructions are returned.
func Parse(tokens []Token) ([]Instruction, error) {
	return newParser(tokens, 0).parse(tokens)
}

func (p *parser) parse(tokens []Token) ([]Instruction, error) {
	instructions := p.parseLevel(tokens, 0)
	if len(p.errors) > 0 {
		return nil, combineErrors(p.errors)
	}
	return instructions, nil
}

// parseLevel structures one nesting level. It tracks brackets with a single
// depth counter: tokens inside a loop are skipped here and handled by the
// recursive call on the loop body, so each call only ever has to find the
// matching bracket of its outermost open loop. The recursion is the stack the
// counter does not keep.
func (p *parser) parseLevel(tokens []Token, level int) []Instruction {
	start, end := unset, unset
	depth := 0

	instructions := make([]Instruction, 0, len(tokens))
	for index, tok := range tokens {
		var instruction Instruction

		switch tok.Type {
		case TokenMoveRight, TokenMoveLeft, TokenIncrement, TokenDecrement, TokenInput, TokenOutput:
			if depth == 0 {
				op, _ := opForToken(tok.Type)
				instruction = &OpInstr{Op: op, position: tok.Pos}
			}
		case TokenLoopStart:
			if depth == 0 {
				start = index
			}
			depth++
		case TokenLoopEnd:
			switch {
			case depth == 0:
				p.addParseError(tok.Pos, "unmatched ']'")
			case depth == 1:
				end = index
				instruction = p.parseLoop(tokens, start, end, level)
				start, end = unset, unset
				depth = 0
			default:
				depth--
			}
		}

		if instruction != nil {
			instructions = append(instructions, instruction)
		}
	}

	if depth > 0 {
		p.addParseError(tokens[start].Pos, "unclosed '['")
	}
	return instructions
}

func (p *parser) parseLoop(tokens []Token, start, end, level int) Instruction {
	pos := tokens[start].Pos
	if p.maxDepth > 0 && level+1 > p.maxDepth {
		p.addParseError(pos, fmt.Sprintf("loop nesting exceeds limit %d", p.maxDepth))
		return nil
	}
	body := p.parseLevel(tokens[start+1:end], level+1)
	return &LoopInstr{Body: body, position: pos}
}

func combineErrors(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	return errors.Join(errs...)
}
