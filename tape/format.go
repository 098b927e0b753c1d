package tape

import (
	"fmt"
	"io"
	"strings"
)

// Format renders instructions back into canonical program text: one symbol per
// atomic operation and a bracket pair around every loop body.
func Format(instructions []Instruction) string {
	var b strings.Builder
	writeSource(&b, instructions)
	return b.String()
}

func writeSource(b *strings.Builder, instructions []Instruction) {
	for _, instruction := range instructions {
		switch ins := instruction.(type) {
		case *OpInstr:
			b.WriteString(ins.Op.Symbol())
		case *LoopInstr:
			b.WriteString(string(TokenLoopStart))
			writeSource(b, ins.Body)
			b.WriteString(string(TokenLoopEnd))
		}
	}
}

// Dump writes the instruction tree to w, one instruction per line, indenting
// loop bodies by two spaces per level.
func Dump(w io.Writer, instructions []Instruction) error {
	return dumpLevel(w, instructions, 0)
}

func dumpLevel(w io.Writer, instructions []Instruction, depth int) error {
	indent := strings.Repeat("  ", depth)
	for _, instruction := range instructions {
		if _, err := fmt.Fprintf(w, "%s%s\n", indent, instruction); err != nil {
			return err
		}
		if loop, ok := instruction.(*LoopInstr); ok {
			if err := dumpLevel(w, loop.Body, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// CountLoops returns the number of loop nodes in the tree.
func CountLoops(instructions []Instruction) int {
	count := 0
	for _, instruction := range instructions {
		if loop, ok := instruction.(*LoopInstr); ok {
			count += 1 + CountLoops(loop.Body)
		}
	}
	return count
}
