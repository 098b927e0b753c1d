package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/mgomes/tapescript/tape"
)

type lintWarning struct {
	Pos     tape.Position
	Message string
}

func analyzeCommand(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	var ef engineFlags
	ef.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	engine, _, err := ef.build(fs)
	if err != nil {
		return err
	}
	source, err := readProgram(bufio.NewReader(os.Stdin))
	if err != nil {
		return err
	}
	program, err := engine.Compile(source)
	if err != nil {
		return fmt.Errorf("analysis compile failed: %w", err)
	}

	warnings := analyzeProgramWarnings(program.Instructions())
	if len(warnings) == 0 {
		fmt.Println("No issues found")
		return nil
	}

	for _, warning := range warnings {
		fmt.Printf("column %d: %s\n", warning.Pos.Column, warning.Message)
	}

	return fmt.Errorf("analysis found %d issue(s)", len(warnings))
}

func analyzeProgramWarnings(instructions []tape.Instruction) []lintWarning {
	warnings := make([]lintWarning, 0)
	lintInstructions(instructions, true, &warnings)

	sort.SliceStable(warnings, func(i, j int) bool {
		return warnings[i].Pos.Column < warnings[j].Pos.Column
	})

	return warnings
}

// lintInstructions walks one level. The cell is known to be zero at the start
// of the program and right after any loop exits, so a loop in either place is
// dead code.
func lintInstructions(instructions []tape.Instruction, programStart bool, warnings *[]lintWarning) {
	cellIsZero := programStart
	var prev tape.Instruction
	for _, instruction := range instructions {
		switch ins := instruction.(type) {
		case *tape.LoopInstr:
			if cellIsZero {
				*warnings = append(*warnings, lintWarning{Pos: ins.Pos(), Message: "loop is never entered: the current cell is always zero here"})
			}
			if len(ins.Body) == 0 {
				*warnings = append(*warnings, lintWarning{Pos: ins.Pos(), Message: "empty loop never terminates once entered"})
			}
			lintInstructions(ins.Body, false, warnings)
			cellIsZero = true
		case *tape.OpInstr:
			if prevOp, ok := prev.(*tape.OpInstr); ok && cancels(prevOp.Op, ins.Op) {
				*warnings = append(*warnings, lintWarning{
					Pos:     prevOp.Pos(),
					Message: fmt.Sprintf("%q cancels out", prevOp.Op.Symbol()+ins.Op.Symbol()),
				})
			}
			if ins.Op != tape.OpOutput {
				cellIsZero = false
			}
		}
		prev = instruction
	}
}

func cancels(a, b tape.Op) bool {
	switch {
	case a == tape.OpIncrement && b == tape.OpDecrement,
		a == tape.OpDecrement && b == tape.OpIncrement,
		a == tape.OpMoveRight && b == tape.OpMoveLeft,
		a == tape.OpMoveLeft && b == tape.OpMoveRight:
		return true
	default:
		return false
	}
}
