package tape

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ctxCheckInterval is how many steps pass between context checks.
const ctxCheckInterval = 1024

// RunOptions wires a run to its external collaborators.
type RunOptions struct {
	// Input supplies one line per Input instruction. A nil Input behaves like
	// an exhausted stream.
	Input io.Reader
	// Output receives the UTF-8 encoding of the character whose code point is
	// the current cell, once per Output instruction. Nil discards output.
	Output io.Writer
}

// Execution is the state of a single run over a machine.
type Execution struct {
	source  string
	ctx     context.Context
	quota   int
	steps   int
	machine *Machine
	in      *bufio.Reader
	out     *bufio.Writer
}

// Run executes the program on a fresh machine. The machine is returned even
// when execution fails so callers can inspect where it stopped.
func (p *Program) Run(ctx context.Context, opts RunOptions) (*Machine, error) {
	machine := NewMachine(p.engine.config.TapeSize)
	err := p.engine.execute(ctx, p.source, p.instructions, machine, opts)
	return machine, err
}

// RunOn executes the program against an existing machine, keeping whatever
// the tape and pointer already hold.
func (p *Program) RunOn(ctx context.Context, machine *Machine, opts RunOptions) error {
	return p.engine.execute(ctx, p.source, p.instructions, machine, opts)
}

// Execute walks instructions against machine. Loop bodies are re-entered
// while the cell under the pointer is nonzero.
func (e *Engine) Execute(ctx context.Context, instructions []Instruction, machine *Machine, opts RunOptions) error {
	return e.execute(ctx, "", instructions, machine, opts)
}

func (e *Engine) execute(ctx context.Context, source string, instructions []Instruction, machine *Machine, opts RunOptions) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if machine == nil {
		return errors.New("execute: nil machine")
	}
	if machine.Pointer < 0 || machine.Pointer >= len(machine.Tape) {
		return fmt.Errorf("execute: %w: pointer %d, tape size %d", ErrPointerOutOfBounds, machine.Pointer, len(machine.Tape))
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	input := opts.Input
	if input == nil {
		input = strings.NewReader("")
	}
	output := opts.Output
	if output == nil {
		output = io.Discard
	}

	exec := &Execution{
		source:  source,
		ctx:     ctx,
		quota:   e.config.StepQuota,
		machine: machine,
		in:      bufio.NewReader(input),
		out:     bufio.NewWriter(output),
	}

	defer func() {
		if flushErr := exec.out.Flush(); flushErr != nil && err == nil {
			err = fmt.Errorf("flush output: %w", flushErr)
		}
		e.logger.Debug("run finished",
			"steps", exec.steps,
			"pointer", machine.Pointer,
			"error", err,
		)
	}()

	return exec.evalInstructions(instructions)
}

func (exec *Execution) evalInstructions(instructions []Instruction) error {
	for _, instruction := range instructions {
		if err := exec.step(); err != nil {
			return exec.wrapError(err, instruction.Pos())
		}
		switch ins := instruction.(type) {
		case *OpInstr:
			if err := exec.evalOp(ins.Op); err != nil {
				return exec.wrapError(err, ins.Pos())
			}
		case *LoopInstr:
			if err := exec.evalLoop(ins); err != nil {
				return err
			}
		default:
			return exec.errorAt(instruction.Pos(), "unsupported instruction %T", instruction)
		}
	}
	return nil
}

// evalLoop checks the current cell before the first pass and before every
// further pass. Each re-check costs a step so empty loops still hit the quota.
func (exec *Execution) evalLoop(loop *LoopInstr) error {
	for exec.machine.Cell() != 0 {
		if err := exec.evalInstructions(loop.Body); err != nil {
			return err
		}
		if err := exec.step(); err != nil {
			return exec.wrapError(err, loop.Pos())
		}
	}
	return nil
}

func (exec *Execution) evalOp(op Op) error {
	m := exec.machine
	switch op {
	case OpMoveRight:
		if m.Pointer+1 >= len(m.Tape) {
			return fmt.Errorf("%w: cannot move right of cell %d (tape size %d)", ErrPointerOutOfBounds, m.Pointer, len(m.Tape))
		}
		m.Pointer++
	case OpMoveLeft:
		if m.Pointer == 0 {
			return fmt.Errorf("%w: cannot move left of cell 0", ErrPointerOutOfBounds)
		}
		m.Pointer--
	case OpIncrement:
		m.Tape[m.Pointer]++
	case OpDecrement:
		m.Tape[m.Pointer]--
	case OpOutput:
		if _, err := exec.out.WriteRune(rune(m.Tape[m.Pointer])); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	case OpInput:
		value, err := exec.readInput()
		if err != nil {
			return err
		}
		m.Tape[m.Pointer] = value
	default:
		return fmt.Errorf("unknown op %d", op)
	}
	return nil
}

// readInput flushes pending output so prompts written by the program are
// visible, then reads one line and converts it to a cell value.
func (exec *Execution) readInput() (byte, error) {
	if err := exec.out.Flush(); err != nil {
		return 0, fmt.Errorf("flush output: %w", err)
	}
	line, err := exec.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("read input: %w", err)
	}
	return ParseCell(line), nil
}

// ParseCell converts one line of runtime input to a cell value. Anything that
// is not a decimal integer in [0, 255] yields 0.
func ParseCell(raw string) byte {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 8)
	if err != nil {
		return 0
	}
	return byte(n)
}
