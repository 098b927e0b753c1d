package tape

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStepQuotaExceeded reports a run that used up Config.StepQuota.
	ErrStepQuotaExceeded = errors.New("step quota exceeded")
	// ErrPointerOutOfBounds reports a move past either end of the tape.
	ErrPointerOutOfBounds = errors.New("pointer out of bounds")
)

// RuntimeError describes a failed run and the instruction that caused it.
type RuntimeError struct {
	Message   string
	Pos       Position
	Pointer   int
	CodeFrame string
	Err       error
}

func (re *RuntimeError) Error() string {
	var b strings.Builder
	if re.Pos.Column > 0 {
		fmt.Fprintf(&b, "runtime error at column %d (pointer %d): %s", re.Pos.Column, re.Pointer, re.Message)
	} else {
		fmt.Fprintf(&b, "runtime error (pointer %d): %s", re.Pointer, re.Message)
	}
	if re.CodeFrame != "" {
		b.WriteString("\n")
		b.WriteString(re.CodeFrame)
	}
	return b.String()
}

// Unwrap exposes the cause so callers can match sentinel and context errors.
func (re *RuntimeError) Unwrap() error {
	return re.Err
}

func (exec *Execution) step() error {
	exec.steps++
	exec.machine.Steps++
	if exec.quota > 0 && exec.steps > exec.quota {
		return fmt.Errorf("%w (%d)", ErrStepQuotaExceeded, exec.quota)
	}
	if exec.steps%ctxCheckInterval == 0 {
		if err := exec.ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

func (exec *Execution) errorAt(pos Position, format string, args ...any) error {
	return exec.newRuntimeError(fmt.Errorf(format, args...), pos)
}

func (exec *Execution) newRuntimeError(err error, pos Position) error {
	return &RuntimeError{
		Message:   err.Error(),
		Pos:       pos,
		Pointer:   exec.machine.Pointer,
		CodeFrame: formatCodeFrame(exec.source, pos),
		Err:       err,
	}
}

func (exec *Execution) wrapError(err error, pos Position) error {
	if err == nil {
		return nil
	}
	var runtimeErr *RuntimeError
	if errors.As(err, &runtimeErr) {
		return err
	}
	return exec.newRuntimeError(err, pos)
}
