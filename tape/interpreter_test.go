package tape

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

const helloWorld = "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++."

func runSource(t *testing.T, engine *Engine, source, input string) (string, *Machine, error) {
	t.Helper()
	program, err := engine.Compile(source)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	var out bytes.Buffer
	machine, err := program.Run(context.Background(), RunOptions{
		Input:  strings.NewReader(input),
		Output: &out,
	})
	return out.String(), machine, err
}

func TestNewEngineDefaults(t *testing.T) {
	cfg := MustNewEngine(Config{}).Config()
	if cfg.TapeSize != DefaultTapeSize {
		t.Fatalf("expected default tape size, got %d", cfg.TapeSize)
	}
	if cfg.StepQuota != DefaultStepQuota {
		t.Fatalf("expected default step quota, got %d", cfg.StepQuota)
	}
	if cfg.MaxNesting != DefaultMaxNesting {
		t.Fatalf("expected default max nesting, got %d", cfg.MaxNesting)
	}
}

func TestNewEngineRejectsNegativeTapeSize(t *testing.T) {
	if _, err := NewEngine(Config{TapeSize: -1}); err == nil {
		t.Fatalf("expected negative tape size to be rejected")
	}
	if _, err := NewEngine(Config{MaxNesting: -1}); err == nil {
		t.Fatalf("expected negative max nesting to be rejected")
	}
}

func TestRunEmptyProgram(t *testing.T) {
	out, machine, err := runSource(t, MustNewEngine(Config{TapeSize: 16}), "", "")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out != "" {
		t.Fatalf("expected no output, got %q", out)
	}
	for i, cell := range machine.Tape {
		if cell != 0 {
			t.Fatalf("cell %d mutated to %d", i, cell)
		}
	}
	if machine.Pointer != 0 || machine.Steps != 0 {
		t.Fatalf("unexpected machine state %+v", machine)
	}
}

func TestRunIncrementOutput(t *testing.T) {
	out, _, err := runSource(t, MustNewEngine(Config{}), "+.", "")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out != "\x01" {
		t.Fatalf("expected code point 1, got %q", out)
	}
}

func TestRunCountdownLoop(t *testing.T) {
	out, machine, err := runSource(t, MustNewEngine(Config{}), "+++[.-]", "")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out != "\x03\x02\x01" {
		t.Fatalf("unexpected output %q", out)
	}
	if machine.Cell() != 0 {
		t.Fatalf("expected loop to leave cell at zero, got %d", machine.Cell())
	}
}

func TestRunNestedLoops(t *testing.T) {
	out, machine, err := runSource(t, MustNewEngine(Config{}), "++[>+++[>+<-]<-]>>.", "")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out != "\x06" {
		t.Fatalf("expected inner loop to run on every outer pass, got %q", out)
	}
	if machine.Pointer != 2 {
		t.Fatalf("expected pointer 2, got %d", machine.Pointer)
	}
	if machine.Tape[0] != 0 || machine.Tape[1] != 0 || machine.Tape[2] != 6 {
		t.Fatalf("unexpected cells %v", machine.Tape[:3])
	}
}

func TestRunHelloWorld(t *testing.T) {
	out, _, err := runSource(t, MustNewEngine(Config{}), helloWorld, "")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out != "Hello World!\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRunIgnoresTextAfterNewline(t *testing.T) {
	out, _, err := runSource(t, MustNewEngine(Config{}), "+.\n+.", "")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out != "\x01" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRunInput(t *testing.T) {
	tests := []struct {
		input string
		want  byte
	}{
		{input: "65\n", want: 'A'},
		{input: "  7  \n", want: 7},
		{input: "255\n", want: 255},
		{input: "256\n", want: 0},
		{input: "300\n", want: 0},
		{input: "-1\n", want: 0},
		{input: "abc\n", want: 0},
		{input: "", want: 0},
		{input: "42", want: 42},
	}
	engine := MustNewEngine(Config{TapeSize: 8})
	for _, tt := range tests {
		out, _, err := runSource(t, engine, "+,.", tt.input)
		if err != nil {
			t.Fatalf("input %q: run failed: %v", tt.input, err)
		}
		if out != string(rune(tt.want)) {
			t.Fatalf("input %q: expected %d, got %q", tt.input, tt.want, out)
		}
	}
}

func TestRunReadsOneLinePerInput(t *testing.T) {
	out, machine, err := runSource(t, MustNewEngine(Config{}), ",>,.", "1\n2\n")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out != "\x02" || machine.Tape[0] != 1 {
		t.Fatalf("unexpected result %q %v", out, machine.Tape[:2])
	}
}

func TestRunCellsWrap(t *testing.T) {
	out, _, err := runSource(t, MustNewEngine(Config{}), "-.", "")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out != "\u00ff" {
		t.Fatalf("expected decrement to wrap to 255, got %q", out)
	}

	out, _, err = runSource(t, MustNewEngine(Config{}), strings.Repeat("+", 257)+".", "")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out != "\x01" {
		t.Fatalf("expected increment to wrap past 255, got %q", out)
	}
}

func TestRunPointerRoundTrip(t *testing.T) {
	source := "+>++>+++<<" + strings.Repeat(">", 5) + strings.Repeat("<", 5)
	_, machine, err := runSource(t, MustNewEngine(Config{TapeSize: 16}), source, "")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if machine.Pointer != 0 {
		t.Fatalf("expected pointer back at 0, got %d", machine.Pointer)
	}
	want := []byte{1, 2, 3, 0, 0, 0}
	if !bytes.Equal(machine.Tape[:6], want) {
		t.Fatalf("cells changed along the path: %v", machine.Tape[:6])
	}
}

func TestRunPointerUnderflowFailsFast(t *testing.T) {
	_, machine, err := runSource(t, MustNewEngine(Config{}), "+<", "")
	if !errors.Is(err, ErrPointerOutOfBounds) {
		t.Fatalf("expected pointer bounds error, got %v", err)
	}
	var re *RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("expected RuntimeError, got %T", err)
	}
	if re.Pos.Column != 2 || re.Pointer != 0 {
		t.Fatalf("unexpected error location %+v", re)
	}
	if !strings.Contains(err.Error(), "runtime error at column 2 (pointer 0)") {
		t.Fatalf("unexpected message: %v", err)
	}
	if machine.Tape[0] != 1 {
		t.Fatalf("expected machine state up to the failure, got %v", machine.Tape[:1])
	}
}

func TestRunPointerOverflowFailsFast(t *testing.T) {
	_, machine, err := runSource(t, MustNewEngine(Config{TapeSize: 3}), ">>>", "")
	if !errors.Is(err, ErrPointerOutOfBounds) {
		t.Fatalf("expected pointer bounds error, got %v", err)
	}
	if machine.Pointer != 2 {
		t.Fatalf("expected pointer to stop at last cell, got %d", machine.Pointer)
	}
}

func TestRunStepQuotaStopsInfiniteLoop(t *testing.T) {
	_, machine, err := runSource(t, MustNewEngine(Config{StepQuota: 100}), "+[]", "")
	if !errors.Is(err, ErrStepQuotaExceeded) {
		t.Fatalf("expected step quota error, got %v", err)
	}
	if !strings.Contains(err.Error(), "step quota exceeded (100)") {
		t.Fatalf("unexpected message: %v", err)
	}
	if machine.Steps != 101 {
		t.Fatalf("expected 101 steps, got %d", machine.Steps)
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	engine := MustNewEngine(Config{StepQuota: -1})
	program, err := engine.Compile("+[]")
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = program.Run(ctx, RunOptions{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}

	cancelled, cancelNow := context.WithCancel(context.Background())
	cancelNow()
	if _, err := program.Run(cancelled, RunOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled error, got %v", err)
	}
}

func TestEngineExecuteOnExistingMachine(t *testing.T) {
	engine := MustNewEngine(Config{})
	machine := NewMachine(4)
	machine.Pointer = 2

	if err := engine.Execute(context.Background(), mustParse(t, "++>+"), machine, RunOptions{}); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !bytes.Equal(machine.Tape, []byte{0, 0, 2, 1}) || machine.Pointer != 3 {
		t.Fatalf("unexpected machine state %v pointer %d", machine.Tape, machine.Pointer)
	}

	machine.Pointer = 4
	err := engine.Execute(context.Background(), nil, machine, RunOptions{})
	if !errors.Is(err, ErrPointerOutOfBounds) {
		t.Fatalf("expected invalid starting pointer to fail, got %v", err)
	}
}

func TestProgramRunOnKeepsState(t *testing.T) {
	engine := MustNewEngine(Config{TapeSize: 8})
	program, err := engine.Compile("+>")
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	machine := NewMachine(8)
	for range 3 {
		if err := program.RunOn(context.Background(), machine, RunOptions{}); err != nil {
			t.Fatalf("run failed: %v", err)
		}
	}
	if !bytes.Equal(machine.Tape[:4], []byte{1, 1, 1, 0}) || machine.Pointer != 3 {
		t.Fatalf("unexpected machine state %v pointer %d", machine.Tape[:4], machine.Pointer)
	}
}

func TestCompileRejectsUnbalancedBrackets(t *testing.T) {
	engine := MustNewEngine(Config{})
	if _, err := engine.Compile("[[]"); err == nil {
		t.Fatalf("expected compile error")
	}
	program, err := engine.Compile("x [ - ] y")
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if program.String() != "[-]" || program.Source() != "x [ - ] y" {
		t.Fatalf("unexpected program %q from %q", program.String(), program.Source())
	}
}

func TestOutputFlushedBeforeInput(t *testing.T) {
	var out bytes.Buffer
	input := &observingReader{out: &out, data: "5\n"}
	program, err := MustNewEngine(Config{}).Compile("+.,.")
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if _, err := program.Run(context.Background(), RunOptions{Input: input, Output: &out}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if input.seen != "\x01" {
		t.Fatalf("expected output flushed before read, saw %q", input.seen)
	}
	if out.String() != "\x01\x05" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

type observingReader struct {
	out  *bytes.Buffer
	data string
	seen string
	read bool
}

func (r *observingReader) Read(p []byte) (int, error) {
	if !r.read {
		r.seen = r.out.String()
		r.read = true
	}
	if r.data == "" {
		return 0, io.EOF
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

func TestParseCell(t *testing.T) {
	tests := map[string]byte{
		"0":                   0,
		"200\n":               200,
		" 255 ":               255,
		"256":                 0,
		"300":                 0,
		"-1":                  0,
		"x":                   0,
		"9223372036854775807": 0,
		"9223372036854775808": 0,
	}
	for raw, want := range tests {
		if got := ParseCell(raw); got != want {
			t.Fatalf("ParseCell(%q): expected %d, got %d", raw, want, got)
		}
	}
}

func TestRunOutputEncodesCodePoint(t *testing.T) {
	out, _, err := runSource(t, MustNewEngine(Config{}), ",.", "200\n")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out != "\xc3\x88" {
		t.Fatalf("expected code point 200 as UTF-8, got %q", out)
	}
}
