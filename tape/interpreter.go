package tape

import (
	"errors"
	"io"
	"log/slog"
)

const (
	DefaultTapeSize   = 256000
	DefaultStepQuota  = 100_000_000
	DefaultMaxNesting = 1024
)

// Config controls interpreter execution bounds.
type Config struct {
	// TapeSize is the number of cells on a fresh machine.
	TapeSize int
	// StepQuota bounds the instructions and loop checks a single run may
	// perform. Zero selects DefaultStepQuota; a negative value disables it.
	StepQuota  int
	MaxNesting int
	Logger     *slog.Logger
}

// Engine compiles and executes tape programs with deterministic limits.
type Engine struct {
	config Config
	logger *slog.Logger
}

// NewEngine constructs an Engine with sane defaults.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.TapeSize < 0 {
		return nil, errors.New("tape size must not be negative")
	}
	if cfg.MaxNesting < 0 {
		return nil, errors.New("max nesting must not be negative")
	}
	if cfg.TapeSize == 0 {
		cfg.TapeSize = DefaultTapeSize
	}
	if cfg.StepQuota == 0 {
		cfg.StepQuota = DefaultStepQuota
	}
	if cfg.MaxNesting == 0 {
		cfg.MaxNesting = DefaultMaxNesting
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Engine{config: cfg, logger: logger}, nil
}

// MustNewEngine is NewEngine for configurations known to be valid.
func MustNewEngine(cfg Config) *Engine {
	engine, err := NewEngine(cfg)
	if err != nil {
		panic(err)
	}
	return engine
}

// Config returns the effective configuration after defaults were applied.
func (e *Engine) Config() Config {
	return e.config
}

// Program is a compiled, immutable instruction tree.
type Program struct {
	engine       *Engine
	source       string
	instructions []Instruction
}

// Compile scans and structures one line of program text.
func (e *Engine) Compile(source string) (*Program, error) {
	tokens := Scan(source)
	p := newParser(tokens, e.config.MaxNesting)
	instructions, err := p.parse(tokens)
	if err != nil {
		e.logger.Debug("compile failed", "error", err)
		return nil, err
	}
	e.logger.Debug("program compiled",
		"tokens", len(tokens),
		"instructions", len(instructions),
		"loops", CountLoops(instructions),
	)
	return &Program{engine: e, source: p.source, instructions: instructions}, nil
}

// Instructions returns the top-level instruction sequence.
func (p *Program) Instructions() []Instruction {
	return p.instructions
}

// Source returns the scanned program line without its terminator.
func (p *Program) Source() string {
	return p.source
}

// String returns the canonical form of the program.
func (p *Program) String() string {
	return Format(p.instructions)
}
