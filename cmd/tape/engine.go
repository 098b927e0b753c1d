package main

import (
	"flag"
	"log/slog"
	"os"
	"strings"

	"github.com/mgomes/tapescript/configs"
	"github.com/mgomes/tapescript/logs"
	"github.com/mgomes/tapescript/tape"
)

// engineFlags are shared by every subcommand that compiles or runs programs.
// Explicit flags win over config files, which win over engine defaults.
type engineFlags struct {
	configs    pathList
	tapeSize   int
	steps      int
	maxNesting int
	logLevel   string
}

func (f *engineFlags) register(fs *flag.FlagSet) {
	fs.Var(&f.configs, "config", "load settings from a CUE file (repeatable)")
	fs.IntVar(&f.tapeSize, "tape-size", 0, "number of cells on the tape")
	fs.IntVar(&f.steps, "steps", 0, "step quota per run (negative disables)")
	fs.IntVar(&f.maxNesting, "max-nesting", 0, "maximum loop nesting depth")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
}

func (f *engineFlags) settings(fs *flag.FlagSet) (configs.Settings, error) {
	settings, err := configs.Load(f.configs...)
	if err != nil {
		return settings, err
	}
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "tape-size":
			settings.TapeSize = f.tapeSize
		case "steps":
			settings.StepQuota = f.steps
		case "max-nesting":
			settings.MaxNesting = f.maxNesting
		case "log-level":
			settings.LogLevel = f.logLevel
		}
	})
	return settings, nil
}

func (f *engineFlags) build(fs *flag.FlagSet) (*tape.Engine, *slog.Logger, error) {
	settings, err := f.settings(fs)
	if err != nil {
		return nil, nil, err
	}
	level, err := configs.ParseLevel(settings.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	logger := logs.New(os.Stderr, level)
	engine, err := tape.NewEngine(tape.Config{
		TapeSize:   settings.TapeSize,
		StepQuota:  settings.StepQuota,
		MaxNesting: settings.MaxNesting,
		Logger:     logger,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("engine ready", "config", strings.Join(f.configs, ","), "tape_size", engine.Config().TapeSize)
	return engine, logger, nil
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}

type pathList []string

func (l *pathList) String() string {
	return strings.Join(*l, string(os.PathListSeparator))
}

func (l *pathList) Set(value string) error {
	*l = append(*l, value)
	return nil
}
