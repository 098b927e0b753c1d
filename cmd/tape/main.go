package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/mgomes/tapescript/tape"
)

const prompt = "Insert program -> "

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return runCommand(nil)
	}
	if strings.HasPrefix(args[1], "-") && args[1] != "-h" && args[1] != "--help" {
		return runCommand(args[1:])
	}
	switch args[1] {
	case "run":
		return runCommand(args[2:])
	case "fmt":
		return fmtCommand(args[2:])
	case "analyze":
		return analyzeCommand(args[2:])
	case "dump":
		return dumpCommand(args[2:])
	case "repl":
		return replCommand(args[2:])
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	var ef engineFlags
	ef.register(fs)
	checkOnly := fs.Bool("check", false, "only compile the program without executing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("tape run: unexpected argument %q (programs are read from stdin)", fs.Arg(0))
	}

	engine, logger, err := ef.build(fs)
	if err != nil {
		return err
	}

	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		fmt.Fprint(os.Stderr, prompt)
	}
	stdin := bufio.NewReader(os.Stdin)
	source, err := readProgram(stdin)
	if err != nil {
		return err
	}

	program, err := engine.Compile(source)
	if err != nil {
		return fmt.Errorf("compile failed: %w", err)
	}
	if *checkOnly {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	machine, err := program.Run(ctx, tape.RunOptions{Input: stdin, Output: os.Stdout})
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	logger.Info("program finished", "steps", machine.Steps, "pointer", machine.Pointer)
	return nil
}

// readProgram reads the single program line. End of input after a partial
// line is accepted; an empty stream is the empty program.
func readProgram(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read program: %w", err)
	}
	return strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"), nil
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s [run|fmt|analyze|dump|repl] [flags]\n", prog)
	fmt.Fprintln(os.Stderr, "The program is read as one line from stdin; later lines feed ',' instructions.")
	fmt.Fprintln(os.Stderr, "Flags:")
	fmt.Fprintln(os.Stderr, "  -config <file.cue>")
	fmt.Fprintln(os.Stderr, "    load settings from a CUE file (repeatable, later files win)")
	fmt.Fprintln(os.Stderr, "  -tape-size int")
	fmt.Fprintln(os.Stderr, "    number of cells on the tape (default 256000)")
	fmt.Fprintln(os.Stderr, "  -steps int")
	fmt.Fprintln(os.Stderr, "    step quota per run, negative disables (default 100000000)")
	fmt.Fprintln(os.Stderr, "  -max-nesting int")
	fmt.Fprintln(os.Stderr, "    maximum loop nesting depth (default 1024)")
	fmt.Fprintln(os.Stderr, "  -log-level string")
	fmt.Fprintln(os.Stderr, "    debug, info, warn or error (default warn)")
	fmt.Fprintln(os.Stderr, "  -check")
	fmt.Fprintln(os.Stderr, "    run: only compile the program; fmt: fail if it is not canonical")
}
