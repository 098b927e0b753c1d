package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/mgomes/tapescript/tape"
)

func dumpCommand(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
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
		return fmt.Errorf("compile failed: %w", err)
	}
	return tape.Dump(os.Stdout, program.Instructions())
}
