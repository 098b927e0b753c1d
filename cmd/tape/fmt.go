package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
)

func fmtCommand(args []string) error {
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	check := fs.Bool("check", false, "fail if the program is not in canonical form")
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
		return fmt.Errorf("tape fmt: %w", err)
	}
	formatted := program.String()

	if *check {
		if formatted != source {
			return errors.New("tape fmt: program needs formatting")
		}
		return nil
	}
	fmt.Println(formatted)
	return nil
}
