// Command lc3 loads one or more LC-3 object images and runs them until a
// HALT trap is issued.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/adamdusty/lc3vm/internal/vm"
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// errImageLoad marks a failure opening or loading an image file, mapped
// to exit code 2 alongside usage errors.
var errImageLoad = errors.New("lc3: image load error")

// execute builds and runs the lc3 command against args, wiring stdin/stdout
// for the emulated console and stderr for diagnostics. It returns the
// process exit code rather than calling os.Exit, so it can be driven
// directly from tests.
func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var (
		trace           bool
		maxInstructions uint64
		dump            bool
	)

	ranRunE := false

	root := &cobra.Command{
		Use:   "lc3 <image1> [image2 ...]",
		Short: "LC-3 instruction set emulator",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, paths []string) error {
			ranRunE = true
			return runImages(paths, stdin, stdout, stderr, trace, maxInstructions, dump)
		},
	}
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.Flags().BoolVar(&trace, "trace", false, "print pc=0x%04X op=0x%X for every fetched instruction")
	root.Flags().Uint64Var(&maxInstructions, "max-instructions", 0, "stop after N instructions (0 = unlimited)")
	root.Flags().BoolVar(&dump, "dump", false, "print a structured dump of registers and run statistics after halting")

	if err := root.Execute(); err != nil {
		if !ranRunE {
			// Cobra's own argument/flag validation failed before RunE ever
			// ran: a usage error, which cobra has already printed.
			return 2
		}
		fmt.Fprintln(stderr, err)
		return exitCodeFor(err)
	}
	return 0
}

func runImages(paths []string, stdin io.Reader, stdout, stderr io.Writer, trace bool, maxInstructions uint64, dump bool) error {
	opts := []vm.Option{
		vm.WithStdio(stdin, stdout),
		vm.WithMaxInstructions(maxInstructions),
	}
	if trace {
		opts = append(opts, vm.WithTrace(func(pc, word uint16) {
			fmt.Fprintf(stderr, "pc=0x%04X op=0x%X\n", pc, word>>12)
		}))
	}

	machine := vm.NewVM(opts...)

	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to load image %s: %w: %w", path, errImageLoad, err)
		}
		loadErr := machine.LoadImage(f)
		closeErr := f.Close()
		if loadErr != nil {
			return fmt.Errorf("failed to load image %s: %w: %w", path, errImageLoad, loadErr)
		}
		if closeErr != nil {
			return fmt.Errorf("failed to load image %s: %w: %w", path, errImageLoad, closeErr)
		}
	}
	machine.ResetPC()

	runErr := machine.Run()

	if dump {
		fmt.Fprintln(stderr, "final state:")
		fmt.Fprint(stderr, spew.Sdump(machine.Registers()))
		fmt.Fprint(stderr, spew.Sdump(machine.Stats()))
	}

	return runErr
}

// exitCodeFor maps a run error to the process exit code documented for the
// CLI: 2 for image/argument failures, 1 for everything else (instruction
// ceiling exceeded, host I/O failure).
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, vm.ErrNoImage), errors.Is(err, vm.ErrImageTooLarge), errors.Is(err, errImageLoad):
		return 2
	default:
		return 1
	}
}
