// Copyright © 2024 Jeff Berkowitz (pdxjjb@gmail.com)
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gmofishsauce/vesta/internal/vesta"
)

var (
	memSize int
	debug   bool

	savedTermState *term.State
)

const version = "1.0.0"

func main() {
	root := &cobra.Command{
		Use:     "vesta KERNEL",
		Short:   "Vesta processor emulator",
		Version: version,
		Args:    cobra.ExactArgs(1),
		RunE:    run,
	}
	root.Flags().IntVarP(&memSize, "memsize", "M", vesta.DefaultMemSize, "RAM size in bytes")
	root.Flags().BoolVarP(&debug, "debug", "D", false, "enable execution tracing to stderr")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if memSize < vesta.MinMemSize {
		return fmt.Errorf("memsize %d below minimum %d", memSize, vesta.MinMemSize)
	}

	kernelFile := args[0]
	image, err := os.ReadFile(kernelFile)
	if err != nil {
		return fmt.Errorf("reading kernel file: %w", err)
	}

	engine := vesta.New(memSize, os.Stdout)

	if debug {
		engine.SetTracer(vesta.NewTracer(os.Stderr))
	}

	if !engine.LoadKernel(image) {
		return fmt.Errorf("kernel image (%d bytes) does not fit in %d bytes of RAM", len(image), memSize)
	}

	if err := setupTerminal(); err != nil {
		return fmt.Errorf("setting up terminal: %w", err)
	}
	defer restoreTerminal()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		restoreTerminal()
		os.Exit(130)
	}()

	engine.Run()

	if engine.DoubleFault {
		fmt.Fprintf(os.Stderr, "vesta: double fault, halted at cycle %d\n", engine.Cycles())
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "vesta: halted after %d cycles\n", engine.Cycles())
	return nil
}

// setupTerminal puts stdin into raw mode for interactive console I/O, the
// way the UART emulation in a real kernel expects.
func setupTerminal() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil
	}
	state, err := term.GetState(int(os.Stdin.Fd()))
	if err != nil {
		return err
	}
	savedTermState = state
	_, err = term.MakeRaw(int(os.Stdin.Fd()))
	return err
}

func restoreTerminal() {
	if savedTermState != nil && term.IsTerminal(int(os.Stdin.Fd())) {
		term.Restore(int(os.Stdin.Fd()), savedTermState)
	}
}
