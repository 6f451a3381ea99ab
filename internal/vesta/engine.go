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

package vesta

import "io"

// Engine is the Vesta processor state: registers, flags, named control
// registers, flat memory, and pending fault/interrupt bookkeeping.
type Engine struct {
	Reg   [NumGenRegs]uint32
	Flags uint32

	RM  uint32 // memory descriptor table base, unused by execution
	RI  uint32 // interrupt descriptor table base
	RP  uint32 // program counter
	RKS uint32 // saved kernel stack pointer
	RKT uint32 // kernel thread register, opaque to the core
	RF  uint32 // faulting address, written when a memory fault is delivered

	Mem []byte

	MemFaultAddr *uint32
	InstrFault   bool
	ProtectFault bool
	SoftQueue    []uint8

	DoubleFault bool

	ConsoleOut io.Writer

	cycles uint64
	halted bool

	tracer *Tracer
}

// New allocates an Engine with memSize bytes of RAM, zeroed.
func New(memSize int, out io.Writer) *Engine {
	return &Engine{
		Mem:        make([]byte, memSize),
		ConsoleOut: out,
	}
}

// Reset returns the engine to its post-construction state without
// reallocating memory.
func (e *Engine) Reset() {
	e.Reg = [NumGenRegs]uint32{}
	e.Flags = 0
	e.RM, e.RI, e.RP, e.RKS, e.RKT, e.RF = 0, 0, 0, 0, 0, 0
	e.MemFaultAddr = nil
	e.InstrFault = false
	e.ProtectFault = false
	e.SoftQueue = nil
	e.DoubleFault = false
	e.cycles = 0
	e.halted = false
}

// SetTracer wires an optional diagnostic tracer into the engine. A nil
// tracer (the default) disables all tracing overhead.
func (e *Engine) SetTracer(t *Tracer) { e.tracer = t }

// Halted reports whether the engine has stopped executing, either from
// a kernel-mode HLT or a fatal double fault.
func (e *Engine) Halted() bool { return e.halted }

// Cycles returns the number of fetch-decode-execute cycles completed.
func (e *Engine) Cycles() uint64 { return e.cycles }

func (e *Engine) flagSet(bit uint32) bool { return e.Flags&bit != 0 }

func (e *Engine) setFlag(bit uint32, on bool) {
	if on {
		e.Flags |= bit
	} else {
		e.Flags &^= bit
	}
}

// protected reports whether the engine is in unprivileged (user) mode, i.e.
// whether PROTECT is set in Flags. Mode lives solely in this bit; there is
// no separate tracked state to desync from it.
func (e *Engine) protected() bool { return e.flagSet(FlagProtect) }

// LoadKernel copies a raw kernel image into memory starting at address 0.
// It reports false if the image does not fit in RAM.
func (e *Engine) LoadKernel(image []byte) bool {
	if len(image) > len(e.Mem) {
		return false
	}
	copy(e.Mem, image)
	return true
}
