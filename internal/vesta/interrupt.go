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

import "fmt"

// pendingVector reports the highest-priority latched fault or interrupt,
// if any, in the order memory > instruction > protect > soft-queue (the
// latter only when EXTERNAL is set). It also returns the data word that
// accompanies a memory fault (the faulting address) for delivery bookkeeping.
func (e *Engine) pendingVector() (vector uint8, data uint32, pending bool) {
	if e.MemFaultAddr != nil {
		return VectorMemory, *e.MemFaultAddr, true
	}
	if e.InstrFault {
		return VectorInstruction, 0, true
	}
	if e.ProtectFault {
		return VectorProtect, 0, true
	}
	if e.flagSet(FlagExternal) && len(e.SoftQueue) > 0 {
		return e.SoftQueue[0], 0, true
	}
	return 0, 0, false
}

// clearPending clears whichever latched condition deliverPending is about
// to act on, consuming the head of the soft queue if that's what fired.
func (e *Engine) clearPending() {
	switch {
	case e.MemFaultAddr != nil:
		e.MemFaultAddr = nil
	case e.InstrFault:
		e.InstrFault = false
	case e.ProtectFault:
		e.ProtectFault = false
	case len(e.SoftQueue) > 0:
		e.SoftQueue = e.SoftQueue[1:]
	}
}

// deliverPending performs the vectored entry sequence for the
// highest-priority pending fault/interrupt. Synchronous faults (memory,
// instruction, protect) roll rp back to preInstructionRP before the
// return address is pushed; a soft/external interrupt, which only fires
// once an instruction has completed cleanly, pushes the already-advanced
// rp instead. It returns true if a double fault occurred, in which case
// the engine is halted and the caller must stop.
//
// Only the single highest-priority latch is cleared here; a lower-priority
// flag co-latched by the same instruction is left set and is picked up by
// pendingVector at the next instruction boundary. Consequently the only
// fault this entry sequence itself can raise is a memory fault (the stack
// pushes and the handler-address fetch are the only memory accesses it
// performs), so that is the only condition checked for a double fault.
func (e *Engine) deliverPending(preInstructionRP uint32) bool {
	vector, data, pending := e.pendingVector()
	if !pending {
		return false
	}
	isSyncFault := e.MemFaultAddr != nil || e.InstrFault || e.ProtectFault

	returnRP := e.RP
	if isSyncFault {
		returnRP = preInstructionRP
		e.RP = preInstructionRP
	}
	e.clearPending()

	savedFlags := e.Flags
	if e.protected() {
		e.setFlag(FlagProtect, false)
		e.Reg[StackReg], e.RKS = e.RKS, e.Reg[StackReg]
		e.PushStack(e.RKS)
	}
	e.PushStack(savedFlags)
	e.PushStack(returnRP)
	e.setFlag(FlagExternal, false)

	if vector == VectorMemory {
		e.RF = data
	}

	handler := e.GetLong(e.RI + uint32(vector)*4)

	if e.MemFaultAddr != nil {
		e.DoubleFault = true
		e.halted = true
		if e.tracer != nil {
			e.tracer.TraceDoubleFault(e, vector)
		}
		fmt.Fprintf(e.ConsoleOut, "\n*** DOUBLE FAULT ***\nvector=%d rp=0x%08X cycle=%d\n", vector, e.RP, e.cycles)
		return true
	}

	if e.tracer != nil {
		e.tracer.TraceInterruptEntry(e, vector, data, handler)
	}

	e.RP = handler
	return false
}
