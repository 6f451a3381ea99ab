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

// Run executes the fetch-decode-execute loop until the engine halts,
// either via a kernel-mode HLT or a fatal double fault.
func (e *Engine) Run() {
	for !e.halted {
		e.Step()
	}
}

// Step runs one fetch-decode-execute-deliver cycle: fetch the opcode
// byte, decode it and its operands, execute, then drain at most one
// pending fault or interrupt in priority order. Any fault raised mid
// instruction rolls rp back to its value at the start of this Step.
func (e *Engine) Step() {
	preRP := e.RP

	if e.tracer != nil {
		e.tracer.TracePreStep(e)
	}

	opcode := e.GetShort(e.RP)
	if e.MemFaultAddr != nil {
		e.deliverPending(preRP)
		e.cycles++
		return
	}
	e.RP++

	operation, ok := decodeOpcode(opcode)
	if !ok {
		e.InstrFault = true
		e.deliverPending(preRP)
		e.cycles++
		return
	}

	op1, op2 := e.decodeOperands(operation)
	if e.MemFaultAddr != nil || e.InstrFault {
		e.deliverPending(preRP)
		e.cycles++
		return
	}

	e.execute(operation, op1, op2)

	if e.MemFaultAddr != nil || e.InstrFault || e.ProtectFault {
		e.deliverPending(preRP)
	} else if e.flagSet(FlagExternal) && len(e.SoftQueue) > 0 {
		e.deliverPending(preRP)
	}

	e.cycles++

	if e.tracer != nil {
		e.tracer.TracePostStep(e, operation)
	}
}
