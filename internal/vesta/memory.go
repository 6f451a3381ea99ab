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

// GetShort reads a single byte at loc. An out-of-bounds access latches
// the first faulting address of the current instruction into MemFaultAddr
// and returns 0; the caller must check e.MemFaultAddr before trusting the
// result.
func (e *Engine) GetShort(loc uint32) uint8 {
	if int(loc) >= len(e.Mem) {
		e.latchMemFault(loc)
		return 0
	}
	return e.Mem[loc]
}

// GetLong reads a little-endian 32-bit word at loc, out-of-bounds or
// wraparound faulting the same way as GetShort.
func (e *Engine) GetLong(loc uint32) uint32 {
	end := loc + 4
	if end < loc || int(end) > len(e.Mem) {
		e.latchMemFault(loc)
		return 0
	}
	return uint32(e.Mem[loc]) |
		uint32(e.Mem[loc+1])<<8 |
		uint32(e.Mem[loc+2])<<16 |
		uint32(e.Mem[loc+3])<<24
}

// SetShort writes a single byte at loc.
func (e *Engine) SetShort(loc uint32, val uint8) {
	if int(loc) >= len(e.Mem) {
		e.latchMemFault(loc)
		return
	}
	e.Mem[loc] = val
}

// SetLong writes a little-endian 32-bit word at loc.
func (e *Engine) SetLong(loc uint32, val uint32) {
	end := loc + 4
	if end < loc || int(end) > len(e.Mem) {
		e.latchMemFault(loc)
		return
	}
	e.Mem[loc] = byte(val)
	e.Mem[loc+1] = byte(val >> 8)
	e.Mem[loc+2] = byte(val >> 16)
	e.Mem[loc+3] = byte(val >> 24)
}

// latchMemFault records loc as the faulting address, but only the first
// time it is called per instruction: the fault address is sticky.
func (e *Engine) latchMemFault(loc uint32) {
	if e.MemFaultAddr == nil {
		addr := loc
		e.MemFaultAddr = &addr
	}
}

// PushStack decrements the stack pointer by 4 then stores word there.
func (e *Engine) PushStack(word uint32) {
	e.Reg[StackReg] -= 4
	e.SetLong(e.Reg[StackReg], word)
}

// PopStack loads a word from the stack pointer then increments it by 4.
func (e *Engine) PopStack() uint32 {
	val := e.GetLong(e.Reg[StackReg])
	e.Reg[StackReg] += 4
	return val
}
