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

// updateArithLong derives C/Z/N/V from a 32-bit addition/subtraction,
// given the two operands (a, b) and the wrapped result c. overflow is
// true when a and b share a sign but c differs from it.
func (e *Engine) updateArithLong(a, b, c uint32, carry bool) {
	e.setFlag(FlagCarry, carry)
	e.setFlag(FlagZero, c == 0)
	e.setFlag(FlagNegative, c&0x80000000 != 0)
	aSign := a&0x80000000 != 0
	bSign := b&0x80000000 != 0
	cSign := c&0x80000000 != 0
	e.setFlag(FlagOverflow, aSign == bSign && cSign != aSign)
}

// updateArithShort is the 8-bit-width counterpart of updateArithLong,
// used by the short forms of the arithmetic operations.
func (e *Engine) updateArithShort(a, b, c uint8, carry bool) {
	e.setFlag(FlagCarry, carry)
	e.setFlag(FlagZero, c == 0)
	e.setFlag(FlagNegative, c&0x80 != 0)
	aSign := a&0x80 != 0
	bSign := b&0x80 != 0
	cSign := c&0x80 != 0
	e.setFlag(FlagOverflow, aSign == bSign && cSign != aSign)
}

// updateLogicLong derives Z/N from a 32-bit bitwise result and always
// clears CARRY and OVERFLOW, per the logic-operation flag semantics.
func (e *Engine) updateLogicLong(c uint32) {
	e.setFlag(FlagCarry, false)
	e.setFlag(FlagOverflow, false)
	e.setFlag(FlagZero, c == 0)
	e.setFlag(FlagNegative, c&0x80000000 != 0)
}

// updateLogicShort is the 8-bit-width counterpart of updateLogicLong.
func (e *Engine) updateLogicShort(c uint8) {
	e.setFlag(FlagCarry, false)
	e.setFlag(FlagOverflow, false)
	e.setFlag(FlagZero, c == 0)
	e.setFlag(FlagNegative, c&0x80 != 0)
}

func (e *Engine) carryFlag() bool    { return e.flagSet(FlagCarry) }
func (e *Engine) zeroFlag() bool     { return e.flagSet(FlagZero) }
func (e *Engine) negativeFlag() bool { return e.flagSet(FlagNegative) }
func (e *Engine) overflowFlag() bool { return e.flagSet(FlagOverflow) }

// GetFlags returns the full flags register, reserved bits included.
func (e *Engine) GetFlags() uint32 { return e.Flags }

// SetFlags overwrites the whole flags register, reserved bits included.
// Kernel-mode LFL and IRET assign Flags directly rather than through it;
// callers needing the masked user-mode write use SetArithFlags instead.
func (e *Engine) SetFlags(v uint32) { e.Flags = v }

// SetArithFlags overwrites only the arithmetic flag bits, leaving
// PROTECT/EXTERNAL and reserved bits untouched — the unprivileged LFL path.
func (e *Engine) SetArithFlags(v uint32) {
	e.Flags = (e.Flags &^ ArithFlagsMask) | (v & ArithFlagsMask)
}
