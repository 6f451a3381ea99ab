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

// OperandKind tags the variant held by an Operand.
type OperandKind uint8

const (
	OperandNone OperandKind = iota
	OperandConstant
	OperandRegister
	OperandIndirectConstant
	OperandIndirectRegister
)

// OffsetKind distinguishes how a Constant operand's value is applied when
// it feeds a jump target: as a full address, or as a signed displacement
// added to (or subtracted from) RP.
type OffsetKind uint8

const (
	OffsetAbsolute OffsetKind = iota
	OffsetPositiveRelative
	OffsetNegativeRelative
)

// Operand is the closed sum type produced by the decoder: exactly one of
// the OperandKind variants is meaningful at a time, selected by Kind.
type Operand struct {
	Kind OperandKind

	Value      uint32 // Constant
	OffsetKind OffsetKind

	Reg   uint8 // Register, or IndirectConstant/IndirectRegister base
	Index uint8 // IndirectRegister index register
	Scale uint8 // IndirectRegister scale (0..3)
	Disp  uint32
}

func (o Operand) isRegMem() bool {
	switch o.Kind {
	case OperandRegister, OperandIndirectConstant, OperandIndirectRegister:
		return true
	default:
		return false
	}
}

func (o Operand) isConst() bool { return o.Kind == OperandConstant }

// decodeOperand reads one operand descriptor (and, for an indirect
// register-base operand, the trailing second descriptor byte) starting at
// e.RP, advancing RP past everything consumed. Any memory fault while
// reading the descriptor or its trailing constant is surfaced through the
// usual sticky e.MemFaultAddr; the caller must check it before trusting
// the returned Operand.
func (e *Engine) decodeOperand() Operand {
	descriptor := e.GetShort(e.RP)
	e.RP++

	if descriptor&0b1 == 0 {
		if descriptor&0b10 == 0 {
			sz := (descriptor >> 2) & 0b11
			value := e.readOperandConst(sz)
			return Operand{Kind: OperandConstant, Value: value, OffsetKind: offsetKindForSize(sz, value)}
		}
		reg := (descriptor >> 4) & 0b1111
		return Operand{Kind: OperandRegister, Reg: reg}
	}

	if descriptor&0b10 == 0 {
		sz := (descriptor >> 2) & 0b11
		reg := (descriptor >> 4) & 0b1111
		disp := e.readOperandConst(sz)
		return Operand{Kind: OperandIndirectConstant, Reg: reg, Disp: disp}
	}

	scale := (descriptor >> 2) & 0b11
	base := (descriptor >> 4) & 0b1111
	descriptor2 := e.GetShort(e.RP)
	e.RP++
	index := descriptor2 & 0b1111
	sz := (descriptor2 >> 4) & 0b11
	disp := e.readOperandConst(sz)
	return Operand{Kind: OperandIndirectRegister, Reg: base, Index: index, Scale: scale, Disp: disp}
}

// offsetKindForSize derives a Constant operand's OffsetKind from the
// descriptor's size selector: a full 4-byte constant is an absolute
// target, anything narrower is a signed displacement whose sign is read
// from the value's high bit at that width.
func offsetKindForSize(sz uint8, value uint32) OffsetKind {
	if sz == 3 {
		return OffsetAbsolute
	}
	var signBit uint32
	switch sz {
	case 0:
		return OffsetPositiveRelative
	case 1:
		signBit = 0x80
	case 2:
		signBit = 0x8000
	}
	if value&signBit != 0 {
		return OffsetNegativeRelative
	}
	return OffsetPositiveRelative
}

func (e *Engine) readOperandConst(sz uint8) uint32 {
	switch sz {
	case 0:
		return 0
	case 1:
		v := uint32(e.GetShort(e.RP))
		e.RP++
		return v
	case 2:
		b0 := uint32(e.GetShort(e.RP))
		b1 := uint32(e.GetShort(e.RP + 1))
		e.RP += 2
		return b0 | (b1 << 8)
	default:
		v := e.GetLong(e.RP)
		e.RP += 4
		return v
	}
}

func (e *Engine) effectiveAddress(o Operand) uint32 {
	switch o.Kind {
	case OperandIndirectConstant:
		return e.Reg[o.Reg] + o.Disp
	case OperandIndirectRegister:
		return (e.Reg[o.Index]<<o.Scale + e.Reg[o.Reg]) + o.Disp
	default:
		return 0
	}
}

// getOpLong resolves o to a 32-bit value. ok is false if a memory fault
// occurred while reading.
func (e *Engine) getOpLong(o Operand) (val uint32, ok bool) {
	switch o.Kind {
	case OperandConstant:
		val = o.Value
	case OperandRegister:
		val = e.Reg[o.Reg]
	case OperandIndirectConstant, OperandIndirectRegister:
		val = e.GetLong(e.effectiveAddress(o))
	}
	return val, e.MemFaultAddr == nil
}

func (e *Engine) getOpsLong(op1, op2 Operand) (a, b uint32, ok bool) {
	a, ok = e.getOpLong(op1)
	if !ok {
		return 0, 0, false
	}
	b, ok = e.getOpLong(op2)
	return a, b, ok
}

// storeOpLong writes val to o, reporting whether the write succeeded.
func (e *Engine) storeOpLong(o Operand, val uint32) bool {
	switch o.Kind {
	case OperandRegister:
		e.Reg[o.Reg] = val
	case OperandIndirectConstant, OperandIndirectRegister:
		e.SetLong(e.effectiveAddress(o), val)
	}
	return e.MemFaultAddr == nil
}

// getOpShort resolves o to an 8-bit value. A short read of a Constant
// greater than 0xFF reports !ok per the operand-compute contract.
func (e *Engine) getOpShort(o Operand) (val uint8, ok bool) {
	switch o.Kind {
	case OperandConstant:
		if o.Value > 0xFF {
			return 0, false
		}
		val = uint8(o.Value)
	case OperandRegister:
		reg := o.Reg >> 2
		byteSel := o.Reg & 0b11
		val = uint8(e.Reg[reg] >> (8 * byteSel))
	case OperandIndirectConstant, OperandIndirectRegister:
		val = e.GetShort(e.effectiveAddress(o))
	}
	return val, e.MemFaultAddr == nil
}

func (e *Engine) getOpsShort(op1, op2 Operand) (a, b uint8, ok bool) {
	a, ok = e.getOpShort(op1)
	if !ok {
		return 0, 0, false
	}
	b, ok = e.getOpShort(op2)
	return a, b, ok
}

func (e *Engine) storeOpShort(o Operand, val uint8) bool {
	switch o.Kind {
	case OperandRegister:
		reg := o.Reg >> 2
		byteSel := o.Reg & 0b11
		shift := 8 * byteSel
		mask := uint32(0xFF) << shift
		e.Reg[reg] = (e.Reg[reg] &^ mask) | (uint32(val) << shift)
	case OperandIndirectConstant, OperandIndirectRegister:
		e.SetShort(e.effectiveAddress(o), val)
	}
	return e.MemFaultAddr == nil
}
