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

var operationNames = map[Operation]string{
	ADD: "ADD", ADDS: "ADDS", SUB: "SUB", SUBS: "SUBS",
	ADC: "ADC", ADCS: "ADCS", SBB: "SBB", SBBS: "SBBS",
	RSUB: "RSUB", RSUBS: "RSUBS",
	NOR: "NOR", NORS: "NORS", NAND: "NAND", NANDS: "NANDS",
	OR: "OR", ORS: "ORS", ORN: "ORN", ORNS: "ORNS",
	AND: "AND", ANDS: "ANDS", ANDN: "ANDN", ANDNS: "ANDNS",
	XNOR: "XNOR", XNORS: "XNORS", NOT: "NOT", NOTS: "NOTS",
	XOR: "XOR", XORS: "XORS", CMP: "CMP", CMPS: "CMPS",
	TEST: "TEST", TESTS: "TESTS",
	JMP: "JMP", JE: "JE", JNE: "JNE", JL: "JL", JLE: "JLE",
	JG: "JG", JGE: "JGE", JLU: "JLU", JLEU: "JLEU", JGU: "JGU", JGEU: "JGEU",
	CALL: "CALL", RET: "RET", HLT: "HLT", INT: "INT", IRET: "IRET",
	LOM: "LOM", ROM: "ROM", LOI: "LOI", ROI: "ROI", ROP: "ROP",
	LFL: "LFL", RFL: "RFL", LOT: "LOT", ROT: "ROT",
	LOS: "LOS", ROS: "ROS", LOF: "LOF", ROF: "ROF",
	MOV: "MOV", MOVS: "MOVS",
	POP: "POP", POPS: "POPS", PUSH: "PUSH", PUSHS: "PUSHS",
	PUSHR: "PUSHR", POPR: "POPR",
	IN: "IN", INS: "INS", OUT: "OUT", OUTS: "OUTS",
	XCHG: "XCHG", XCHGS: "XCHGS",
	MOVE: "MOVE", MOVNE: "MOVNE", MOVL: "MOVL", MOVLE: "MOVLE",
	MOVG: "MOVG", MOVGE: "MOVGE", MOVLU: "MOVLU", MOVLEU: "MOVLEU",
	MOVGU: "MOVGU", MOVGEU: "MOVGEU",
	MOVES: "MOVES", MOVNES: "MOVNES", MOVLS: "MOVLS", MOVLES: "MOVLES",
	MOVGS: "MOVGS", MOVGES: "MOVGES", MOVLUS: "MOVLUS", MOVLEUS: "MOVLEUS",
	MOVGUS: "MOVGUS", MOVGEUS: "MOVGEUS",
}

func (op Operation) String() string {
	if name, ok := operationNames[op]; ok {
		return name
	}
	return fmt.Sprintf("OP(%d)", uint8(op))
}

func (o Operand) String() string {
	switch o.Kind {
	case OperandNone:
		return ""
	case OperandConstant:
		switch o.OffsetKind {
		case OffsetPositiveRelative:
			return fmt.Sprintf("+%d", o.Value)
		case OffsetNegativeRelative:
			return fmt.Sprintf("-%d", o.Value)
		default:
			return fmt.Sprintf("0x%X", o.Value)
		}
	case OperandRegister:
		return fmt.Sprintf("r%d", o.Reg)
	case OperandIndirectConstant:
		return fmt.Sprintf("[r%d%+d]", o.Reg, int32(o.Disp))
	case OperandIndirectRegister:
		return fmt.Sprintf("[r%d+r%d<<%d%+d]", o.Reg, o.Index, o.Scale, int32(o.Disp))
	default:
		return "?"
	}
}

// Disassemble renders a decoded operation and its operands as a single
// mnemonic line, the way the tracer presents in-flight instructions.
func Disassemble(op Operation, op1, op2 Operand) string {
	switch prototypeOf(op) {
	case ProtoN:
		return op.String()
	case ProtoT:
		return fmt.Sprintf("%s %s", op, op1)
	default:
		s1, s2 := op1.String(), op2.String()
		switch {
		case s1 == "":
			return op.String()
		case s2 == "":
			return fmt.Sprintf("%s %s", op, s1)
		default:
			return fmt.Sprintf("%s %s, %s", op, s1, s2)
		}
	}
}
