// Copyright © 2024 Jeff Berkowitz (pdxjjb@gmail.com)
//
// Unit tests for operation execution semantics.

package vesta

import (
	"bytes"
	"testing"
)

func TestExecuteArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		op       Operation
		setupReg func(e *Engine)
		op1, op2 Operand
		wantVal  uint32
		wantFlag func(e *Engine) bool
	}{
		{
			name: "ADD writes sum into destination register",
			op:   ADD,
			setupReg: func(e *Engine) {
				e.Reg[0] = 10
				e.Reg[1] = 5
			},
			op1:     Operand{Kind: OperandRegister, Reg: 0},
			op2:     Operand{Kind: OperandRegister, Reg: 1},
			wantVal: 15,
		},
		{
			name: "SUB computes second minus first",
			op:   SUB,
			setupReg: func(e *Engine) {
				e.Reg[0] = 3
				e.Reg[1] = 10
			},
			op1:     Operand{Kind: OperandRegister, Reg: 0},
			op2:     Operand{Kind: OperandRegister, Reg: 1},
			wantVal: 7,
		},
		{
			name: "RSUB reverses the subtraction direction",
			op:   RSUB,
			setupReg: func(e *Engine) {
				e.Reg[0] = 3
				e.Reg[1] = 10
			},
			op1:     Operand{Kind: OperandRegister, Reg: 0},
			op2:     Operand{Kind: OperandRegister, Reg: 1},
			wantVal: 0xFFFFFFF9, // 3 - 10, wrapped
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(64, &bytes.Buffer{})
			tt.setupReg(e)
			e.execute(tt.op, tt.op1, tt.op2)
			if got := e.Reg[tt.op2.Reg]; got != tt.wantVal {
				t.Errorf("result = 0x%X, want 0x%X", got, tt.wantVal)
			}
		})
	}
}

func TestExecuteLogicClearsCarryAndOverflow(t *testing.T) {
	e := New(64, &bytes.Buffer{})
	e.setFlag(FlagCarry, true)
	e.setFlag(FlagOverflow, true)
	e.Reg[0] = 0xFF
	e.Reg[1] = 0x0F

	e.execute(AND, Operand{Kind: OperandRegister, Reg: 0}, Operand{Kind: OperandRegister, Reg: 1})

	if e.Reg[1] != 0x0F {
		t.Errorf("AND result = 0x%X, want 0x0F", e.Reg[1])
	}
	if e.carryFlag() || e.overflowFlag() {
		t.Error("AND must clear CARRY and OVERFLOW")
	}
}

func TestExecuteHltInKernelModeHalts(t *testing.T) {
	e := New(64, &bytes.Buffer{})
	e.execute(HLT, Operand{}, Operand{})
	if !e.halted {
		t.Error("HLT in kernel mode should halt the engine")
	}
}

func TestExecuteHltInUserModeQueuesSoftInterrupt(t *testing.T) {
	e := New(64, &bytes.Buffer{})
	e.setFlag(FlagProtect, true)
	e.execute(HLT, Operand{}, Operand{})
	if e.halted {
		t.Error("HLT in user mode must not halt directly")
	}
	if len(e.SoftQueue) != 1 || e.SoftQueue[0] != VectorHalt {
		t.Errorf("SoftQueue = %v, want [VectorHalt]", e.SoftQueue)
	}
}

func TestExecutePrivilegedAccessFaultsInUserMode(t *testing.T) {
	e := New(64, &bytes.Buffer{})
	e.setFlag(FlagProtect, true)
	e.Reg[0] = 0x1000

	e.execute(LOM, Operand{Kind: OperandRegister, Reg: 0}, Operand{})

	if !e.ProtectFault {
		t.Error("LOM in user mode should raise ProtectFault")
	}
	if e.RM != 0 {
		t.Error("RM must not be written when the access faults")
	}
}

func TestExecuteCallAndRet(t *testing.T) {
	e := New(64, &bytes.Buffer{})
	e.RP = 100

	e.execute(CALL, Operand{Kind: OperandConstant, Value: 0x200, OffsetKind: OffsetAbsolute}, Operand{})
	if e.RP != 0x200 {
		t.Fatalf("RP after CALL = 0x%X, want 0x200", e.RP)
	}
	if e.Reg[LinkReg] != 100 {
		t.Fatalf("link register = 0x%X, want 100", e.Reg[LinkReg])
	}

	e.execute(RET, Operand{}, Operand{})
	if e.RP != 100 {
		t.Errorf("RP after RET = 0x%X, want 100", e.RP)
	}
}
