// Copyright © 2024 Jeff Berkowitz (pdxjjb@gmail.com)
//
// Unit tests for flag derivation.

package vesta

import (
	"bytes"
	"testing"
)

func TestUpdateArithLongOverflow(t *testing.T) {
	tests := []struct {
		name         string
		a, b, c      uint32
		carry        bool
		wantZero     bool
		wantNeg      bool
		wantOverflow bool
	}{
		{"two positives overflow to negative", 0x7FFFFFFF, 1, 0x80000000, false, false, true, true},
		{"positive plus negative never overflows", 0x7FFFFFFF, 0x80000000, 0xFFFFFFFF, false, false, true, false},
		{"zero result sets zero flag", 5, 0xFFFFFFFB, 0, true, true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(16, &bytes.Buffer{})
			e.updateArithLong(tt.a, tt.b, tt.c, tt.carry)
			if e.zeroFlag() != tt.wantZero {
				t.Errorf("zeroFlag() = %v, want %v", e.zeroFlag(), tt.wantZero)
			}
			if e.negativeFlag() != tt.wantNeg {
				t.Errorf("negativeFlag() = %v, want %v", e.negativeFlag(), tt.wantNeg)
			}
			if e.overflowFlag() != tt.wantOverflow {
				t.Errorf("overflowFlag() = %v, want %v", e.overflowFlag(), tt.wantOverflow)
			}
			if e.carryFlag() != tt.carry {
				t.Errorf("carryFlag() = %v, want %v", e.carryFlag(), tt.carry)
			}
		})
	}
}

func TestUpdateLogicLongClearsCarryAndOverflow(t *testing.T) {
	e := New(16, &bytes.Buffer{})
	e.setFlag(FlagCarry, true)
	e.setFlag(FlagOverflow, true)

	e.updateLogicLong(0)

	if e.carryFlag() {
		t.Error("logic op should clear CARRY")
	}
	if e.overflowFlag() {
		t.Error("logic op should clear OVERFLOW")
	}
	if !e.zeroFlag() {
		t.Error("zero result should set ZERO")
	}
}

func TestSetArithFlagsPreservesProtectAndExternal(t *testing.T) {
	e := New(16, &bytes.Buffer{})
	e.setFlag(FlagProtect, true)
	e.setFlag(FlagExternal, true)

	e.SetArithFlags(FlagCarry | FlagZero)

	if !e.flagSet(FlagProtect) || !e.flagSet(FlagExternal) {
		t.Error("SetArithFlags must not touch PROTECT/EXTERNAL")
	}
	if !e.carryFlag() || !e.zeroFlag() {
		t.Error("SetArithFlags must apply the arithmetic bits given")
	}
}
