// Copyright (c) 2025 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package in encodes the AArch64 instruction words which the linker writes
// into emitted blocks.  Only the forms needed for link-site patching are
// here; the block emitter carries its own encoder.
package in

const (
	// Unconditional branch (immediate)
	B  = Imm26(0<<31 | 5<<26)
	BL = Imm26(1<<31 | 5<<26)

	// Address generation
	ADR  = RegImm19Imm2(0<<31 | 0x10<<24)
	ADRP = RegImm19Imm2(1<<31 | 0x10<<24)

	// Add (immediate), 64-bit
	ADDi = RegRegImm12Shift(1<<31 | 0<<30 | 0<<29 | 0x11<<24)

	// Hint
	NopWord = uint32(0xd503201f)

	// Exception generation: BRK #0
	PadWord = uint32(0xd4200000)
)

// R is a general-purpose register number.
type R uint32

const (
	X0  = R(0)
	X16 = R(16)
	X17 = R(17)
	X30 = R(30)
	XZR = R(31)

	// Scratch1 is the first scratch register of the JIT register
	// convention; MoveToScratch1 relocations materialize into it.
	Scratch1 = X16
)
