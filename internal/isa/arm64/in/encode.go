// Copyright (c) 2025 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package in

import (
	"fmt"
)

func Int26(i int64) uint32 { return uint32(i) & 0x3ffffff }

type (
	Imm26            uint32
	RegImm19Imm2     uint32
	RegRegImm12Shift uint32
)

func (op Imm26) I26(imm uint32) uint32 {
	return uint32(op) | imm
}

func (op RegImm19Imm2) RdI19hiI2lo(r R, hi, lo uint32) uint32 {
	return uint32(op) | lo<<29 | hi<<5 | uint32(r)
}

func (op RegRegImm12Shift) RdRnI12S2(rd, rn R, imm, shift uint32) uint32 {
	return uint32(op) | shift<<22 | imm<<10 | uint32(rn)<<5 | uint32(rd)
}

// BranchRel encodes B or BL from addr to target.  The ±128 MiB reach of
// the imm26 form covers any two points of the code cache, whose size is
// capped below that.
func (op Imm26) BranchRel(addr, target uintptr) uint32 {
	offset := int64(target) - int64(addr)
	if offset&3 != 0 || offset < -(1<<27) || offset >= 1<<27 {
		panic(fmt.Sprintf("arm64: branch target %#x out of range of %#x", target, addr))
	}
	return op.I26(Int26(offset >> 2))
}

// AdrL encodes the two-instruction absolute address materialization
// (ADRP+ADD) of target into r, placed at addr.
func AdrL(r R, addr, target uintptr) (word0, word1 uint32) {
	pageDelta := (int64(target) >> 12) - (int64(addr) >> 12)
	if pageDelta < -(1<<20) || pageDelta >= 1<<20 {
		panic(fmt.Sprintf("arm64: ADRL target %#x out of range of %#x", target, addr))
	}

	imm21 := uint32(pageDelta) & 0x1fffff
	word0 = ADRP.RdI19hiI2lo(r, imm21>>2, imm21&3)
	word1 = ADDi.RdRnI12S2(r, r, uint32(target)&0xfff, 0)
	return
}
