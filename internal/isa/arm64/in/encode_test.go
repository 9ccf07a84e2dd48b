// Copyright (c) 2025 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package in

import (
	"encoding/binary"
	"testing"

	"golang.org/x/arch/arm64/arm64asm"
)

func decode(t *testing.T, word uint32) arm64asm.Inst {
	t.Helper()

	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], word)

	inst, err := arm64asm.Decode(b[:])
	if err != nil {
		t.Fatalf("%08x does not decode: %v", word, err)
	}
	return inst
}

func TestBranchRel(t *testing.T) {
	const addr = uintptr(0x10000)

	for _, target := range []uintptr{0x10000, 0x10004, 0xff00, 0x500000} {
		inst := decode(t, B.BranchRel(addr, target))
		if inst.Op != arm64asm.B {
			t.Errorf("B to %#x decodes as %v", target, inst.Op)
		}
		if rel, ok := inst.Args[0].(arm64asm.PCRel); !ok || uintptr(int64(addr)+int64(rel)) != target {
			t.Errorf("B to %#x has offset %v", target, inst.Args[0])
		}

		inst = decode(t, BL.BranchRel(addr, target))
		if inst.Op != arm64asm.BL {
			t.Errorf("BL to %#x decodes as %v", target, inst.Op)
		}
	}
}

func TestBranchRelRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("out-of-range branch did not panic")
		}
	}()

	B.BranchRel(0, 1<<28)
}

func TestAdrL(t *testing.T) {
	const addr = uintptr(0x7f0000001000)

	for _, target := range []uintptr{0x7f0000002468, 0x7f0000000000, 0x7f0000fff004} {
		word0, word1 := AdrL(Scratch1, addr, target)

		inst := decode(t, word0)
		if inst.Op != arm64asm.ADRP {
			t.Fatalf("first ADRL word decodes as %v", inst.Op)
		}
		rel := inst.Args[1].(arm64asm.PCRel)
		page := (int64(addr) &^ 0xfff) + int64(rel)

		inst = decode(t, word1)
		if inst.Op != arm64asm.ADD {
			t.Fatalf("second ADRL word decodes as %v", inst.Op)
		}
		imm12 := (word1 >> 10) & 0xfff

		if got := uintptr(page + int64(imm12)); got != target {
			t.Errorf("ADRL materializes %#x, want %#x", got, target)
		}
		if rd := word1 & 31; rd != uint32(Scratch1) {
			t.Errorf("ADRL add writes X%d", rd)
		}
	}
}

func TestNopWord(t *testing.T) {
	if inst := decode(t, NopWord); inst.Op != arm64asm.NOP {
		t.Errorf("nop word decodes as %v", inst.Op)
	}
}
