// Copyright (c) 2025 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package block defines the metadata recorded for each translated block and
// the indexes which map between guest locations and host code addresses.
package block

import (
	"fmt"

	"github.com/marten-emu/marten/fastmem"
	"github.com/marten-emu/marten/ir"
)

// LinkTarget names a prelude helper.  External relocations resolve by tag
// to one of these.  The set is closed; linking an unknown tag panics.
type LinkTarget int

const (
	ReturnToDispatcher LinkTarget = iota
	ReturnFromRunCode
	ReadMemory8
	ReadMemory16
	ReadMemory32
	ReadMemory64
	ReadMemory128
	WrappedReadMemory8
	WrappedReadMemory16
	WrappedReadMemory32
	WrappedReadMemory64
	WrappedReadMemory128
	ExclusiveReadMemory8
	ExclusiveReadMemory16
	ExclusiveReadMemory32
	ExclusiveReadMemory64
	ExclusiveReadMemory128
	WriteMemory8
	WriteMemory16
	WriteMemory32
	WriteMemory64
	WriteMemory128
	WrappedWriteMemory8
	WrappedWriteMemory16
	WrappedWriteMemory32
	WrappedWriteMemory64
	WrappedWriteMemory128
	ExclusiveWriteMemory8
	ExclusiveWriteMemory16
	ExclusiveWriteMemory32
	ExclusiveWriteMemory64
	ExclusiveWriteMemory128
	CallSVC
	ExceptionRaised
	InstructionSynchronizationBarrierRaised
	InstructionCacheOperationRaised
	DataCacheOperationRaised
	GetCNTPCT
	AddTicks
	GetTicksRemaining
)

// RelocType selects the patch form of a block-to-block link site.
type RelocType uint8

const (
	// Branch is an unconditional direct branch to the target entry point.
	// The unlinked form is a no-op: the block falls through to its own
	// dispatcher-return path.
	Branch RelocType = iota

	// MoveToScratch1 materializes the target entry point into the first
	// scratch register.  The unlinked form materializes the address of the
	// dispatcher-return trampoline instead.
	MoveToScratch1
)

func (t RelocType) String() string {
	switch t {
	case Branch:
		return "Branch"
	case MoveToScratch1:
		return "MoveToScratch1"
	default:
		return fmt.Sprintf("RelocType(%d)", int(t))
	}
}

// Reloc is a placeholder for a call or tail-branch to a prelude helper.
type Reloc struct {
	Offset int // byte offset of the instruction word within the block
	Target LinkTarget
}

// BlockReloc is a placeholder targeting a peer block, identified by guest
// location rather than address so that the target may be recompiled.
type BlockReloc struct {
	Offset int
	Type   RelocType
}

// FakeCall is installed into the interrupted register file after a fastmem
// fault, making execution continue as if the block had called the slow-path
// helper: PSTATE is restored from Cpsr and control transfers to Call with
// the link register pointing back into the block.
type FakeCall struct {
	Cpsr uint64
	Call uintptr
}

// FastmemPatch describes one optimistic memory access: how to fake the
// slow-path call when it faults, and whether the block should be recompiled
// without fastmem at that site.
type FastmemPatch struct {
	FC        FakeCall
	Marker    fastmem.Marker
	HasMarker bool
	Recompile bool
}

// Info is the record kept for every emitted block.
type Info struct {
	Entry uintptr // host address of the block's first instruction
	Size  int     // bytes of emitted code

	// Guest byte range covered by the block's instructions, for
	// invalidation by guest address range.
	GuestStart  uint64
	GuestLength uint64

	Relocs         []Reloc
	BlockRelocs    map[ir.Location][]BlockReloc
	FastmemPatches map[int]FastmemPatch
}
