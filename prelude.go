// Copyright (c) 2025 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marten

import (
	"fmt"

	"github.com/marten-emu/marten/block"
)

// Prelude records the host addresses of the trampolines emitted at the
// front of the code cache.  External relocations resolve by tag to one of
// these fields.  Every address must be reachable with the B/BL immediate
// forms from anywhere in the cache, which holds because the prelude and
// all blocks share one bounded region.
type Prelude struct {
	ReturnToDispatcher uintptr
	ReturnFromRunCode  uintptr

	ReadMemory8            uintptr
	ReadMemory16           uintptr
	ReadMemory32           uintptr
	ReadMemory64           uintptr
	ReadMemory128          uintptr
	WrappedReadMemory8     uintptr
	WrappedReadMemory16    uintptr
	WrappedReadMemory32    uintptr
	WrappedReadMemory64    uintptr
	WrappedReadMemory128   uintptr
	ExclusiveReadMemory8   uintptr
	ExclusiveReadMemory16  uintptr
	ExclusiveReadMemory32  uintptr
	ExclusiveReadMemory64  uintptr
	ExclusiveReadMemory128 uintptr

	WriteMemory8            uintptr
	WriteMemory16           uintptr
	WriteMemory32           uintptr
	WriteMemory64           uintptr
	WriteMemory128          uintptr
	WrappedWriteMemory8     uintptr
	WrappedWriteMemory16    uintptr
	WrappedWriteMemory32    uintptr
	WrappedWriteMemory64    uintptr
	WrappedWriteMemory128   uintptr
	ExclusiveWriteMemory8   uintptr
	ExclusiveWriteMemory16  uintptr
	ExclusiveWriteMemory32  uintptr
	ExclusiveWriteMemory64  uintptr
	ExclusiveWriteMemory128 uintptr

	CallSVC         uintptr
	ExceptionRaised uintptr
	ISBRaised       uintptr
	ICRaised        uintptr
	DCRaised        uintptr

	GetCNTPCT         uintptr
	AddTicks          uintptr
	GetTicksRemaining uintptr
}

// target resolves an external relocation tag.  The tag set is closed; an
// unknown value is a corrupted relocation table.
func (p *Prelude) target(t block.LinkTarget) uintptr {
	switch t {
	case block.ReturnToDispatcher:
		return p.ReturnToDispatcher
	case block.ReturnFromRunCode:
		return p.ReturnFromRunCode
	case block.ReadMemory8:
		return p.ReadMemory8
	case block.ReadMemory16:
		return p.ReadMemory16
	case block.ReadMemory32:
		return p.ReadMemory32
	case block.ReadMemory64:
		return p.ReadMemory64
	case block.ReadMemory128:
		return p.ReadMemory128
	case block.WrappedReadMemory8:
		return p.WrappedReadMemory8
	case block.WrappedReadMemory16:
		return p.WrappedReadMemory16
	case block.WrappedReadMemory32:
		return p.WrappedReadMemory32
	case block.WrappedReadMemory64:
		return p.WrappedReadMemory64
	case block.WrappedReadMemory128:
		return p.WrappedReadMemory128
	case block.ExclusiveReadMemory8:
		return p.ExclusiveReadMemory8
	case block.ExclusiveReadMemory16:
		return p.ExclusiveReadMemory16
	case block.ExclusiveReadMemory32:
		return p.ExclusiveReadMemory32
	case block.ExclusiveReadMemory64:
		return p.ExclusiveReadMemory64
	case block.ExclusiveReadMemory128:
		return p.ExclusiveReadMemory128
	case block.WriteMemory8:
		return p.WriteMemory8
	case block.WriteMemory16:
		return p.WriteMemory16
	case block.WriteMemory32:
		return p.WriteMemory32
	case block.WriteMemory64:
		return p.WriteMemory64
	case block.WriteMemory128:
		return p.WriteMemory128
	case block.WrappedWriteMemory8:
		return p.WrappedWriteMemory8
	case block.WrappedWriteMemory16:
		return p.WrappedWriteMemory16
	case block.WrappedWriteMemory32:
		return p.WrappedWriteMemory32
	case block.WrappedWriteMemory64:
		return p.WrappedWriteMemory64
	case block.WrappedWriteMemory128:
		return p.WrappedWriteMemory128
	case block.ExclusiveWriteMemory8:
		return p.ExclusiveWriteMemory8
	case block.ExclusiveWriteMemory16:
		return p.ExclusiveWriteMemory16
	case block.ExclusiveWriteMemory32:
		return p.ExclusiveWriteMemory32
	case block.ExclusiveWriteMemory64:
		return p.ExclusiveWriteMemory64
	case block.ExclusiveWriteMemory128:
		return p.ExclusiveWriteMemory128
	case block.CallSVC:
		return p.CallSVC
	case block.ExceptionRaised:
		return p.ExceptionRaised
	case block.InstructionSynchronizationBarrierRaised:
		return p.ISBRaised
	case block.InstructionCacheOperationRaised:
		return p.ICRaised
	case block.DataCacheOperationRaised:
		return p.DCRaised
	case block.GetCNTPCT:
		return p.GetCNTPCT
	case block.AddTicks:
		return p.AddTicks
	case block.GetTicksRemaining:
		return p.GetTicksRemaining
	default:
		panic(fmt.Sprintf("marten: invalid relocation target %d", int(t)))
	}
}

// tail reports whether the tag is reached by a tail branch rather than a
// call.
func tail(t block.LinkTarget) bool {
	return t == block.ReturnToDispatcher || t == block.ReturnFromRunCode
}
