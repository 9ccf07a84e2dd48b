// Copyright (c) 2025 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marten

import (
	"fmt"

	"github.com/marten-emu/marten/block"
	"github.com/marten-emu/marten/ir"
)

// fastmemCallback is invoked by the host-fault handler for any fault whose
// PC lies inside this address space's code cache.  It resolves the fault
// site to a fastmem patch record and returns the fake call which resumes
// execution through the slow-path helper.  A fault anywhere else in the
// cache is a miscompile and fatal.
//
// This runs in signal context on the thread executing the faulted block.
// It only reads the block indexes, inserts into the fastmem blacklist, and
// invalidates blocks — and invalidation unlinks before erasing, so the
// still-running block finishes through a dispatcher-bound path.
func (s *AddressSpace) fastmemCallback(hostPC uintptr) block.FakeCall {
	entry, found := s.blocks.ReverseEntry(hostPC)
	if !found {
		s.fatalFault(hostPC, "no block entry at or below fault address")
	}

	info := s.blocks.Info(entry)
	if info == nil {
		s.fatalFault(hostPC, "no block info for entry")
	}

	patch, found := info.FastmemPatches[int(hostPC-entry)]
	if !found {
		s.fatalFault(hostPC, "fault is not at a fastmem patch location")
	}

	if patch.Recompile {
		if !patch.HasMarker {
			s.fatalFault(hostPC, "recompile patch without marker")
		}
		s.fastmem.MarkDoNotFastmem(patch.Marker)
		s.InvalidateBasicBlocks([]ir.Location{patch.Marker.Location})

		s.log.Warn("fastmem access faulted, recompiling without it",
			"location", patch.Marker.Location,
			"inst", patch.Marker.Inst,
			"host_pc", fmt.Sprintf("%#x", hostPC))
	}

	return patch.FC
}

func (s *AddressSpace) fatalFault(hostPC uintptr, msg string) {
	s.log.Error("host fault inside JITted code cannot be recovered",
		"host_pc", fmt.Sprintf("%#x", hostPC),
		"reason", msg)
	panic(fmt.Sprintf("marten: host fault at %#x: %s", hostPC, msg))
}
