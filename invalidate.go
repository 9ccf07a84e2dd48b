// Copyright (c) 2025 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marten

import (
	"github.com/marten-emu/marten/block"
	"github.com/marten-emu/marten/ir"
)

// InvalidateBasicBlocks removes the translations of the given locations.
// The emitted bytes stay in the cache, unreachable, until the next reset;
// only the forward map shrinks.
func (s *AddressSpace) InvalidateBasicBlocks(locations []ir.Location) {
	s.region.Unprotect()
	defer s.region.Protect()

	for _, location := range locations {
		if _, found := s.blocks.Forward(location); !found {
			continue
		}

		// Unlink before removal: this can run inside a fastmem callback,
		// and the currently executing block may hold link sites targeting
		// itself which must be repointed at the dispatcher before the
		// location disappears.
		s.relinkForDescriptor(location, 0)

		s.blocks.Remove(location)
	}
}

// GuestRange is a byte range of guest address space.
type GuestRange struct {
	Start  uint64
	Length uint64
}

func (r GuestRange) overlaps(start, length uint64) bool {
	return start < r.Start+r.Length && r.Start < start+length
}

// InvalidateCacheRanges removes every live translation whose guest
// instruction bytes intersect any of the ranges.  Guest cache maintenance
// operations funnel here.
func (s *AddressSpace) InvalidateCacheRanges(ranges []GuestRange) {
	var hit []ir.Location

	s.blocks.ForEachLive(func(location ir.Location, info *block.Info) {
		for _, r := range ranges {
			if r.overlaps(info.GuestStart, info.GuestLength) {
				hit = append(hit, location)
				break
			}
		}
	})

	if len(hit) > 0 {
		s.InvalidateBasicBlocks(hit)
	}
}

// ClearCache evicts everything: all indexes are emptied and the cursor
// rewinds to just past the prelude.  The fastmem blacklist is retained so
// sites which faulted keep compiling with the slow path.
func (s *AddressSpace) ClearCache() {
	s.blocks.Clear()
	s.buf.SetAddr(s.preludeEnd)
	s.resets++

	s.log.Info("code cache reset", "resets", s.resets)
}
