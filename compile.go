// Copyright (c) 2025 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marten

import (
	"fmt"

	"github.com/marten-emu/marten/block"
	"github.com/marten-emu/marten/ir"
)

// GetOrEmit returns the entry point of the translation of location,
// compiling it first if necessary.  A nearly full cache is reset before
// compiling; the caller only sees a slower call.
func (s *AddressSpace) GetOrEmit(location ir.Location) uintptr {
	if entry, found := s.blocks.Forward(location); found {
		return entry
	}

	if s.IsNearlyFull() {
		s.ClearCache()
	}

	return s.compile(location)
}

// compile emits the block for location, and with multi-block compilation
// enabled keeps emitting not-yet-translated successors breadth-first until
// the queue drains or the cache is nearly full.  The whole batch is made
// executable at once.
func (s *AddressSpace) compile(location ir.Location) uintptr {
	starting := s.buf.Addr

	s.region.Unprotect()
	defer func() {
		s.region.Invalidate(starting, s.buf.Addr)
		s.region.Protect()
	}()

	var next []ir.Location

	doBlock := func(location ir.Location) uintptr {
		irBlock := s.cfg.GenerateIR(location)
		next = appendNextBlocks(next, irBlock.Terminal())
		info := s.emit(irBlock)
		return info.Entry
	}

	result := doBlock(location)

	if s.cfg.MultiBlockCompilation {
		for len(next) > 0 && !s.IsNearlyFull() {
			n := next[0]
			next = next[1:]
			if _, found := s.blocks.Forward(n); !found {
				doBlock(n)
			}
		}
	}

	return result
}

// emit lowers one IR block, installs it, links it, and repatches any prior
// blocks whose link sites were waiting for this location.
func (s *AddressSpace) emit(irBlock *ir.Block) *block.Info {
	info := s.cfg.Emit(&s.buf, s.region.Addr(), irBlock, &s.fastmem)

	s.blocks.Install(irBlock.Location(), info)

	s.link(info)
	s.relinkForDescriptor(irBlock.Location(), info.Entry)

	s.log.Debug("block compiled",
		"location", irBlock.Location(),
		"entry", fmt.Sprintf("%#x", info.Entry),
		"size", info.Size)

	return info
}

// appendNextBlocks walks a terminal and appends the guest locations it can
// transfer to directly.
func appendNextBlocks(next []ir.Location, terminal ir.Terminal) []ir.Location {
	switch t := terminal.(type) {
	case ir.Invalid:
		panic("marten: invalid terminal")

	case ir.ReturnToDispatch, ir.PopRSBHint, ir.FastDispatchHint:
		// Nothing

	case ir.LinkBlock:
		next = append(next, t.Next)

	case ir.LinkBlockFast:
		next = append(next, t.Next)

	case ir.If:
		next = appendNextBlocks(next, t.Then)
		next = appendNextBlocks(next, t.Else)

	case ir.CheckBit:
		next = appendNextBlocks(next, t.Then)
		next = appendNextBlocks(next, t.Else)

	case ir.CheckHalt:
		next = appendNextBlocks(next, t.Else)

	default:
		panic(fmt.Sprintf("marten: unknown terminal %T", terminal))
	}

	return next
}
