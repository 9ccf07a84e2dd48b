// Copyright (c) 2025 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marten

import (
	"encoding/binary"
	"fmt"

	"github.com/marten-emu/marten/block"
	"github.com/marten-emu/marten/internal/isa/arm64/in"
	"github.com/marten-emu/marten/ir"
)

// patchWord overwrites one instruction word at an absolute host address
// inside the code cache.  The region must be writable; the caller batches
// the instruction-cache invalidation.
func (s *AddressSpace) patchWord(addr uintptr, word uint32) {
	off := addr - s.region.Addr()
	binary.LittleEndian.PutUint32(s.region.Bytes()[off:], word)
}

// link resolves a freshly installed block: external relocations against
// the prelude, and block relocations against whichever peers are already
// live.  Each block-relocation target is also recorded in the reverse
// adjacency so the sites can be repatched when the target appears,
// disappears or moves.
func (s *AddressSpace) link(info *block.Info) {
	for _, rel := range info.Relocs {
		site := info.Entry + uintptr(rel.Offset)
		target := s.prelude.target(rel.Target)
		if tail(rel.Target) {
			s.patchWord(site, in.B.BranchRel(site, target))
		} else {
			s.patchWord(site, in.BL.BranchRel(site, target))
		}
	}

	for location, list := range info.BlockRelocs {
		s.blocks.AddBackref(location, info.Entry)
		target, _ := s.blocks.Forward(location)
		s.linkBlockLinks(info.Entry, target, list)
	}
}

// linkBlockLinks patches every site in list to target, or to the unlinked
// form when target is zero: a no-op for Branch sites (falling through to
// the block's own dispatcher-return path) and a dispatcher-return address
// materialization for MoveToScratch1 sites.
func (s *AddressSpace) linkBlockLinks(entry, target uintptr, list []block.BlockReloc) {
	for _, rel := range list {
		site := entry + uintptr(rel.Offset)

		switch rel.Type {
		case block.Branch:
			if target != 0 {
				s.patchWord(site, in.B.BranchRel(site, target))
			} else {
				s.patchWord(site, in.NopWord)
			}

		case block.MoveToScratch1:
			t := target
			if t == 0 {
				t = s.prelude.ReturnToDispatcher
			}
			word0, word1 := in.AdrL(in.Scratch1, site, t)
			s.patchWord(site, word0)
			s.patchWord(site+4, word1)

		default:
			panic(fmt.Sprintf("marten: invalid block relocation type %v", rel.Type))
		}
	}
}

// relinkForDescriptor repatches every known inbound link site of location
// to entry (zero unlinks).  Stale backrefs whose block info was reclaimed
// by a reset are skipped.
func (s *AddressSpace) relinkForDescriptor(location ir.Location, entry uintptr) {
	for ref := range s.blocks.Backrefs(location) {
		info := s.blocks.Info(ref)
		if info == nil {
			continue
		}

		if list, found := info.BlockRelocs[location]; found {
			s.linkBlockLinks(info.Entry, entry, list)
		}

		off := int(info.Entry - s.region.Addr())
		s.region.Invalidate(off, off+info.Size)
	}
}
