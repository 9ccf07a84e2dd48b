// Copyright (c) 2025 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fakejit provides a deterministic front end and emitter for
// exercising the address space without a real guest or a real code
// generator.  Emitted "code" is placeholder words; only the relocation and
// patch metadata is meaningful.
package fakejit

import (
	"reflect"

	"github.com/marten-emu/marten/block"
	"github.com/marten-emu/marten/fastmem"
	"github.com/marten-emu/marten/internal/code"
	"github.com/marten-emu/marten/internal/isa/arm64/in"
	"github.com/marten-emu/marten/ir"
)

const retWord = uint32(0xd65f03c0)

// NumPreludeHelpers matches the field count of the address space's Prelude.
const NumPreludeHelpers = 40

// EmitPrelude writes one RET word per prelude helper and returns their
// addresses in field order.
func EmitPrelude(buf *code.Buf, base uintptr) []uintptr {
	addrs := make([]uintptr, NumPreludeHelpers)
	for i := range addrs {
		addrs[i] = base + uintptr(buf.Addr)
		buf.PutUint32(retWord)
	}
	return addrs
}

// FillPrelude assigns addrs to the uintptr fields of a prelude record (a
// pointer to struct) in declaration order.
func FillPrelude(prelude any, addrs []uintptr) {
	v := reflect.ValueOf(prelude).Elem()
	i := 0
	for f := 0; f < v.NumField(); f++ {
		if v.Field(f).Kind() == reflect.Uintptr {
			v.Field(f).SetUint(uint64(addrs[i]))
			i++
		}
	}
}

// FastmemSpec requests one fastmem access in a block's body.
type FastmemSpec struct {
	Inst      int // body word index of the access
	Recompile bool
}

// FrontEnd doubles as the IR generator and the emitter.  Terminals
// defaults to ReturnToDispatch for unlisted locations.
type FrontEnd struct {
	Terminals map[ir.Location]ir.Terminal
	Fastmem   map[ir.Location]FastmemSpec
	BodyWords int // body filler length; default 4

	// Emitted is incremented per emitted block.
	Emitted int
}

func (f *FrontEnd) GenerateIR(location ir.Location) *ir.Block {
	b := ir.NewBlock(location)
	if t, found := f.Terminals[location]; found {
		b.SetTerminal(t)
	} else {
		b.SetTerminal(ir.ReturnToDispatch{})
	}
	return b
}

type linkSite struct {
	target ir.Location
	typ    block.RelocType
}

func collectLinkSites(sites []linkSite, terminal ir.Terminal) []linkSite {
	switch t := terminal.(type) {
	case ir.LinkBlock:
		sites = append(sites, linkSite{t.Next, block.Branch})
	case ir.LinkBlockFast:
		sites = append(sites, linkSite{t.Next, block.MoveToScratch1})
	case ir.If:
		sites = collectLinkSites(sites, t.Then)
		sites = collectLinkSites(sites, t.Else)
	case ir.CheckBit:
		sites = collectLinkSites(sites, t.Then)
		sites = collectLinkSites(sites, t.Else)
	case ir.CheckHalt:
		sites = collectLinkSites(sites, t.Else)
	}
	return sites
}

// Emit writes a fixed-shape block:
//
//	+0        BL AddTicks placeholder
//	+4        BL GetTicksRemaining placeholder
//	+8        body words (fastmem site among them if requested)
//	...       one link site per direct successor (Branch: 1 word,
//	          MoveToScratch1: 2 words)
//	last word B ReturnToDispatcher placeholder
func (f *FrontEnd) Emit(buf *code.Buf, base uintptr, b *ir.Block, fm *fastmem.Manager) *block.Info {
	f.Emitted++

	location := b.Location()
	entry := base + uintptr(buf.Addr)
	start := buf.Addr

	info := &block.Info{
		Entry:       entry,
		GuestStart:  uint64(location),
		BlockRelocs: make(map[ir.Location][]block.BlockReloc),
	}

	reloc := func(target block.LinkTarget) {
		info.Relocs = append(info.Relocs, block.Reloc{Offset: buf.Addr - start, Target: target})
		buf.PutUint32(in.PadWord)
	}

	reloc(block.AddTicks)
	reloc(block.GetTicksRemaining)

	bodyWords := f.BodyWords
	if bodyWords == 0 {
		bodyWords = 4
	}
	info.GuestLength = uint64(4 * bodyWords)

	spec, hasFastmem := f.Fastmem[location]
	for i := 0; i < bodyWords; i++ {
		if hasFastmem && i == spec.Inst {
			marker := fastmem.Marker{Location: location, Inst: i, Kind: fastmem.Read}
			if fm.ShouldFastmem(marker) {
				off := buf.Addr - start
				if info.FastmemPatches == nil {
					info.FastmemPatches = make(map[int]block.FastmemPatch)
				}
				info.FastmemPatches[off] = block.FastmemPatch{
					FC:        block.FakeCall{Cpsr: 0x20000000, Call: 0xfa4e0000 + uintptr(off)},
					Marker:    marker,
					HasMarker: true,
					Recompile: spec.Recompile,
				}
			}
		}
		buf.PutUint32(in.PadWord)
	}

	for _, site := range collectLinkSites(nil, b.Terminal()) {
		off := buf.Addr - start
		info.BlockRelocs[site.target] = append(info.BlockRelocs[site.target], block.BlockReloc{Offset: off, Type: site.typ})
		buf.PutUint32(in.PadWord)
		if site.typ == block.MoveToScratch1 {
			buf.PutUint32(in.PadWord)
		}
	}

	reloc(block.ReturnToDispatcher)

	info.Size = buf.Addr - start
	return info
}
