// Copyright (c) 2025 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package marten implements the address space of a dynamic binary translator
targeting AArch64 hosts: a fixed-size executable code cache, the indexes
mapping guest decode contexts to emitted host code, direct linking of
translated blocks to one another, invalidation and wholesale reset, and
recovery from host memory faults raised by optimistic fastmem accesses
inside emitted code.

The guest front end (IR generation) and the machine-code emitter are
consumed as callbacks; see Config.  The emitted trampoline preludes are
likewise produced by the embedder and recorded in a Prelude.

An AddressSpace is single-threaded: one host thread runs guest code and
calls into it.  The only reentrancy is from the host-fault handler on that
same thread, and every operation reachable from the fault path is written
to be safe under it.
*/
package marten

import (
	"io"
	"log/slog"

	"github.com/marten-emu/marten/block"
	"github.com/marten-emu/marten/fastmem"
	"github.com/marten-emu/marten/internal/code"
	"github.com/marten-emu/marten/internal/hostfault"
	"github.com/marten-emu/marten/ir"
	"golang.org/x/xerrors"
)

// MaxCodeCacheSize bounds Config.CodeCacheSize.  It also keeps every pair
// of addresses in the cache within reach of a single branch instruction.
const MaxCodeCacheSize = 128 * 1024 * 1024

const defaultCodeCacheSize = 16 * 1024 * 1024

// ErrCacheSizeLimit is returned by NewAddressSpace when the configured
// code cache size is not supported.
var ErrCacheSizeLimit = xerrors.New("code cache size limit exceeded")

// AddressSpace owns one executable code cache and all bookkeeping for the
// blocks emitted into it.
type AddressSpace struct {
	cfg Config
	log *slog.Logger

	region     *code.Region
	buf        code.Buf
	prelude    *Prelude
	preludeEnd int

	blocks  block.Maps
	fastmem fastmem.Manager

	resets uint64
}

// NewAddressSpace maps the code cache, emits the prelude trampolines
// through cfg.EmitPrelude, and registers the cache with the host-fault
// handler.
func NewAddressSpace(cfg *Config) (*AddressSpace, error) {
	if cfg.GenerateIR == nil || cfg.Emit == nil || cfg.EmitPrelude == nil {
		return nil, xerrors.New("marten: GenerateIR, Emit and EmitPrelude must be configured")
	}

	size := cfg.CodeCacheSize
	if size == 0 {
		size = defaultCodeCacheSize
	}
	if size > MaxCodeCacheSize {
		return nil, xerrors.Errorf("marten: %d-byte code cache: %w", size, ErrCacheSizeLimit)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	region, err := code.NewRegion(size)
	if err != nil {
		return nil, err
	}

	s := &AddressSpace{
		cfg:    *cfg,
		log:    logger,
		region: region,
		buf:    code.MakeBuf(region),
	}

	// The region starts out writable; the prelude is the only code ever
	// emitted below the reset rewind point.
	s.prelude = cfg.EmitPrelude(&s.buf, region.Addr())
	s.preludeEnd = s.buf.Addr
	region.Invalidate(0, s.buf.Addr)
	region.Protect()

	if err := hostfault.Register(region.Addr(), region.Addr()+uintptr(size), s.fastmemCallback); err != nil {
		region.Close()
		return nil, err
	}

	return s, nil
}

// Close unregisters the fault handler and unmaps the code cache.  The
// address space must not be used afterwards.
func (s *AddressSpace) Close() error {
	hostfault.Unregister(s.region.Addr())
	return s.region.Close()
}

// Get returns the entry point of the live translation of location.
func (s *AddressSpace) Get(location ir.Location) (entry uintptr, found bool) {
	return s.blocks.Forward(location)
}

// ReverseGetEntryPoint returns the entry address of the latest block
// beginning at or below hostPC.  Containment within the block is not
// verified.
func (s *AddressSpace) ReverseGetEntryPoint(hostPC uintptr) (entry uintptr, found bool) {
	return s.blocks.ReverseEntry(hostPC)
}

// ReverseGetLocation is ReverseGetEntryPoint returning the guest location.
func (s *AddressSpace) ReverseGetLocation(hostPC uintptr) (location ir.Location, found bool) {
	return s.blocks.ReverseLocation(hostPC)
}

// RemainingSize reports the bytes left between the code cursor and the end
// of the cache.
func (s *AddressSpace) RemainingSize() int {
	return s.buf.Remaining()
}

// IsNearlyFull reports whether the next compilation should reset the cache
// first.
func (s *AddressSpace) IsNearlyFull() bool {
	return s.buf.Remaining() < code.LowWater
}

// Stats reports cache occupancy.
type Stats struct {
	CursorOffset int    // bytes emitted, prelude included
	LiveBlocks   int    // locations with a live translation
	Resets       uint64 // wholesale cache resets so far
}

func (s *AddressSpace) Stats() Stats {
	return Stats{
		CursorOffset: s.buf.Addr,
		LiveBlocks:   s.blocks.Live(),
		Resets:       s.resets,
	}
}
