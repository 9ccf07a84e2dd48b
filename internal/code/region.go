// Copyright (c) 2025 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package code owns the executable memory region and the append cursor
// through which all machine code is emitted.
package code

import (
	"golang.org/x/sys/unix"
	"golang.org/x/xerrors"
)

// Region is a fixed-size anonymous mapping which toggles between writable
// and executable.  It starts writable; Protect must be called before any of
// it is executed.  The write/execute state is a single flag per region:
// emission and patching happen under Unprotect, and every public operation
// of the address space restores the executable state before returning.
type Region struct {
	mem      []byte
	writable bool
}

func NewRegion(size int) (*Region, error) {
	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, xerrors.Errorf("code region mmap (%d bytes): %w", size, err)
	}

	return &Region{
		mem:      mem,
		writable: true,
	}, nil
}

// Unprotect makes the region writable (and not executable; W^X hosts
// enforce the exclusion, so it is never requested).  Idempotent.
func (r *Region) Unprotect() {
	if r.writable {
		return
	}
	if err := unix.Mprotect(r.mem, unix.PROT_READ|unix.PROT_WRITE); err != nil {
		panic(xerrors.Errorf("code region unprotect: %w", err))
	}
	r.writable = true
}

// Protect makes the region executable and read-only.  Idempotent.
func (r *Region) Protect() {
	if !r.writable {
		return
	}
	if err := unix.Mprotect(r.mem, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		panic(xerrors.Errorf("code region protect: %w", err))
	}
	r.writable = false
}

// Invalidate flushes the instruction cache over mem[lo:hi].  Must cover
// every byte written or patched since the last Protect.
func (r *Region) Invalidate(lo, hi int) {
	if lo >= hi {
		return
	}
	cacheFlush(r.mem[lo:hi])
}

// Writable reports the current permission state.  The address space's
// tests use it to observe permission parity at public-call boundaries.
func (r *Region) Writable() bool {
	return r.writable
}

func (r *Region) Bytes() []byte {
	return r.mem
}

func (r *Region) Size() int {
	return len(r.mem)
}

// Addr is the host virtual address of the start of the region.
func (r *Region) Addr() uintptr {
	return sliceAddr(r.mem)
}

func (r *Region) Close() error {
	mem := r.mem
	r.mem = nil
	if mem == nil {
		return nil
	}
	if err := unix.Munmap(mem); err != nil {
		return xerrors.Errorf("code region munmap: %w", err)
	}
	return nil
}
