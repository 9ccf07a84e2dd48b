// Copyright (c) 2025 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hostfault routes host memory faults raised inside executable
// regions back to the owning address space.  The process-wide fault handler
// is installed lazily on first registration; faults outside all registered
// regions are chained to the previously installed handler.
package hostfault

import (
	"sync"
	"sync/atomic"

	"github.com/marten-emu/marten/block"
)

// Callback resolves a faulting host PC inside a registered region.  It
// returns the fake call to install into the interrupted register file.
// A fault which does not land on a known patch site is fatal; the callback
// does not return in that case.
type Callback func(hostPC uintptr) block.FakeCall

type region struct {
	lo, hi uintptr
	cb     Callback
}

var (
	mu      sync.Mutex
	regions atomic.Pointer[[]region]
)

// Register routes faults at addresses in [lo, hi) to cb.  The first
// registration installs the process-wide handler.
func Register(lo, hi uintptr, cb Callback) error {
	mu.Lock()
	defer mu.Unlock()

	var next []region
	if cur := regions.Load(); cur != nil {
		next = append(next, *cur...)
	}
	next = append(next, region{lo, hi, cb})
	regions.Store(&next)

	return install()
}

// Unregister removes the region starting at lo.
func Unregister(lo uintptr) {
	mu.Lock()
	defer mu.Unlock()

	cur := regions.Load()
	if cur == nil {
		return
	}
	next := make([]region, 0, len(*cur))
	for _, r := range *cur {
		if r.lo != lo {
			next = append(next, r)
		}
	}
	regions.Store(&next)
}

// Dispatch resolves a faulting PC against the registered regions.  The
// signal handler calls it with the interrupted PC; tests call it directly
// to drive the recovery path without raising a real fault.  It only reads
// the region list and whatever the callback reads, which is what makes it
// callable from signal context.
func Dispatch(hostPC uintptr) (fc block.FakeCall, handled bool) {
	cur := regions.Load()
	if cur == nil {
		return
	}
	for _, r := range *cur {
		if hostPC >= r.lo && hostPC < r.hi {
			return r.cb(hostPC), true
		}
	}
	return
}
