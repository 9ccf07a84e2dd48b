// Copyright (c) 2025 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fastmem tracks emit sites which must not use optimistic direct
// memory accesses.  The emitter queries the set before emitting each guest
// load or store; the address space inserts into it when a host fault proves
// a site wrong.
package fastmem

import (
	"github.com/marten-emu/marten/ir"
)

// AccessKind distinguishes the memory operations emitted at one site.
type AccessKind uint8

const (
	Read AccessKind = iota
	Write
	ReadWrite
)

// Marker names one emit site: the block it belongs to, the index of the
// guest instruction within that block, and the kind of access.  A marker
// stays meaningful across recompilations of the same block.
type Marker struct {
	Location ir.Location
	Inst     int
	Kind     AccessKind
}

// Manager holds the do-not-fastmem set.  It survives code cache resets so
// that a site which faulted once is compiled with the slow path forever
// after.
type Manager struct {
	doNotFastmem map[Marker]struct{}
}

func (m *Manager) MarkDoNotFastmem(marker Marker) {
	if m.doNotFastmem == nil {
		m.doNotFastmem = make(map[Marker]struct{})
	}
	m.doNotFastmem[marker] = struct{}{}
}

func (m *Manager) ShouldFastmem(marker Marker) bool {
	_, found := m.doNotFastmem[marker]
	return !found
}

// Len reports the number of blacklisted sites.
func (m *Manager) Len() int {
	return len(m.doNotFastmem)
}
