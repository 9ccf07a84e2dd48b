// Copyright (c) 2025 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package block

import (
	"fmt"
	"sort"

	"github.com/marten-emu/marten/ir"
)

type revEntry struct {
	entry    uintptr
	location ir.Location
}

// findEntry locates the last element of a whose entry address is at or
// below pc.
func findEntry(a []revEntry, pc uintptr) (i int, found bool) {
	i = sort.Search(len(a), func(i int) bool {
		return a[i].entry > pc
	})
	found = i > 0
	i--
	return
}

// Maps holds the four indexes over translated blocks.
//
// The forward map is the only index trimmed by single-block invalidation:
// reverse entries, infos and backrefs for dead blocks linger until the next
// full reset.  That asymmetry is deliberate.  Invalidation may run inside a
// host-fault callback while the dead block is still executing, and the
// lingering metadata is what lets the fault handler keep resolving the
// in-flight block.  Between resets the info index therefore grows with
// every recompilation; Clear reclaims it wholesale.
type Maps struct {
	forward  map[ir.Location]uintptr
	reverse  []revEntry // ascending entry addresses
	infos    map[uintptr]*Info
	backrefs map[ir.Location]map[uintptr]struct{}
}

func (m *Maps) init() {
	if m.forward == nil {
		m.forward = make(map[ir.Location]uintptr)
		m.infos = make(map[uintptr]*Info)
		m.backrefs = make(map[ir.Location]map[uintptr]struct{})
	}
}

// Install records a freshly emitted block in all three primary indexes.
// Entries are handed in at monotonically increasing addresses (the code
// cursor only moves forward between resets), so the reverse index stays
// sorted by appending.  Duplicate installation is a bug in the compile
// driver.
func (m *Maps) Install(location ir.Location, info *Info) {
	m.init()

	if _, exists := m.forward[location]; exists {
		panic(fmt.Sprintf("marten: block for %v installed twice", location))
	}
	if _, exists := m.infos[info.Entry]; exists {
		panic(fmt.Sprintf("marten: entry %#x installed twice", info.Entry))
	}
	if n := len(m.reverse); n > 0 && m.reverse[n-1].entry >= info.Entry {
		panic(fmt.Sprintf("marten: entry %#x installed out of order", info.Entry))
	}

	m.forward[location] = info.Entry
	m.reverse = append(m.reverse, revEntry{info.Entry, location})
	m.infos[info.Entry] = info
}

// Forward returns the entry point of the live translation of location.
func (m *Maps) Forward(location ir.Location) (entry uintptr, found bool) {
	entry, found = m.forward[location]
	return
}

// Remove erases location from the forward map only.  See the Maps comment
// for why the other indexes keep their entries.
func (m *Maps) Remove(location ir.Location) {
	delete(m.forward, location)
}

// ReverseEntry returns the entry address of the latest block at or below
// pc.  Containment within the block's extent is not checked here; callers
// needing it compare pc-entry against the block's size.
func (m *Maps) ReverseEntry(pc uintptr) (entry uintptr, found bool) {
	if i, ok := findEntry(m.reverse, pc); ok {
		return m.reverse[i].entry, true
	}
	return 0, false
}

// ReverseLocation is ReverseEntry returning the paired guest location.
func (m *Maps) ReverseLocation(pc uintptr) (location ir.Location, found bool) {
	if i, ok := findEntry(m.reverse, pc); ok {
		return m.reverse[i].location, true
	}
	return 0, false
}

// Info returns the metadata recorded at entry, or nil.
func (m *Maps) Info(entry uintptr) *Info {
	return m.infos[entry]
}

// AddBackref records that the block at entry contains a link site targeting
// location.
func (m *Maps) AddBackref(location ir.Location, entry uintptr) {
	m.init()

	set := m.backrefs[location]
	if set == nil {
		set = make(map[uintptr]struct{})
		m.backrefs[location] = set
	}
	set[entry] = struct{}{}
}

// Backrefs returns the entries of all blocks which have recorded a link
// site targeting location.  The returned map is live; callers must not
// mutate it.
func (m *Maps) Backrefs(location ir.Location) map[uintptr]struct{} {
	return m.backrefs[location]
}

// Live reports the number of locations with a live translation.
func (m *Maps) Live() int {
	return len(m.forward)
}

// ForEachLive calls f for every live (location, info) pair.  f must not
// install or remove blocks.
func (m *Maps) ForEachLive(f func(ir.Location, *Info)) {
	for location, entry := range m.forward {
		f(location, m.infos[entry])
	}
}

// Clear empties all indexes.
func (m *Maps) Clear() {
	m.forward = nil
	m.reverse = nil
	m.infos = nil
	m.backrefs = nil
	m.init()
}
