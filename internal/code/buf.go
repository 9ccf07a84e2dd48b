// Copyright (c) 2025 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package code

import (
	"encoding/binary"
	"fmt"
)

// LowWater is the remaining capacity below which the code cache counts as
// nearly full and is reset before the next compilation.
const LowWater = 1024 * 1024

// Buf is the append cursor into a Region.  The cached offset (Addr) is the
// authoritative cursor position; the emitter advances it by writing bytes.
// The compile driver rewinds it past the prelude on reset.
type Buf struct {
	mem  []byte
	Addr int
}

func MakeBuf(r *Region) Buf {
	return Buf{mem: r.Bytes()}
}

// Extend reserves n bytes at the cursor and returns them for writing.
// Overrunning the region is a bug: the nearly-full check keeps a margin of
// LowWater bytes ahead of the cursor, and blocks are orders of magnitude
// smaller than that.
func (b *Buf) Extend(n int) []byte {
	if b.Addr+n > len(b.mem) {
		panic(fmt.Sprintf("marten: code buffer overrun (cursor %#x + %d bytes > %#x)", b.Addr, n, len(b.mem)))
	}
	s := b.mem[b.Addr : b.Addr+n]
	b.Addr += n
	return s
}

func (b *Buf) PutByte(x byte) {
	b.Extend(1)[0] = x
}

// PutUint32 appends one instruction word in little-endian byte order.
func (b *Buf) PutUint32(x uint32) {
	binary.LittleEndian.PutUint32(b.Extend(4), x)
}

// SetAddr moves the cursor to an absolute offset.  Only reset uses it, to
// rewind past the prelude.
func (b *Buf) SetAddr(addr int) {
	b.Addr = addr
}

// Remaining reports the capacity left between the cursor and the end of
// the region.
func (b *Buf) Remaining() int {
	return len(b.mem) - b.Addr
}
