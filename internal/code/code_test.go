// Copyright (c) 2025 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package code

import (
	"encoding/binary"
	"testing"
)

func TestRegionProtection(t *testing.T) {
	r, err := NewRegion(1 << 20)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if !r.Writable() {
		t.Error("fresh region is not writable")
	}

	r.Protect()
	r.Protect() // idempotent
	if r.Writable() {
		t.Error("region writable after Protect")
	}

	r.Unprotect()
	r.Unprotect() // idempotent
	if !r.Writable() {
		t.Error("region not writable after Unprotect")
	}

	r.Invalidate(0, 64)
	r.Invalidate(64, 64) // empty range
}

func TestBuf(t *testing.T) {
	r, err := NewRegion(1 << 20)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	b := MakeBuf(r)

	if b.Remaining() != 1<<20 {
		t.Errorf("remaining = %d", b.Remaining())
	}

	b.PutUint32(0xd503201f)
	if b.Addr != 4 {
		t.Errorf("cursor = %d after one word", b.Addr)
	}
	if got := binary.LittleEndian.Uint32(r.Bytes()); got != 0xd503201f {
		t.Errorf("word = %08x", got)
	}

	s := b.Extend(12)
	if len(s) != 12 || b.Addr != 16 {
		t.Errorf("extend: len %d, cursor %d", len(s), b.Addr)
	}

	b.SetAddr(4)
	if b.Addr != 4 || b.Remaining() != 1<<20-4 {
		t.Errorf("after rewind: cursor %d, remaining %d", b.Addr, b.Remaining())
	}
}

func TestBufOverrun(t *testing.T) {
	r, err := NewRegion(1 << 16)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	b := MakeBuf(r)
	b.Extend(1 << 16)

	defer func() {
		if recover() == nil {
			t.Error("overrun did not panic")
		}
	}()
	b.PutByte(0)
}
