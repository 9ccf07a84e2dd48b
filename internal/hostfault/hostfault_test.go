// Copyright (c) 2025 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hostfault

import (
	"testing"

	"github.com/marten-emu/marten/block"
)

func TestDispatch(t *testing.T) {
	var got uintptr
	cb := func(pc uintptr) block.FakeCall {
		got = pc
		return block.FakeCall{Cpsr: 7, Call: 0x42}
	}

	if err := Register(0x10000, 0x20000, cb); err != nil {
		t.Fatal(err)
	}
	defer Unregister(0x10000)

	fc, handled := Dispatch(0x10004)
	if !handled {
		t.Fatal("in-range fault not handled")
	}
	if got != 0x10004 || fc.Cpsr != 7 || fc.Call != 0x42 {
		t.Errorf("pc %#x, fc %+v", got, fc)
	}

	if _, handled := Dispatch(0x20000); handled {
		t.Error("end-of-range fault handled")
	}
	if _, handled := Dispatch(0xffff); handled {
		t.Error("out-of-range fault handled")
	}
}

func TestUnregister(t *testing.T) {
	cb := func(pc uintptr) block.FakeCall { return block.FakeCall{} }

	if err := Register(0x30000, 0x40000, cb); err != nil {
		t.Fatal(err)
	}
	Unregister(0x30000)

	if _, handled := Dispatch(0x30004); handled {
		t.Error("fault handled after Unregister")
	}
}
