// Copyright (c) 2025 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build gofuzz

package marten

import (
	"encoding/binary"

	"github.com/marten-emu/marten/internal/code"
	"github.com/marten-emu/marten/internal/test/fakejit"
	"github.com/marten-emu/marten/ir"
)

func Fuzz(data []byte) int {
	fe := &fakejit.FrontEnd{
		Terminals: make(map[ir.Location]ir.Terminal),
	}

	config := &Config{
		CodeCacheSize:         4 * 1024 * 1024,
		MultiBlockCompilation: true,
		GenerateIR:            fe.GenerateIR,
		Emit:                  fe.Emit,
		EmitPrelude: func(buf *code.Buf, base uintptr) *Prelude {
			p := new(Prelude)
			fakejit.FillPrelude(p, fakejit.EmitPrelude(buf, base))
			return p
		},
	}

	s, err := NewAddressSpace(config)
	if err != nil {
		return 0
	}
	defer s.Close()

	for len(data) >= 9 {
		op := data[0]
		location := ir.Location(binary.LittleEndian.Uint64(data[1:9]))
		data = data[9:]

		switch op % 4 {
		case 0, 1:
			fe.Terminals[location] = ir.LinkBlock{Next: location + 4}
			s.GetOrEmit(location)
		case 2:
			s.InvalidateBasicBlocks([]ir.Location{location})
		case 3:
			s.ReverseGetEntryPoint(uintptr(location))
		}
	}

	return 1
}
