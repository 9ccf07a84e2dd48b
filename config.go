// Copyright (c) 2025 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marten

import (
	"log/slog"

	"github.com/marten-emu/marten/block"
	"github.com/marten-emu/marten/fastmem"
	"github.com/marten-emu/marten/internal/code"
	"github.com/marten-emu/marten/ir"
)

// GenerateIR produces the IR block for one guest decode context.  It is
// the whole guest front end as far as this package is concerned.
type GenerateIR func(ir.Location) *ir.Block

// Emitter lowers one IR block to machine code.  It appends to buf (whose
// region starts at base in host memory), consults fm to decide between
// fastmem and slow-path memory accesses, and returns the block metadata
// with entry, size, relocation and patch tables filled in.
type Emitter func(buf *code.Buf, base uintptr, b *ir.Block, fm *fastmem.Manager) *block.Info

// EmitPrelude emits the dispatcher trampolines at the start of the code
// cache, before any block, and records their addresses.
type EmitPrelude func(buf *code.Buf, base uintptr) *Prelude

// Config for an address space.  A zero CodeCacheSize or nil Logger is
// replaced with its default during construction; GenerateIR, Emit and
// EmitPrelude are required.
type Config struct {
	CodeCacheSize         int  // Bytes to reserve; at most MaxCodeCacheSize.
	MultiBlockCompilation bool // Speculatively emit successor blocks too.

	GenerateIR  GenerateIR
	Emit        Emitter
	EmitPrelude EmitPrelude

	Logger *slog.Logger // Defaults to a discarding logger.
}
