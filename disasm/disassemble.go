// Copyright (c) 2025 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disasm dumps emitted AArch64 code for debugging.  It is not used
// on any translation path.
package disasm

import (
	"fmt"
	"io"

	"github.com/bnagy/gapstone"
)

// Fprint disassembles text, which resides at base in host memory, and
// writes an assembly listing to w.  Known block entry points are labeled
// with the corresponding name.
func Fprint(w io.Writer, text []byte, base uintptr, entries map[uintptr]string) (err error) {
	engine, err := gapstone.New(gapstone.CS_ARCH_ARM64, gapstone.CS_MODE_ARM)
	if err != nil {
		return
	}
	defer engine.Close()

	insns, err := engine.Disasm(text, uint64(base), 0)
	if err != nil {
		return
	}

	for i := range insns {
		insn := insns[i]

		if name, found := entries[uintptr(insn.Address)]; found {
			if _, err = fmt.Fprintf(w, "\n%s:\n", name); err != nil {
				return
			}
		}

		if _, err = fmt.Fprintf(w, "%016x\t%s\t%s\n", insn.Address, insn.Mnemonic, insn.OpStr); err != nil {
			return
		}
	}

	return
}
