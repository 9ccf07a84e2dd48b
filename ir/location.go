// Copyright (c) 2025 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ir declares the guest-side types which the address space consumes:
// decode-context locations, translated blocks, and control-flow terminals.
// The front end which produces ir.Block values lives outside this module.
package ir

import (
	"fmt"
)

// Location identifies a unique guest decode context: the guest program
// counter packed together with the mode bits which affect decoding
// (instruction set, relevant flag state, FP rounding mode).  Two locations
// with equal payloads decode identically.  The payload layout is decided by
// the front end; this package treats it as opaque.
type Location uint64

// Compare returns -1, 0 or 1.  Locations are totally ordered by payload.
func (l Location) Compare(other Location) int {
	switch {
	case l < other:
		return -1
	case l > other:
		return 1
	default:
		return 0
	}
}

func (l Location) String() string {
	return fmt.Sprintf("{%016x}", uint64(l))
}
