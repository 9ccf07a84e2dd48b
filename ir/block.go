// Copyright (c) 2025 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

// Block is one straight-line run of guest instructions ending in a
// control-flow terminal.  The instruction payload is owned by the front end
// and the emitter; the address space only looks at the location and the
// terminal.
type Block struct {
	location Location
	terminal Terminal

	// Payload is the decoded instruction stream in whatever representation
	// the front end and the emitter agree on.
	Payload any
}

func NewBlock(location Location) *Block {
	return &Block{
		location: location,
		terminal: Invalid{},
	}
}

func (b *Block) Location() Location {
	return b.location
}

func (b *Block) Terminal() Terminal {
	return b.terminal
}

func (b *Block) SetTerminal(t Terminal) {
	b.terminal = t
}
