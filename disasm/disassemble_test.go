// Copyright (c) 2025 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package disasm

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"
)

func TestFprint(t *testing.T) {
	text := make([]byte, 12)
	binary.LittleEndian.PutUint32(text[0:], 0xd503201f) // nop
	binary.LittleEndian.PutUint32(text[4:], 0x14000002) // b +8
	binary.LittleEndian.PutUint32(text[8:], 0xd65f03c0) // ret

	var b bytes.Buffer
	if err := Fprint(&b, text, 0x10000, map[uintptr]string{0x10008: "exit"}); err != nil {
		t.Skipf("capstone unavailable: %v", err)
	}

	out := b.String()
	for _, want := range []string{"nop", "ret", "exit:"} {
		if !strings.Contains(out, want) {
			t.Errorf("listing lacks %q:\n%s", want, out)
		}
	}
}
