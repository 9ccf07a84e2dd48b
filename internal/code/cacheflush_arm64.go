// Copyright (c) 2025 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build arm64 && cgo

package code

// void martenCacheFlush(char *lo, char *hi) {
//	__builtin___clear_cache(lo, hi);
// }
import "C"

import (
	"unsafe"
)

// cacheFlush performs the data-cache clean and instruction-cache invalidate
// sequence over b, with the barriers required before the host re-executes
// freshly written instructions.
func cacheFlush(b []byte) {
	lo := unsafe.Pointer(unsafe.SliceData(b))
	hi := unsafe.Add(lo, len(b))
	C.martenCacheFlush((*C.char)(lo), (*C.char)(hi))
}
