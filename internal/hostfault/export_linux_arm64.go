// Copyright (c) 2025 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux && arm64 && cgo

package hostfault

// #include <stdint.h>
import "C"

// martenFaultDispatch is called by the C signal handler with the
// interrupted PC.  A nonzero return means the fault was resolved and the
// out-parameters carry the fake call to install.
//
//export martenFaultDispatch
func martenFaultDispatch(pc C.uintptr_t, cpsr, call *C.uint64_t) C.int {
	fc, handled := Dispatch(uintptr(pc))
	if !handled {
		return 0
	}
	*cpsr = C.uint64_t(fc.Cpsr)
	*call = C.uint64_t(fc.Call)
	return 1
}
