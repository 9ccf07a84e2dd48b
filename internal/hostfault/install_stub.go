// Copyright (c) 2025 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !linux || !arm64 || !cgo

package hostfault

// Without the signal-handler implementation registration still records the
// region so that Dispatch keeps working (tests drive it directly), but real
// host faults are not recovered.  Embedders must configure the emitter to
// avoid fastmem when Supported reports false.

func install() error {
	return nil
}

// Supported reports whether faults inside registered regions are recovered.
func Supported() bool {
	return false
}
