// Copyright (c) 2025 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !arm64 || !cgo

package code

// Hosts with coherent instruction fetch (and builds which never execute the
// emitted code, such as cross-host tests) need no explicit flush.
func cacheFlush([]byte) {}
