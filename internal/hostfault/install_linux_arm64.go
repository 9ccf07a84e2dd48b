// Copyright (c) 2025 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux && arm64 && cgo

package hostfault

/*
#include <signal.h>
#include <stdint.h>
#include <string.h>
#include <ucontext.h>

extern int martenFaultDispatch(uintptr_t pc, uint64_t *cpsr, uint64_t *call);

static struct sigaction marten_old_segv;
static struct sigaction marten_old_bus;

static void marten_chain(struct sigaction *old, int sig, siginfo_t *info, void *raw) {
	if (old->sa_flags & SA_SIGINFO) {
		old->sa_sigaction(sig, info, raw);
	} else if (old->sa_handler == SIG_DFL || old->sa_handler == SIG_IGN) {
		sigaction(sig, old, NULL);
		raise(sig);
	} else {
		old->sa_handler(sig);
	}
}

static void marten_fault_handler(int sig, siginfo_t *info, void *raw) {
	ucontext_t *ctx = (ucontext_t *)raw;
	uint64_t cpsr;
	uint64_t call;

	if (martenFaultDispatch((uintptr_t)ctx->uc_mcontext.pc, &cpsr, &call)) {
		// Resume as if the faulting instruction had been BL to the
		// slow-path helper: link register points just past the fault
		// site, PSTATE carries the flags the helper expects.
		ctx->uc_mcontext.regs[30] = ctx->uc_mcontext.pc + 4;
		ctx->uc_mcontext.pc = call;
		ctx->uc_mcontext.pstate = cpsr;
		return;
	}

	marten_chain(sig == SIGBUS ? &marten_old_bus : &marten_old_segv, sig, info, raw);
}

static int marten_install(void) {
	struct sigaction sa;

	memset(&sa, 0, sizeof sa);
	sa.sa_sigaction = marten_fault_handler;
	sa.sa_flags = SA_SIGINFO | SA_ONSTACK | SA_RESTART;
	sigemptyset(&sa.sa_mask);

	if (sigaction(SIGSEGV, &sa, &marten_old_segv) != 0)
		return -1;
	if (sigaction(SIGBUS, &sa, &marten_old_bus) != 0)
		return -1;
	return 0;
}
*/
import "C"

import (
	"sync"

	"golang.org/x/xerrors"
)

var installOnce sync.Once
var installErr error

func install() error {
	installOnce.Do(func() {
		if C.marten_install() != 0 {
			installErr = xerrors.New("hostfault: sigaction failed")
		}
	})
	return installErr
}

// Supported reports whether faults inside registered regions are recovered.
func Supported() bool {
	return true
}
