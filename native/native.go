// Package native is the cgo boundary of go-zpaq.  It declares the C shim
// entry points (zpaqbridge.h), owns the reader/writer trampolines, and wraps
// every native handle kind in a typed Go struct with a single Free.
//
// The package is internal by convention: its API mirrors the C shim one to
// one and offers none of the validation or resource management of the root
// zpaq package.  Use it only for entry points the root package does not
// re-export.
package native

/*
#cgo CXXFLAGS: -std=c++11 -O2 -I${SRCDIR}/../third_party/zpaq
#cgo LDFLAGS: -L${SRCDIR}/../third_party/zpaq -lzpaq -lstdc++ -lpthread

#include <stdlib.h>
#include "zpaqbridge.h"
*/
import "C"

import "unsafe"

// CallbackError is the sentinel a trampoline returns to abort the current
// native operation.  Distinct from any legitimate byte count.
const CallbackError = int(C.GO_ZPAQ_CALLBACK_ERROR)

// Error is a failure reported by the native engine through the error channel.
// Msg is whatever the engine last reported; it is never empty (a silent
// failure yields the "unknown error" sentinel text).
type Error struct {
	Msg string
}

func (e *Error) Error() string { return "zpaq: " + e.Msg }

// ChannelError snapshots the error slot and wraps it in an *Error,
// substituting "unknown error" when the slot is empty.
func ChannelError() error {
	msg := LastError()
	if msg == "" {
		msg = "unknown error"
	}
	return &Error{Msg: msg}
}

// ClearLastError resets the error slot.  Every public operation that can fail
// clears it before touching native code.
func ClearLastError() {
	C.zpaq_clear_last_error()
}

// SetLastError overwrites the error slot.
func SetLastError(msg string) {
	cs := C.CString(msg)
	defer C.free(unsafe.Pointer(cs))
	C.zpaq_set_last_error(cs)
}

// LastError snapshots the error slot without clearing it.
func LastError() string {
	n := C.zpaq_last_error_len()
	if n == 0 {
		return ""
	}
	buf := make([]byte, int(n))
	got := C.zpaq_last_error_copy((*C.char)(unsafe.Pointer(&buf[0])), n)
	return string(buf[:got])
}

// ClearLastOutput resets the captured stdout/stderr slots.
func ClearLastOutput() {
	C.zpaq_clear_last_output()
}

// LastStdout snapshots the captured standard output of the last archive
// command.
func LastStdout() string {
	n := C.zpaq_last_stdout_len()
	if n == 0 {
		return ""
	}
	buf := make([]byte, int(n))
	got := C.zpaq_last_stdout_copy((*C.char)(unsafe.Pointer(&buf[0])), n)
	return string(buf[:got])
}

// LastStderr snapshots the captured standard error of the last archive
// command.
func LastStderr() string {
	n := C.zpaq_last_stderr_len()
	if n == 0 {
		return ""
	}
	buf := make([]byte, int(n))
	got := C.zpaq_last_stderr_copy((*C.char)(unsafe.Pointer(&buf[0])), n)
	return string(buf[:got])
}
