package native

/*
#include <stdlib.h>
#include "zpaqbridge.h"
*/
import "C"

import (
	"io"
	"runtime/cgo"
	"unsafe"
)

// Reader lets the native engine pull bytes from an arbitrary io.Reader.  The
// cgo.Handle pins the reader for as long as the native side may invoke the
// trampoline; Free releases the native half first, then the handle.
type Reader struct {
	ptr *C.zpaq_go_reader
	h   cgo.Handle
}

// NewReader registers r with the native side.  On a null native handle the
// cgo.Handle is released immediately since no trampoline call can follow.
func NewReader(r io.Reader) (*Reader, error) {
	h := cgo.NewHandle(r)
	ptr := C.zpaq_reader_new(C.uintptr_t(h))
	if ptr == nil {
		h.Delete()
		return nil, ChannelError()
	}
	return &Reader{ptr: ptr, h: h}, nil
}

// Free destroys the native handle and then the pinned context.  Safe to call
// more than once.
func (r *Reader) Free() {
	if r.ptr != nil {
		C.zpaq_reader_free(r.ptr)
		r.ptr = nil
	}
	if r.h != 0 {
		r.h.Delete()
		r.h = 0
	}
}

// Writer lets the native engine push bytes into an arbitrary io.Writer.
//
// The native half buffers the engine's legacy per-byte put() path and flushes
// through the bulk trampoline from its destructor, so Free must run the
// native destruction strictly before dropping the handle.
type Writer struct {
	ptr *C.zpaq_go_writer
	h   cgo.Handle
}

// NewWriter registers w with the native side.
func NewWriter(w io.Writer) (*Writer, error) {
	h := cgo.NewHandle(w)
	ptr := C.zpaq_writer_new(C.uintptr_t(h))
	if ptr == nil {
		h.Delete()
		return nil, ChannelError()
	}
	return &Writer{ptr: ptr, h: h}, nil
}

// Free flushes and destroys the native handle, then releases the pinned
// context.  Safe to call more than once.
func (w *Writer) Free() {
	if w.ptr != nil {
		C.zpaq_writer_free(w.ptr)
		w.ptr = nil
	}
	if w.h != 0 {
		w.h.Delete()
		w.h = 0
	}
}

func setCallbackError(err error) {
	SetLastError(err.Error())
}

//export goReaderRead
func goReaderRead(handle C.uintptr_t, buf *C.char, n C.int) C.int {
	if n <= 0 {
		return 0
	}
	r := cgo.Handle(handle).Value().(io.Reader)
	dst := unsafe.Slice((*byte)(unsafe.Pointer(buf)), int(n))
	got, err := r.Read(dst)
	if got > 0 {
		// A short read is a legitimate count; an error alongside it will
		// resurface on the next call.
		return C.int(got)
	}
	if err != nil && err != io.EOF {
		setCallbackError(err)
		return C.int(CallbackError)
	}
	return 0
}

//export goWriterWrite
func goWriterWrite(handle C.uintptr_t, buf *C.char, n C.int) C.int {
	if n <= 0 {
		return 0
	}
	w := cgo.Handle(handle).Value().(io.Writer)
	src := unsafe.Slice((*byte)(unsafe.Pointer(buf)), int(n))
	for len(src) > 0 {
		wrote, err := w.Write(src)
		if err != nil {
			setCallbackError(err)
			return C.int(CallbackError)
		}
		if wrote <= 0 {
			setCallbackError(io.ErrShortWrite)
			return C.int(CallbackError)
		}
		src = src[wrote:]
	}
	return 0
}
