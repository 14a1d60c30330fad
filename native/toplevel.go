package native

/*
#include <stdlib.h>
#include "zpaqbridge.h"
*/
import "C"

import "unsafe"

// cOptString converts an optional string for the boundary.  A nil pointer
// crosses as NULL, which the engine reads as "metadata absent".  The caller
// must invoke the returned release func.
func cOptString(s *string) (*C.char, func()) {
	if s == nil {
		return nil, func() {}
	}
	cs := C.CString(*s)
	return cs, func() { C.free(unsafe.Pointer(cs)) }
}

// Compress runs the engine's all-at-once compress over the two bridges.
// NUL validation of method/filename/comment happens above this layer.
func Compress(in *Reader, out *Writer, method string, filename, comment *string, doSHA1 bool) error {
	cmethod := C.CString(method)
	defer C.free(unsafe.Pointer(cmethod))
	cfilename, freeFilename := cOptString(filename)
	defer freeFilename()
	ccomment, freeComment := cOptString(comment)
	defer freeComment()

	rc := C.zpaq_compress(in.ptr, out.ptr, cmethod, cfilename, ccomment, cBool(doSHA1))
	if rc != 0 {
		return ChannelError()
	}
	return nil
}

// Decompress runs the engine's all-at-once decompress.  The stream
// self-describes its method.
func Decompress(in *Reader, out *Writer) error {
	if rc := C.zpaq_decompress(in.ptr, out.ptr); rc != 0 {
		return ChannelError()
	}
	return nil
}

// CompressSize reports the compressed byte count via the native counting
// writer, never materializing compressed bytes on either side.
func CompressSize(in *Reader, method string, filename, comment *string, doSHA1 bool) (uint64, error) {
	cmethod := C.CString(method)
	defer C.free(unsafe.Pointer(cmethod))
	cfilename, freeFilename := cOptString(filename)
	defer freeFilename()
	ccomment, freeComment := cOptString(comment)
	defer freeComment()

	var size C.uint64_t
	rc := C.zpaq_compress_size(in.ptr, cmethod, cfilename, ccomment, cBool(doSHA1), &size)
	if rc != 0 {
		return 0, ChannelError()
	}
	return uint64(size), nil
}

// CompressSizeParallel is CompressSize with the input partitioned into the
// method's block size and compressed on a native worker pool.  threads <= 1
// behaves exactly as the serial path.
func CompressSizeParallel(in *Reader, method string, filename, comment *string, doSHA1 bool, threads int) (uint64, error) {
	cmethod := C.CString(method)
	defer C.free(unsafe.Pointer(cmethod))
	cfilename, freeFilename := cOptString(filename)
	defer freeFilename()
	ccomment, freeComment := cOptString(comment)
	defer freeComment()

	var size C.uint64_t
	rc := C.zpaq_compress_size_parallel(in.ptr, cmethod, cfilename, ccomment,
		cBool(doSHA1), C.int(threads), &size)
	if rc != 0 {
		return 0, ChannelError()
	}
	return uint64(size), nil
}

// DecompressSize reports the decompressed byte count via the native counting
// writer.
func DecompressSize(in *Reader) (uint64, error) {
	var size C.uint64_t
	if rc := C.zpaq_decompress_size(in.ptr, &size); rc != 0 {
		return 0, ChannelError()
	}
	return uint64(size), nil
}

func cBool(b bool) C.int {
	if b {
		return 1
	}
	return 0
}
