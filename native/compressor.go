package native

/*
#include <stdlib.h>
#include "zpaqbridge.h"
*/
import "C"

import "unsafe"

// Compressor wraps the engine's block/segment protocol handle.  One
// construction has exactly one Free, on every exit path; the wrapper methods
// translate non-zero return codes into error-channel errors and otherwise
// stay one-to-one with the native calls.
type Compressor struct {
	ptr *C.zpaq_compressor
}

func NewCompressor() (*Compressor, error) {
	ptr := C.zpaq_compressor_new()
	if ptr == nil {
		return nil, ChannelError()
	}
	return &Compressor{ptr: ptr}, nil
}

// Free destroys the handle.  Safe to call more than once.
func (c *Compressor) Free() {
	if c.ptr != nil {
		C.zpaq_compressor_free(c.ptr)
		c.ptr = nil
	}
}

func (c *Compressor) SetOutput(w *Writer) error {
	if rc := C.zpaq_compressor_set_output(c.ptr, w.ptr); rc != 0 {
		return ChannelError()
	}
	return nil
}

func (c *Compressor) SetInput(r *Reader) error {
	if rc := C.zpaq_compressor_set_input(c.ptr, r.ptr); rc != 0 {
		return ChannelError()
	}
	return nil
}

// WriteTag emits the fixed marker the format requires at stream start.
func (c *Compressor) WriteTag() error {
	if rc := C.zpaq_compressor_write_tag(c.ptr); rc != 0 {
		return ChannelError()
	}
	return nil
}

func (c *Compressor) StartBlockLevel(level int) error {
	if rc := C.zpaq_compressor_start_block_level(c.ptr, C.int(level)); rc != 0 {
		return ChannelError()
	}
	return nil
}

// StartBlockMethod starts a block from an explicit method string.  The native
// side re-validates the prefix and rejects methods that need whole-block
// preprocessing.
func (c *Compressor) StartBlockMethod(method string) error {
	cmethod := C.CString(method)
	defer C.free(unsafe.Pointer(cmethod))
	if rc := C.zpaq_compressor_start_block_method(c.ptr, cmethod); rc != 0 {
		return ChannelError()
	}
	return nil
}

// StartSegment opens a segment; nil filename/comment cross as "absent".
func (c *Compressor) StartSegment(filename, comment *string) error {
	cfilename, freeFilename := cOptString(filename)
	defer freeFilename()
	ccomment, freeComment := cOptString(comment)
	defer freeComment()
	if rc := C.zpaq_compressor_start_segment(c.ptr, cfilename, ccomment); rc != 0 {
		return ChannelError()
	}
	return nil
}

// Compress consumes up to n input bytes (n < 0 means all).  Returns whether
// more input remains.
func (c *Compressor) Compress(n int) (more bool, err error) {
	rc := C.zpaq_compressor_compress(c.ptr, C.int(n))
	if rc < 0 {
		return false, ChannelError()
	}
	return rc != 0, nil
}

// EndSegment closes the segment, optionally storing a caller-computed SHA-1.
func (c *Compressor) EndSegment(sha1 *[20]byte) error {
	var p *C.uchar
	if sha1 != nil {
		p = (*C.uchar)(unsafe.Pointer(&sha1[0]))
	}
	if rc := C.zpaq_compressor_end_segment(c.ptr, p); rc != 0 {
		return ChannelError()
	}
	return nil
}

// EndSegmentChecksum closes the segment, reporting the uncompressed size and,
// when doSHA1 is set, the segment's SHA-1 checksum.
func (c *Compressor) EndSegmentChecksum(doSHA1 bool) (size int64, sum [20]byte, hasSum bool, err error) {
	var csize C.int64_t
	rc := C.zpaq_compressor_end_segment_checksum(c.ptr, &csize, cBool(doSHA1),
		(*C.uchar)(unsafe.Pointer(&sum[0])))
	if rc < 0 {
		return 0, sum, false, ChannelError()
	}
	return int64(csize), sum, rc == 1, nil
}

func (c *Compressor) EndBlock() error {
	if rc := C.zpaq_compressor_end_block(c.ptr); rc != 0 {
		return ChannelError()
	}
	return nil
}

// Size returns the number of input bytes consumed so far.
func (c *Compressor) Size() int64 {
	return int64(C.zpaq_compressor_get_size(c.ptr))
}

// Bits returns the engine's running fractional encoded-bit total, including
// block-header overhead already written.
func (c *Compressor) Bits() float64 {
	return float64(C.zpaq_compressor_get_bits(c.ptr))
}

// Checksum returns the SHA-1 of the input consumed so far, if the engine is
// tracking one.
func (c *Compressor) Checksum() (sum [20]byte, ok bool, err error) {
	rc := C.zpaq_compressor_get_checksum(c.ptr, (*C.uchar)(unsafe.Pointer(&sum[0])))
	if rc < 0 {
		return sum, false, ChannelError()
	}
	return sum, rc == 1, nil
}
