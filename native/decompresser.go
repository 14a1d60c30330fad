package native

/*
#include "zpaqbridge.h"
*/
import "C"

import "unsafe"

// Decompresser wraps the engine's block-walking decompresser handle.  The
// call sequence mirrors the native protocol: SetInput, then per block
// FindBlock → FindFilename → ReadComment → SetOutput → Decompress →
// ReadSegmentEnd.
type Decompresser struct {
	ptr *C.zpaq_decompresser
}

func NewDecompresser() (*Decompresser, error) {
	ptr := C.zpaq_decompresser_new()
	if ptr == nil {
		return nil, ChannelError()
	}
	return &Decompresser{ptr: ptr}, nil
}

// Free destroys the handle.  Safe to call more than once.
func (d *Decompresser) Free() {
	if d.ptr != nil {
		C.zpaq_decompresser_free(d.ptr)
		d.ptr = nil
	}
}

func (d *Decompresser) SetInput(r *Reader) error {
	if rc := C.zpaq_decompresser_set_input(d.ptr, r.ptr); rc != 0 {
		return ChannelError()
	}
	return nil
}

// FindBlock scans for the next block header.  Returns false at end of input.
// mem reports the model's memory requirement in bytes.
func (d *Decompresser) FindBlock() (found bool, mem float64, err error) {
	var cmem C.double
	rc := C.zpaq_decompresser_find_block(d.ptr, &cmem)
	if rc < 0 {
		return false, 0, ChannelError()
	}
	return rc == 1, float64(cmem), nil
}

// FindFilename reads the next segment header, writing its filename into out.
// Returns false at end of block.
func (d *Decompresser) FindFilename(out *Writer) (found bool, err error) {
	rc := C.zpaq_decompresser_find_filename(d.ptr, out.ptr)
	if rc < 0 {
		return false, ChannelError()
	}
	return rc == 1, nil
}

func (d *Decompresser) ReadComment(out *Writer) error {
	if rc := C.zpaq_decompresser_read_comment(d.ptr, out.ptr); rc != 0 {
		return ChannelError()
	}
	return nil
}

func (d *Decompresser) SetOutput(w *Writer) error {
	if rc := C.zpaq_decompresser_set_output(d.ptr, w.ptr); rc != 0 {
		return ChannelError()
	}
	return nil
}

// Decompress produces up to n output bytes (n < 0 means the whole segment).
// Returns whether more output remains.
func (d *Decompresser) Decompress(n int) (more bool, err error) {
	rc := C.zpaq_decompresser_decompress(d.ptr, C.int(n))
	if rc < 0 {
		return false, ChannelError()
	}
	return rc != 0, nil
}

// ReadSegmentEnd consumes the segment trailer; out[0] != 0 means out[1:21]
// holds the stored SHA-1 checksum.
func (d *Decompresser) ReadSegmentEnd() (out [21]byte, err error) {
	rc := C.zpaq_decompresser_read_segment_end(d.ptr, (*C.uchar)(unsafe.Pointer(&out[0])))
	if rc != 0 {
		return out, ChannelError()
	}
	return out, nil
}
