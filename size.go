package zpaq

import (
	"bytes"
	"io"

	"go.uber.org/zap"

	"github.com/zpaqio/go-zpaq/native"
)

// CompressSize compresses src with the given method and returns only the
// compressed byte count.  The compressed data never materializes: the engine
// writes into a native counting sink, so no output bytes cross the boundary.
func CompressSize(src io.Reader, method string, opts ...Option) (uint64, error) {
	var o options
	if err := o.apply(opts); err != nil {
		return 0, err
	}
	if err := checkNul("method", method); err != nil {
		return 0, err
	}
	if err := o.validate(); err != nil {
		return 0, err
	}

	native.ClearLastError()

	in, err := native.NewReader(src)
	if err != nil {
		return 0, err
	}
	defer in.Free()

	return native.CompressSize(in, method, o.filename, o.comment, o.sha1)
}

// CompressSizeBytes reports the compressed size of b.
func CompressSizeBytes(b []byte, method string, opts ...Option) (uint64, error) {
	return CompressSize(bytes.NewReader(b), method, opts...)
}

// CompressSizeParallel is CompressSize with the input partitioned into the
// method's block size and compressed by a native worker pool of the given
// width.  threads <= 1 degrades to the serial path and produces identical
// counts; for larger thread counts the per-block framing overhead makes the
// total equal to what multi-threaded compression of the same input would
// write.
func CompressSizeParallel(src io.Reader, method string, threads int, opts ...Option) (uint64, error) {
	var o options
	if err := o.apply(opts); err != nil {
		return 0, err
	}
	if err := checkNul("method", method); err != nil {
		return 0, err
	}
	if err := o.validate(); err != nil {
		return 0, err
	}

	native.ClearLastError()

	in, err := native.NewReader(src)
	if err != nil {
		return 0, err
	}
	defer in.Free()

	o.logger.Debug("measuring compressed size",
		zap.String("method", method), zap.Int("threads", threads))
	return native.CompressSizeParallel(in, method, o.filename, o.comment, o.sha1, threads)
}

// DecompressSize reads a ZPAQ stream from src and returns the decompressed
// byte count without materializing the output.
func DecompressSize(src io.Reader) (uint64, error) {
	native.ClearLastError()

	in, err := native.NewReader(src)
	if err != nil {
		return 0, err
	}
	defer in.Free()

	return native.DecompressSize(in)
}

// DecompressSizeBytes reports the decompressed size of the stream in b.
func DecompressSizeBytes(b []byte) (uint64, error) {
	return DecompressSize(bytes.NewReader(b))
}
