// Package zpaq provides Go bindings for the ZPAQ compression engine.
//
// Data crosses the boundary through callback bridges: any io.Reader can act
// as the engine's input source and any io.Writer as its output sink, with no
// intermediate files or full-buffer copies.  On top of the bridge the package
// offers one-shot and streaming compression, size-only measurement (serial
// and parallel), an archive command façade over the embedded zpaq tool, a
// byte-entry archive API, and the engine's digest and crypto utilities.
//
// The engine reports failures through a process-wide error channel, so
// operations that can fail should not run concurrently in the same process
// unless each uses its own handles; see the individual doc comments.
package zpaq

import (
	"bytes"
	"io"

	"go.uber.org/zap"

	"github.com/zpaqio/go-zpaq/native"
)

// Compress reads all of src, compresses it with the given method, and writes
// the result to dst as a single tagged ZPAQ block.  method is a level digit
// ("0".."5", optionally with flags like "14") or a full config string; it must
// be non-empty and NUL-free.
func Compress(dst io.Writer, src io.Reader, method string, opts ...Option) error {
	var o options
	if err := o.apply(opts); err != nil {
		return err
	}
	if err := checkNul("method", method); err != nil {
		return err
	}
	if err := o.validate(); err != nil {
		return err
	}

	native.ClearLastError()

	in, err := native.NewReader(src)
	if err != nil {
		return err
	}
	defer in.Free()
	out, err := native.NewWriter(dst)
	if err != nil {
		return err
	}
	defer out.Free()

	o.logger.Debug("compressing", zap.String("method", method))
	return native.Compress(in, out, method, o.filename, o.comment, o.sha1)
}

// Decompress reads a ZPAQ stream from src and writes the decompressed data to
// dst.  The stream self-describes its method; segments that carry checksums
// are verified.
func Decompress(dst io.Writer, src io.Reader, opts ...Option) error {
	var o options
	if err := o.apply(opts); err != nil {
		return err
	}

	native.ClearLastError()

	in, err := native.NewReader(src)
	if err != nil {
		return err
	}
	defer in.Free()
	out, err := native.NewWriter(dst)
	if err != nil {
		return err
	}
	defer out.Free()

	o.logger.Debug("decompressing")
	return native.Decompress(in, out)
}

// CompressBytes compresses b in one shot and returns the compressed stream.
func CompressBytes(b []byte, method string, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Compress(&buf, bytes.NewReader(b), method, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecompressBytes decompresses a complete ZPAQ stream held in b.
func DecompressBytes(b []byte, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Decompress(&buf, bytes.NewReader(b), opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
