package zpaq

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/zpaqio/go-zpaq/native"
)

// byteQueue is the pending-input source for a streaming session.  Push
// enqueues exactly the bytes the next Compress call will consume, so the
// engine never observes a spurious end of input mid-stream.
type byteQueue struct {
	buf []byte
}

func (q *byteQueue) push(b byte) {
	q.buf = append(q.buf, b)
}

func (q *byteQueue) Read(p []byte) (int, error) {
	if len(q.buf) == 0 {
		return 0, io.EOF
	}
	n := copy(p, q.buf)
	q.buf = q.buf[n:]
	return n, nil
}

// StreamingCompressor compresses one byte at a time while exposing the
// engine's running encoded-bit total, which makes it usable as an
// information-content estimator: the delta in Bits across a Push is the
// modeled cost of that byte.
//
// The constructor runs the full stream prologue (tag, block header, segment
// header), so Bits starts from the header overhead, not zero.  Sessions are
// not safe for concurrent use and must be released with Close.
type StreamingCompressor struct {
	comp    *native.Compressor
	in      *native.Reader
	out     *native.Writer
	queue   *byteQueue
	counter *CountingWriter
	logger  *zap.Logger

	closeOnce sync.Once
	closeErr  error
}

// NewStreamingCompressor opens a streaming session for the given method.
// Numeric methods are limited to levels 1-3: levels with whole-block
// preprocessing (BWT, E8E9) cannot run byte-at-a-time.  Config-string methods
// are accepted when they need no preprocessing either.
func NewStreamingCompressor(method string, opts ...Option) (*StreamingCompressor, error) {
	var o options
	if err := o.apply(opts); err != nil {
		return nil, err
	}
	if method == "" {
		return nil, fmt.Errorf("method must not be empty")
	}
	if err := checkNul("method", method); err != nil {
		return nil, err
	}

	level := -1
	if c := method[0]; c >= '0' && c <= '9' {
		if len(method) != 1 || c < '1' || c > '3' {
			return nil, fmt.Errorf(
				"method %q not usable for streaming: numeric levels are limited to 1, 2 or 3", method)
		}
		level = int(c - '0')
	}

	native.ClearLastError()

	comp, err := native.NewCompressor()
	if err != nil {
		return nil, err
	}
	queue := &byteQueue{}
	in, err := native.NewReader(queue)
	if err != nil {
		comp.Free()
		return nil, err
	}
	counter := NewCountingWriter()
	out, err := native.NewWriter(counter)
	if err != nil {
		in.Free()
		comp.Free()
		return nil, err
	}

	s := &StreamingCompressor{
		comp:    comp,
		in:      in,
		out:     out,
		queue:   queue,
		counter: counter,
		logger:  o.logger,
	}

	if err := s.prologue(method, level); err != nil {
		s.teardown()
		return nil, err
	}
	s.logger.Debug("streaming session open", zap.String("method", method))
	return s, nil
}

func (s *StreamingCompressor) prologue(method string, level int) error {
	if err := s.comp.SetOutput(s.out); err != nil {
		return err
	}
	if err := s.comp.SetInput(s.in); err != nil {
		return err
	}
	if err := s.comp.WriteTag(); err != nil {
		return err
	}
	if level > 0 {
		if err := s.comp.StartBlockLevel(level); err != nil {
			return err
		}
	} else {
		if err := s.comp.StartBlockMethod(method); err != nil {
			return err
		}
	}
	return s.comp.StartSegment(nil, nil)
}

// Push compresses one byte into the open segment.
func (s *StreamingCompressor) Push(b byte) error {
	if s.comp == nil {
		return fmt.Errorf("streaming session is closed")
	}
	s.queue.push(b)
	_, err := s.comp.Compress(1)
	return err
}

// Bits returns the engine's fractional count of encoded bits so far,
// including header overhead.  It is non-decreasing across Push calls.
func (s *StreamingCompressor) Bits() float64 {
	if s.comp == nil {
		return 0
	}
	return s.comp.Bits()
}

// CompressedBytes returns the number of whole bytes the engine has flushed
// to its sink so far.  Arithmetic coding buffers aggressively, so this trails
// Bits()/8 until the segment is closed.
func (s *StreamingCompressor) CompressedBytes() uint64 {
	return s.counter.BytesWritten()
}

// BytesConsumed returns the number of input bytes compressed so far.
func (s *StreamingCompressor) BytesConsumed() int64 {
	if s.comp == nil {
		return 0
	}
	return s.comp.Size()
}

// Close releases the session.  Idempotent; later calls return the first
// result.  The native sink is dropped before its backing context so the
// writer's final buffered flush still has a live destination.
func (s *StreamingCompressor) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.teardown()
	})
	return s.closeErr
}

func (s *StreamingCompressor) teardown() error {
	s.out.Free()
	s.in.Free()
	s.comp.Free()
	s.comp = nil
	return nil
}
