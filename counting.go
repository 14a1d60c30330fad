package zpaq

import (
	"io"
	"math"

	"go.uber.org/atomic"
)

var _ io.Writer = (*CountingWriter)(nil)

// CountingWriter is an io.Writer that discards its input and counts the bytes
// written to it.  It is safe for concurrent use.  Write fails with
// ErrCounterOverflow once the running total would exceed the uint64 range;
// the count is left unchanged in that case.
type CountingWriter struct {
	n atomic.Uint64
}

func NewCountingWriter() *CountingWriter {
	return &CountingWriter{}
}

func (c *CountingWriter) Write(p []byte) (int, error) {
	add := uint64(len(p))
	for {
		cur := c.n.Load()
		if add > math.MaxUint64-cur {
			return 0, ErrCounterOverflow
		}
		if c.n.CompareAndSwap(cur, cur+add) {
			return len(p), nil
		}
	}
}

// BytesWritten returns the running total.
func (c *CountingWriter) BytesWritten() uint64 {
	return c.n.Load()
}

// Reset zeroes the counter.
func (c *CountingWriter) Reset() {
	c.n.Store(0)
}
