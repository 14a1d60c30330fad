package zpaq

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountingWriter(t *testing.T) {
	t.Parallel()

	c := NewCountingWriter()
	n, err := c.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = c.Write(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	assert.Equal(t, uint64(5), c.BytesWritten())

	c.Reset()
	assert.Equal(t, uint64(0), c.BytesWritten())
}

func TestCountingWriterConcurrent(t *testing.T) {
	t.Parallel()

	c := NewCountingWriter()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf := make([]byte, 100)
			for j := 0; j < 1000; j++ {
				_, _ = c.Write(buf)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(16*1000*100), c.BytesWritten())
}

func TestCountingWriterOverflow(t *testing.T) {
	t.Parallel()

	c := NewCountingWriter()
	_, err := c.Write(make([]byte, 10))
	require.NoError(t, err)

	c.n.Store(math.MaxUint64 - 5)
	_, err = c.Write(make([]byte, 10))
	require.ErrorIs(t, err, ErrCounterOverflow)
	// Count unchanged on failure.
	assert.Equal(t, uint64(math.MaxUint64-5), c.BytesWritten())

	_, err = c.Write(make([]byte, 5))
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), c.BytesWritten())
}
