package zpaq

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressSizeMatchesCompress(t *testing.T) {
	t.Parallel()

	payload := makeTestPayload(t, 50000)
	for _, method := range []string{"0", "1", "2"} {
		t.Run("method_"+method, func(t *testing.T) {
			compressed, err := CompressBytes(payload, method)
			require.NoError(t, err)

			size, err := CompressSizeBytes(payload, method)
			require.NoError(t, err)
			assert.Equal(t, uint64(len(compressed)), size)
		})
	}
}

func TestCompressSizeWithMetadata(t *testing.T) {
	t.Parallel()

	payload := makeTestPayload(t, 5000)
	opts := []Option{WithFilename("f"), WithComment("c"), WithSHA1(true)}

	compressed, err := CompressBytes(payload, "1", opts...)
	require.NoError(t, err)

	size, err := CompressSizeBytes(payload, "1", opts...)
	require.NoError(t, err)
	assert.Equal(t, uint64(len(compressed)), size)
}

func TestCompressSizeParallelAgreement(t *testing.T) {
	t.Parallel()

	payload := makeTestPayload(t, 200000)

	serial, err := CompressSizeBytes(payload, "1")
	require.NoError(t, err)

	// The payload fits in a single block for this method, so every thread
	// count produces the same partitioning and the same count.
	for _, threads := range []int{0, 1, 2, 8} {
		t.Run(fmt.Sprintf("threads_%d", threads), func(t *testing.T) {
			size, err := CompressSizeParallel(bytes.NewReader(payload), "1", threads)
			require.NoError(t, err)
			assert.Equal(t, serial, size)
		})
	}
}

func TestCompressSizeEmptyInput(t *testing.T) {
	t.Parallel()

	size, err := CompressSizeBytes(nil, "1")
	require.NoError(t, err)
	// Headers only.
	assert.Greater(t, size, uint64(0))
}

func TestDecompressSizeMatchesOriginal(t *testing.T) {
	t.Parallel()

	payload := makeTestPayload(t, 70000)
	compressed, err := CompressBytes(payload, "2")
	require.NoError(t, err)

	size, err := DecompressSizeBytes(compressed)
	require.NoError(t, err)
	assert.Equal(t, uint64(len(payload)), size)
}

func TestCompressSizeParallelFailingReader(t *testing.T) {
	src := &failingReader{data: makeTestPayload(t, 1000)}

	_, err := CompressSizeParallel(src, "1", 4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	var engineErr *EngineError
	assert.ErrorAs(t, err, &engineErr)
}

func TestCompressSizeFailingReader(t *testing.T) {
	src := &failingReader{data: makeTestPayload(t, 1000)}

	_, err := CompressSize(src, "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestCompressSizeRejectsNulMethod(t *testing.T) {
	t.Parallel()

	_, err := CompressSizeBytes([]byte("x"), "1\x00")
	require.ErrorIs(t, err, ErrNulByte)

	_, err = CompressSizeParallel(bytes.NewReader([]byte("x")), "1\x00", 2)
	require.ErrorIs(t, err, ErrNulByte)
}
