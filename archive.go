package zpaq

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/zpaqio/go-zpaq/native"
)

// Entry is one named payload in a streaming-format archive.  Each entry is
// written as an independent tagged block whose first segment carries the
// entry path, so the result interoperates with `zpaq extract`.
type Entry struct {
	Path    string
	Data    []byte
	Comment string
}

// EntrySource returns one entry at a time.  When there are no more entries,
// returns nil.
type EntrySource func() (*Entry, error)

type WriteEntriesOption func(*writeEntriesOptions) error

type writeEntriesOptions struct {
	concurrency   int
	logger        *zap.Logger
	writeCallback func(uint64)
}

// WithConcurrency sets the number of entries compressed in parallel.
func WithConcurrency(n int) WriteEntriesOption {
	return func(o *writeEntriesOptions) error {
		if n <= 0 {
			return fmt.Errorf("concurrency must be positive: %d", n)
		}
		o.concurrency = n
		return nil
	}
}

func WithEntriesLogger(l *zap.Logger) WriteEntriesOption {
	return func(o *writeEntriesOptions) error { o.logger = l; return nil }
}

// WithWriteCallback is invoked with each entry's uncompressed size once its
// block has been written, in archive order.
func WithWriteCallback(cb func(uint64)) WriteEntriesOption {
	return func(o *writeEntriesOptions) error { o.writeCallback = cb; return nil }
}

type entryResult struct {
	block []byte
	size  uint64
}

func entryEncoder(ctx context.Context, ch chan<- entryResult, e *Entry, method string) func() error {
	return func() error {
		block, err := encodeEntry(e, method)
		if err != nil {
			return fmt.Errorf("failed to compress entry %q: %w", e.Path, err)
		}

		select {
		case <-ctx.Done():
		// Fulfill our promise
		case ch <- entryResult{block, uint64(len(e.Data))}:
			close(ch)
		}

		return nil
	}
}

func entryProducer(ctx context.Context, src EntrySource, method string, g *errgroup.Group, queue chan<- chan entryResult) func() error {
	return func() error {
		for {
			e, err := src()
			if err != nil {
				return fmt.Errorf("entry source failed: %w", err)
			}
			if e == nil {
				close(queue)
				return nil
			}
			if err := checkNul("entry path", e.Path); err != nil {
				return err
			}
			if err := checkNul("entry comment", e.Comment); err != nil {
				return err
			}

			// Put a channel on the queue as a sort of promise.  Results stay
			// in submission order even when compression completes out of
			// order.
			ch := make(chan entryResult, 1)
			select {
			case <-ctx.Done():
				return nil
			case queue <- ch:
			}

			g.Go(entryEncoder(ctx, ch, e, method))
		}
	}
}

func entryConsumer(ctx context.Context, dst io.Writer, callback func(uint64), queue <-chan chan entryResult) func() error {
	return func() error {
		for {
			var ch <-chan entryResult
			select {
			case <-ctx.Done():
				return nil
			case ch = <-queue:
			}
			if ch == nil {
				return nil
			}

			// Wait for the block to be complete
			var result entryResult
			select {
			case <-ctx.Done():
				return nil
			case result = <-ch:
			}

			n, err := dst.Write(result.block)
			if err != nil {
				return fmt.Errorf("failed to write archive block: %w", err)
			}
			if n != len(result.block) {
				return fmt.Errorf("partial write: %d out of %d", n, len(result.block))
			}

			if callback != nil {
				callback(result.size)
			}
		}
	}
}

func encodeEntry(e *Entry, method string) ([]byte, error) {
	opts := []Option{WithFilename(e.Path), WithSHA1(true)}
	if e.Comment != "" {
		opts = append(opts, WithComment(e.Comment))
	}
	return CompressBytes(e.Data, method, opts...)
}

// WriteEntries compresses the entries produced by src into dst, one tagged
// block per entry, concurrently.  Blocks appear in dst in the order the
// source produced them.
//
// Compression failures within a worker surface through the process-wide
// error channel, which concurrent workers share; the error message for a
// failed entry may therefore describe a sibling's failure when several fail
// at once.
func WriteEntries(ctx context.Context, dst io.Writer, src EntrySource, method string, options ...WriteEntriesOption) error {
	o := writeEntriesOptions{
		concurrency: runtime.GOMAXPROCS(0),
		logger:      zap.NewNop(),
	}
	for _, opt := range options {
		if err := opt(&o); err != nil {
			return err // no wrap, these should be user-comprehensible
		}
	}
	if err := checkNul("method", method); err != nil {
		return err
	}

	o.logger.Debug("writing entries",
		zap.String("method", method), zap.Int("concurrency", o.concurrency))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency + 2) // producer and consumer
	// Extra room in the queue keeps throughput high when blocks finish out
	// of order.
	queue := make(chan chan entryResult, o.concurrency*2)
	g.Go(entryProducer(gCtx, src, method, g, queue))
	g.Go(entryConsumer(gCtx, dst, o.writeCallback, queue))
	return g.Wait()
}

// ArchiveFromEntries builds a complete streaming archive in memory.
func ArchiveFromEntries(ctx context.Context, entries []Entry, method string, options ...WriteEntriesOption) ([]byte, error) {
	var buf bytes.Buffer
	i := 0
	src := func() (*Entry, error) {
		if i >= len(entries) {
			return nil, nil
		}
		e := &entries[i]
		i++
		return e, nil
	}
	if err := WriteEntries(ctx, &buf, src, method, options...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// AppendEntriesFile appends the entries as new blocks to the streaming
// archive at path, creating it if absent.  Readers resolve duplicate paths
// in favor of the last block, so appending an existing path updates it.
func AppendEntriesFile(ctx context.Context, path string, entries []Entry, method string, options ...WriteEntriesOption) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	i := 0
	src := func() (*Entry, error) {
		if i >= len(entries) {
			return nil, nil
		}
		e := &entries[i]
		i++
		return e, nil
	}
	return WriteEntries(ctx, f, src, method, options...)
}

// ReadEntry walks the blocks of a streaming archive and returns the payload
// of the last segment whose filename equals path, verifying stored checksums
// along the way.  A missing path reports an error naming it.
func ReadEntry(archive []byte, path string) ([]byte, error) {
	native.ClearLastError()

	d, err := native.NewDecompresser()
	if err != nil {
		return nil, err
	}
	defer d.Free()

	in, err := native.NewReader(bytes.NewReader(archive))
	if err != nil {
		return nil, err
	}
	defer in.Free()

	if err := d.SetInput(in); err != nil {
		return nil, err
	}

	var found bool
	var payload []byte
	for {
		ok, _, err := d.FindBlock()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		for {
			var nameBuf bytes.Buffer
			nameOut, err := native.NewWriter(&nameBuf)
			if err != nil {
				return nil, err
			}
			ok, err := d.FindFilename(nameOut)
			if err != nil {
				nameOut.Free()
				return nil, err
			}
			if !ok {
				nameOut.Free()
				break
			}

			var commentBuf bytes.Buffer
			commentOut, err := native.NewWriter(&commentBuf)
			if err != nil {
				nameOut.Free()
				return nil, err
			}
			err = d.ReadComment(commentOut)
			commentOut.Free()
			nameOut.Free()
			if err != nil {
				return nil, err
			}

			var dataBuf bytes.Buffer
			dataOut, err := native.NewWriter(&dataBuf)
			if err != nil {
				return nil, err
			}
			if err := d.SetOutput(dataOut); err != nil {
				dataOut.Free()
				return nil, err
			}
			_, err = d.Decompress(-1)
			if err != nil {
				dataOut.Free()
				return nil, err
			}
			trailer, err := d.ReadSegmentEnd()
			dataOut.Free()
			if err != nil {
				return nil, err
			}
			if trailer[0] != 0 {
				sum, err := Sum1(dataBuf.Bytes())
				if err != nil {
					return nil, err
				}
				if !bytes.Equal(sum[:], trailer[1:21]) {
					return nil, fmt.Errorf("checksum mismatch for segment %q", nameBuf.String())
				}
			}

			if nameBuf.String() == path {
				found = true
				payload = append([]byte(nil), dataBuf.Bytes()...)
			}
		}
	}
	if !found {
		return nil, fmt.Errorf("entry %q not found in archive", path)
	}
	return payload, nil
}
