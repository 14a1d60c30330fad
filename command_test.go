package zpaq

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The archive tool keeps process-wide state while running, so none of these
// tests use t.Parallel.

func TestCommandRejectsNulArguments(t *testing.T) {
	_, err := Command("list", "a\x00b")
	require.ErrorIs(t, err, ErrNulByte)
}

func TestCommandUnknownVerb(t *testing.T) {
	_, err := Command("frobnicate")
	require.Error(t, err)
}

func TestCommandAddListExtract(t *testing.T) {
	dir := t.TempDir()
	payload := makeTestPayload(t, 10000)

	src := filepath.Join(dir, "input.bin")
	require.NoError(t, os.WriteFile(src, payload, 0o644))
	archive := filepath.Join(dir, "test.zpaq")

	_, err := Add(archive, []string{src}, "1", 1)
	require.NoError(t, err)
	_, err = os.Stat(archive)
	require.NoError(t, err)

	out, err := List(archive)
	require.NoError(t, err)
	assert.Contains(t, out.Stdout, "input.bin")

	restoreDir := filepath.Join(dir, "restore")
	require.NoError(t, os.MkdirAll(restoreDir, 0o755))
	_, err = Command("extract", archive, src, "-to", filepath.Join(restoreDir, "input.bin"))
	require.NoError(t, err)

	restored, err := os.ReadFile(filepath.Join(restoreDir, "input.bin"))
	require.NoError(t, err)
	assert.Equal(t, payload, restored)
}

func TestCommandOutputClearedBetweenCalls(t *testing.T) {
	dir := t.TempDir()
	payload := makeTestPayload(t, 1000)

	src := filepath.Join(dir, "chatter.bin")
	require.NoError(t, os.WriteFile(src, payload, 0o644))
	archive := filepath.Join(dir, "chatter.zpaq")

	_, err := Add(archive, []string{src}, "1", 1)
	require.NoError(t, err)

	first, err := List(archive)
	require.NoError(t, err)
	require.Contains(t, first.Stdout, "chatter.bin")

	// A failing command must not replay the previous invocation's output.
	second, err := Command("frobnicate")
	require.Error(t, err)
	assert.NotContains(t, second.Stdout, "chatter.bin")
}

func TestAddArchiveSize(t *testing.T) {
	dir := t.TempDir()
	payload := makeTestPayload(t, 50000)

	src := filepath.Join(dir, "measured.bin")
	require.NoError(t, os.WriteFile(src, payload, 0o644))

	size, err := AddArchiveSize(src, "1", 1)
	require.NoError(t, err)
	assert.Greater(t, size, uint64(0))
	// Archive framing plus compressed text stays well under the original.
	assert.Less(t, size, uint64(len(payload)))

	_, err = AddArchiveSize(filepath.Join(dir, "missing.bin"), "1", 1)
	require.Error(t, err)
}

func TestAddArchiveSizeRejectsNul(t *testing.T) {
	_, err := AddArchiveSize("a\x00b", "1", 1)
	require.ErrorIs(t, err, ErrNulByte)

	_, err = AddArchiveSize("file", "1\x00", 1)
	require.ErrorIs(t, err, ErrNulByte)
}
