package zpaq

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSHA1KnownVector(t *testing.T) {
	t.Parallel()

	sum, err := Sum1([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, "a9993e364706816aba3e25717850c26c9cd0d89d", hex.EncodeToString(sum[:]))

	empty, err := Sum1(nil)
	require.NoError(t, err)
	assert.Equal(t, "da39a3ee5e6b4b0d3255bfef95601890afd80709", hex.EncodeToString(empty[:]))
}

func TestSHA256KnownVector(t *testing.T) {
	t.Parallel()

	sum, err := Sum256([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t,
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		hex.EncodeToString(sum[:]))
}

func TestSHA1Incremental(t *testing.T) {
	t.Parallel()

	h, err := NewSHA1()
	require.NoError(t, err)
	_, err = h.Write([]byte("a"))
	require.NoError(t, err)
	_, err = h.Write([]byte("bc"))
	require.NoError(t, err)

	sum, err := h.Sum()
	require.NoError(t, err)
	assert.Equal(t, "a9993e364706816aba3e25717850c26c9cd0d89d", hex.EncodeToString(sum[:]))
}

func TestSHA1UseAfterSum(t *testing.T) {
	t.Parallel()

	h, err := NewSHA1()
	require.NoError(t, err)
	_, err = h.Sum()
	require.NoError(t, err)

	_, err = h.Write([]byte("late"))
	require.Error(t, err)
	_, err = h.Sum()
	require.Error(t, err)
}

func TestSHA256UseAfterSum(t *testing.T) {
	t.Parallel()

	h, err := NewSHA256()
	require.NoError(t, err)
	_, err = h.Sum()
	require.NoError(t, err)

	_, err = h.Write([]byte("late"))
	require.Error(t, err)
	_, err = h.Sum()
	require.Error(t, err)
}

func TestRandomBytes(t *testing.T) {
	t.Parallel()

	a, err := RandomBytes(32)
	require.NoError(t, err)
	assert.Len(t, a, 32)

	b, err := RandomBytes(32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	empty, err := RandomBytes(0)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = RandomBytes(-1)
	require.Error(t, err)
}

func TestStretchKeyDeterministic(t *testing.T) {
	t.Parallel()

	var key, salt [32]byte
	copy(key[:], "passphrase")
	copy(salt[:], "salt")

	a, err := StretchKey(key, salt)
	require.NoError(t, err)
	b, err := StretchKey(key, salt)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	salt[0] ^= 1
	c, err := StretchKey(key, salt)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestAESCTRKnownVector(t *testing.T) {
	t.Parallel()

	// FIPS-197 appendix C.1: AES-128 of 00112233..eeff under key 000102..0f.
	key, err := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	require.NoError(t, err)
	iv := make([]byte, 16)

	c, err := NewAESCTR(key, iv)
	require.NoError(t, err)
	defer c.Close()

	ct, err := c.EncryptBlock(0x00112233, 0x44556677, 0x8899aabb, 0xccddeeff)
	require.NoError(t, err)
	assert.Equal(t, "69c4e0d86a7b0430d8cdb78070b4c55a", hex.EncodeToString(ct[:]))
}

func TestAESCTRRoundTrip(t *testing.T) {
	t.Parallel()

	key, err := RandomBytes(32)
	require.NoError(t, err)
	iv, err := RandomBytes(16)
	require.NoError(t, err)

	c, err := NewAESCTR(key, iv)
	require.NoError(t, err)
	defer c.Close()

	payload := makeTestPayload(t, 1000)
	buf := append([]byte(nil), payload...)

	require.NoError(t, c.XORKeyStream(buf, 64))
	assert.NotEqual(t, payload, buf)

	// CTR is its own inverse at the same offset.
	require.NoError(t, c.XORKeyStream(buf, 64))
	assert.Equal(t, payload, buf)
}

func TestAESCTRValidation(t *testing.T) {
	t.Parallel()

	_, err := NewAESCTR(make([]byte, 15), make([]byte, 16))
	require.Error(t, err)

	_, err = NewAESCTR(make([]byte, 16), make([]byte, 8))
	require.Error(t, err)
}

func TestAESCTRUseAfterClose(t *testing.T) {
	t.Parallel()

	c, err := NewAESCTR(make([]byte, 16), make([]byte, 16))
	require.NoError(t, err)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	err = c.XORKeyStream([]byte("x"), 0)
	require.Error(t, err)
}
