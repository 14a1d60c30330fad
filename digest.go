package zpaq

import (
	"fmt"
	"io"

	"github.com/zpaqio/go-zpaq/native"
)

var (
	_ io.Writer = (*SHA1)(nil)
	_ io.Writer = (*SHA256)(nil)
)

// SHA1 is an incremental SHA-1 built on the engine's implementation.  Sum
// finalizes and consumes the state: the native digest cannot be read twice,
// so any use after Sum fails instead of reaching the engine.
type SHA1 struct {
	h *native.SHA1
}

func NewSHA1() (*SHA1, error) {
	native.ClearLastError()
	h, err := native.NewSHA1()
	if err != nil {
		return nil, err
	}
	return &SHA1{h: h}, nil
}

func (s *SHA1) Write(p []byte) (int, error) {
	if s.h == nil {
		return 0, fmt.Errorf("sha1: use after Sum")
	}
	s.h.Write(p)
	return len(p), nil
}

// Sum finalizes the digest, releases the native state, and returns the
// 20-byte result.
func (s *SHA1) Sum() ([20]byte, error) {
	if s.h == nil {
		return [20]byte{}, fmt.Errorf("sha1: use after Sum")
	}
	sum, err := s.h.Result()
	s.h.Free()
	s.h = nil
	return sum, err
}

// SHA256 is an incremental SHA-256 built on the engine's implementation.
// Sum consumes the state, as with SHA1.
type SHA256 struct {
	h *native.SHA256
}

func NewSHA256() (*SHA256, error) {
	native.ClearLastError()
	h, err := native.NewSHA256()
	if err != nil {
		return nil, err
	}
	return &SHA256{h: h}, nil
}

func (s *SHA256) Write(p []byte) (int, error) {
	if s.h == nil {
		return 0, fmt.Errorf("sha256: use after Sum")
	}
	s.h.Write(p)
	return len(p), nil
}

func (s *SHA256) Sum() ([32]byte, error) {
	if s.h == nil {
		return [32]byte{}, fmt.Errorf("sha256: use after Sum")
	}
	sum, err := s.h.Result()
	s.h.Free()
	s.h = nil
	return sum, err
}

// Sum1 returns the engine's SHA-1 of b.
func Sum1(b []byte) ([20]byte, error) {
	h, err := NewSHA1()
	if err != nil {
		return [20]byte{}, err
	}
	if _, err := h.Write(b); err != nil {
		return [20]byte{}, err
	}
	return h.Sum()
}

// Sum256 returns the engine's SHA-256 of b.
func Sum256(b []byte) ([32]byte, error) {
	h, err := NewSHA256()
	if err != nil {
		return [32]byte{}, err
	}
	if _, err := h.Write(b); err != nil {
		return [32]byte{}, err
	}
	return h.Sum()
}

// StretchKey derives a 32-byte key from key and salt using the engine's
// scrypt parameters (N=16384, r=8, p=1), matching the key derivation of
// encrypted archives.
func StretchKey(key, salt [32]byte) ([32]byte, error) {
	native.ClearLastError()
	return native.StretchKey(&key, &salt)
}

// RandomBytes returns n cryptographically strong random bytes from the
// engine's platform RNG.
func RandomBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative length: %d", n)
	}
	buf := make([]byte, n)
	if n == 0 {
		return buf, nil
	}
	native.ClearLastError()
	if err := native.Random(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// AESCTR is the engine's AES counter-mode cipher, as used for archive
// encryption.  Encryption and decryption are the same operation.
type AESCTR struct {
	h *native.AESCTR
}

// NewAESCTR builds the cipher from a 16-, 24- or 32-byte key and a 16-byte
// initialization vector.
func NewAESCTR(key, iv []byte) (*AESCTR, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("aesctr: key must be 16, 24 or 32 bytes, got %d", len(key))
	}
	if len(iv) != 16 {
		return nil, fmt.Errorf("aesctr: iv must be 16 bytes, got %d", len(iv))
	}
	native.ClearLastError()
	h, err := native.NewAESCTR(key, iv)
	if err != nil {
		return nil, err
	}
	return &AESCTR{h: h}, nil
}

// XORKeyStream XORs buf in place with the keystream at the given absolute
// byte offset in the stream.
func (a *AESCTR) XORKeyStream(buf []byte, offset uint64) error {
	if a.h == nil {
		return fmt.Errorf("aesctr: use after Close")
	}
	return a.h.EncryptSlice(buf, offset)
}

// EncryptBlock encrypts a single 16-byte counter block given as four
// big-endian 32-bit words.
func (a *AESCTR) EncryptBlock(s0, s1, s2, s3 uint32) ([16]byte, error) {
	if a.h == nil {
		return [16]byte{}, fmt.Errorf("aesctr: use after Close")
	}
	return a.h.EncryptBlock(s0, s1, s2, s3)
}

// Close releases the native cipher state.  Idempotent.
func (a *AESCTR) Close() error {
	if a.h != nil {
		a.h.Free()
		a.h = nil
	}
	return nil
}
