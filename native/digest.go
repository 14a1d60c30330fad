package native

/*
#include <stdlib.h>
#include "zpaqbridge.h"
*/
import "C"

import "unsafe"

// SHA1 is the engine's incremental SHA-1 state.  Result finalizes the native
// state; the owning wrapper in the root package enforces single finalize.
type SHA1 struct {
	ptr *C.zpaq_sha1
}

func NewSHA1() (*SHA1, error) {
	ptr := C.zpaq_sha1_new()
	if ptr == nil {
		return nil, ChannelError()
	}
	return &SHA1{ptr: ptr}, nil
}

func (s *SHA1) Free() {
	if s.ptr != nil {
		C.zpaq_sha1_free(s.ptr)
		s.ptr = nil
	}
}

// Write feeds p into the hash.  The native contract reports no failure.
func (s *SHA1) Write(p []byte) {
	if len(p) == 0 {
		return
	}
	C.zpaq_sha1_write(s.ptr, (*C.char)(unsafe.Pointer(&p[0])), C.int64_t(len(p)))
}

// Result finalizes and returns the 20-byte digest.  The state is unusable
// afterwards; callers must Free exactly once regardless of the outcome.
func (s *SHA1) Result() ([20]byte, error) {
	var sum [20]byte
	rc := C.zpaq_sha1_result(s.ptr, (*C.uchar)(unsafe.Pointer(&sum[0])))
	if rc != 0 {
		return sum, ChannelError()
	}
	return sum, nil
}

// SHA256 is the engine's incremental SHA-256 state.
type SHA256 struct {
	ptr *C.zpaq_sha256
}

func NewSHA256() (*SHA256, error) {
	ptr := C.zpaq_sha256_new()
	if ptr == nil {
		return nil, ChannelError()
	}
	return &SHA256{ptr: ptr}, nil
}

func (s *SHA256) Free() {
	if s.ptr != nil {
		C.zpaq_sha256_free(s.ptr)
		s.ptr = nil
	}
}

func (s *SHA256) Write(p []byte) {
	if len(p) == 0 {
		return
	}
	C.zpaq_sha256_write(s.ptr, (*C.char)(unsafe.Pointer(&p[0])), C.int64_t(len(p)))
}

func (s *SHA256) Result() ([32]byte, error) {
	var sum [32]byte
	rc := C.zpaq_sha256_result(s.ptr, (*C.uchar)(unsafe.Pointer(&sum[0])))
	if rc != 0 {
		return sum, ChannelError()
	}
	return sum, nil
}

// AESCTR is the engine's AES counter-mode state.
type AESCTR struct {
	ptr *C.zpaq_aes_ctr
}

// NewAESCTR constructs the cipher; keylen must be 16, 24 or 32 and iv 16
// bytes, validated above this layer.
func NewAESCTR(key []byte, iv []byte) (*AESCTR, error) {
	ptr := C.zpaq_aes_ctr_new((*C.char)(unsafe.Pointer(&key[0])), C.int(len(key)),
		(*C.char)(unsafe.Pointer(&iv[0])))
	if ptr == nil {
		return nil, ChannelError()
	}
	return &AESCTR{ptr: ptr}, nil
}

func (a *AESCTR) Free() {
	if a.ptr != nil {
		C.zpaq_aes_ctr_free(a.ptr)
		a.ptr = nil
	}
}

// EncryptSlice XORs buf in place with the keystream at the given byte offset.
func (a *AESCTR) EncryptSlice(buf []byte, offset uint64) error {
	if len(buf) == 0 {
		return nil
	}
	rc := C.zpaq_aes_ctr_encrypt_slice(a.ptr, (*C.char)(unsafe.Pointer(&buf[0])),
		C.int(len(buf)), C.uint64_t(offset))
	if rc != 0 {
		return ChannelError()
	}
	return nil
}

// EncryptBlock encrypts one 16-byte counter block given as four big-endian
// words.
func (a *AESCTR) EncryptBlock(s0, s1, s2, s3 uint32) ([16]byte, error) {
	var ct [16]byte
	rc := C.zpaq_aes_ctr_encrypt_block(a.ptr, C.uint32_t(s0), C.uint32_t(s1),
		C.uint32_t(s2), C.uint32_t(s3), (*C.uchar)(unsafe.Pointer(&ct[0])))
	if rc != 0 {
		return ct, ChannelError()
	}
	return ct, nil
}

// StretchKey derives a 32-byte key from key and salt with the engine's fixed
// scrypt parameters (N=16384, r=8, p=1).
func StretchKey(key, salt *[32]byte) ([32]byte, error) {
	var out [32]byte
	rc := C.zpaq_stretch_key((*C.uchar)(unsafe.Pointer(&out[0])),
		(*C.uchar)(unsafe.Pointer(&key[0])), (*C.uchar)(unsafe.Pointer(&salt[0])))
	if rc != 0 {
		return out, ChannelError()
	}
	return out, nil
}

// Random fills buf with cryptographically strong random bytes from the
// platform RNG.
func Random(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	rc := C.zpaq_random((*C.uchar)(unsafe.Pointer(&buf[0])), C.int(len(buf)))
	if rc != 0 {
		return ChannelError()
	}
	return nil
}
