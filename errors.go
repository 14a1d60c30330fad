package zpaq

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zpaqio/go-zpaq/native"
)

// EngineError is the error type for failures reported by the native engine.
// Its message comes from the process-wide error channel.
type EngineError = native.Error

var (
	// ErrNulByte is returned when a method string, filename, comment, path,
	// or command argument contains a NUL byte and cannot cross the boundary
	// as a C string.
	ErrNulByte = errors.New("string contains NUL byte")

	// ErrCounterOverflow is returned by CountingWriter when the byte counter
	// would exceed its 64-bit range.
	ErrCounterOverflow = errors.New("byte counter overflow")
)

// checkNul validates a string destined for the native boundary.  name labels
// the field in the returned error.
func checkNul(name, s string) error {
	if strings.IndexByte(s, 0) >= 0 {
		return fmt.Errorf("%s: %w", name, ErrNulByte)
	}
	return nil
}
