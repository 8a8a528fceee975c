package cacheaside

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable marks every failure talking to the store. Callers that only
	// care about "was the cache usable" test errors.Is(err, ErrUnavailable).
	ErrUnavailable = errors.New("cacheaside: store unavailable")

	ErrNilStore = errors.New("cacheaside: store is required")
	ErrNilCodec = errors.New("cacheaside: codec is required")
)

// StoreError reports a failed store round-trip. It unwraps to both
// ErrUnavailable and the transport cause.
type StoreError struct {
	Op  string // get, set, del, scan, expire, info, close
	Key string // storage key or pattern; empty for info/close
	Err error
}

func (e *StoreError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("cacheaside: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("cacheaside: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() []error {
	return []error{ErrUnavailable, e.Err}
}

// CodecError reports a value that could not be encoded or a stored payload that
// could not be decoded.
type CodecError struct {
	Op  string // encode or decode
	Key string
	Err error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("cacheaside: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *CodecError) Unwrap() error { return e.Err }

// IsUnavailable reports whether err came from the store rather than from a
// codec or a fallback.
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }

// PanicError is returned by GetOrSet when a shared fallback panicked. Every
// caller waiting on the same key receives it; the process keeps running.
type PanicError struct {
	Key   string
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("cacheaside: fallback for %q panicked: %v", e.Key, e.Value)
}
