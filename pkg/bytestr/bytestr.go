// Package bytestr implements the runtime's byte string: an immutable byte
// sequence supporting concatenation, length and byte indexing. It is byte
// oriented and does no Unicode processing.
package bytestr

import (
	"bytes"
	"math"

	"able/kernel-go/pkg/runtime"
)

// MaxLen is the longest string Concat will build.
const MaxLen = math.MaxInt - 1

// String is an immutable byte string. The zero value is the empty string.
// Each String owns its buffer exclusively; no operation aliases it.
type String struct {
	val []byte
}

// FromBytes copies b into a new String.
func FromBytes(b []byte) String {
	return String{val: cloneBytes(b)}
}

func FromString(s string) String {
	return String{val: []byte(s)}
}

// FromTerminated builds a String from a terminator-delimited buffer: bytes
// after the first NUL are ignored.
func FromTerminated(b []byte) String {
	return String{val: cloneBytes(terminated(b))}
}

// Len returns the number of bytes in s.
func (s String) Len() int { return len(s.val) }

// At returns the byte at index. Indices outside [0, Len()) yield a
// *runtime.IndexError.
func (s String) At(index int) (byte, error) {
	if index < 0 || index >= len(s.val) {
		return 0, runtime.NewIndexError("string", index, len(s.val))
	}
	return s.val[index], nil
}

// Concat returns a new String holding s followed by suffix.
func (s String) Concat(suffix String) (String, error) {
	return s.concat(suffix.val)
}

// ConcatBytes returns a new String holding s followed by the terminator
// delimited suffix.
func (s String) ConcatBytes(suffix []byte) (String, error) {
	return s.concat(terminated(suffix))
}

func (s String) concat(suffix []byte) (String, error) {
	if len(suffix) > MaxLen-len(s.val) {
		return String{}, &runtime.AllocationError{Container: "string", Requested: requestedLen(len(s.val), len(suffix)), Limit: MaxLen}
	}
	out := make([]byte, len(s.val)+len(suffix))
	n := copy(out, s.val)
	copy(out[n:], suffix)
	return String{val: out}, nil
}

// requestedLen returns a+b, saturating at math.MaxInt.
func requestedLen(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

// Bytes returns a copy of the contents.
func (s String) Bytes() []byte { return cloneBytes(s.val) }

func (s String) String() string { return string(s.val) }

func (s String) Equal(other String) bool { return bytes.Equal(s.val, other.val) }

func terminated(b []byte) []byte {
	if end := bytes.IndexByte(b, 0); end >= 0 {
		return b[:end]
	}
	return b
}

func cloneBytes(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
