package compra

import (
	"errors"
	"fmt"
)

// MaxDecodedSize is the most output a single decode may produce. A copy
// that would grow the output past it is rejected as an invalid
// back-reference.
const MaxDecodedSize = 1 << 30

var (
	// ErrInvalidBackReference means a copy reached before the start of the
	// output, or had a negative length.
	ErrInvalidBackReference = errors.New("invalid back-reference")

	// ErrInvalidCode means a dictionary coder received a code it has not
	// defined yet.
	ErrInvalidCode = errors.New("invalid code")

	// ErrTrailingToken means a token without a literal appeared somewhere
	// other than at the end of a token list.
	ErrTrailingToken = errors.New("token without literal is not last")
)

// A DecodeError reports where a compressed stream went wrong.
type DecodeError struct {
	Codec string // which codec was decoding, such as "lz77"
	Pos   int    // index of the offending token, code or byte
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %v at %d", e.Codec, e.Err, e.Pos)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// AppendCopy appends length bytes to dst, copying from distance bytes before
// the end of dst. The bytes are copied one at a time, so the source may
// overlap the bytes being written.
func AppendCopy(dst []byte, distance, length int) ([]byte, error) {
	if length < 0 || length > MaxDecodedSize-len(dst) || (length > 0 && (distance < 1 || distance > len(dst))) {
		return dst, ErrInvalidBackReference
	}
	start := len(dst) - distance
	for i := 0; i < length; i++ {
		dst = append(dst, dst[start+i])
	}
	return dst, nil
}

// DecodeTokens replays tokens, appending the output to dst. The codec name
// is used in errors.
func DecodeTokens(dst []byte, tokens []Token, codec string) ([]byte, error) {
	base := len(dst)
	for i, t := range tokens {
		var err error
		if dst, err = appendCopyFrom(dst, base, t.Offset, t.Length); err != nil {
			return dst, &DecodeError{Codec: codec, Pos: i, Err: err}
		}
		if t.HasNext {
			dst = append(dst, t.Next)
		}
	}
	return dst, nil
}

// appendCopyFrom is AppendCopy, but it does not allow the copy to reach
// into dst[:base].
func appendCopyFrom(dst []byte, base, distance, length int) ([]byte, error) {
	if length > 0 && distance > len(dst)-base {
		return dst, ErrInvalidBackReference
	}
	return AppendCopy(dst, distance, length)
}
