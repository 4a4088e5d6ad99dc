package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
)

const (
	// LengthPrefixSize is the width of every field length.
	LengthPrefixSize = 8

	// MaxFieldSize bounds a single decoded field.
	MaxFieldSize = 16 << 20
)

var (
	ErrTruncatedInput = errors.New("wire: truncated input")
	ErrInvalidTag     = errors.New("wire: invalid message tag")
	ErrInvalidInteger = errors.New("wire: invalid decimal integer")
	ErrTrailingData   = errors.New("wire: trailing data after message")

	// ErrFieldTooLarge is a truncation: the declared length cannot be
	// satisfied by any acceptable frame.
	ErrFieldTooLarge = fmt.Errorf("%w: field exceeds %d bytes", ErrTruncatedInput, MaxFieldSize)
)

// PutString appends s to dst with its length prefix.
func PutString(dst, s []byte) []byte {
	var n [LengthPrefixSize]byte
	binary.LittleEndian.PutUint64(n[:], uint64(len(s)))
	dst = append(dst, n[:]...)
	return append(dst, s...)
}

// GetString reads one length-prefixed field starting at offset. It returns a
// copy of the field and the number of bytes consumed, prefix included.
func GetString(buf []byte, offset int) ([]byte, int, error) {
	if offset < 0 || offset > len(buf) || len(buf)-offset < LengthPrefixSize {
		return nil, 0, fmt.Errorf("%w: need %d byte length at offset %d", ErrTruncatedInput, LengthPrefixSize, offset)
	}
	n := binary.LittleEndian.Uint64(buf[offset : offset+LengthPrefixSize])
	if n > MaxFieldSize {
		return nil, 0, ErrFieldTooLarge
	}
	start := offset + LengthPrefixSize
	if uint64(len(buf)-start) < n {
		return nil, 0, fmt.Errorf("%w: field declares %d bytes, %d remain", ErrTruncatedInput, n, len(buf)-start)
	}
	out := make([]byte, n)
	copy(out, buf[start:start+int(n)])
	return out, LengthPrefixSize + int(n), nil
}

// PutInteger appends i as a framed decimal string. A nil integer encodes as 0.
func PutInteger(dst []byte, i *big.Int) []byte {
	if i == nil {
		i = new(big.Int)
	}
	return PutString(dst, []byte(i.Text(10)))
}

// GetInteger reads a framed decimal integer starting at offset.
func GetInteger(buf []byte, offset int) (*big.Int, int, error) {
	s, n, err := GetString(buf, offset)
	if err != nil {
		return nil, 0, err
	}
	i, ok := new(big.Int).SetString(string(s), 10)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", ErrInvalidInteger, s)
	}
	return i, n, nil
}

// fieldReader walks the fields of one message body.
type fieldReader struct {
	buf []byte
	off int
	err error
}

func (r *fieldReader) bytes() []byte {
	if r.err != nil {
		return nil
	}
	s, n, err := GetString(r.buf, r.off)
	if err != nil {
		r.err = err
		return nil
	}
	r.off += n
	return s
}

func (r *fieldReader) integer() *big.Int {
	if r.err != nil {
		return nil
	}
	i, n, err := GetInteger(r.buf, r.off)
	if err != nil {
		r.err = err
		return nil
	}
	r.off += n
	return i
}

func (r *fieldReader) finish() error {
	if r.err != nil {
		return r.err
	}
	if r.off != len(r.buf) {
		return fmt.Errorf("%w: %d bytes", ErrTrailingData, len(r.buf)-r.off)
	}
	return nil
}
