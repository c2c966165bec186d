// Package base83 implements the fixed-width base-83 integer encoding used by
// BlurHash strings.
//
// Digits are most-significant first.  Every field of a BlurHash has a fixed
// width, so Encode always pads to the requested length instead of producing a
// minimal representation.
package base83

import (
	"errors"
	"fmt"
	"math/bits"
)

// Alphabet lists the 83 digits in value order.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz#$%*+,-.:;=?@[]^_{|}~"

var (
	ErrInvalidCharacter = errors.New("invalid base83 character")
	ErrValueTooLarge    = errors.New("value too large for base83 width")
	ErrOverflow         = errors.New("base83 value overflows 64 bits")
)

// CharacterError reports a byte outside the alphabet.
type CharacterError struct {
	Char byte
	Pos  int
}

func (e *CharacterError) Error() string {
	return fmt.Sprintf("invalid base83 character %q at offset %d", e.Char, e.Pos)
}

func (e *CharacterError) Unwrap() error { return ErrInvalidCharacter }

const invalidDigit = 0xff

// ─── digit lookup table ──────────────────────────────────────
// 128 entries, one per ASCII byte.  Bytes ≥ 0x80 are rejected before lookup.
var digitValue [128]byte

func init() {
	for i := range digitValue {
		digitValue[i] = invalidDigit
	}
	for i := 0; i < len(Alphabet); i++ {
		digitValue[Alphabet[i]] = byte(i)
	}
}

// Digit returns the value of c, or false if c is not in the alphabet.
func Digit(c byte) (uint64, bool) {
	if c >= 0x80 {
		return 0, false
	}
	d := digitValue[c]
	if d == invalidDigit {
		return 0, false
	}
	return uint64(d), true
}

// Decode parses s as a big-endian base-83 number.
func Decode(s string) (uint64, error) {
	var v uint64
	for i := 0; i < len(s); i++ {
		d, ok := Digit(s[i])
		if !ok {
			return 0, &CharacterError{Char: s[i], Pos: i}
		}
		hi, lo := bits.Mul64(v, 83)
		if hi != 0 {
			return 0, fmt.Errorf("%w: %q", ErrOverflow, s)
		}
		sum, carry := bits.Add64(lo, d, 0)
		if carry != 0 {
			return 0, fmt.Errorf("%w: %q", ErrOverflow, s)
		}
		v = sum
	}
	return v, nil
}

// Encode writes value as exactly length digits, zero-padded on the left.
func Encode(value uint64, length int) (string, error) {
	buf, err := Append(make([]byte, 0, max(length, 0)), value, length)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// Append is Encode writing into dst.  dst is returned unchanged on error.
func Append(dst []byte, value uint64, length int) ([]byte, error) {
	if length < 0 {
		return dst, fmt.Errorf("%w: negative width %d", ErrValueTooLarge, length)
	}
	if limit, ok := Limit(length); ok && value >= limit {
		return dst, fmt.Errorf("%w: %d needs more than %d digits (max %d)",
			ErrValueTooLarge, value, length, limit-1)
	}

	n := len(dst)
	for range length {
		dst = append(dst, '0')
	}
	for i := n + length - 1; i >= n; i-- {
		dst[i] = Alphabet[value%83]
		value /= 83
	}
	return dst, nil
}

// Limit returns 83^length, the first value that does not fit in length
// digits.  ok is false when 83^length does not fit in a uint64, in which case
// every uint64 fits.
func Limit(length int) (limit uint64, ok bool) {
	limit = 1
	for range length {
		hi, lo := bits.Mul64(limit, 83)
		if hi != 0 {
			return 0, false
		}
		limit = lo
	}
	return limit, true
}
