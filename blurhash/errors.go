package blurhash

import (
	"errors"
	"fmt"

	"github.com/AnyUserName/blurhash-cli/blurhash/base83"
)

// Validation failures.  All of them are returned before any work is done and
// none are retryable.  Use errors.Is with these values and errors.As with the
// detail types below.
var (
	ErrInvalidDimensions     = errors.New("invalid dimensions")
	ErrInvalidComponentCount = errors.New("component count out of range")
	ErrInvalidLength         = errors.New("invalid blurhash length")
	ErrBufferLength          = errors.New("pixel buffer length mismatch")

	ErrInvalidCharacter = base83.ErrInvalidCharacter
	ErrValueTooLarge    = base83.ErrValueTooLarge
	ErrOverflow         = base83.ErrOverflow
)

// DimensionError describes a rejected width/height pair.
type DimensionError struct {
	Width, Height int
	Reason        string
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("invalid dimensions: %dx%d (%s)", e.Width, e.Height, e.Reason)
}

func (e *DimensionError) Unwrap() error { return ErrInvalidDimensions }

// ComponentError names the axis ("x" or "y") whose component count is out of range.
type ComponentError struct {
	Axis  string
	Value int
}

func (e *ComponentError) Error() string {
	return fmt.Sprintf("component count out of range: %s = %d (must be %d..=%d)",
		e.Axis, e.Value, MinComponents, MaxComponents)
}

func (e *ComponentError) Unwrap() error { return ErrInvalidComponentCount }

// LengthError reports a hash whose length disagrees with its size flag, or
// one shorter than the minimum.
type LengthError struct {
	Expected, Actual int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("invalid blurhash length: expected %d, got %d", e.Expected, e.Actual)
}

func (e *LengthError) Unwrap() error { return ErrInvalidLength }

// BufferLengthError reports a pixel buffer that is not width*height*3 bytes.
type BufferLengthError struct {
	Width, Height int
	Expected      int
	Actual        int
}

func (e *BufferLengthError) Error() string {
	return fmt.Sprintf("pixel buffer length %d does not match %dx%dx3 = %d",
		e.Actual, e.Width, e.Height, e.Expected)
}

func (e *BufferLengthError) Unwrap() error { return ErrBufferLength }

// ItemError tags a batch failure with the position of the failing item.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }
