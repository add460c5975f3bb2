package guardmem

import (
	"errors"
	"fmt"
)

var (
	// ErrNilBlock is returned by Free for a nil block.
	ErrNilBlock = errors.New("guardmem: free of nil block")

	// ErrDoubleFree is returned by Free for a block that was already freed.
	ErrDoubleFree = errors.New("guardmem: block already freed")

	// ErrNegativeSize is returned by Allocate for a size below zero.
	ErrNegativeSize = errors.New("guardmem: negative allocation size")
)

// Region names the part of an allocation where corruption was found.
type Region string

const (
	RegionHeader       Region = "header"
	RegionLeftPadding  Region = "left padding"
	RegionRightPadding Region = "right padding"
)

// CorruptionError reports the first mismatch found by Free.
type CorruptionError struct {
	// Region is where the mismatch was found.
	Region Region

	// Field names the header field for header corruption: "size",
	// "magic" or "checksum". Empty for padding corruption.
	Field string

	// Offset is relative to the start of the payload. Left padding and
	// header offsets are negative.
	Offset int64

	// Expected and Actual are the byte or field values that differed.
	Expected uint64
	Actual   uint64
}

// Error implements the error interface.
func (e *CorruptionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("guardmem: %s corrupted: %s is %#x, expected %#x",
			e.Region, e.Field, e.Actual, e.Expected)
	}
	return fmt.Sprintf("guardmem: %s corrupted at offset %d: byte %#02x, expected %#02x",
		e.Region, e.Offset, e.Actual, e.Expected)
}

// IsCorruption returns true if err is or wraps a *CorruptionError.
func IsCorruption(err error) bool {
	var ce *CorruptionError
	return errors.As(err, &ce)
}
