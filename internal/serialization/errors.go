package serialization

import (
	"errors"
	"fmt"
)

// Sentinel errors for checkpoint reading.
var (
	ErrInvalidMagic       = errors.New("serialization: invalid magic bytes")
	ErrUnsupportedVersion = errors.New("serialization: unsupported format version")
	ErrHeaderTooLarge     = errors.New("serialization: header exceeds size limit")
	ErrChecksumMismatch   = errors.New("serialization: checksum mismatch")
	ErrTensorNotFound     = errors.New("serialization: tensor not found")
)

// ValidationError reports a structural problem found while validating a header.
type ValidationError struct {
	Field   string // offending field, e.g. "tensors[3].offset"
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("serialization: validation failed for %s: %s", e.Field, e.Message)
}
