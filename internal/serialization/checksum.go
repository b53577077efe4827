package serialization

import (
	"crypto/sha256"
	"fmt"
)

// ComputeChecksum returns the SHA-256 digest of data.
func ComputeChecksum(data []byte) [ChecksumSize]byte {
	return sha256.Sum256(data)
}

// ValidateChecksum compares the SHA-256 digest of data against expected.
func ValidateChecksum(data []byte, expected [ChecksumSize]byte) error {
	actual := ComputeChecksum(data)
	if actual != expected {
		return fmt.Errorf("%w: expected %x, got %x", ErrChecksumMismatch, expected, actual)
	}
	return nil
}
