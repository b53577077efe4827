package serialization

import (
	"fmt"
	"sort"
	"strings"
)

// Validation limits.
const (
	MaxTensorCount   = 100_000
	MaxTensorNameLen = 4096
	MaxHeaderSize    = 100 * 1024 * 1024 // 100MB
)

// ValidationLevel controls how thoroughly headers are checked on read.
type ValidationLevel int

const (
	// ValidationNone skips all header validation.
	ValidationNone ValidationLevel = iota
	// ValidationNormal checks names, dtypes, sizes, and bounds.
	ValidationNormal
	// ValidationStrict additionally checks tensors for overlaps.
	ValidationStrict
)

// ValidateTensorName rejects names that could be unsafe or malformed.
func ValidateTensorName(name string) error {
	if name == "" {
		return &ValidationError{Field: "name", Message: "empty tensor name"}
	}
	if len(name) > MaxTensorNameLen {
		return &ValidationError{Field: "name", Message: fmt.Sprintf("name length %d exceeds limit %d", len(name), MaxTensorNameLen)}
	}
	if strings.Contains(name, "..") {
		return &ValidationError{Field: "name", Message: fmt.Sprintf("name %q contains path traversal", name)}
	}
	if strings.ContainsAny(name, "/\\") {
		return &ValidationError{Field: "name", Message: fmt.Sprintf("name %q contains path separator", name)}
	}
	if strings.ContainsRune(name, 0) {
		return &ValidationError{Field: "name", Message: "name contains null byte"}
	}
	return nil
}

// ValidateTensorOffsets checks that tensor regions are in bounds and do not
// overlap within the data section.
func ValidateTensorOffsets(tensors []TensorMeta, dataSize int64) error {
	for i, t := range tensors {
		if t.Offset < 0 {
			return &ValidationError{Field: fmt.Sprintf("tensors[%d].offset", i), Message: fmt.Sprintf("negative offset %d", t.Offset)}
		}
		if t.Size < 0 {
			return &ValidationError{Field: fmt.Sprintf("tensors[%d].size", i), Message: fmt.Sprintf("negative size %d", t.Size)}
		}
		if t.Offset+t.Size > dataSize {
			return &ValidationError{
				Field:   fmt.Sprintf("tensors[%d]", i),
				Message: fmt.Sprintf("region [%d, %d) exceeds data size %d", t.Offset, t.Offset+t.Size, dataSize),
			}
		}
	}

	sorted := make([]TensorMeta, len(tensors))
	copy(sorted, tensors)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if prev.Offset+prev.Size > cur.Offset {
			return &ValidationError{
				Field:   "tensors",
				Message: fmt.Sprintf("tensor %q overlaps tensor %q", prev.Name, cur.Name),
			}
		}
	}
	return nil
}

// ValidateHeader checks the parsed header against the data section size.
func ValidateHeader(h *Header, dataSize int64, level ValidationLevel) error {
	if level == ValidationNone {
		return nil
	}
	if h.FormatVersion != FormatVersion {
		return &ValidationError{Field: "format_version", Message: fmt.Sprintf("version %d does not match file version %d", h.FormatVersion, FormatVersion)}
	}
	if len(h.Tensors) > MaxTensorCount {
		return &ValidationError{Field: "tensors", Message: fmt.Sprintf("tensor count %d exceeds limit %d", len(h.Tensors), MaxTensorCount)}
	}
	for i, t := range h.Tensors {
		if err := ValidateTensorName(t.Name); err != nil {
			return err
		}
		dt, ok := stringToDtype(t.DType)
		if !ok {
			return &ValidationError{Field: fmt.Sprintf("tensors[%d].dtype", i), Message: fmt.Sprintf("unknown dtype %q", t.DType)}
		}
		elems := int64(1)
		for _, dim := range t.Shape {
			if dim < 0 {
				return &ValidationError{Field: fmt.Sprintf("tensors[%d].shape", i), Message: fmt.Sprintf("negative dimension %d", dim)}
			}
			elems *= int64(dim)
		}
		if expected := elems * int64(dt.Size()); t.Size != expected {
			return &ValidationError{
				Field:   fmt.Sprintf("tensors[%d].size", i),
				Message: fmt.Sprintf("size %d does not match shape %v of %s (expected %d)", t.Size, t.Shape, t.DType, expected),
			}
		}
	}
	if err := ValidateTensorOffsets(h.Tensors, dataSize); err != nil {
		if level == ValidationStrict {
			return err
		}
		// Normal level tolerates overlaps but not out-of-bounds regions.
		if ve, ok := err.(*ValidationError); !ok || ve.Field != "tensors" {
			return err
		}
	}
	return nil
}
