package serialization

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/KGrewal1/optimisers/internal/tensor"
)

// Writer writes optimizer checkpoint files.
type Writer struct {
	file   *os.File
	closed bool
}

// NewWriter creates a checkpoint file at path, truncating any existing file.
func NewWriter(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("serialization: create %s: %w", path, err)
	}
	return &Writer{file: f}, nil
}

// WriteState writes a state dict as a single checkpoint. Tensors are laid out
// in sorted name order so the layout does not depend on map iteration order.
// The optimizer label and metadata are stored in the JSON header.
func (w *Writer) WriteState(state map[string]*tensor.RawTensor, optimizer string, metadata map[string]string) error {
	if w.closed {
		return errors.New("serialization: writer is closed")
	}

	names := make([]string, 0, len(state))
	for name := range state {
		names = append(names, name)
	}
	sort.Strings(names)

	metas := make([]TensorMeta, 0, len(names))
	var offset int64
	for _, name := range names {
		raw := state[name]
		if raw == nil {
			return fmt.Errorf("serialization: nil tensor %q", name)
		}
		if err := ValidateTensorName(name); err != nil {
			return err
		}
		size := int64(raw.ByteSize())
		metas = append(metas, TensorMeta{
			Name:   name,
			DType:  dtypeToString(raw.DType()),
			Shape:  raw.Shape(),
			Offset: offset,
			Size:   size,
		})
		offset += size
	}

	data := make([]byte, offset)
	for i, name := range names {
		copy(data[metas[i].Offset:metas[i].Offset+metas[i].Size], state[name].Data())
	}
	checksum := ComputeChecksum(data)

	header := Header{
		FormatVersion: FormatVersion,
		Optimizer:     optimizer,
		CreatedAt:     time.Now().UTC(),
		Tensors:       metas,
		Metadata:      metadata,
	}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("serialization: marshal header: %w", err)
	}

	var flags uint32
	if len(metadata) > 0 {
		flags |= FlagHasMetadata
	}

	fixed := make([]byte, FixedHeaderSize)
	copy(fixed[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(fixed[4:8], FormatVersion)
	binary.LittleEndian.PutUint32(fixed[8:12], flags)
	binary.LittleEndian.PutUint64(fixed[16:24], uint64(len(headerJSON)))
	binary.LittleEndian.PutUint64(fixed[24:32], uint64(len(data)))
	copy(fixed[ChecksumOffset:ChecksumOffset+ChecksumSize], checksum[:])

	if _, err := w.file.Write(fixed); err != nil {
		return fmt.Errorf("serialization: write fixed header: %w", err)
	}
	if _, err := w.file.Write(headerJSON); err != nil {
		return fmt.Errorf("serialization: write header: %w", err)
	}
	pos := int64(FixedHeaderSize + len(headerJSON))
	if pad := (HeaderAlignment - pos%HeaderAlignment) % HeaderAlignment; pad > 0 {
		if _, err := w.file.Write(make([]byte, pad)); err != nil {
			return fmt.Errorf("serialization: write padding: %w", err)
		}
	}
	if _, err := w.file.Write(data); err != nil {
		return fmt.Errorf("serialization: write tensor data: %w", err)
	}
	return nil
}

// Close closes the underlying file. Safe to call more than once.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.file.Close()
}

// WriteStateFile writes a state dict to path as a checkpoint file.
func WriteStateFile(path string, state map[string]*tensor.RawTensor, optimizer string, metadata map[string]string) error {
	w, err := NewWriter(path)
	if err != nil {
		return err
	}
	if err := w.WriteState(state, optimizer, metadata); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
