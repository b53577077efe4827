package serialization

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/KGrewal1/optimisers/internal/tensor"
)

// ReaderOptions configures checkpoint reading.
type ReaderOptions struct {
	// SkipChecksumValidation disables the SHA-256 check over the data section.
	SkipChecksumValidation bool
	// ValidationLevel controls header validation. NewReader uses ValidationStrict.
	ValidationLevel ValidationLevel
}

// Reader reads optimizer checkpoint files.
type Reader struct {
	file       *os.File
	header     *Header
	flags      uint32
	dataOffset int64
	dataSize   int64
	byName     map[string]*TensorMeta
	closed     bool
}

// NewReader opens a checkpoint file with strict validation.
func NewReader(path string) (*Reader, error) {
	return NewReaderWithOptions(path, ReaderOptions{ValidationLevel: ValidationStrict})
}

// NewReaderWithOptions opens a checkpoint file with the given options.
func NewReaderWithOptions(path string, opts ReaderOptions) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("serialization: open %s: %w", path, err)
	}
	r := &Reader{file: f}
	if err := r.parse(opts); err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

func (r *Reader) parse(opts ReaderOptions) error {
	fixed := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(r.file, fixed); err != nil {
		return fmt.Errorf("serialization: read fixed header: %w", err)
	}
	if string(fixed[0:4]) != MagicBytes {
		return fmt.Errorf("%w: got %q", ErrInvalidMagic, fixed[0:4])
	}
	if version := binary.LittleEndian.Uint32(fixed[4:8]); version != FormatVersion {
		return fmt.Errorf("%w: version %d", ErrUnsupportedVersion, version)
	}
	r.flags = binary.LittleEndian.Uint32(fixed[8:12])
	headerSize := binary.LittleEndian.Uint64(fixed[16:24])
	if headerSize > MaxHeaderSize {
		return fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, headerSize)
	}
	r.dataSize = int64(binary.LittleEndian.Uint64(fixed[24:32]))
	if r.dataSize < 0 {
		return &ValidationError{Field: "data_size", Message: "data size overflows int64"}
	}
	var checksum [ChecksumSize]byte
	copy(checksum[:], fixed[ChecksumOffset:ChecksumOffset+ChecksumSize])

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r.file, headerJSON); err != nil {
		return fmt.Errorf("serialization: read header: %w", err)
	}
	var header Header
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return fmt.Errorf("serialization: parse header: %w", err)
	}
	r.header = &header

	pos := int64(FixedHeaderSize) + int64(headerSize)
	r.dataOffset = pos + (HeaderAlignment-pos%HeaderAlignment)%HeaderAlignment

	fi, err := r.file.Stat()
	if err != nil {
		return fmt.Errorf("serialization: stat checkpoint: %w", err)
	}
	if r.dataOffset+r.dataSize > fi.Size() {
		return &ValidationError{
			Field:   "data_size",
			Message: fmt.Sprintf("data section [%d, %d) exceeds file size %d", r.dataOffset, r.dataOffset+r.dataSize, fi.Size()),
		}
	}

	if err := ValidateHeader(&header, r.dataSize, opts.ValidationLevel); err != nil {
		return err
	}

	if !opts.SkipChecksumValidation {
		data := make([]byte, r.dataSize)
		if _, err := r.file.ReadAt(data, r.dataOffset); err != nil {
			return fmt.Errorf("serialization: read data section: %w", err)
		}
		if err := ValidateChecksum(data, checksum); err != nil {
			return err
		}
	}

	r.byName = make(map[string]*TensorMeta, len(header.Tensors))
	for i := range header.Tensors {
		r.byName[header.Tensors[i].Name] = &header.Tensors[i]
	}
	return nil
}

// Header returns the parsed JSON header.
func (r *Reader) Header() *Header {
	return r.header
}

// Optimizer returns the optimizer label the checkpoint was written with.
func (r *Reader) Optimizer() string {
	return r.header.Optimizer
}

// Metadata returns the custom metadata, or nil if none was stored.
func (r *Reader) Metadata() map[string]string {
	return r.header.Metadata
}

// HasMetadata reports whether the metadata flag is set in the fixed header.
func (r *Reader) HasMetadata() bool {
	return r.flags&FlagHasMetadata != 0
}

// TensorNames returns tensor names in file order.
func (r *Reader) TensorNames() []string {
	names := make([]string, len(r.header.Tensors))
	for i, t := range r.header.Tensors {
		names[i] = t.Name
	}
	return names
}

// TensorInfo returns the metadata for a named tensor.
func (r *Reader) TensorInfo(name string) (*TensorMeta, bool) {
	meta, ok := r.byName[name]
	return meta, ok
}

// ReadTensorData reads the raw bytes of a named tensor.
func (r *Reader) ReadTensorData(name string) ([]byte, error) {
	if r.closed {
		return nil, errors.New("serialization: reader is closed")
	}
	meta, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTensorNotFound, name)
	}
	buf := make([]byte, meta.Size)
	if _, err := r.file.ReadAt(buf, r.dataOffset+meta.Offset); err != nil {
		return nil, fmt.Errorf("serialization: read tensor %q: %w", name, err)
	}
	return buf, nil
}

// LoadTensor reads a named tensor into host memory.
func (r *Reader) LoadTensor(name string) (*tensor.RawTensor, error) {
	meta, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTensorNotFound, name)
	}
	dt, ok := stringToDtype(meta.DType)
	if !ok {
		return nil, &ValidationError{Field: "dtype", Message: fmt.Sprintf("unknown dtype %q for tensor %q", meta.DType, name)}
	}
	raw, err := tensor.NewRaw(tensor.Shape(meta.Shape), dt, tensor.CPU)
	if err != nil {
		return nil, fmt.Errorf("serialization: allocate tensor %q: %w", name, err)
	}
	data, err := r.ReadTensorData(name)
	if err != nil {
		return nil, err
	}
	copy(raw.Data(), data)
	return raw, nil
}

// ReadState loads every tensor in the checkpoint as a state dict.
func (r *Reader) ReadState() (map[string]*tensor.RawTensor, error) {
	state := make(map[string]*tensor.RawTensor, len(r.header.Tensors))
	for _, meta := range r.header.Tensors {
		raw, err := r.LoadTensor(meta.Name)
		if err != nil {
			return nil, err
		}
		state[meta.Name] = raw
	}
	return state, nil
}

// Close closes the underlying file. Safe to call more than once.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.file.Close()
}

// ReadStateFile reads the full state dict and optimizer label from a
// checkpoint file, with strict validation.
func ReadStateFile(path string) (map[string]*tensor.RawTensor, string, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, "", err
	}
	defer r.Close()
	state, err := r.ReadState()
	if err != nil {
		return nil, "", err
	}
	return state, r.Optimizer(), nil
}
