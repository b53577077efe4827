package tensor

import "github.com/KGrewal1/optimisers/internal/tensor"

// RawTensor is the untyped tensor representation backends and checkpoints
// operate on. Typed tensors wrap a RawTensor; Raw() unwraps one.
type RawTensor = tensor.RawTensor

// DataType is runtime type information for tensors.
type DataType = tensor.DataType

// Supported data types.
const (
	Float32 = tensor.Float32
	Float64 = tensor.Float64
	Int32   = tensor.Int32
	Int64   = tensor.Int64
	Uint8   = tensor.Uint8
	Bool    = tensor.Bool
)

// Device represents the compute device tensor data lives on.
type Device = tensor.Device

// Supported compute devices.
const (
	CPU   = tensor.CPU
	CUDA  = tensor.CUDA
	Metal = tensor.Metal
)

// NewRaw allocates a zero-filled RawTensor with the given shape and type.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}
