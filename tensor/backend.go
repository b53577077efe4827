package tensor

import "github.com/KGrewal1/optimisers/internal/tensor"

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// The surface is deliberately small: element-wise arithmetic, matrix
// multiplication, shape movement, scalar arithmetic, and a full reduction.
// That is the complete op set the autodiff layer records and the
// optimizers consume.
//
// Implementations:
//   - backend/cpu: pure Go kernels with gonum BLAS for the float matmul paths
//   - autodiff: decorator that records operations onto a gradient tape
//
// Example:
//
//	import (
//	    "github.com/KGrewal1/optimisers/tensor"
//	    "github.com/KGrewal1/optimisers/backend/cpu"
//	)
//
//	backend := cpu.New()
//	x := tensor.Zeros[float64](tensor.Shape{2, 3}, backend)
//	y := tensor.Ones[float64](tensor.Shape{2, 3}, backend)
//	z := x.Add(y)  // Uses backend.Add under the hood
type Backend interface {
	// Element-wise binary operations.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Matrix operations.
	MatMul(a, b *RawTensor) *RawTensor

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// Scalar operations (element-wise with scalar).
	MulScalar(x *RawTensor, scalar any) *RawTensor
	AddScalar(x *RawTensor, scalar any) *RawTensor
	SubScalar(x *RawTensor, scalar any) *RawTensor
	DivScalar(x *RawTensor, scalar any) *RawTensor

	// Reduction operations.
	Sum(x *RawTensor) *RawTensor

	// Metadata.
	Name() string
	Device() Device
}

// Compile-time check that the internal Backend satisfies the public one.
var _ Backend = tensor.Backend(nil)
