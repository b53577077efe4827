package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// The surface is deliberately small: element-wise arithmetic, matrix
// multiplication, shape movement, scalar arithmetic, and a full reduction.
// That is the complete op set the autodiff layer records and the optimizers
// consume, so every method here has at least one caller in the stack above.
//
// Implementations:
//   - CPU: pure Go kernels with gonum BLAS for the float matmul paths
//   - Autodiff: decorator that records operations onto a gradient tape
type Backend interface {
	// Element-wise binary operations
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Matrix operations
	MatMul(a, b *RawTensor) *RawTensor

	// Shape operations
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// Scalar operations (element-wise with scalar)
	MulScalar(x *RawTensor, scalar any) *RawTensor // multiply by scalar
	AddScalar(x *RawTensor, scalar any) *RawTensor // add scalar
	SubScalar(x *RawTensor, scalar any) *RawTensor // subtract scalar
	DivScalar(x *RawTensor, scalar any) *RawTensor // divide by scalar

	// Reduction operations
	Sum(x *RawTensor) *RawTensor // total sum (scalar result)

	// Metadata
	Name() string
	Device() Device
}
