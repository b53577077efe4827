package ops

import "github.com/KGrewal1/optimisers/internal/tensor"

// MulScalarOp represents scalar multiplication: output = x * scalar.
//
// Backward pass:
//   - d(x*c)/dx = c, so grad_x = outputGrad * scalar
//
// The scalar is stored exactly as boxed at record time so the backward
// pass dispatches on the same dynamic type as the forward pass.
type MulScalarOp struct {
	inputs []*tensor.RawTensor // [x]
	output *tensor.RawTensor   // x * scalar
	scalar any
}

// NewMulScalarOp creates a new MulScalarOp.
func NewMulScalarOp(x, output *tensor.RawTensor, scalar any) *MulScalarOp {
	return &MulScalarOp{
		inputs: []*tensor.RawTensor{x},
		output: output,
		scalar: scalar,
	}
}

// Backward computes the input gradient for scalar multiplication.
func (op *MulScalarOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	gradX := backend.MulScalar(outputGrad, op.scalar)

	return []*tensor.RawTensor{gradX}
}

// Inputs returns the input tensors [x].
func (op *MulScalarOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor x * scalar.
func (op *MulScalarOp) Output() *tensor.RawTensor {
	return op.output
}

// AddScalarOp represents scalar addition: output = x + scalar.
//
// Backward pass:
//   - d(x+c)/dx = 1, so grad_x = outputGrad
type AddScalarOp struct {
	inputs []*tensor.RawTensor // [x]
	output *tensor.RawTensor   // x + scalar
}

// NewAddScalarOp creates a new AddScalarOp.
func NewAddScalarOp(x, output *tensor.RawTensor) *AddScalarOp {
	return &AddScalarOp{
		inputs: []*tensor.RawTensor{x},
		output: output,
	}
}

// Backward computes the input gradient for scalar addition.
// The shift is constant, so the gradient passes through unchanged.
func (op *AddScalarOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{outputGrad.Clone()}
}

// Inputs returns the input tensors [x].
func (op *AddScalarOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor x + scalar.
func (op *AddScalarOp) Output() *tensor.RawTensor {
	return op.output
}

// SubScalarOp represents scalar subtraction: output = x - scalar.
//
// Backward pass:
//   - d(x-c)/dx = 1, so grad_x = outputGrad
type SubScalarOp struct {
	inputs []*tensor.RawTensor // [x]
	output *tensor.RawTensor   // x - scalar
}

// NewSubScalarOp creates a new SubScalarOp.
func NewSubScalarOp(x, output *tensor.RawTensor) *SubScalarOp {
	return &SubScalarOp{
		inputs: []*tensor.RawTensor{x},
		output: output,
	}
}

// Backward computes the input gradient for scalar subtraction.
func (op *SubScalarOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{outputGrad.Clone()}
}

// Inputs returns the input tensors [x].
func (op *SubScalarOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor x - scalar.
func (op *SubScalarOp) Output() *tensor.RawTensor {
	return op.output
}

// DivScalarOp represents scalar division: output = x / scalar.
//
// Backward pass:
//   - d(x/c)/dx = 1/c, so grad_x = outputGrad / scalar
//
// The scalar is stored exactly as boxed at record time so the backward
// pass dispatches on the same dynamic type as the forward pass.
type DivScalarOp struct {
	inputs []*tensor.RawTensor // [x]
	output *tensor.RawTensor   // x / scalar
	scalar any
}

// NewDivScalarOp creates a new DivScalarOp.
func NewDivScalarOp(x, output *tensor.RawTensor, scalar any) *DivScalarOp {
	return &DivScalarOp{
		inputs: []*tensor.RawTensor{x},
		output: output,
		scalar: scalar,
	}
}

// Backward computes the input gradient for scalar division.
func (op *DivScalarOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	gradX := backend.DivScalar(outputGrad, op.scalar)

	return []*tensor.RawTensor{gradX}
}

// Inputs returns the input tensors [x].
func (op *DivScalarOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor x / scalar.
func (op *DivScalarOp) Output() *tensor.RawTensor {
	return op.output
}
