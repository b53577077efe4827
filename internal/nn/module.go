// Package nn implements the model-side building blocks the optimizers train.
//
// This package provides:
//   - Module interface: Base interface for model components
//   - Parameter: Trainable parameters with gradient tracking
//   - Linear: Fully connected layer
//   - MSELoss: Mean squared error loss built from tape-tracked operations
//   - Initializers: Xavier, Zeros, Ones, Randn
//
// Design inspired by PyTorch's nn.Module but adapted for Go generics.
// Modules are generic over the parameter dtype so that double-precision
// models can be trained alongside single-precision ones.
package nn

import (
	"github.com/KGrewal1/optimisers/internal/tensor"
)

// Module is the base interface for all model components.
//
// Every module must implement:
//   - Forward: Compute output from input
//   - Parameters: Return all trainable parameters
//
// Modules can be composed to build larger models:
//
//	layer := nn.NewLinear[float64](3, 1, backend)
//	output := layer.Forward(input)
//
// Type parameter T is the parameter dtype; B must satisfy the
// tensor.Backend interface.
type Module[T tensor.Float, B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	//
	// The input tensor should have the appropriate shape for this module.
	// For example, Linear expects [batch_size, in_features].
	//
	// Returns the output tensor with shape determined by the module type.
	Forward(input *tensor.Tensor[T, B]) *tensor.Tensor[T, B]

	// Parameters returns all trainable parameters of this module.
	//
	// This includes weights, biases, and any nested module parameters.
	// Returns an empty slice for modules without trainable parameters.
	Parameters() []*Parameter[T, B]
}
