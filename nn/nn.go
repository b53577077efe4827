package nn

import (
	"github.com/KGrewal1/optimisers/internal/nn"
	"github.com/KGrewal1/optimisers/tensor"
)

// Parameter is a named, trainable tensor with a gradient slot.
type Parameter[T tensor.Float, B tensor.Backend] = nn.Parameter[T, B]

// Module is the base interface for all model components.
type Module[T tensor.Float, B tensor.Backend] = nn.Module[T, B]

// Linear is a fully connected layer computing input*W^T + b.
type Linear[T tensor.Float, B tensor.Backend] = nn.Linear[T, B]

// MSELoss is the mean squared error criterion.
type MSELoss[T tensor.Float, B tensor.Backend] = nn.MSELoss[T, B]

// NewParameter creates a trainable parameter wrapping an initialized
// tensor.
func NewParameter[T tensor.Float, B tensor.Backend](name string, t *tensor.Tensor[T, B]) *Parameter[T, B] {
	return nn.NewParameter(name, t)
}

// NewLinear creates a fully connected layer with Xavier-initialized
// weights and zero biases.
//
// Example:
//
//	layer := nn.NewLinear[float64](784, 10, backend)
func NewLinear[T tensor.Float, B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[T, B] {
	return nn.NewLinear[T](inFeatures, outFeatures, backend)
}

// NewMSELoss creates a mean squared error criterion.
func NewMSELoss[T tensor.Float, B tensor.Backend](backend B) *MSELoss[T, B] {
	return nn.NewMSELoss[T](backend)
}
