package nn

import (
	"github.com/KGrewal1/optimisers/internal/tensor"
)

// MSELoss computes Mean Squared Error loss.
//
// Loss = mean((predictions - targets)²)
//
// MSE is commonly used for regression tasks where the goal is to predict
// continuous values. The mean is assembled from backend operations
// (Sub, Mul, Sum, DivScalar), so a tape-carrying backend records the whole
// chain and gradients flow from the scalar loss back to the predictions.
//
// Example:
//
//	mse := nn.NewMSELoss(backend)
//	predictions := model.Forward(input)
//	loss := mse.Forward(predictions, targets)
type MSELoss[T tensor.Float, B tensor.Backend] struct {
	backend B
}

// NewMSELoss creates a new MSE loss function.
func NewMSELoss[T tensor.Float, B tensor.Backend](backend B) *MSELoss[T, B] {
	return &MSELoss[T, B]{
		backend: backend,
	}
}

// Forward computes the MSE loss.
//
// Loss = mean((predictions - targets)²)
//
// Parameters:
//   - predictions: Model predictions with shape [batch_size, ...]
//   - targets: Ground truth targets with same shape as predictions
//
// Returns a scalar loss tensor (shape []).
func (m *MSELoss[T, B]) Forward(predictions, targets *tensor.Tensor[T, B]) *tensor.Tensor[T, B] {
	// Validate shapes match
	if !predictions.Shape().Equal(targets.Shape()) {
		panic("MSELoss: predictions and targets must have the same shape")
	}

	// Compute difference: (predictions - targets)
	diff := predictions.Sub(targets)

	// Square: (predictions - targets)²
	squared := diff.Mul(diff)

	// Mean: sum / num_elements
	total := squared.Sum()
	return total.DivScalar(T(predictions.NumElements()))
}

// Parameters returns an empty slice (loss functions have no trainable parameters).
func (m *MSELoss[T, B]) Parameters() []*Parameter[T, B] {
	return nil
}
