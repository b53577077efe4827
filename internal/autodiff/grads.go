package autodiff

import "github.com/KGrewal1/optimisers/internal/tensor"

// Gradients runs a backward pass from loss and collects the gradient for each
// of the given tensors, positionally. Entries are nil for tensors no gradient
// flowed to (e.g. a parameter the loss does not depend on).
//
// This is the form optimizers consume: they track parameters as an ordered
// slice and pair each with its gradient by position.
func Gradients[T tensor.DType, B BackwardCapable](loss *tensor.Tensor[T, B], backend B, params []*tensor.RawTensor) []*tensor.RawTensor {
	gradMap := Backward(loss, backend)

	grads := make([]*tensor.RawTensor, len(params))
	for i, p := range params {
		grads[i] = gradMap[p]
	}

	return grads
}
