// Package nn provides model building blocks for the optimisers library.
//
// # Overview
//
// This package contains:
//   - Parameter: a named, trainable tensor with a gradient slot
//   - Module: the interface models expose to optimizers
//   - Linear: a fully connected layer
//   - MSELoss: mean squared error
//
// # Basic Usage
//
//	import (
//	    "github.com/KGrewal1/optimisers/autodiff"
//	    "github.com/KGrewal1/optimisers/backend/cpu"
//	    "github.com/KGrewal1/optimisers/nn"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//	    model := nn.NewLinear[float64](4, 1, backend)
//	    criterion := nn.NewMSELoss[float64](backend)
//
//	    pred := model.Forward(x)
//	    loss := criterion.Forward(pred, y)
//	    _ = loss
//	}
//
// Parameters carry their gradient after a backward pass; optimizers read
// and update them through the Parameter accessors.
package nn
