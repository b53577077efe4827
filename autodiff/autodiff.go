// Package autodiff provides reverse-mode automatic differentiation as a
// backend decorator.
//
// # Overview
//
// AutodiffBackend wraps any tensor.Backend and records every operation
// onto a gradient tape. A backward pass over the tape yields gradients
// with respect to any tensor that participated in the computation:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//
//	x, _ := tensor.FromSlice([]float64{3}, tensor.Shape{1}, backend)
//	y := x.Mul(x) // y = x^2, recorded on the tape
//
//	grads := autodiff.Backward(y, backend)
//	_ = grads[x.Raw()] // dy/dx = 2x = 6
//
// The wrapped backend satisfies tensor.Backend itself, so model code is
// written once and runs with or without gradient recording.
package autodiff

import (
	"github.com/KGrewal1/optimisers/internal/autodiff"
	"github.com/KGrewal1/optimisers/tensor"
)

// AutodiffBackend decorates a compute backend with gradient recording.
type AutodiffBackend[B tensor.Backend] = autodiff.AutodiffBackend[B]

// GradientTape records operations for the backward pass.
type GradientTape = autodiff.GradientTape

// BackwardCapable is the interface optimizers require from a backend:
// a full compute backend that also exposes a gradient tape.
type BackwardCapable = autodiff.BackwardCapable

// New wraps backend with gradient recording. Recording starts disabled;
// call Tape().StartRecording() before the forward pass.
func New[B tensor.Backend](backend B) *AutodiffBackend[B] {
	return autodiff.New(backend)
}

// Backward runs a backward pass from t and returns the gradient for every
// tensor the tape reached, keyed by raw tensor.
func Backward[T tensor.DType, B BackwardCapable](t *tensor.Tensor[T, B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	return autodiff.Backward(t, backend)
}

// Gradients runs a backward pass from loss and collects the gradient for
// each of the given tensors, positionally. Entries are nil for tensors no
// gradient flowed to.
func Gradients[T tensor.DType, B BackwardCapable](loss *tensor.Tensor[T, B], backend B, params []*tensor.RawTensor) []*tensor.RawTensor {
	return autodiff.Gradients(loss, backend, params)
}
