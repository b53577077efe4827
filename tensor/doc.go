// Package tensor provides the public API for tensor operations in the
// optimisers library.
//
// # Overview
//
// Tensors are n-dimensional arrays with a generic element type and a
// pluggable compute backend:
//
//	import (
//	    "github.com/KGrewal1/optimisers/tensor"
//	    "github.com/KGrewal1/optimisers/backend/cpu"
//	)
//
//	backend := cpu.New()
//	x, _ := tensor.FromSlice([]float64{1, 2, 3}, tensor.Shape{3}, backend)
//	y := tensor.Ones[float64](tensor.Shape{3}, backend)
//	z := x.Add(y)
//
// # Type Parameters
//
// Tensor[T, B] carries the element type T and the backend B in its type:
// mixing dtypes or backends is a compile error. The DType constraint lists
// the supported element types; Float restricts to the floating-point
// subset that trainable parameters use.
//
// # Backends
//
// Operations are dispatched through the Backend interface. The cpu backend
// computes immediately; wrapping any backend in autodiff.New records every
// operation onto a gradient tape for reverse-mode differentiation.
package tensor
