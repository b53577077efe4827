// Package cpu provides the pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go element-wise kernels (no CGO)
//   - gonum BLAS for float32/float64 matrix multiplication
//   - Inplace fast paths for uniquely referenced tensors
//   - NumPy-compatible broadcasting
//
// # Basic Usage
//
//	import (
//	    "github.com/KGrewal1/optimisers/backend/cpu"
//	    "github.com/KGrewal1/optimisers/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x, _ := tensor.FromSlice([]float64{1, 2, 3}, tensor.Shape{3}, backend)
//	    y := x.MulScalar(2)
//	    _ = y
//	}
//
// For gradient computation, wrap the backend in autodiff.New; the wrapped
// backend satisfies the same tensor.Backend interface.
package cpu
