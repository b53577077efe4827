package cpu

import (
	internalcpu "github.com/KGrewal1/optimisers/internal/backend/cpu"
	"github.com/KGrewal1/optimisers/tensor"
)

// Backend is the CPU backend implementation.
//
// Element-wise kernels are pure Go with inplace fast paths; float matrix
// multiplication goes through gonum BLAS.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend.
//
// Example:
//
//	import (
//	    "github.com/KGrewal1/optimisers/backend/cpu"
//	    "github.com/KGrewal1/optimisers/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x := tensor.Zeros[float64](tensor.Shape{2, 3}, backend)
//	}
func New() *Backend {
	return internalcpu.New()
}
