package optim

import (
	"github.com/KGrewal1/optimisers/autodiff"
	"github.com/KGrewal1/optimisers/internal/optim"
	"github.com/KGrewal1/optimisers/nn"
	"github.com/KGrewal1/optimisers/tensor"
)

// Optimizer defines the common interface for all optimizers.
type Optimizer = optim.Optimizer

// Model is the differentiable objective L-BFGS minimizes. Loss must
// evaluate the scalar loss at the parameters' current values; the line
// search calls it repeatedly within a single step.
type Model[T tensor.Float, B autodiff.BackwardCapable] = optim.Model[T, B]

// StepOutcome reports one L-BFGS step: the post-step loss, the number of
// model evaluations consumed, and whether a convergence criterion fired.
type StepOutcome[T tensor.Float, B autodiff.BackwardCapable] = optim.StepOutcome[T, B]

// Stateful is the surface checkpointing needs from an optimizer.
type Stateful = optim.Stateful

// Construction-time precondition violations.
var (
	ErrNoParameters   = optim.ErrNoParameters
	ErrNilModel       = optim.ErrNilModel
	ErrDeviceMismatch = optim.ErrDeviceMismatch
)

// Convergence policies

// GradConv classifies the post-step gradient as converged or not.
type GradConv = optim.GradConv

// StepConv classifies the applied step vector as converged or not.
type StepConv = optim.StepConv

// MinForce converges when the largest absolute gradient component falls
// below tol.
func MinForce(tol float64) GradConv { return optim.MinForce(tol) }

// RMSForce converges when the root mean square of the gradient falls
// below tol.
func RMSForce(tol float64) GradConv { return optim.RMSForce(tol) }

// MinStep converges when the largest absolute component of the applied
// step falls below tol.
func MinStep(tol float64) StepConv { return optim.MinStep(tol) }

// RMSStep converges when the root mean square of the applied step falls
// below tol.
func RMSStep(tol float64) StepConv { return optim.RMSStep(tol) }

// Line search

// LineSearch selects how the step length along the L-BFGS direction is
// chosen. A nil LineSearch means the fixed learning rate scales the
// direction.
type LineSearch = optim.LineSearch

// StrongWolfe requests a bracketing line search with cubic interpolation
// enforcing the strong Wolfe conditions. Zero fields take the
// conventional defaults c1=1e-4, c2=0.9, tol=1e-9.
type StrongWolfe = optim.StrongWolfe

// L-BFGS (limited-memory quasi-Newton)

// LBFGS is the limited-memory BFGS optimizer.
type LBFGS[T tensor.Float, B autodiff.BackwardCapable] = optim.LBFGS[T, B]

// ParamsLBFGS contains configuration for the L-BFGS optimizer.
type ParamsLBFGS = optim.ParamsLBFGS

// NewLBFGS creates an L-BFGS optimizer over params, re-evaluating the
// loss through model as the step requires.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	opt, err := optim.NewLBFGS(
//	    model.Parameters(),
//	    optim.ParamsLBFGS{
//	        HistorySize: 10,
//	        LineSearch:  optim.StrongWolfe{},
//	    },
//	    model,
//	    backend,
//	)
func NewLBFGS[T tensor.Float, B autodiff.BackwardCapable](params []*nn.Parameter[T, B], config ParamsLBFGS, model Model[T, B], backend B) (*LBFGS[T, B], error) {
	return optim.NewLBFGS(params, config, model, backend)
}

// Adamax (Adam with an infinity-norm second moment)

// Adamax is the Adamax optimizer.
type Adamax[T tensor.Float, B tensor.Backend] = optim.Adamax[T, B]

// ParamsAdaMax contains configuration for the Adamax optimizer.
type ParamsAdaMax = optim.ParamsAdaMax

// NewAdamax creates an Adamax optimizer over params. Gradients are
// supplied externally: run a backward pass, then call Step.
//
// Example:
//
//	opt, err := optim.NewAdamax(
//	    model.Parameters(),
//	    optim.ParamsAdaMax{
//	        LR: 0.002,
//	    },
//	    backend,
//	)
func NewAdamax[T tensor.Float, B tensor.Backend](params []*nn.Parameter[T, B], config ParamsAdaMax, backend B) (*Adamax[T, B], error) {
	return optim.NewAdamax(params, config, backend)
}

// Checkpointing

// Checkpoint labels identifying which optimizer produced a state file.
const (
	KindLBFGS  = optim.KindLBFGS
	KindAdamax = optim.KindAdamax
)

// SaveState writes an optimizer's state to path in the .optc checkpoint
// format.
func SaveState(path, kind string, opt Stateful) error {
	return optim.SaveState(path, kind, opt)
}

// LoadState restores an optimizer's state from a checkpoint written by
// SaveState.
func LoadState(path, kind string, opt Stateful) error {
	return optim.LoadState(path, kind, opt)
}
