// Package optim implements gradient-based optimization algorithms.
//
// This package provides:
//   - Optimizer interface: base contract shared by all optimizers
//   - LBFGS: limited-memory quasi-Newton optimizer with an optional
//     strong-Wolfe line search
//   - Adamax: adaptive moment estimation using an infinity-norm second
//     moment
//
// LBFGS drives the model itself: it owns the parameters, re-evaluates the
// loss through the Model collaborator as often as the line search needs,
// and classifies each step as converged or stepped. Adamax is a plain
// per-parameter update fed with externally computed gradients.
//
// Example usage:
//
//	backend.Tape().StartRecording()
//	loss, _ := model.Loss()
//
//	opt, _ := optim.NewLBFGS(params, optim.ParamsLBFGS{
//	    LineSearch: optim.StrongWolfe{},
//	}, model, backend)
//
//	for step := 0; step < 500; step++ {
//	    outcome, err := opt.BackwardStep(loss)
//	    if err != nil {
//	        return err
//	    }
//	    if outcome.Converged {
//	        break
//	    }
//	    loss = outcome.Loss
//	}
package optim

import (
	"errors"

	"github.com/KGrewal1/optimisers/internal/autodiff"
	"github.com/KGrewal1/optimisers/internal/tensor"
)

// Construction-time precondition violations. These are caller errors: the
// optimizer refuses to start rather than misbehave later.
var (
	ErrNoParameters   = errors.New("optim: no parameters to optimize")
	ErrNilModel       = errors.New("optim: model is nil")
	ErrDeviceMismatch = errors.New("optim: parameter device does not match backend device")
)

// Optimizer is the base contract shared by all optimizers.
//
// Learning-rate access is float64: optimizer-internal arithmetic is carried
// out in double precision regardless of the parameter dtype.
type Optimizer interface {
	// ZeroGrad clears the tracked parameters' gradient slots.
	ZeroGrad()

	// LearningRate returns the current learning rate.
	LearningRate() float64

	// SetLearningRate replaces the learning rate. Useful for schedules.
	SetLearningRate(lr float64)
}

// Model is the differentiable objective an optimizer minimizes.
//
// Loss evaluates the scalar loss at the parameters' current values. With a
// tape-carrying backend the evaluation is recorded, so a backward pass on
// the returned tensor yields fresh per-parameter gradients. The L-BFGS
// line search calls Loss several times within a single step, each time
// after moving the parameters, so implementations must read the live
// parameter tensors rather than cache their values.
type Model[T tensor.Float, B autodiff.BackwardCapable] interface {
	Loss() (*tensor.Tensor[T, B], error)
}

// StepOutcome reports one L-BFGS step: the loss after the update, the
// number of model evaluations consumed, and whether a convergence
// criterion fired. Convergence is a classification, not an error.
//
// The Loss tensor is recorded on the backend's tape at the post-step
// parameter values; passing it to the next BackwardStep call continues the
// minimization.
type StepOutcome[T tensor.Float, B autodiff.BackwardCapable] struct {
	Loss      *tensor.Tensor[T, B]
	Evals     int
	Converged bool
}

// Stateful is the surface checkpointing needs from an optimizer: export
// the internal state as named tensors and restore from the same.
type Stateful interface {
	StateDict() map[string]*tensor.RawTensor
	LoadStateDict(state map[string]*tensor.RawTensor) error
}
