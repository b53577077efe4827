package optim

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// GradConv classifies the post-step flat gradient as converged or not. The
// policy set is closed: MinForce and RMSForce. Comparisons are strict, so a
// zero threshold never fires.
type GradConv interface {
	gradConverged(grad []float64) bool
}

// StepConv classifies the applied step vector as converged or not. The
// policy set is closed: MinStep and RMSStep. Comparisons are strict, so a
// zero threshold never fires.
type StepConv interface {
	stepConverged(step []float64) bool
}

// MinForce converges when the largest absolute gradient component falls
// below tol.
func MinForce(tol float64) GradConv { return minForce{tol: tol} }

// RMSForce converges when the root mean square of the gradient falls below
// tol.
func RMSForce(tol float64) GradConv { return rmsForce{tol: tol} }

// MinStep converges when the largest absolute component of the applied step
// falls below tol.
func MinStep(tol float64) StepConv { return minStep{tol: tol} }

// RMSStep converges when the root mean square of the applied step falls
// below tol.
func RMSStep(tol float64) StepConv { return rmsStep{tol: tol} }

type minForce struct{ tol float64 }

func (c minForce) gradConverged(grad []float64) bool {
	return floats.Norm(grad, math.Inf(1)) < c.tol
}

type rmsForce struct{ tol float64 }

func (c rmsForce) gradConverged(grad []float64) bool {
	return rms(grad) < c.tol
}

type minStep struct{ tol float64 }

func (c minStep) stepConverged(step []float64) bool {
	return floats.Norm(step, math.Inf(1)) < c.tol
}

type rmsStep struct{ tol float64 }

func (c rmsStep) stepConverged(step []float64) bool {
	return rms(step) < c.tol
}

func rms(v []float64) float64 {
	return floats.Norm(v, 2) / math.Sqrt(float64(len(v)))
}
