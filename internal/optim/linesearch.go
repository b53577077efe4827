package optim

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// LineSearch selects how the step length along the L-BFGS direction is
// chosen. The set of implementations is closed; a nil LineSearch in
// ParamsLBFGS means the fixed learning rate scales the direction instead.
type LineSearch interface {
	lineSearch()
}

// StrongWolfe requests a bracketing line search with cubic interpolation
// that terminates when both the sufficient-decrease condition with constant
// C1 and the curvature condition with constant C2 hold at the trial point.
// Tolerance is the bracket width below which the zoom stops refining.
//
// Zero fields take the conventional defaults c1=1e-4, c2=0.9, tol=1e-9.
// The scheme is the one used by torch.optim.LBFGS
// (https://pytorch.org/docs/stable/generated/torch.optim.LBFGS.html),
// reimplemented over float64 flat vectors.
type StrongWolfe struct {
	C1        float64
	C2        float64
	Tolerance float64
}

func (StrongWolfe) lineSearch() {}

// lineEval evaluates the objective at step length t along the current
// search direction, returning the loss and the flat gradient there.
// Each call costs one full model evaluation.
type lineEval func(t float64) (f float64, g []float64, err error)

// wolfePoint is one evaluated point on the search ray: step length, loss,
// flat gradient, and directional derivative g·d.
type wolfePoint struct {
	t   float64
	f   float64
	g   []float64
	gtd float64
}

// strongWolfe searches along direction d for a step length satisfying the
// strong Wolfe conditions, starting from trial length t0. f0 and g0 are the
// loss and flat gradient at t=0.
//
// The search first brackets an interval containing an acceptable point,
// extrapolating by bounded cubic interpolation, then zooms: it interpolates
// within the bracket until the conditions hold, the bracket width scaled by
// the direction's infinity norm falls below tolChange, or the evaluation
// budget is spent. On early termination the bracket endpoint with the lower
// loss is returned rather than an error. A non-finite loss or derivative is
// treated as a sufficient-decrease failure, so the search retreats toward
// its best finite point.
//
// Returns the accepted point and the number of evaluations consumed.
func strongWolfe(eval lineEval, d []float64, t0, f0 float64, g0 []float64, c1, c2, tolChange float64, maxEvals int) (wolfePoint, int, error) {
	dNorm := floats.Norm(d, math.Inf(1))
	gtd0 := floats.Dot(g0, d)

	t := t0
	fNew, gNew, err := eval(t)
	if err != nil {
		return wolfePoint{}, 1, err
	}
	evals := 1
	gtdNew := floats.Dot(gNew, d)

	// Bracket an interval known to contain an acceptable point. Until one
	// of the break conditions fires, each trial extrapolates past the
	// previous one.
	var bracket [2]wolfePoint
	tPrev, fPrev, gtdPrev := 0.0, f0, gtd0
	gPrev := g0
	bracketed := false
	done := false
	lsIter := 0
	for lsIter < maxEvals {
		if !isFinite(fNew) || !isFinite(gtdNew) ||
			fNew > f0+c1*t*gtd0 || (lsIter > 1 && fNew >= fPrev) {
			bracket[0] = wolfePoint{t: tPrev, f: fPrev, g: gPrev, gtd: gtdPrev}
			bracket[1] = wolfePoint{t: t, f: fNew, g: gNew, gtd: gtdNew}
			bracketed = true
			break
		}

		if math.Abs(gtdNew) <= -c2*gtd0 {
			// Both conditions hold at the trial point itself.
			bracket[0] = wolfePoint{t: t, f: fNew, g: gNew, gtd: gtdNew}
			bracket[1] = bracket[0]
			bracketed = true
			done = true
			break
		}

		if gtdNew >= 0 {
			bracket[0] = wolfePoint{t: tPrev, f: fPrev, g: gPrev, gtd: gtdPrev}
			bracket[1] = wolfePoint{t: t, f: fNew, g: gNew, gtd: gtdNew}
			bracketed = true
			break
		}

		// Extrapolate, bounded away from the current trial and capped at
		// ten times its length.
		stepMin := t + 0.01*(t-tPrev)
		stepMax := t * 10
		tNext := cubicInterpolate(tPrev, fPrev, gtdPrev, t, fNew, gtdNew, stepMin, stepMax)

		tPrev, fPrev, gPrev, gtdPrev = t, fNew, gNew, gtdNew
		t = tNext
		fNew, gNew, err = eval(t)
		if err != nil {
			return wolfePoint{}, evals + 1, err
		}
		evals++
		gtdNew = floats.Dot(gNew, d)
		lsIter++
	}

	if !bracketed {
		// Budget spent without a bracket: fall back to the widest interval
		// seen.
		bracket[0] = wolfePoint{t: 0, f: f0, g: g0, gtd: gtd0}
		bracket[1] = wolfePoint{t: t, f: fNew, g: gNew, gtd: gtdNew}
	}

	// Zoom: shrink the bracket until the conditions hold at a trial point
	// or no further progress can be made. low/high order by loss value.
	lowPos, highPos := 0, 1
	if bracket[1].f < bracket[0].f {
		lowPos, highPos = 1, 0
	}
	insufProgress := false
	for !done && lsIter < maxEvals {
		if math.Abs(bracket[1].t-bracket[0].t)*dNorm < tolChange {
			break
		}

		t = cubicInterpolate(
			bracket[0].t, bracket[0].f, bracket[0].gtd,
			bracket[1].t, bracket[1].f, bracket[1].gtd,
			math.Min(bracket[0].t, bracket[1].t),
			math.Max(bracket[0].t, bracket[1].t),
		)

		// A trial too close to a boundary twice in a row, or sitting on
		// it, gets pushed a tenth of the bracket inwards.
		bmin := math.Min(bracket[0].t, bracket[1].t)
		bmax := math.Max(bracket[0].t, bracket[1].t)
		eps := 0.1 * (bmax - bmin)
		if math.Min(bmax-t, t-bmin) < eps {
			if insufProgress || t >= bmax || t <= bmin {
				if math.Abs(t-bmax) < math.Abs(t-bmin) {
					t = bmax - eps
				} else {
					t = bmin + eps
				}
				insufProgress = false
			} else {
				insufProgress = true
			}
		} else {
			insufProgress = false
		}

		fNew, gNew, err = eval(t)
		if err != nil {
			return wolfePoint{}, evals + 1, err
		}
		evals++
		gtdNew = floats.Dot(gNew, d)
		lsIter++

		if !isFinite(fNew) || !isFinite(gtdNew) ||
			fNew > f0+c1*t*gtd0 || fNew >= bracket[lowPos].f {
			// Sufficient decrease failed or no improvement over the low
			// point: the trial becomes the new high endpoint.
			bracket[highPos] = wolfePoint{t: t, f: fNew, g: gNew, gtd: gtdNew}
			lowPos, highPos = 0, 1
			if bracket[1].f < bracket[0].f {
				lowPos, highPos = 1, 0
			}
			continue
		}

		if math.Abs(gtdNew) <= -c2*gtd0 {
			done = true
		} else if gtdNew*(bracket[highPos].t-bracket[lowPos].t) >= 0 {
			// The minimum lies on the other side of the trial: the old
			// low endpoint becomes the new high.
			bracket[highPos] = bracket[lowPos]
		}
		bracket[lowPos] = wolfePoint{t: t, f: fNew, g: gNew, gtd: gtdNew}
	}

	return bracket[lowPos], evals, nil
}

// cubicInterpolate returns the minimizer of the cubic fit through two
// points with known values and directional derivatives, clamped to
// [boundLo, boundHi]. Degenerate fits (negative discriminant, non-finite
// coefficients) fall back to bisecting the bounds.
func cubicInterpolate(x1, f1, g1, x2, f2, g2, boundLo, boundHi float64) float64 {
	d1 := g1 + g2 - 3*(f1-f2)/(x1-x2)
	d2sq := d1*d1 - g1*g2
	if d2sq >= 0 && isFinite(d2sq) {
		d2 := math.Sqrt(d2sq)
		var minPos float64
		if x1 <= x2 {
			minPos = x2 - (x2-x1)*((g2+d2-d1)/(g2-g1+2*d2))
		} else {
			minPos = x1 - (x1-x2)*((g1+d2-d1)/(g1-g2+2*d2))
		}
		if isFinite(minPos) {
			return math.Min(math.Max(minPos, boundLo), boundHi)
		}
	}
	return (boundLo + boundHi) / 2
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
