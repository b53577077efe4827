package optim

import (
	"errors"
	"math"
	"testing"
)

// quadraticLine builds a one-dimensional objective f(t) = (t-center)^2
// parameterized by step length along d = [1].
func quadraticLine(center float64) lineEval {
	return func(t float64) (float64, []float64, error) {
		return (t - center) * (t - center), []float64{2 * (t - center)}, nil
	}
}

func assertWolfe(t *testing.T, p wolfePoint, f0, gtd0, c1, c2 float64) {
	t.Helper()

	if p.f > f0+c1*p.t*gtd0 {
		t.Errorf("sufficient decrease violated at t=%v: f=%v", p.t, p.f)
	}
	if math.Abs(p.gtd) > -c2*gtd0 {
		t.Errorf("curvature violated at t=%v: |gtd|=%v", p.t, math.Abs(p.gtd))
	}
}

// TestStrongWolfe_AcceptsFirstTrial: on f(t) = (t-3)^2 the unit trial step
// already satisfies both conditions, so the search stops after one
// evaluation.
func TestStrongWolfe_AcceptsFirstTrial(t *testing.T) {
	d := []float64{1}
	p, evals, err := strongWolfe(quadraticLine(3), d, 1.0, 9.0, []float64{-6}, 1e-4, 0.9, 1e-9, 25)
	if err != nil {
		t.Fatalf("strongWolfe: %v", err)
	}

	if evals != 1 {
		t.Errorf("evals: got %d, want 1", evals)
	}
	if p.t != 1.0 || p.f != 4.0 {
		t.Errorf("accepted: got (t=%v, f=%v), want (1, 4)", p.t, p.f)
	}
	assertWolfe(t, p, 9.0, -6, 1e-4, 0.9)
}

// TestStrongWolfe_BracketsAndZooms: an overshooting trial step fails
// sufficient decrease, brackets [0, 10], and the cubic fit lands on the
// minimizer in one zoom iteration.
func TestStrongWolfe_BracketsAndZooms(t *testing.T) {
	d := []float64{1}
	p, evals, err := strongWolfe(quadraticLine(3), d, 10.0, 9.0, []float64{-6}, 1e-4, 0.9, 1e-9, 25)
	if err != nil {
		t.Fatalf("strongWolfe: %v", err)
	}

	if evals != 2 {
		t.Errorf("evals: got %d, want 2", evals)
	}
	if math.Abs(p.t-3) > 1e-9 {
		t.Errorf("accepted t: got %v, want 3", p.t)
	}
	if p.f > 1e-15 {
		t.Errorf("accepted f: got %v, want ~0", p.f)
	}
	assertWolfe(t, p, 9.0, -6, 1e-4, 0.9)
}

// TestStrongWolfe_ExtrapolatesWhenUndershooting: a short trial on a distant
// minimum fails curvature, extrapolates, and hits the tenfold cap.
func TestStrongWolfe_ExtrapolatesWhenUndershooting(t *testing.T) {
	d := []float64{1}
	p, evals, err := strongWolfe(quadraticLine(30), d, 1.0, 900.0, []float64{-60}, 1e-4, 0.9, 1e-9, 25)
	if err != nil {
		t.Fatalf("strongWolfe: %v", err)
	}

	if evals != 2 {
		t.Errorf("evals: got %d, want 2", evals)
	}
	if p.t != 10.0 || p.f != 400.0 {
		t.Errorf("accepted: got (t=%v, f=%v), want (10, 400)", p.t, p.f)
	}
	assertWolfe(t, p, 900.0, -60, 1e-4, 0.9)
}

// TestStrongWolfe_ExhaustedBudgetReturnsBestEndpoint: with no budget at all
// the search falls back to the better of the origin and the single trial,
// here the origin.
func TestStrongWolfe_ExhaustedBudgetReturnsBestEndpoint(t *testing.T) {
	d := []float64{1}
	p, evals, err := strongWolfe(quadraticLine(3), d, 10.0, 9.0, []float64{-6}, 1e-4, 0.9, 1e-9, 0)
	if err != nil {
		t.Fatalf("strongWolfe: %v", err)
	}

	if evals != 1 {
		t.Errorf("evals: got %d, want 1", evals)
	}
	if p.t != 0 || p.f != 9.0 {
		t.Errorf("accepted: got (t=%v, f=%v), want the origin (0, 9)", p.t, p.f)
	}
}

// TestStrongWolfe_NonFiniteLossBrackets: an infinite loss counts as a
// sufficient-decrease failure, so the search brackets and retreats to a
// finite point.
func TestStrongWolfe_NonFiniteLossBrackets(t *testing.T) {
	eval := func(t float64) (float64, []float64, error) {
		if t > 5 {
			return math.Inf(1), []float64{2 * (t - 3)}, nil
		}
		return (t - 3) * (t - 3), []float64{2 * (t - 3)}, nil
	}

	d := []float64{1}
	p, evals, err := strongWolfe(eval, d, 10.0, 9.0, []float64{-6}, 1e-4, 0.9, 1e-9, 25)
	if err != nil {
		t.Fatalf("strongWolfe: %v", err)
	}

	if evals != 2 {
		t.Errorf("evals: got %d, want 2", evals)
	}
	if p.t != 5.0 || p.f != 4.0 {
		t.Errorf("accepted: got (t=%v, f=%v), want (5, 4)", p.t, p.f)
	}
	assertWolfe(t, p, 9.0, -6, 1e-4, 0.9)
}

// TestStrongWolfe_PropagatesEvalError: an evaluation error aborts the
// search immediately.
func TestStrongWolfe_PropagatesEvalError(t *testing.T) {
	boom := errors.New("boom")
	eval := func(t float64) (float64, []float64, error) {
		return 0, nil, boom
	}

	_, evals, err := strongWolfe(eval, []float64{1}, 1.0, 9.0, []float64{-6}, 1e-4, 0.9, 1e-9, 25)
	if !errors.Is(err, boom) {
		t.Errorf("error: got %v, want boom", err)
	}
	if evals != 1 {
		t.Errorf("evals: got %d, want 1", evals)
	}
}

// TestCubicInterpolate covers the minimizer formula, bound clamping, and
// the bisection fallback.
func TestCubicInterpolate(t *testing.T) {
	// Fit through two points of (x-3)^2: the cubic minimizer is the true
	// minimum.
	got := cubicInterpolate(0, 9, -6, 10, 49, 14, 0, 10)
	if math.Abs(got-3) > 1e-10 {
		t.Errorf("quadratic fit: got %v, want 3", got)
	}

	// Minimizer outside the bounds clamps to the nearer bound.
	got = cubicInterpolate(0, 900, -60, 1, 841, -58, 1.01, 10)
	if got != 10 {
		t.Errorf("clamped fit: got %v, want 10", got)
	}

	// Negative discriminant has no real minimizer: bisect.
	got = cubicInterpolate(0, 0, 2, 1, 1, 2, 0, 1)
	if got != 0.5 {
		t.Errorf("bisection fallback: got %v, want 0.5", got)
	}

	// Non-finite inputs also bisect.
	got = cubicInterpolate(0, math.NaN(), -6, 10, 49, 14, 0, 10)
	if got != 5 {
		t.Errorf("NaN input: got %v, want 5", got)
	}
}
