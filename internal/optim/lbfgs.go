package optim

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/KGrewal1/optimisers/internal/autodiff"
	"github.com/KGrewal1/optimisers/internal/nn"
	"github.com/KGrewal1/optimisers/internal/tensor"
)

// ParamsLBFGS configures the L-BFGS optimizer. Zero values select the
// defaults noted on each field.
type ParamsLBFGS struct {
	LR          float64    // learning rate, default 1.0
	MaxIter     int        // line-search iteration budget per step, default 20
	MaxEval     int        // model evaluation budget per step, default MaxIter*5/4
	HistorySize int        // curvature pairs retained, default 100
	LineSearch  LineSearch // nil for a fixed learning-rate step
	GradConv    GradConv   // default MinForce(1e-7)
	StepConv    StepConv   // default MinStep(1e-9)
	WeightDecay float64    // L2 penalty folded into the gradient, default 0
}

// LBFGS is a limited-memory BFGS optimizer.
//
// Each BackwardStep computes a quasi-Newton direction by the two-loop
// recursion over a bounded history of (step, gradient-delta) pairs, scales
// it by either the fixed learning rate or a strong-Wolfe line search,
// applies it to the parameters in place, and classifies convergence.
// The method is described in Nocedal, Updating quasi-Newton matrices with
// limited storage (https://link.springer.com/article/10.1007/BF01589116).
//
// All flat-vector arithmetic runs in float64 regardless of the parameter
// dtype; parameter storage is only touched when a step is applied.
type LBFGS[T tensor.Float, B autodiff.BackwardCapable] struct {
	group    *paramGroup[T, B]
	model    Model[T, B]
	backend  B
	config   ParamsLBFGS
	hist     *history
	lastGrad []float64
	t        int64
}

// NewLBFGS creates an L-BFGS optimizer over the given parameters.
//
// The parameter order fixes the flat-vector layout for the optimizer's
// lifetime. Construction fails on an empty parameter list, a nil model, a
// device mismatch with the backend, or a negative learning rate.
func NewLBFGS[T tensor.Float, B autodiff.BackwardCapable](params []*nn.Parameter[T, B], config ParamsLBFGS, model Model[T, B], backend B) (*LBFGS[T, B], error) {
	if model == nil {
		return nil, ErrNilModel
	}
	group, err := newParamGroup(params, backend)
	if err != nil {
		return nil, err
	}

	if config.LR < 0 {
		return nil, fmt.Errorf("optim: learning rate must be positive, got %v", config.LR)
	}
	if config.LR == 0 {
		config.LR = 1.0
	}
	if config.MaxIter == 0 {
		config.MaxIter = 20
	}
	if config.MaxEval == 0 {
		config.MaxEval = config.MaxIter * 5 / 4
	}
	if config.HistorySize == 0 {
		config.HistorySize = 100
	}
	if config.GradConv == nil {
		config.GradConv = MinForce(1e-7)
	}
	if config.StepConv == nil {
		config.StepConv = MinStep(1e-9)
	}
	switch ls := config.LineSearch.(type) {
	case StrongWolfe:
		config.LineSearch = withWolfeDefaults(ls)
	case *StrongWolfe:
		config.LineSearch = withWolfeDefaults(*ls)
	}

	return &LBFGS[T, B]{
		group:   group,
		model:   model,
		backend: backend,
		config:  config,
		hist:    newHistory(config.HistorySize),
	}, nil
}

func withWolfeDefaults(ls StrongWolfe) StrongWolfe {
	if ls.C1 == 0 {
		ls.C1 = 1e-4
	}
	if ls.C2 == 0 {
		ls.C2 = 0.9
	}
	if ls.Tolerance == 0 {
		ls.Tolerance = 1e-9
	}
	return ls
}

// BackwardStep advances the minimization by one outer step.
//
// loss must be the most recently evaluated loss, with its computation
// still recorded on the backend's tape; the first call uses the loss the
// caller recorded before constructing the loop, every later call uses the
// loss carried by the previous StepOutcome. The returned outcome's loss is
// recorded at the post-step parameter values the same way.
//
// Evals counts model evaluations: one for the entry gradient, plus one per
// line-search trial, or one fixed re-evaluation when no line search is
// configured.
func (l *LBFGS[T, B]) BackwardStep(loss *tensor.Tensor[T, B]) (StepOutcome[T, B], error) {
	evals := 1
	grad := l.entryGradient(loss)

	// Gradient delta for this step's history pair, computed against the
	// previous entry gradient before it is replaced. The first step has no
	// previous gradient and seeds the pair with the gradient itself.
	var yk []float64
	if l.lastGrad == nil {
		yk = append([]float64(nil), grad...)
		l.lastGrad = append([]float64(nil), grad...)
	} else {
		yk = make([]float64, len(grad))
		floats.SubTo(yk, grad, l.lastGrad)
		copy(l.lastGrad, grad)
	}

	q := l.direction(grad)

	var (
		newLoss *tensor.Tensor[T, B]
		newGrad []float64
		err     error
	)
	if ls, ok := l.config.LineSearch.(StrongWolfe); ok {
		var lsEvals int
		newLoss, newGrad, lsEvals, err = l.wolfeStep(ls, lossValue(loss), grad, q)
		evals += lsEvals
	} else {
		floats.Scale(l.config.LR, q)
		l.group.applyStep(q)
		newLoss, newGrad, err = l.evaluate()
		evals++
	}
	if err != nil {
		return StepOutcome[T, B]{}, err
	}

	l.hist.push(historyPair{s: q, y: yk})
	l.t++

	converged := l.config.GradConv.gradConverged(newGrad) || l.config.StepConv.stepConverged(q)

	return StepOutcome[T, B]{Loss: newLoss, Evals: evals, Converged: converged}, nil
}

// entryGradient backward-passes the recorded loss and flattens the result,
// folding in weight decay.
func (l *LBFGS[T, B]) entryGradient(loss *tensor.Tensor[T, B]) []float64 {
	grads := autodiff.Gradients(loss, l.backend, l.group.raws())
	return l.group.flattenGrads(grads, l.config.WeightDecay)
}

// evaluate records a fresh loss at the parameters' current values and
// returns it with its flat gradient. The tape is cleared first, so the
// recorded graph matches exactly the state the parameters are in.
func (l *LBFGS[T, B]) evaluate() (*tensor.Tensor[T, B], []float64, error) {
	l.backend.GetTape().Clear()
	loss, err := l.model.Loss()
	if err != nil {
		return nil, nil, fmt.Errorf("optim: model evaluation failed: %w", err)
	}
	grads := autodiff.Gradients(loss, l.backend, l.group.raws())
	return loss, l.group.flattenGrads(grads, l.config.WeightDecay), nil
}

// direction runs the two-loop recursion, producing the approximate
// inverse-Hessian times gradient. With an empty history this reduces to
// scaling the gradient by the learning rate.
//
// Both loops walk the stored pairs oldest to newest; the second loop pairs
// each entry with the alpha and rho recorded for it by the first. A tiny or
// negative y·s is used as-is: no damping, no skip rule, so results track
// the reference trajectories exactly.
func (l *LBFGS[T, B]) direction(grad []float64) []float64 {
	q := append([]float64(nil), grad...)

	gamma := l.config.LR
	if newest, ok := l.hist.newest(); ok {
		gamma = floats.Dot(newest.y, newest.s) / floats.Dot(newest.y, newest.y)
	}

	rhos := make([]float64, 0, l.hist.size())
	alphas := make([]float64, 0, l.hist.size())
	for _, pair := range l.hist.pairs {
		rho := 1 / floats.Dot(pair.y, pair.s)
		alpha := rho * floats.Dot(pair.s, q)
		floats.AddScaled(q, -alpha, pair.y)
		rhos = append(rhos, rho)
		alphas = append(alphas, alpha)
	}

	floats.Scale(gamma, q)

	for i, pair := range l.hist.pairs {
		beta := rhos[i] * floats.Dot(pair.y, q)
		floats.AddScaled(q, alphas[i]-beta, pair.s)
	}

	return q
}

// wolfeStep refines the step length along q by strong-Wolfe search, leaves
// the parameters at the accepted point, and returns the loss and flat
// gradient there. q is scaled in place to the step actually applied.
func (l *LBFGS[T, B]) wolfeStep(ls StrongWolfe, f0 float64, grad, q []float64) (*tensor.Tensor[T, B], []float64, int, error) {
	x0 := l.group.readParams()

	// The search ray is x0 + t*d with d = -q, so the accepted step length
	// t turns into the applied update params -= t*q.
	d := make([]float64, len(q))
	floats.ScaleTo(d, -1, q)

	xt := make([]float64, len(x0))
	var lastT float64
	var lastLoss *tensor.Tensor[T, B]
	eval := func(t float64) (float64, []float64, error) {
		floats.AddScaledTo(xt, x0, t, d)
		l.group.setParams(xt)
		trialLoss, trialGrad, err := l.evaluate()
		if err != nil {
			return 0, nil, err
		}
		lastT = t
		lastLoss = trialLoss
		return lossValue(trialLoss), trialGrad, nil
	}

	accepted, lsEvals, err := strongWolfe(eval, d, l.config.LR, f0, grad, ls.C1, ls.C2, ls.Tolerance, l.config.MaxEval)
	if err != nil {
		return nil, nil, lsEvals, err
	}

	floats.Scale(accepted.t, q)

	if lastLoss != nil && accepted.t == lastT {
		// The parameters already sit at the accepted point and its
		// evaluation is the latest recording on the tape.
		return lastLoss, accepted.g, lsEvals, nil
	}

	// The search settled on an earlier point (budget exhaustion or bracket
	// collapse): move there and re-record the loss so the tape matches the
	// parameters again.
	l.group.setParams(x0)
	l.group.applyStep(q)
	newLoss, newGrad, err := l.evaluate()
	if err != nil {
		return nil, nil, lsEvals, err
	}
	return newLoss, newGrad, lsEvals + 1, nil
}

// LearningRate returns the configured learning rate.
func (l *LBFGS[T, B]) LearningRate() float64 {
	return l.config.LR
}

// SetLearningRate replaces the learning rate used for fixed-length steps
// and for the initial Hessian scaling while the history is still empty.
func (l *LBFGS[T, B]) SetLearningRate(lr float64) {
	l.config.LR = lr
}

// ZeroGrad clears the tracked parameters' gradient slots.
func (l *LBFGS[T, B]) ZeroGrad() {
	for _, p := range l.group.params {
		p.ZeroGrad()
	}
}

// IntoInner releases the tracked parameters back to the caller.
func (l *LBFGS[T, B]) IntoInner() []*nn.Parameter[T, B] {
	return l.group.params
}

// StateDict exports the optimizer state: history pairs as hist.{i}.s and
// hist.{i}.y with i counting from the oldest, the last entry gradient, and
// the completed step count.
func (l *LBFGS[T, B]) StateDict() map[string]*tensor.RawTensor {
	state := make(map[string]*tensor.RawTensor, 2*l.hist.size()+2)
	device := l.backend.Device()

	for i, pair := range l.hist.pairs {
		state[fmt.Sprintf("hist.%d.s", i)] = float64sToRaw(pair.s, device)
		state[fmt.Sprintf("hist.%d.y", i)] = float64sToRaw(pair.y, device)
	}
	if l.lastGrad != nil {
		state["last_grad"] = float64sToRaw(l.lastGrad, device)
	}
	state["t"] = counterToRaw(l.t, device)

	return state
}

// LoadStateDict restores state exported by StateDict. Every vector must
// have the tracked parameters' total element count; history pairs must be
// contiguous from index zero.
func (l *LBFGS[T, B]) LoadStateDict(state map[string]*tensor.RawTensor) error {
	l.hist.clear()
	for i := 0; ; i++ {
		sRaw, okS := state[fmt.Sprintf("hist.%d.s", i)]
		yRaw, okY := state[fmt.Sprintf("hist.%d.y", i)]
		if !okS && !okY {
			break
		}
		if !okS || !okY {
			return fmt.Errorf("optim: history pair %d is incomplete", i)
		}
		s, err := rawToFloat64s(sRaw, l.group.total)
		if err != nil {
			return fmt.Errorf("optim: hist.%d.s: %w", i, err)
		}
		y, err := rawToFloat64s(yRaw, l.group.total)
		if err != nil {
			return fmt.Errorf("optim: hist.%d.y: %w", i, err)
		}
		l.hist.push(historyPair{s: s, y: y})
	}

	l.lastGrad = nil
	if lg, ok := state["last_grad"]; ok {
		v, err := rawToFloat64s(lg, l.group.total)
		if err != nil {
			return fmt.Errorf("optim: last_grad: %w", err)
		}
		l.lastGrad = v
	}

	l.t = 0
	if tRaw, ok := state["t"]; ok {
		v, err := counterFromRaw(tRaw)
		if err != nil {
			return fmt.Errorf("optim: t: %w", err)
		}
		l.t = v
	}

	return nil
}

// lossValue reads a loss tensor as a float64 scalar. Losses are scalar by
// contract; single-element shapes such as (1,1) read the same way.
func lossValue[T tensor.Float, B tensor.Backend](loss *tensor.Tensor[T, B]) float64 {
	return float64(loss.Data()[0])
}

func float64sToRaw(v []float64, device tensor.Device) *tensor.RawTensor {
	raw, err := tensor.NewRaw(tensor.Shape{len(v)}, tensor.Float64, device)
	if err != nil {
		panic(fmt.Sprintf("optim: allocating state tensor: %v", err))
	}
	copy(raw.AsFloat64(), v)
	return raw
}

func rawToFloat64s(raw *tensor.RawTensor, want int) ([]float64, error) {
	if raw.DType() != tensor.Float64 {
		return nil, fmt.Errorf("expected float64, got %s", raw.DType())
	}
	if raw.NumElements() != want {
		return nil, fmt.Errorf("expected %d elements, got %d", want, raw.NumElements())
	}
	return append([]float64(nil), raw.AsFloat64()...), nil
}

func counterToRaw(t int64, device tensor.Device) *tensor.RawTensor {
	raw, err := tensor.NewRaw(tensor.Shape{1}, tensor.Int64, device)
	if err != nil {
		panic(fmt.Sprintf("optim: allocating state tensor: %v", err))
	}
	raw.AsInt64()[0] = t
	return raw
}

func counterFromRaw(raw *tensor.RawTensor) (int64, error) {
	if raw.DType() != tensor.Int64 || raw.NumElements() != 1 {
		return 0, fmt.Errorf("expected a single int64, got %s %v", raw.DType(), raw.Shape())
	}
	return raw.AsInt64()[0], nil
}
