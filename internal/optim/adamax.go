package optim

import (
	"fmt"
	"math"

	"github.com/KGrewal1/optimisers/internal/nn"
	"github.com/KGrewal1/optimisers/internal/tensor"
)

// ParamsAdaMax configures the Adamax optimizer. Zero values select the
// defaults noted on each field.
type ParamsAdaMax struct {
	LR          float64 // learning rate, default 1.0
	Beta1       float64 // first-moment decay, default 0.9
	Beta2       float64 // infinity-norm decay, default 0.999
	WeightDecay float64 // L2 penalty folded into the gradient, default 0
	Eps         float64 // term added inside the max, default 1e-8
}

// Adamax implements the Adamax optimizer, the infinity-norm variant of
// Adam (https://arxiv.org/abs/1412.6980, section 7.1):
//
//	m = beta1*m + (1-beta1)*g
//	u = max(beta2*u, |g| + eps)
//	theta -= lr*m / (u * (1 - beta1^t))
//
// Gradients are read from each parameter's gradient slot; parameters
// without a gradient are skipped. Moment buffers match the parameter
// dtype, but the per-element update runs in float64.
type Adamax[T tensor.Float, B tensor.Backend] struct {
	group   *paramGroup[T, B]
	config  ParamsAdaMax
	backend B
	m       []*tensor.Tensor[T, B]
	u       []*tensor.Tensor[T, B]
	t       float64
}

// NewAdamax creates an Adamax optimizer over the given parameters, with
// zeroed moment buffers shaped like each parameter.
func NewAdamax[T tensor.Float, B tensor.Backend](params []*nn.Parameter[T, B], config ParamsAdaMax, backend B) (*Adamax[T, B], error) {
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
	if config.Beta1 == 0 {
		config.Beta1 = 0.9
	}
	if config.Beta2 == 0 {
		config.Beta2 = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}

	m := make([]*tensor.Tensor[T, B], len(params))
	u := make([]*tensor.Tensor[T, B], len(params))
	for i, p := range params {
		m[i] = tensor.Zeros[T](p.Tensor().Shape(), backend)
		u[i] = tensor.Zeros[T](p.Tensor().Shape(), backend)
	}

	return &Adamax[T, B]{
		group:   group,
		config:  config,
		backend: backend,
		m:       m,
		u:       u,
		t:       1,
	}, nil
}

// Step applies one Adamax update to every parameter that has a gradient,
// then advances the timestep. The timestep increments once per Step, not
// per parameter, so all parameters share one bias correction.
func (a *Adamax[T, B]) Step() error {
	for i, p := range a.group.params {
		grad := p.Grad()
		if grad == nil {
			continue
		}
		if grad.NumElements() != a.group.counts[i] {
			return fmt.Errorf("optim: gradient for %q has %d elements, parameter has %d",
				p.Name(), grad.NumElements(), a.group.counts[i])
		}
		a.updateParameter(p, grad, a.m[i], a.u[i])
	}
	a.t++
	return nil
}

func (a *Adamax[T, B]) updateParameter(p *nn.Parameter[T, B], grad, m, u *tensor.Tensor[T, B]) {
	pdata := p.Tensor().Data()
	gdata := grad.Data()
	mdata := m.Data()
	udata := u.Data()

	lr := a.config.LR
	beta1 := a.config.Beta1
	beta2 := a.config.Beta2
	wd := a.config.WeightDecay
	eps := a.config.Eps
	biasCorr := 1 - math.Pow(beta1, a.t)

	for j := range pdata {
		g := float64(gdata[j])
		if wd != 0 {
			g += wd * float64(pdata[j])
		}
		mv := beta1*float64(mdata[j]) + (1-beta1)*g
		uv := math.Max(beta2*float64(udata[j]), math.Abs(g)+eps)
		mdata[j] = T(mv)
		udata[j] = T(uv)
		pdata[j] -= T(lr * mv / (uv * biasCorr))
	}
}

// LearningRate returns the configured learning rate.
func (a *Adamax[T, B]) LearningRate() float64 {
	return a.config.LR
}

// SetLearningRate replaces the learning rate for subsequent steps.
func (a *Adamax[T, B]) SetLearningRate(lr float64) {
	a.config.LR = lr
}

// Timestep reports the current timestep; it starts at 1 and advances once
// per Step.
func (a *Adamax[T, B]) Timestep() float64 {
	return a.t
}

// ZeroGrad clears the tracked parameters' gradient slots.
func (a *Adamax[T, B]) ZeroGrad() {
	for _, p := range a.group.params {
		p.ZeroGrad()
	}
}

// IntoInner releases the tracked parameters back to the caller.
func (a *Adamax[T, B]) IntoInner() []*nn.Parameter[T, B] {
	return a.group.params
}

// StateDict exports the moment buffers as m.{i} and u.{i}, indexed by
// parameter position, plus the timestep. The returned moment tensors alias
// live optimizer state.
func (a *Adamax[T, B]) StateDict() map[string]*tensor.RawTensor {
	state := make(map[string]*tensor.RawTensor, 2*len(a.m)+1)
	for i := range a.m {
		state[fmt.Sprintf("m.%d", i)] = a.m[i].Raw()
		state[fmt.Sprintf("u.%d", i)] = a.u[i].Raw()
	}
	state["t"] = counterToRaw(int64(a.t), a.backend.Device())
	return state
}

// LoadStateDict restores state exported by StateDict. Moment tensors must
// match each parameter's shape and dtype; a missing timestep resets to 1.
func (a *Adamax[T, B]) LoadStateDict(state map[string]*tensor.RawTensor) error {
	for i := range a.m {
		if err := a.loadMoment(state, fmt.Sprintf("m.%d", i), a.m[i]); err != nil {
			return err
		}
		if err := a.loadMoment(state, fmt.Sprintf("u.%d", i), a.u[i]); err != nil {
			return err
		}
	}

	a.t = 1
	if tRaw, ok := state["t"]; ok {
		v, err := counterFromRaw(tRaw)
		if err != nil {
			return fmt.Errorf("optim: t: %w", err)
		}
		a.t = float64(v)
	}

	return nil
}

func (a *Adamax[T, B]) loadMoment(state map[string]*tensor.RawTensor, key string, dst *tensor.Tensor[T, B]) error {
	raw, ok := state[key]
	if !ok {
		return fmt.Errorf("optim: state is missing %q", key)
	}
	if raw.DType() != dst.DType() {
		return fmt.Errorf("optim: %s is %s, want %s", key, raw.DType(), dst.DType())
	}
	if !raw.Shape().Equal(dst.Shape()) {
		return fmt.Errorf("optim: %s has shape %v, want %v", key, raw.Shape(), dst.Shape())
	}
	copy(dst.Data(), tensor.New[T](raw, a.backend).Data())
	return nil
}
