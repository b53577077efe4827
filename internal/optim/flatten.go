package optim

import (
	"fmt"

	"github.com/KGrewal1/optimisers/internal/nn"
	"github.com/KGrewal1/optimisers/internal/tensor"
)

// paramGroup fixes the flattening order of a parameter set at construction
// time. Every flat vector the optimizer handles (gradients, steps, history
// pairs) uses this order and the per-parameter element counts derived from
// it, for the optimizer's whole lifetime.
//
// Flat vectors are float64: reductions and step arithmetic run in double
// precision regardless of the parameter dtype, and values are cast back to
// the parameter dtype only when written into parameter storage.
type paramGroup[T tensor.Float, B tensor.Backend] struct {
	params  []*nn.Parameter[T, B]
	counts  []int
	total   int
	backend B
}

func newParamGroup[T tensor.Float, B tensor.Backend](params []*nn.Parameter[T, B], backend B) (*paramGroup[T, B], error) {
	if len(params) == 0 {
		return nil, ErrNoParameters
	}

	counts := make([]int, len(params))
	total := 0
	for i, p := range params {
		if p.Tensor().Device() != backend.Device() {
			return nil, fmt.Errorf("%w: parameter %q is on %s, backend %q is on %s",
				ErrDeviceMismatch, p.Name(), p.Tensor().Device(), backend.Name(), backend.Device())
		}
		counts[i] = p.Tensor().NumElements()
		total += counts[i]
	}

	return &paramGroup[T, B]{
		params:  params,
		counts:  counts,
		total:   total,
		backend: backend,
	}, nil
}

// raws returns the parameters' raw tensors in flattening order, the form
// the positional gradient collection consumes.
func (g *paramGroup[T, B]) raws() []*tensor.RawTensor {
	raws := make([]*tensor.RawTensor, len(g.params))
	for i, p := range g.params {
		raws[i] = p.Tensor().Raw()
	}
	return raws
}

// flattenGrads concatenates per-parameter gradients into one flat vector in
// the group's order. A nil gradient contributes zeros for its segment. When
// weightDecay is non-zero the decay term is folded in as
// grad + weightDecay*param, so every consumer of the flat gradient sees the
// decayed force.
func (g *paramGroup[T, B]) flattenGrads(grads []*tensor.RawTensor, weightDecay float64) []float64 {
	if len(grads) != len(g.params) {
		panic(fmt.Sprintf("optim: %d gradients for %d parameters", len(grads), len(g.params)))
	}

	flat := make([]float64, g.total)
	offset := 0
	for i, p := range g.params {
		segment := flat[offset : offset+g.counts[i]]
		if grads[i] != nil {
			if grads[i].NumElements() != g.counts[i] {
				panic(fmt.Sprintf("optim: gradient for parameter %q has %d elements, want %d",
					p.Name(), grads[i].NumElements(), g.counts[i]))
			}
			gdata := tensor.New[T](grads[i], g.backend).Data()
			for j, v := range gdata {
				segment[j] = float64(v)
			}
		}
		if weightDecay != 0 {
			pdata := p.Tensor().Data()
			for j := range segment {
				segment[j] += weightDecay * float64(pdata[j])
			}
		}
		offset += g.counts[i]
	}

	return flat
}

// applyStep subtracts each parameter's contiguous segment of step from the
// parameter's storage, in place, in the parameter's own dtype.
func (g *paramGroup[T, B]) applyStep(step []float64) {
	if len(step) != g.total {
		panic(fmt.Sprintf("optim: step length %d does not match %d tracked elements", len(step), g.total))
	}

	offset := 0
	for i, p := range g.params {
		data := p.Tensor().Data()
		for j, v := range step[offset : offset+g.counts[i]] {
			data[j] -= T(v)
		}
		offset += g.counts[i]
	}
}

// readParams copies the parameters' current values into a flat vector.
func (g *paramGroup[T, B]) readParams() []float64 {
	flat := make([]float64, g.total)
	offset := 0
	for i, p := range g.params {
		data := p.Tensor().Data()
		for j, v := range data {
			flat[offset+j] = float64(v)
		}
		offset += g.counts[i]
	}
	return flat
}

// setParams overwrites the parameters from a flat vector.
func (g *paramGroup[T, B]) setParams(flat []float64) {
	if len(flat) != g.total {
		panic(fmt.Sprintf("optim: flat length %d does not match %d tracked elements", len(flat), g.total))
	}

	offset := 0
	for i, p := range g.params {
		data := p.Tensor().Data()
		for j := range data {
			data[j] = T(flat[offset+j])
		}
		offset += g.counts[i]
	}
}
