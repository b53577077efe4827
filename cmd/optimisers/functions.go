package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/KGrewal1/optimisers/autodiff"
	"github.com/KGrewal1/optimisers/backend/cpu"
	"github.com/KGrewal1/optimisers/nn"
	"github.com/KGrewal1/optimisers/tensor"
)

// cpuAD is the backend stack the CLI runs on.
type cpuAD = *autodiff.AutodiffBackend[*cpu.Backend]

// objective couples a differentiable loss expression with its parameter
// set. It satisfies optim.Model.
type objective struct {
	params []*nn.Parameter[float64, cpuAD]
	eval   func() *tensor.Tensor[float64, cpuAD]
}

func (o *objective) Loss() (*tensor.Tensor[float64, cpuAD], error) {
	return o.eval(), nil
}

// point returns the current parameter values, flattened in parameter order.
func (o *objective) point() []float64 {
	var out []float64
	for _, p := range o.params {
		out = append(out, p.Tensor().Data()...)
	}
	return out
}

// benchmarkSpec describes one test function: its required arity, canonical
// start, known minimizer, and how to build it as a differentiable model.
type benchmarkSpec struct {
	arity   int       // required start length, 0 for any
	start   []float64 // default start point
	minimum []float64 // known minimizer, nil when dimension-dependent
	build   func(backend cpuAD, start []float64) *objective
}

var benchmarks = map[string]benchmarkSpec{
	"rosenbrock": {
		arity:   2,
		start:   []float64{-1.2, 1},
		minimum: []float64{1, 1},
		build:   buildRosenbrock,
	},
	"sphere": {
		start: []float64{3, -2, 5},
		build: buildSphere,
	},
	"booth": {
		arity:   2,
		start:   []float64{0, 0},
		minimum: []float64{1, 3},
		build:   buildBooth,
	},
	"beale": {
		arity:   2,
		start:   []float64{1, 1},
		minimum: []float64{3, 0.5},
		build:   buildBeale,
	},
}

func benchmarkNames() []string {
	names := make([]string, 0, len(benchmarks))
	for name := range benchmarks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// resolveStart validates the start point for the named benchmark, applying
// its default when start is empty.
func resolveStart(name string, start []float64) ([]float64, error) {
	spec, ok := benchmarks[name]
	if !ok {
		return nil, fmt.Errorf("unknown function %q (have: %s)", name, strings.Join(benchmarkNames(), ", "))
	}
	if len(start) == 0 {
		start = append([]float64(nil), spec.start...)
	}
	if spec.arity != 0 && len(start) != spec.arity {
		return nil, fmt.Errorf("%s expects %d start coordinates, got %d", name, spec.arity, len(start))
	}
	return start, nil
}

// newObjective builds the named benchmark positioned at start.
func newObjective(name string, start []float64, backend cpuAD) (*objective, error) {
	start, err := resolveStart(name, start)
	if err != nil {
		return nil, err
	}
	return benchmarks[name].build(backend, start), nil
}

// parseStart parses a comma-separated coordinate list, e.g. "-1.2,1".
// An empty string means "use the function's default".
func parseStart(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid start coordinate %q", p)
		}
		out[i] = v
	}
	return out, nil
}

func scalarParam(name string, v float64, backend cpuAD) *nn.Parameter[float64, cpuAD] {
	t, err := tensor.FromSlice([]float64{v}, tensor.Shape{1}, backend)
	if err != nil {
		panic(err)
	}
	return nn.NewParameter(name, t)
}

// buildRosenbrock builds f(x,y) = (1-x)^2 + 100(y-x^2)^2.
func buildRosenbrock(backend cpuAD, start []float64) *objective {
	x := scalarParam("x", start[0], backend)
	y := scalarParam("y", start[1], backend)
	return &objective{
		params: []*nn.Parameter[float64, cpuAD]{x, y},
		eval: func() *tensor.Tensor[float64, cpuAD] {
			xt, yt := x.Tensor(), y.Tensor()
			a := xt.SubScalar(1.0)
			b := yt.Sub(xt.Mul(xt))
			return a.Mul(a).Add(b.Mul(b).MulScalar(100.0))
		},
	}
}

// buildSphere builds f(x) = sum(x_i^2) over a vector of any dimension.
func buildSphere(backend cpuAD, start []float64) *objective {
	t, err := tensor.FromSlice(append([]float64(nil), start...), tensor.Shape{len(start)}, backend)
	if err != nil {
		panic(err)
	}
	x := nn.NewParameter("x", t)
	return &objective{
		params: []*nn.Parameter[float64, cpuAD]{x},
		eval: func() *tensor.Tensor[float64, cpuAD] {
			xt := x.Tensor()
			return xt.Mul(xt).Sum()
		},
	}
}

// buildBooth builds f(x,y) = (x+2y-7)^2 + (2x+y-5)^2.
func buildBooth(backend cpuAD, start []float64) *objective {
	x := scalarParam("x", start[0], backend)
	y := scalarParam("y", start[1], backend)
	return &objective{
		params: []*nn.Parameter[float64, cpuAD]{x, y},
		eval: func() *tensor.Tensor[float64, cpuAD] {
			xt, yt := x.Tensor(), y.Tensor()
			t1 := xt.Add(yt.MulScalar(2.0)).SubScalar(7.0)
			t2 := xt.MulScalar(2.0).Add(yt).SubScalar(5.0)
			return t1.Mul(t1).Add(t2.Mul(t2))
		},
	}
}

// buildBeale builds
// f(x,y) = (1.5-x+xy)^2 + (2.25-x+xy^2)^2 + (2.625-x+xy^3)^2.
func buildBeale(backend cpuAD, start []float64) *objective {
	x := scalarParam("x", start[0], backend)
	y := scalarParam("y", start[1], backend)
	return &objective{
		params: []*nn.Parameter[float64, cpuAD]{x, y},
		eval: func() *tensor.Tensor[float64, cpuAD] {
			xt, yt := x.Tensor(), y.Tensor()
			t1 := xt.Mul(yt).Sub(xt).AddScalar(1.5)
			y2 := yt.Mul(yt)
			t2 := xt.Mul(y2).Sub(xt).AddScalar(2.25)
			t3 := xt.Mul(y2.Mul(yt)).Sub(xt).AddScalar(2.625)
			return t1.Mul(t1).Add(t2.Mul(t2)).Add(t3.Mul(t3))
		},
	}
}
