package optim_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/KGrewal1/optimisers/internal/autodiff"
	"github.com/KGrewal1/optimisers/internal/backend/cpu"
	"github.com/KGrewal1/optimisers/internal/nn"
	"github.com/KGrewal1/optimisers/internal/optim"
	"github.com/KGrewal1/optimisers/internal/tensor"
)

// adBackend abbreviates the autodiff-over-CPU backend the tests
// instantiate everything with.
type adBackend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

// Helper to check float equality with tolerance.
func floatEqual(a, b, eps float32) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < eps
}

// rosenbrockModel evaluates f(x, y) = (x-1)^2 + 100(y-x^2)^2 over two
// single-element parameters. The global minimum is at (1, 1).
type rosenbrockModel struct {
	x *nn.Parameter[float64, adBackend]
	y *nn.Parameter[float64, adBackend]
}

func (m *rosenbrockModel) Loss() (*tensor.Tensor[float64, adBackend], error) {
	x := m.x.Tensor()
	y := m.y.Tensor()
	a := x.SubScalar(1.0)
	b := y.Sub(x.Mul(x))
	return a.Mul(a).Add(b.Mul(b).MulScalar(100.0)), nil
}

func newRosenbrock(t *testing.T, backend adBackend, x0, y0 float64) (*rosenbrockModel, []*nn.Parameter[float64, adBackend]) {
	t.Helper()

	xt, err := tensor.FromSlice([]float64{x0}, tensor.Shape{1, 1}, backend)
	if err != nil {
		t.Fatalf("creating x: %v", err)
	}
	yt, err := tensor.FromSlice([]float64{y0}, tensor.Shape{1, 1}, backend)
	if err != nil {
		t.Fatalf("creating y: %v", err)
	}

	model := &rosenbrockModel{
		x: nn.NewParameter("x", xt),
		y: nn.NewParameter("y", yt),
	}
	return model, []*nn.Parameter[float64, adBackend]{model.x, model.y}
}

// quadraticModel evaluates f(x) = sum(x^2), minimized at the origin.
type quadraticModel struct {
	x *nn.Parameter[float64, adBackend]
}

func (m *quadraticModel) Loss() (*tensor.Tensor[float64, adBackend], error) {
	x := m.x.Tensor()
	return x.Mul(x).Sum(), nil
}

func newQuadratic(t *testing.T, backend adBackend, x0 []float64) (*quadraticModel, []*nn.Parameter[float64, adBackend]) {
	t.Helper()

	xt, err := tensor.FromSlice(x0, tensor.Shape{len(x0)}, backend)
	if err != nil {
		t.Fatalf("creating x: %v", err)
	}
	model := &quadraticModel{x: nn.NewParameter("x", xt)}
	return model, []*nn.Parameter[float64, adBackend]{model.x}
}

// startLoss records the initial loss the optimizer's first BackwardStep
// consumes.
func startLoss(t *testing.T, backend adBackend, model optim.Model[float64, adBackend]) *tensor.Tensor[float64, adBackend] {
	t.Helper()

	backend.Tape().StartRecording()
	loss, err := model.Loss()
	if err != nil {
		t.Fatalf("initial loss: %v", err)
	}
	return loss
}

// runLBFGS drives the training loop until convergence or the step limit.
func runLBFGS(t *testing.T, opt *optim.LBFGS[float64, adBackend], loss *tensor.Tensor[float64, adBackend], steps int) {
	t.Helper()

	for i := 0; i < steps; i++ {
		outcome, err := opt.BackwardStep(loss)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		loss = outcome.Loss
		if outcome.Converged {
			return
		}
	}
}

func assertMinimum(t *testing.T, params []*nn.Parameter[float64, adBackend], wantX, wantY float64) {
	t.Helper()

	x := params[0].Tensor().Data()[0]
	y := params[1].Tensor().Data()[0]
	if !floatEqual(float32(x), float32(wantX), 1e-4) || !floatEqual(float32(y), float32(wantY), 1e-4) {
		t.Errorf("minimum: got (%v, %v), want (%v, %v)", x, y, wantX, wantY)
	}
}

// TestLBFGS_Rosenbrock minimizes Rosenbrock from (10, 10) with fixed-rate
// steps and default settings.
func TestLBFGS_Rosenbrock(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model, params := newRosenbrock(t, backend, 10.0, 10.0)

	opt, err := optim.NewLBFGS(params, optim.ParamsLBFGS{}, model, backend)
	if err != nil {
		t.Fatalf("NewLBFGS: %v", err)
	}

	runLBFGS(t, opt, startLoss(t, backend, model), 500)
	assertMinimum(t, params, 1.0, 1.0)
}

// TestLBFGS_RosenbrockStrongWolfe minimizes Rosenbrock with a strong-Wolfe
// line search choosing the step lengths.
func TestLBFGS_RosenbrockStrongWolfe(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model, params := newRosenbrock(t, backend, 10.0, 10.0)

	opt, err := optim.NewLBFGS(params, optim.ParamsLBFGS{
		LineSearch: optim.StrongWolfe{C1: 1e-4, C2: 0.9, Tolerance: 1e-9},
	}, model, backend)
	if err != nil {
		t.Fatalf("NewLBFGS: %v", err)
	}

	runLBFGS(t, opt, startLoss(t, backend, model), 500)
	assertMinimum(t, params, 1.0, 1.0)
}

// TestLBFGS_RosenbrockRMSForce swaps the gradient test for the RMS variant.
func TestLBFGS_RosenbrockRMSForce(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model, params := newRosenbrock(t, backend, 10.0, 10.0)

	opt, err := optim.NewLBFGS(params, optim.ParamsLBFGS{
		GradConv: optim.RMSForce(1e-6),
	}, model, backend)
	if err != nil {
		t.Fatalf("NewLBFGS: %v", err)
	}

	runLBFGS(t, opt, startLoss(t, backend, model), 500)
	assertMinimum(t, params, 1.0, 1.0)
}

// TestLBFGS_RosenbrockRMSStep converges on step size alone: the gradient
// test is disabled by a zero tolerance, which never fires.
func TestLBFGS_RosenbrockRMSStep(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model, params := newRosenbrock(t, backend, 10.0, 10.0)

	opt, err := optim.NewLBFGS(params, optim.ParamsLBFGS{
		GradConv: optim.RMSForce(0),
		StepConv: optim.RMSStep(1e-7),
	}, model, backend)
	if err != nil {
		t.Fatalf("NewLBFGS: %v", err)
	}

	runLBFGS(t, opt, startLoss(t, backend, model), 500)
	assertMinimum(t, params, 1.0, 1.0)
}

// TestLBFGS_RosenbrockWeightDecay adds an L2 penalty; the run settles away
// from the Rosenbrock minimum.
func TestLBFGS_RosenbrockWeightDecay(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model, params := newRosenbrock(t, backend, 10.0, 10.0)

	opt, err := optim.NewLBFGS(params, optim.ParamsLBFGS{
		LineSearch:  optim.StrongWolfe{C1: 1e-4, C2: 0.9, Tolerance: 1e-9},
		WeightDecay: 0.1,
	}, model, backend)
	if err != nil {
		t.Fatalf("NewLBFGS: %v", err)
	}

	runLBFGS(t, opt, startLoss(t, backend, model), 500)
	assertMinimum(t, params, 2.914, 8.5018)
}

// TestLBFGS_FirstStep checks the first fixed-rate step exactly: with an
// empty history the direction is the gradient scaled by the learning rate,
// and the step applies the learning rate once more, so x' = x(1 - 2*lr^2)
// on f(x) = sum(x^2). It also pins the evaluation count: one backward pass
// on the way in, one re-evaluation after the step.
func TestLBFGS_FirstStep(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model, params := newQuadratic(t, backend, []float64{3.0, -2.0})

	opt, err := optim.NewLBFGS(params, optim.ParamsLBFGS{LR: 0.1}, model, backend)
	if err != nil {
		t.Fatalf("NewLBFGS: %v", err)
	}

	outcome, err := opt.BackwardStep(startLoss(t, backend, model))
	if err != nil {
		t.Fatalf("BackwardStep: %v", err)
	}

	if outcome.Evals != 2 {
		t.Errorf("Evals: got %d, want 2", outcome.Evals)
	}
	if outcome.Converged {
		t.Error("first step should not converge")
	}

	data := params[0].Tensor().Data()
	want := []float64{3.0 * (1 - 2*0.1*0.1), -2.0 * (1 - 2*0.1*0.1)}
	for i := range want {
		if math.Abs(data[i]-want[i]) > 1e-12 {
			t.Errorf("x[%d]: got %v, want %v", i, data[i], want[i])
		}
	}

	got := outcome.Loss.Data()[0]
	wantLoss := want[0]*want[0] + want[1]*want[1]
	if math.Abs(got-wantLoss) > 1e-12 {
		t.Errorf("loss after step: got %v, want %v", got, wantLoss)
	}
}

// TestLBFGS_LearningRate exercises the learning-rate accessors.
func TestLBFGS_LearningRate(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model, params := newQuadratic(t, backend, []float64{1.0})

	opt, err := optim.NewLBFGS(params, optim.ParamsLBFGS{LR: 0.004}, model, backend)
	if err != nil {
		t.Fatalf("NewLBFGS: %v", err)
	}

	if opt.LearningRate() != 0.004 {
		t.Errorf("LearningRate: got %v, want 0.004", opt.LearningRate())
	}
	opt.SetLearningRate(0.002)
	if opt.LearningRate() != 0.002 {
		t.Errorf("LearningRate after set: got %v, want 0.002", opt.LearningRate())
	}
}

// TestLBFGS_ConstructionErrors covers the constructor's failure modes.
func TestLBFGS_ConstructionErrors(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model, params := newQuadratic(t, backend, []float64{1.0})

	_, err := optim.NewLBFGS[float64](nil, optim.ParamsLBFGS{}, model, backend)
	if !errors.Is(err, optim.ErrNoParameters) {
		t.Errorf("empty parameters: got %v, want ErrNoParameters", err)
	}

	_, err = optim.NewLBFGS(params, optim.ParamsLBFGS{}, nil, backend)
	if !errors.Is(err, optim.ErrNilModel) {
		t.Errorf("nil model: got %v, want ErrNilModel", err)
	}

	_, err = optim.NewLBFGS(params, optim.ParamsLBFGS{LR: -1}, model, backend)
	if err == nil {
		t.Error("negative learning rate: expected an error")
	}
}

// TestLBFGS_HistoryBounded runs more steps than the history holds and
// checks the exported state keeps only the newest pairs.
func TestLBFGS_HistoryBounded(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model, params := newQuadratic(t, backend, []float64{3.0, -2.0})

	opt, err := optim.NewLBFGS(params, optim.ParamsLBFGS{
		LR:          0.1,
		HistorySize: 3,
		GradConv:    optim.MinForce(0),
		StepConv:    optim.MinStep(0),
	}, model, backend)
	if err != nil {
		t.Fatalf("NewLBFGS: %v", err)
	}

	loss := startLoss(t, backend, model)
	for i := 0; i < 8; i++ {
		outcome, err := opt.BackwardStep(loss)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		loss = outcome.Loss
		if outcome.Converged {
			t.Fatalf("step %d: zero tolerances should never converge", i)
		}
	}

	state := opt.StateDict()
	for i := 0; i < 3; i++ {
		for _, k := range []string{fmt.Sprintf("hist.%d.s", i), fmt.Sprintf("hist.%d.y", i)} {
			if _, ok := state[k]; !ok {
				t.Errorf("state is missing %q", k)
			}
		}
	}
	if _, ok := state["hist.3.s"]; ok {
		t.Error("state holds more pairs than the history size")
	}
	if raw, ok := state["t"]; !ok || raw.AsInt64()[0] != 8 {
		t.Errorf("t: got %v, want 8", raw)
	}
}

// TestLBFGS_StateDict round-trips optimizer state through a fresh instance.
func TestLBFGS_StateDict(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model, params := newQuadratic(t, backend, []float64{3.0, -2.0})

	opt, err := optim.NewLBFGS(params, optim.ParamsLBFGS{
		LR:       0.1,
		GradConv: optim.MinForce(0),
		StepConv: optim.MinStep(0),
	}, model, backend)
	if err != nil {
		t.Fatalf("NewLBFGS: %v", err)
	}

	loss := startLoss(t, backend, model)
	for i := 0; i < 3; i++ {
		outcome, err := opt.BackwardStep(loss)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		loss = outcome.Loss
	}
	state := opt.StateDict()

	backend2 := autodiff.New(cpu.New())
	model2, params2 := newQuadratic(t, backend2, []float64{0.0, 0.0})
	opt2, err := optim.NewLBFGS(params2, optim.ParamsLBFGS{LR: 0.1}, model2, backend2)
	if err != nil {
		t.Fatalf("NewLBFGS: %v", err)
	}
	if err := opt2.LoadStateDict(state); err != nil {
		t.Fatalf("LoadStateDict: %v", err)
	}

	state2 := opt2.StateDict()
	if len(state2) != len(state) {
		t.Fatalf("restored state has %d entries, want %d", len(state2), len(state))
	}
	for k, raw := range state {
		raw2, ok := state2[k]
		if !ok {
			t.Errorf("restored state is missing %q", k)
			continue
		}
		if raw.DType() == tensor.Float64 {
			a, b := raw.AsFloat64(), raw2.AsFloat64()
			for i := range a {
				if a[i] != b[i] {
					t.Errorf("%s[%d]: got %v, want %v", k, i, b[i], a[i])
				}
			}
		} else if raw.AsInt64()[0] != raw2.AsInt64()[0] {
			t.Errorf("%s: got %d, want %d", k, raw2.AsInt64()[0], raw.AsInt64()[0])
		}
	}
}

// TestLBFGS_LoadStateDictErrors rejects malformed state.
func TestLBFGS_LoadStateDictErrors(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model, params := newQuadratic(t, backend, []float64{3.0, -2.0})

	opt, err := optim.NewLBFGS(params, optim.ParamsLBFGS{}, model, backend)
	if err != nil {
		t.Fatalf("NewLBFGS: %v", err)
	}

	pair, err := tensor.NewRaw(tensor.Shape{2}, tensor.Float64, backend.Device())
	if err != nil {
		t.Fatalf("NewRaw: %v", err)
	}
	if err := opt.LoadStateDict(map[string]*tensor.RawTensor{"hist.0.s": pair}); err == nil {
		t.Error("incomplete history pair: expected an error")
	}

	short, err := tensor.NewRaw(tensor.Shape{5}, tensor.Float64, backend.Device())
	if err != nil {
		t.Fatalf("NewRaw: %v", err)
	}
	if err := opt.LoadStateDict(map[string]*tensor.RawTensor{"last_grad": short}); err == nil {
		t.Error("wrong element count: expected an error")
	}
}

// TestAdamax_FirstStep checks the first update against the closed form:
// with zeroed moments the bias correction cancels the moment decay and the
// step is lr * g / (|g| + eps), essentially a signed unit step.
func TestAdamax_FirstStep(t *testing.T) {
	backend := autodiff.New(cpu.New())

	xt, err := tensor.FromSlice([]float64{3.0, -2.0}, tensor.Shape{2}, backend)
	if err != nil {
		t.Fatalf("creating x: %v", err)
	}
	param := nn.NewParameter("x", xt)

	opt, err := optim.NewAdamax([]*nn.Parameter[float64, adBackend]{param}, optim.ParamsAdaMax{}, backend)
	if err != nil {
		t.Fatalf("NewAdamax: %v", err)
	}

	grad, err := tensor.FromSlice([]float64{1.5, -0.25}, tensor.Shape{2}, backend)
	if err != nil {
		t.Fatalf("creating grad: %v", err)
	}
	param.SetGrad(grad)

	if err := opt.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}

	data := param.Tensor().Data()
	want := []float64{
		3.0 - 1.5/(1.5+1e-8),
		-2.0 + 0.25/(0.25+1e-8),
	}
	for i := range want {
		if math.Abs(data[i]-want[i]) > 1e-9 {
			t.Errorf("x[%d]: got %v, want %v", i, data[i], want[i])
		}
	}
}

// TestAdamax_Quadratic minimizes f(x) = x^2 with manually supplied
// gradients, the way a hand-rolled training loop would drive it.
func TestAdamax_Quadratic(t *testing.T) {
	backend := autodiff.New(cpu.New())

	xt, err := tensor.FromSlice([]float64{3.0}, tensor.Shape{1}, backend)
	if err != nil {
		t.Fatalf("creating x: %v", err)
	}
	param := nn.NewParameter("x", xt)

	opt, err := optim.NewAdamax([]*nn.Parameter[float64, adBackend]{param}, optim.ParamsAdaMax{LR: 0.1}, backend)
	if err != nil {
		t.Fatalf("NewAdamax: %v", err)
	}

	for i := 0; i < 100; i++ {
		x := param.Tensor().Data()[0]
		grad, err := tensor.FromSlice([]float64{2 * x}, tensor.Shape{1}, backend)
		if err != nil {
			t.Fatalf("creating grad: %v", err)
		}
		param.SetGrad(grad)
		if err := opt.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	final := param.Tensor().Data()[0]
	if math.Abs(final) > 0.1 {
		t.Errorf("after 100 steps: x = %v, expected close to 0", final)
	}
}

// TestAdamax_SkipsMissingGradients leaves parameters without a gradient
// untouched while still advancing the shared timestep.
func TestAdamax_SkipsMissingGradients(t *testing.T) {
	backend := autodiff.New(cpu.New())

	at, err := tensor.FromSlice([]float64{1.0}, tensor.Shape{1}, backend)
	if err != nil {
		t.Fatalf("creating a: %v", err)
	}
	bt, err := tensor.FromSlice([]float64{5.0}, tensor.Shape{1}, backend)
	if err != nil {
		t.Fatalf("creating b: %v", err)
	}
	pa := nn.NewParameter("a", at)
	pb := nn.NewParameter("b", bt)

	opt, err := optim.NewAdamax([]*nn.Parameter[float64, adBackend]{pa, pb}, optim.ParamsAdaMax{LR: 0.5}, backend)
	if err != nil {
		t.Fatalf("NewAdamax: %v", err)
	}

	grad, err := tensor.FromSlice([]float64{2.0}, tensor.Shape{1}, backend)
	if err != nil {
		t.Fatalf("creating grad: %v", err)
	}
	pa.SetGrad(grad)

	if err := opt.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}

	if got := pa.Tensor().Data()[0]; got == 1.0 {
		t.Error("parameter with gradient was not updated")
	}
	if got := pb.Tensor().Data()[0]; got != 5.0 {
		t.Errorf("parameter without gradient moved: got %v, want 5", got)
	}
	if opt.Timestep() != 2 {
		t.Errorf("Timestep: got %v, want 2", opt.Timestep())
	}
}

// TestAdamax_LearningRate exercises the learning-rate accessors.
func TestAdamax_LearningRate(t *testing.T) {
	backend := autodiff.New(cpu.New())

	xt, err := tensor.FromSlice([]float64{1.0}, tensor.Shape{1}, backend)
	if err != nil {
		t.Fatalf("creating x: %v", err)
	}
	param := nn.NewParameter("x", xt)

	opt, err := optim.NewAdamax([]*nn.Parameter[float64, adBackend]{param}, optim.ParamsAdaMax{LR: 0.004}, backend)
	if err != nil {
		t.Fatalf("NewAdamax: %v", err)
	}

	if opt.LearningRate() != 0.004 {
		t.Errorf("LearningRate: got %v, want 0.004", opt.LearningRate())
	}
	opt.SetLearningRate(0.002)
	if opt.LearningRate() != 0.002 {
		t.Errorf("LearningRate after set: got %v, want 0.002", opt.LearningRate())
	}
}

// TestAdamax_ZeroGrad clears every tracked parameter's gradient.
func TestAdamax_ZeroGrad(t *testing.T) {
	backend := autodiff.New(cpu.New())

	xt, err := tensor.FromSlice([]float64{1.0}, tensor.Shape{1}, backend)
	if err != nil {
		t.Fatalf("creating x: %v", err)
	}
	param := nn.NewParameter("x", xt)

	grad, err := tensor.FromSlice([]float64{5.0}, tensor.Shape{1}, backend)
	if err != nil {
		t.Fatalf("creating grad: %v", err)
	}
	param.SetGrad(grad)

	opt, err := optim.NewAdamax([]*nn.Parameter[float64, adBackend]{param}, optim.ParamsAdaMax{}, backend)
	if err != nil {
		t.Fatalf("NewAdamax: %v", err)
	}

	opt.ZeroGrad()
	if param.Grad() != nil {
		t.Error("Grad should be nil after ZeroGrad")
	}
}

// TestAdamax_StateDict round-trips moment buffers and the timestep.
func TestAdamax_StateDict(t *testing.T) {
	backend := autodiff.New(cpu.New())

	xt, err := tensor.FromSlice([]float64{3.0, -2.0}, tensor.Shape{2}, backend)
	if err != nil {
		t.Fatalf("creating x: %v", err)
	}
	param := nn.NewParameter("x", xt)

	opt, err := optim.NewAdamax([]*nn.Parameter[float64, adBackend]{param}, optim.ParamsAdaMax{LR: 0.1}, backend)
	if err != nil {
		t.Fatalf("NewAdamax: %v", err)
	}

	grad, err := tensor.FromSlice([]float64{1.0, -1.0}, tensor.Shape{2}, backend)
	if err != nil {
		t.Fatalf("creating grad: %v", err)
	}
	param.SetGrad(grad)
	if err := opt.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if err := opt.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	state := opt.StateDict()

	x2, err := tensor.FromSlice([]float64{0.0, 0.0}, tensor.Shape{2}, backend)
	if err != nil {
		t.Fatalf("creating x2: %v", err)
	}
	param2 := nn.NewParameter("x", x2)
	opt2, err := optim.NewAdamax([]*nn.Parameter[float64, adBackend]{param2}, optim.ParamsAdaMax{LR: 0.1}, backend)
	if err != nil {
		t.Fatalf("NewAdamax: %v", err)
	}
	if err := opt2.LoadStateDict(state); err != nil {
		t.Fatalf("LoadStateDict: %v", err)
	}

	if opt2.Timestep() != opt.Timestep() {
		t.Errorf("Timestep: got %v, want %v", opt2.Timestep(), opt.Timestep())
	}
	state2 := opt2.StateDict()
	for _, k := range []string{"m.0", "u.0"} {
		a := state[k].AsFloat64()
		b := state2[k].AsFloat64()
		for i := range a {
			if a[i] != b[i] {
				t.Errorf("%s[%d]: got %v, want %v", k, i, b[i], a[i])
			}
		}
	}

	// Malformed state is rejected.
	if err := opt2.LoadStateDict(map[string]*tensor.RawTensor{}); err == nil {
		t.Error("missing moments: expected an error")
	}
	bad, err := tensor.NewRaw(tensor.Shape{3}, tensor.Float64, backend.Device())
	if err != nil {
		t.Fatalf("NewRaw: %v", err)
	}
	if err := opt2.LoadStateDict(map[string]*tensor.RawTensor{"m.0": bad, "u.0": bad}); err == nil {
		t.Error("wrong shape: expected an error")
	}
}

// TestAdamax_ConstructionErrors covers the constructor's failure modes.
func TestAdamax_ConstructionErrors(t *testing.T) {
	backend := autodiff.New(cpu.New())

	_, err := optim.NewAdamax[float64](nil, optim.ParamsAdaMax{}, backend)
	if !errors.Is(err, optim.ErrNoParameters) {
		t.Errorf("empty parameters: got %v, want ErrNoParameters", err)
	}

	xt, err := tensor.FromSlice([]float64{1.0}, tensor.Shape{1}, backend)
	if err != nil {
		t.Fatalf("creating x: %v", err)
	}
	param := nn.NewParameter("x", xt)
	_, err = optim.NewAdamax([]*nn.Parameter[float64, adBackend]{param}, optim.ParamsAdaMax{LR: -0.1}, backend)
	if err == nil {
		t.Error("negative learning rate: expected an error")
	}
}
