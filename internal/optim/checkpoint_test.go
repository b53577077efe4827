package optim_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KGrewal1/optimisers/internal/autodiff"
	"github.com/KGrewal1/optimisers/internal/backend/cpu"
	"github.com/KGrewal1/optimisers/internal/nn"
	"github.com/KGrewal1/optimisers/internal/optim"
	"github.com/KGrewal1/optimisers/internal/serialization"
	"github.com/KGrewal1/optimisers/internal/tensor"
)

func assertStatesEqual(t *testing.T, want, got map[string]*tensor.RawTensor) {
	t.Helper()

	require.Len(t, got, len(want))
	for k, raw := range want {
		raw2, ok := got[k]
		require.True(t, ok, "missing state entry %q", k)
		assert.Equal(t, raw.DType(), raw2.DType(), "dtype of %q", k)
		assert.True(t, raw.Shape().Equal(raw2.Shape()), "shape of %q", k)
		assert.Equal(t, raw.Data(), raw2.Data(), "data of %q", k)
	}
}

func TestSaveLoadLBFGS(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model, params := newQuadratic(t, backend, []float64{3.0, -2.0})
	opt, err := optim.NewLBFGS(params, optim.ParamsLBFGS{
		LR:       0.1,
		GradConv: optim.MinForce(0),
		StepConv: optim.MinStep(0),
	}, model, backend)
	require.NoError(t, err)

	loss := startLoss(t, backend, model)
	for i := 0; i < 3; i++ {
		outcome, err := opt.BackwardStep(loss)
		require.NoError(t, err)
		loss = outcome.Loss
	}

	path := filepath.Join(t.TempDir(), "lbfgs.optc")
	require.NoError(t, optim.SaveState(path, optim.KindLBFGS, opt))

	backend2 := autodiff.New(cpu.New())
	model2, params2 := newQuadratic(t, backend2, []float64{0.0, 0.0})
	opt2, err := optim.NewLBFGS(params2, optim.ParamsLBFGS{LR: 0.1}, model2, backend2)
	require.NoError(t, err)
	require.NoError(t, optim.LoadState(path, optim.KindLBFGS, opt2))

	assertStatesEqual(t, opt.StateDict(), opt2.StateDict())
}

func TestSaveLoadAdamax(t *testing.T) {
	backend := autodiff.New(cpu.New())
	xt, err := tensor.FromSlice([]float64{3.0, -2.0}, tensor.Shape{2}, backend)
	require.NoError(t, err)
	param := nn.NewParameter("x", xt)

	opt, err := optim.NewAdamax([]*nn.Parameter[float64, adBackend]{param}, optim.ParamsAdaMax{}, backend)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		grad, err := tensor.FromSlice([]float64{1.5, -0.25}, tensor.Shape{2}, backend)
		require.NoError(t, err)
		param.SetGrad(grad)
		require.NoError(t, opt.Step())
	}

	path := filepath.Join(t.TempDir(), "adamax.optc")
	require.NoError(t, optim.SaveState(path, optim.KindAdamax, opt))

	backend2 := autodiff.New(cpu.New())
	xt2, err := tensor.FromSlice([]float64{0.0, 0.0}, tensor.Shape{2}, backend2)
	require.NoError(t, err)
	param2 := nn.NewParameter("x", xt2)
	opt2, err := optim.NewAdamax([]*nn.Parameter[float64, adBackend]{param2}, optim.ParamsAdaMax{}, backend2)
	require.NoError(t, err)
	require.NoError(t, optim.LoadState(path, optim.KindAdamax, opt2))

	assertStatesEqual(t, opt.StateDict(), opt2.StateDict())
	assert.Equal(t, opt.Timestep(), opt2.Timestep())
}

func TestLoadStateKindMismatch(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model, params := newQuadratic(t, backend, []float64{1.0, 1.0})
	opt, err := optim.NewLBFGS(params, optim.ParamsLBFGS{}, model, backend)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "state.optc")
	require.NoError(t, optim.SaveState(path, optim.KindAdamax, opt))

	err = optim.LoadState(path, optim.KindLBFGS, opt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "adamax")

	// An empty kind skips the label check.
	require.NoError(t, optim.LoadState(path, "", opt))
}

func TestLoadStateCorrupt(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model, params := newQuadratic(t, backend, []float64{3.0, -2.0})
	opt, err := optim.NewLBFGS(params, optim.ParamsLBFGS{
		LR:       0.1,
		GradConv: optim.MinForce(0),
		StepConv: optim.MinStep(0),
	}, model, backend)
	require.NoError(t, err)

	loss := startLoss(t, backend, model)
	_, err = opt.BackwardStep(loss)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "state.optc")
	require.NoError(t, optim.SaveState(path, optim.KindLBFGS, opt))

	buf, err := os.ReadFile(path)
	require.NoError(t, err)
	buf[len(buf)-1] ^= 0xFF
	require.NoError(t, os.WriteFile(path, buf, 0o644))

	err = optim.LoadState(path, optim.KindLBFGS, opt)
	assert.ErrorIs(t, err, serialization.ErrChecksumMismatch)
}
