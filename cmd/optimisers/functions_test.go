package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KGrewal1/optimisers/autodiff"
	"github.com/KGrewal1/optimisers/backend/cpu"
	"github.com/KGrewal1/optimisers/tensor"
)

func newBackend() cpuAD {
	return autodiff.New(cpu.New())
}

// lossAt builds the named benchmark at the given point and evaluates it once.
func lossAt(t *testing.T, name string, point []float64) float64 {
	t.Helper()
	model, err := newObjective(name, point, newBackend())
	require.NoError(t, err)
	loss, err := model.Loss()
	require.NoError(t, err)
	return loss.Data()[0]
}

func TestBenchmarkValues(t *testing.T) {
	tests := []struct {
		name  string
		point []float64
		want  float64
	}{
		{"rosenbrock", []float64{-1.2, 1}, 24.2},
		{"rosenbrock", []float64{1, 1}, 0},
		{"sphere", []float64{3, -4}, 25},
		{"booth", []float64{0, 0}, 74},
		{"booth", []float64{1, 3}, 0},
		{"beale", []float64{3, 0.5}, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, lossAt(t, tt.name, tt.point), 1e-9, "%s at %v", tt.name, tt.point)
	}
}

// TestBenchmarkDefaults evaluates every registered benchmark at its default
// start and, where the minimizer is known, checks the loss vanishes there.
func TestBenchmarkDefaults(t *testing.T) {
	for name, spec := range benchmarks {
		got := lossAt(t, name, nil)
		assert.False(t, math.IsNaN(got) || math.IsInf(got, 0), "%s at default start: %v", name, got)
		if spec.minimum != nil {
			assert.InDelta(t, 0, lossAt(t, name, spec.minimum), 1e-12, "%s at its minimum", name)
		}
	}
}

// TestRosenbrockGradient checks the backward pass against the analytic
// gradient df/dx = 2(x-1) - 400x(y-x^2), df/dy = 200(y-x^2).
func TestRosenbrockGradient(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	model, err := newObjective("rosenbrock", []float64{-1.2, 1}, backend)
	require.NoError(t, err)
	loss, err := model.Loss()
	require.NoError(t, err)

	raws := make([]*tensor.RawTensor, len(model.params))
	for i, p := range model.params {
		raws[i] = p.Tensor().Raw()
	}
	grads := autodiff.Gradients(loss, backend, raws)
	require.Len(t, grads, 2)
	require.NotNil(t, grads[0])
	require.NotNil(t, grads[1])

	assert.InDelta(t, -215.6, grads[0].AsFloat64()[0], 1e-9)
	assert.InDelta(t, -88.0, grads[1].AsFloat64()[0], 1e-9)
}

func TestResolveStart(t *testing.T) {
	start, err := resolveStart("rosenbrock", nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1.2, 1}, start)

	start, err = resolveStart("sphere", []float64{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Len(t, start, 4)

	_, err = resolveStart("rosenbrock", []float64{1})
	assert.ErrorContains(t, err, "expects 2")

	_, err = resolveStart("nope", nil)
	assert.ErrorContains(t, err, "unknown function")
}

func TestParseStart(t *testing.T) {
	got, err := parseStart("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = parseStart("-1.2,1")
	require.NoError(t, err)
	assert.Equal(t, []float64{-1.2, 1}, got)

	got, err = parseStart(" 3 , 4.5 ")
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4.5}, got)

	_, err = parseStart("1,abc")
	assert.ErrorContains(t, err, "invalid start coordinate")
}
