package nn_test

import (
	"math"
	"testing"

	"github.com/KGrewal1/optimisers/internal/autodiff"
	"github.com/KGrewal1/optimisers/internal/backend/cpu"
	"github.com/KGrewal1/optimisers/internal/nn"
	"github.com/KGrewal1/optimisers/internal/tensor"
)

// Helper to check if values are approximately equal.
//
//nolint:unparam // epsilon is always 1e-5 in tests, but keeping it as parameter for flexibility
func floatEqual(a, b, epsilon float32) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < epsilon
}

// TestParameter tests Parameter creation and methods.
func TestParameter(t *testing.T) {
	backend := autodiff.New(cpu.New())

	// Create a parameter
	data, _ := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3}, backend)
	param := nn.NewParameter("test_param", data)

	// Test Name
	if param.Name() != "test_param" {
		t.Errorf("Name() = %s, want test_param", param.Name())
	}

	// Test Tensor
	if param.Tensor() != data {
		t.Error("Tensor() should return the original tensor")
	}

	// Test Grad (initially nil)
	if param.Grad() != nil {
		t.Error("Grad() should initially be nil")
	}

	// Test SetGrad
	grad, _ := tensor.FromSlice([]float32{0.1, 0.2, 0.3}, tensor.Shape{3}, backend)
	param.SetGrad(grad)
	if param.Grad() != grad {
		t.Error("SetGrad() should set the gradient")
	}

	// Test ZeroGrad
	param.ZeroGrad()
	if param.Grad() != nil {
		t.Error("ZeroGrad() should clear the gradient")
	}
}

// TestLinear_Creation tests Linear layer initialization.
func TestLinear_Creation(t *testing.T) {
	backend := autodiff.New(cpu.New())

	layer := nn.NewLinear[float32](10, 5, backend)

	// Check dimensions
	if layer.InFeatures() != 10 {
		t.Errorf("InFeatures() = %d, want 10", layer.InFeatures())
	}
	if layer.OutFeatures() != 5 {
		t.Errorf("OutFeatures() = %d, want 5", layer.OutFeatures())
	}

	// Check weight shape: [out_features, in_features]
	weight := layer.Weight().Tensor()
	expectedShape := tensor.Shape{5, 10}
	if !weight.Shape().Equal(expectedShape) {
		t.Errorf("Weight shape = %v, want %v", weight.Shape(), expectedShape)
	}

	// Check bias shape: [out_features]
	bias := layer.Bias().Tensor()
	expectedBiasShape := tensor.Shape{5}
	if !bias.Shape().Equal(expectedBiasShape) {
		t.Errorf("Bias shape = %v, want %v", bias.Shape(), expectedBiasShape)
	}

	// Check bias is zeros
	biasData := bias.Raw().AsFloat32()
	for i, v := range biasData {
		if v != 0 {
			t.Errorf("Bias[%d] = %f, want 0", i, v)
		}
	}

	// Check parameters
	params := layer.Parameters()
	if len(params) != 2 {
		t.Errorf("Parameters() length = %d, want 2", len(params))
	}
}

// TestLinear_Forward tests Linear layer forward pass.
func TestLinear_Forward(t *testing.T) {
	backend := autodiff.New(cpu.New())

	// Create a simple 2x2 linear layer for easy verification
	layer := nn.NewLinear[float32](2, 2, backend)

	// Set known weights and bias for testing
	// Weight: [[1, 2], [3, 4]] (out=2, in=2)
	weightData := []float32{1, 2, 3, 4}
	copy(layer.Weight().Tensor().Raw().AsFloat32(), weightData)

	// Bias: [0.5, 1.0]
	biasData := []float32{0.5, 1.0}
	copy(layer.Bias().Tensor().Raw().AsFloat32(), biasData)

	// Input: [[1, 1]] (batch=1, in=2)
	input, _ := tensor.FromSlice([]float32{1, 1}, tensor.Shape{1, 2}, backend)

	// Forward pass
	output := layer.Forward(input)

	// Expected:
	// y = x @ W.T + b
	// W.T = [[1, 3], [2, 4]] (transpose of [2,2])
	// x @ W.T = [1, 1] @ [[1, 3], [2, 4]] = [1*1+1*2, 1*3+1*4] = [3, 7]
	// y = [3, 7] + [0.5, 1.0] = [3.5, 8.0]

	expected := []float32{3.5, 8.0}
	actual := output.Raw().AsFloat32()

	for i, exp := range expected {
		if !floatEqual(actual[i], exp, 1e-5) {
			t.Errorf("Output[%d] = %f, want %f", i, actual[i], exp)
		}
	}

	// Check output shape: [1, 2]
	expectedShape := tensor.Shape{1, 2}
	if !output.Shape().Equal(expectedShape) {
		t.Errorf("Output shape = %v, want %v", output.Shape(), expectedShape)
	}
}

// TestLinear_ForwardBatch tests Linear with batch input.
func TestLinear_ForwardBatch(t *testing.T) {
	backend := autodiff.New(cpu.New())

	layer := nn.NewLinear[float32](3, 2, backend)

	// Input: batch_size=4, in_features=3
	input := tensor.Randn[float32](tensor.Shape{4, 3}, backend)

	output := layer.Forward(input)

	// Check output shape: [4, 2]
	expectedShape := tensor.Shape{4, 2}
	if !output.Shape().Equal(expectedShape) {
		t.Errorf("Output shape = %v, want %v", output.Shape(), expectedShape)
	}
}

// TestLinear_Float64 tests Linear with double-precision parameters.
func TestLinear_Float64(t *testing.T) {
	backend := autodiff.New(cpu.New())

	layer := nn.NewLinear[float64](2, 1, backend)

	// Weight: [[2, -1]], Bias: [0.5]
	copy(layer.Weight().Tensor().Raw().AsFloat64(), []float64{2, -1})
	copy(layer.Bias().Tensor().Raw().AsFloat64(), []float64{0.5})

	input, _ := tensor.FromSlice([]float64{3, 4}, tensor.Shape{1, 2}, backend)

	output := layer.Forward(input)

	// y = 3*2 + 4*(-1) + 0.5 = 2.5
	actual := output.Raw().AsFloat64()[0]
	if math.Abs(actual-2.5) > 1e-12 {
		t.Errorf("Output = %f, want 2.5", actual)
	}
}

// TestLinear_GradientFlow tests that gradients reach weight and bias.
func TestLinear_GradientFlow(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	layer := nn.NewLinear[float32](2, 1, backend)
	copy(layer.Weight().Tensor().Raw().AsFloat32(), []float32{1, 2})
	copy(layer.Bias().Tensor().Raw().AsFloat32(), []float32{0})

	tape.StartRecording()

	// Batch of 3 inputs
	input, _ := tensor.FromSlice([]float32{
		1, 0,
		0, 1,
		1, 1,
	}, tensor.Shape{3, 2}, backend)

	output := layer.Forward(input)

	// Reduce to a scalar so backward has a single seed
	loss := output.Sum()

	gradients := autodiff.Backward(loss, backend)

	gradW := gradients[layer.Weight().Tensor().Raw()]
	gradB := gradients[layer.Bias().Tensor().Raw()]

	if gradW == nil {
		t.Fatal("Expected gradient for weight")
	}
	if gradB == nil {
		t.Fatal("Expected gradient for bias")
	}

	// d(sum(y))/dW[j] = sum over batch of x[:, j] = [2, 2]
	wData := gradW.AsFloat32()
	for i, want := range []float32{2, 2} {
		if !floatEqual(wData[i], want, 1e-5) {
			t.Errorf("grad_W[%d] = %f, want %f", i, wData[i], want)
		}
	}

	// d(sum(y))/db = batch size = 3
	if !gradB.Shape().Equal(tensor.Shape{1}) {
		t.Errorf("grad_b shape = %v, want [1]", gradB.Shape())
	}
	bData := gradB.AsFloat32()
	if !floatEqual(bData[0], 3, 1e-5) {
		t.Errorf("grad_b = %f, want 3", bData[0])
	}
}

// TestLinear_StateDict tests StateDict/LoadStateDict round trip.
func TestLinear_StateDict(t *testing.T) {
	backend := autodiff.New(cpu.New())

	source := nn.NewLinear[float32](3, 2, backend)
	dest := nn.NewLinear[float32](3, 2, backend)

	// Make them differ
	copy(source.Weight().Tensor().Raw().AsFloat32(), []float32{1, 2, 3, 4, 5, 6})
	copy(source.Bias().Tensor().Raw().AsFloat32(), []float32{7, 8})

	if err := dest.LoadStateDict(source.StateDict()); err != nil {
		t.Fatalf("LoadStateDict failed: %v", err)
	}

	destW := dest.Weight().Tensor().Raw().AsFloat32()
	for i, want := range []float32{1, 2, 3, 4, 5, 6} {
		if destW[i] != want {
			t.Errorf("weight[%d] = %f, want %f", i, destW[i], want)
		}
	}
	destB := dest.Bias().Tensor().Raw().AsFloat32()
	for i, want := range []float32{7, 8} {
		if destB[i] != want {
			t.Errorf("bias[%d] = %f, want %f", i, destB[i], want)
		}
	}

	// Shape mismatch is rejected
	wrong := nn.NewLinear[float32](2, 2, backend)
	if err := wrong.LoadStateDict(source.StateDict()); err == nil {
		t.Error("LoadStateDict should reject mismatched shapes")
	}
}

// TestMSELoss tests MSE loss computation.
func TestMSELoss(t *testing.T) {
	backend := autodiff.New(cpu.New())

	mse := nn.NewMSELoss[float32](backend)

	// Predictions: [1, 2, 3]
	predictions, _ := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3}, backend)

	// Targets: [1, 1, 1]
	targets, _ := tensor.FromSlice([]float32{1, 1, 1}, tensor.Shape{3}, backend)

	// Compute loss
	loss := mse.Forward(predictions, targets)

	// Expected: mean((1-1)² + (2-1)² + (3-1)²) = mean(0 + 1 + 4) = 5/3 ≈ 1.667
	expected := float32(5.0 / 3.0)
	actual := loss.Raw().AsFloat32()[0]

	if !floatEqual(actual, expected, 1e-5) {
		t.Errorf("MSE loss = %f, want %f", actual, expected)
	}

	// Loss is a scalar
	if len(loss.Shape()) != 0 {
		t.Errorf("MSE loss shape = %v, want scalar", loss.Shape())
	}

	// Check no trainable parameters
	if len(mse.Parameters()) != 0 {
		t.Error("MSE loss should have no parameters")
	}
}

// TestMSELoss_GradientFlow tests that gradients flow through the loss
// back to the predictions.
func TestMSELoss_GradientFlow(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	mse := nn.NewMSELoss[float64](backend)

	tape.StartRecording()

	predictions, _ := tensor.FromSlice([]float64{1, 2, 3}, tensor.Shape{3}, backend)
	targets, _ := tensor.FromSlice([]float64{0, 2, 5}, tensor.Shape{3}, backend)

	loss := mse.Forward(predictions, targets)

	gradients := autodiff.Backward(loss, backend)

	gradP := gradients[predictions.Raw()]
	if gradP == nil {
		t.Fatal("Expected gradient for predictions")
	}

	// d(loss)/dp_i = 2*(p_i - t_i)/n
	actual := gradP.AsFloat64()
	expected := []float64{2.0 / 3.0, 0, -4.0 / 3.0}
	for i, want := range expected {
		if math.Abs(actual[i]-want) > 1e-12 {
			t.Errorf("grad[%d] = %f, want %f", i, actual[i], want)
		}
	}
}

// TestInitialization tests Xavier initialization bounds.
func TestInitialization(t *testing.T) {
	backend := autodiff.New(cpu.New())

	// Xavier initialization for fanIn=100, fanOut=50
	w := nn.Xavier[float32](100, 50, tensor.Shape{50, 100}, backend)

	// Expected bound: sqrt(6 / (100 + 50)) ≈ 0.2
	expectedBound := math.Sqrt(6.0 / 150.0) // ≈ 0.2

	data := w.Raw().AsFloat32()

	// Check all values are within [-bound, bound]
	for i, val := range data {
		if math.Abs(float64(val)) > expectedBound {
			t.Errorf("Xavier init value[%d] = %f exceeds bound %f", i, val, expectedBound)
		}
	}
}
