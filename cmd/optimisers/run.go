package main

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KGrewal1/optimisers/autodiff"
	"github.com/KGrewal1/optimisers/backend/cpu"
	"github.com/KGrewal1/optimisers/internal/parallel"
	"github.com/KGrewal1/optimisers/optim"
	"github.com/KGrewal1/optimisers/tensor"
)

var (
	runOptimizer   string
	runFunction    string
	runStart       string
	runLR          float64
	runSteps       int
	runHistorySize int
	runWeightDecay float64
	runLineSearch  string
	runC1          float64
	runC2          float64
	runLSTol       float64
	runMaxEvals    int
	runGradConv    string
	runGradTol     float64
	runStepConv    string
	runStepTol     float64
	runBeta1       float64
	runBeta2       float64
	runEps         float64
	runRestarts    int
	runSpread      float64
	runSeed        int64
	runSaveState   string
	runLoadState   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Minimize a benchmark function",
	Long: `Run minimizes one of the built-in benchmark functions with the chosen
optimizer and reports the best point found.

With --restarts above one, additional runs are launched in parallel from
randomly perturbed start points and the lowest loss wins.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := parseStart(runStart)
		if err != nil {
			return err
		}
		cfg := runConfig{
			optimizer:   runOptimizer,
			function:    runFunction,
			start:       start,
			lr:          runLR,
			steps:       runSteps,
			historySize: runHistorySize,
			weightDecay: runWeightDecay,
			lineSearch:  runLineSearch,
			c1:          runC1,
			c2:          runC2,
			lsTol:       runLSTol,
			maxEvals:    runMaxEvals,
			gradConv:    runGradConv,
			gradTol:     runGradTol,
			stepConv:    runStepConv,
			stepTol:     runStepTol,
			beta1:       runBeta1,
			beta2:       runBeta2,
			eps:         runEps,
			restarts:    runRestarts,
			spread:      runSpread,
			seed:        runSeed,
			saveState:   runSaveState,
			loadState:   runLoadState,
		}
		return runBenchmark(cfg)
	},
}

func init() {
	runCmd.Flags().StringVar(&runOptimizer, "optimizer", "lbfgs", "optimizer to use (lbfgs, adamax)")
	runCmd.Flags().StringVar(&runFunction, "function", "rosenbrock", "benchmark function to minimize")
	runCmd.Flags().StringVar(&runStart, "start", "", "comma-separated start point (default per function)")
	runCmd.Flags().Float64Var(&runLR, "lr", 0, "learning rate (0 for the optimizer default)")
	runCmd.Flags().IntVar(&runSteps, "steps", 100, "maximum optimizer steps")
	runCmd.Flags().IntVar(&runHistorySize, "history-size", 0, "L-BFGS curvature pairs retained (0 for default)")
	runCmd.Flags().Float64Var(&runWeightDecay, "weight-decay", 0, "L2 penalty folded into the gradient")
	runCmd.Flags().StringVar(&runLineSearch, "line-search", "strong-wolfe", "L-BFGS step sizing (none, strong-wolfe)")
	runCmd.Flags().Float64Var(&runC1, "c1", 0, "strong-Wolfe sufficient decrease constant (0 for 1e-4)")
	runCmd.Flags().Float64Var(&runC2, "c2", 0, "strong-Wolfe curvature constant (0 for 0.9)")
	runCmd.Flags().Float64Var(&runLSTol, "ls-tol", 0, "strong-Wolfe bracket tolerance (0 for 1e-9)")
	runCmd.Flags().IntVar(&runMaxEvals, "max-evals", 0, "line-search evaluation budget per step (0 for default)")
	runCmd.Flags().StringVar(&runGradConv, "grad-conv", "min", "gradient convergence norm (min, rms)")
	runCmd.Flags().Float64Var(&runGradTol, "grad-tol", 1e-7, "gradient convergence tolerance")
	runCmd.Flags().StringVar(&runStepConv, "step-conv", "min", "step convergence norm (min, rms)")
	runCmd.Flags().Float64Var(&runStepTol, "step-tol", 1e-9, "step convergence tolerance")
	runCmd.Flags().Float64Var(&runBeta1, "beta1", 0, "Adamax first-moment decay (0 for 0.9)")
	runCmd.Flags().Float64Var(&runBeta2, "beta2", 0, "Adamax infinity-norm decay (0 for 0.999)")
	runCmd.Flags().Float64Var(&runEps, "eps", 0, "Adamax epsilon (0 for 1e-8)")
	runCmd.Flags().IntVar(&runRestarts, "restarts", 1, "independent runs from perturbed start points")
	runCmd.Flags().Float64Var(&runSpread, "spread", 1.0, "per-coordinate perturbation range for restarts")
	runCmd.Flags().Int64Var(&runSeed, "seed", 1, "seed for restart perturbations")
	runCmd.Flags().StringVar(&runSaveState, "save-state", "", "write optimizer state to this file after the run")
	runCmd.Flags().StringVar(&runLoadState, "load-state", "", "restore optimizer state from this file before the run")
	rootCmd.AddCommand(runCmd)
}

// runConfig carries one fully resolved invocation of the run command.
type runConfig struct {
	optimizer   string
	function    string
	start       []float64
	lr          float64
	steps       int
	historySize int
	weightDecay float64
	lineSearch  string
	c1          float64
	c2          float64
	lsTol       float64
	maxEvals    int
	gradConv    string
	gradTol     float64
	stepConv    string
	stepTol     float64
	beta1       float64
	beta2       float64
	eps         float64
	restarts    int
	spread      float64
	seed        int64
	saveState   string
	loadState   string
}

// runResult reports one minimization run. err set means the run never
// produced a usable point.
type runResult struct {
	start     []float64
	point     []float64
	loss      float64
	steps     int
	evals     int
	converged bool
	err       error
}

func runBenchmark(cfg runConfig) error {
	switch cfg.optimizer {
	case optim.KindLBFGS, optim.KindAdamax:
	default:
		return fmt.Errorf("unknown optimizer %q (have: %s, %s)", cfg.optimizer, optim.KindLBFGS, optim.KindAdamax)
	}
	base, err := resolveStart(cfg.function, cfg.start)
	if err != nil {
		return err
	}
	if cfg.restarts < 1 {
		return fmt.Errorf("restarts must be at least 1, got %d", cfg.restarts)
	}
	if cfg.restarts > 1 && (cfg.saveState != "" || cfg.loadState != "") {
		return fmt.Errorf("state files require a single run, got %d restarts", cfg.restarts)
	}

	starts := makeStarts(base, cfg.restarts, cfg.spread, cfg.seed)
	results := make([]runResult, len(starts))
	parallel.For(len(starts), func(i int) {
		results[i] = minimizeOnce(cfg, i, starts[i])
	}, parallel.PerRun(len(starts)))

	best := -1
	for i, res := range results {
		if res.err != nil {
			slog.Error("run failed", "restart", i, "start", formatPoint(res.start), "error", res.err.Error())
			continue
		}
		slog.Info("run finished",
			"restart", i,
			"start", formatPoint(res.start),
			"loss", res.loss,
			"point", formatPoint(res.point),
			"steps", res.steps,
			"evals", res.evals,
			"converged", res.converged)
		if best < 0 || res.loss < results[best].loss {
			best = i
		}
	}
	if best < 0 {
		return fmt.Errorf("all %d runs failed", len(starts))
	}

	r := results[best]
	if spec := benchmarks[cfg.function]; spec.minimum != nil {
		slog.Info("known minimum", "function", cfg.function, "point", formatPoint(spec.minimum))
	}
	fmt.Printf("%s: f%s = %.8g after %d steps, %d evaluations (converged=%v)\n",
		cfg.function, formatPoint(r.point), r.loss, r.steps, r.evals, r.converged)
	return nil
}

// makeStarts builds the start point for each restart: the first run uses
// base unchanged, the rest perturb every coordinate uniformly within
// [-spread, spread].
func makeStarts(base []float64, restarts int, spread float64, seed int64) [][]float64 {
	starts := make([][]float64, restarts)
	starts[0] = base
	if restarts == 1 {
		return starts
	}
	rng := rand.New(rand.NewSource(seed))
	for i := 1; i < restarts; i++ {
		p := make([]float64, len(base))
		for j, b := range base {
			p[j] = b + spread*(2*rng.Float64()-1)
		}
		starts[i] = p
	}
	return starts
}

// minimizeOnce runs a single minimization from start on its own backend.
// Tapes are not safe for concurrent use, so every restart gets a fresh one.
func minimizeOnce(cfg runConfig, idx int, start []float64) runResult {
	backend := autodiff.New(cpu.New())
	model, err := newObjective(cfg.function, start, backend)
	if err != nil {
		return runResult{start: start, err: err}
	}
	if cfg.optimizer == optim.KindLBFGS {
		return runLBFGS(cfg, idx, start, model, backend)
	}
	return runAdamax(cfg, idx, start, model, backend)
}

func runLBFGS(cfg runConfig, idx int, start []float64, model *objective, backend cpuAD) runResult {
	res := runResult{start: start}

	gradConv, err := gradPolicy(cfg.gradConv, cfg.gradTol)
	if err != nil {
		res.err = err
		return res
	}
	stepConv, err := stepPolicy(cfg.stepConv, cfg.stepTol)
	if err != nil {
		res.err = err
		return res
	}
	ls, err := linePolicy(cfg)
	if err != nil {
		res.err = err
		return res
	}

	backend.Tape().StartRecording()
	loss, err := model.Loss()
	if err != nil {
		res.err = err
		return res
	}
	res.evals = 1

	opt, err := optim.NewLBFGS(model.params, optim.ParamsLBFGS{
		LR:          cfg.lr,
		MaxEval:     cfg.maxEvals,
		HistorySize: cfg.historySize,
		LineSearch:  ls,
		GradConv:    gradConv,
		StepConv:    stepConv,
		WeightDecay: cfg.weightDecay,
	}, model, backend)
	if err != nil {
		res.err = err
		return res
	}

	if cfg.loadState != "" {
		if err := optim.LoadState(cfg.loadState, optim.KindLBFGS, opt); err != nil {
			res.err = err
			return res
		}
	}

	for step := 0; step < cfg.steps; step++ {
		outcome, err := opt.BackwardStep(loss)
		if err != nil {
			res.err = err
			return res
		}
		res.steps = step + 1
		res.evals += outcome.Evals
		loss = outcome.Loss
		slog.Debug("lbfgs step",
			"restart", idx,
			"step", res.steps,
			"loss", loss.Data()[0],
			"evals", outcome.Evals)
		if outcome.Converged {
			res.converged = true
			break
		}
	}

	if cfg.saveState != "" {
		if err := optim.SaveState(cfg.saveState, optim.KindLBFGS, opt); err != nil {
			res.err = err
			return res
		}
	}

	res.point = model.point()
	res.loss = loss.Data()[0]
	return res
}

// runAdamax drives the per-parameter update loop by hand: evaluate, run the
// backward pass, hand each parameter its gradient, step. The run stops
// early once the largest gradient component falls below grad-tol.
func runAdamax(cfg runConfig, idx int, start []float64, model *objective, backend cpuAD) runResult {
	res := runResult{start: start}

	opt, err := optim.NewAdamax(model.params, optim.ParamsAdaMax{
		LR:          cfg.lr,
		Beta1:       cfg.beta1,
		Beta2:       cfg.beta2,
		WeightDecay: cfg.weightDecay,
		Eps:         cfg.eps,
	}, backend)
	if err != nil {
		res.err = err
		return res
	}

	if cfg.loadState != "" {
		if err := optim.LoadState(cfg.loadState, optim.KindAdamax, opt); err != nil {
			res.err = err
			return res
		}
	}

	raws := make([]*tensor.RawTensor, len(model.params))
	for i, p := range model.params {
		raws[i] = p.Tensor().Raw()
	}

	backend.Tape().StartRecording()

	for step := 0; step < cfg.steps; step++ {
		backend.Tape().Clear()
		loss, err := model.Loss()
		if err != nil {
			res.err = err
			return res
		}
		res.evals++

		grads := autodiff.Gradients(loss, backend, raws)
		gradNorm := 0.0
		opt.ZeroGrad()
		for i, p := range model.params {
			if grads[i] == nil {
				continue
			}
			for _, g := range grads[i].AsFloat64() {
				if a := math.Abs(g); a > gradNorm {
					gradNorm = a
				}
			}
			p.SetGrad(tensor.New[float64](grads[i], backend))
		}

		if err := opt.Step(); err != nil {
			res.err = err
			return res
		}
		res.steps = step + 1
		slog.Debug("adamax step",
			"restart", idx,
			"step", res.steps,
			"loss", loss.Data()[0],
			"grad_norm", gradNorm)
		if gradNorm < cfg.gradTol {
			res.converged = true
			break
		}
	}

	if cfg.saveState != "" {
		if err := optim.SaveState(cfg.saveState, optim.KindAdamax, opt); err != nil {
			res.err = err
			return res
		}
	}

	backend.Tape().Clear()
	loss, err := model.Loss()
	if err != nil {
		res.err = err
		return res
	}
	res.evals++

	res.point = model.point()
	res.loss = loss.Data()[0]
	return res
}

func gradPolicy(kind string, tol float64) (optim.GradConv, error) {
	switch kind {
	case "min":
		return optim.MinForce(tol), nil
	case "rms":
		return optim.RMSForce(tol), nil
	}
	return nil, fmt.Errorf("unknown gradient convergence %q (have: min, rms)", kind)
}

func stepPolicy(kind string, tol float64) (optim.StepConv, error) {
	switch kind {
	case "min":
		return optim.MinStep(tol), nil
	case "rms":
		return optim.RMSStep(tol), nil
	}
	return nil, fmt.Errorf("unknown step convergence %q (have: min, rms)", kind)
}

func linePolicy(cfg runConfig) (optim.LineSearch, error) {
	switch cfg.lineSearch {
	case "none", "":
		return nil, nil
	case "strong-wolfe":
		return optim.StrongWolfe{C1: cfg.c1, C2: cfg.c2, Tolerance: cfg.lsTol}, nil
	}
	return nil, fmt.Errorf("unknown line search %q (have: none, strong-wolfe)", cfg.lineSearch)
}

func formatPoint(p []float64) string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = strconv.FormatFloat(v, 'g', 8, 64)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
