// Package optim provides gradient-based optimization algorithms.
//
// # Overview
//
// This package contains:
//   - LBFGS: limited-memory quasi-Newton optimizer with an optional
//     strong-Wolfe line search
//   - Adamax: adaptive moment estimation with an infinity-norm second
//     moment
//   - Convergence policies, line-search configuration, and state
//     checkpointing
//
// # L-BFGS
//
// L-BFGS drives the model itself: it owns the parameters and re-evaluates
// the loss through the Model collaborator as often as the step requires.
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	loss, _ := model.Loss()
//
//	opt, _ := optim.NewLBFGS(params, optim.ParamsLBFGS{
//	    LineSearch: optim.StrongWolfe{},
//	    GradConv:   optim.MinForce(1e-7),
//	}, model, backend)
//
//	for step := 0; step < 500; step++ {
//	    outcome, err := opt.BackwardStep(loss)
//	    if err != nil {
//	        return err
//	    }
//	    if outcome.Converged {
//	        break
//	    }
//	    loss = outcome.Loss
//	}
//
// # Adamax
//
// Adamax is a plain per-parameter update fed with externally computed
// gradients:
//
//	opt, _ := optim.NewAdamax(params, optim.ParamsAdaMax{LR: 0.002}, backend)
//
//	for step := 0; step < epochs; step++ {
//	    opt.ZeroGrad()
//	    loss := criterion.Forward(model.Forward(x), y)
//	    grads := autodiff.Gradients(loss, backend, raws)
//	    setGrads(params, grads)
//	    opt.Step()
//	}
//
// # Checkpointing
//
// Both optimizers export their internal state as named tensors. SaveState
// and LoadState move that state through .optc checkpoint files:
//
//	optim.SaveState("run.optc", optim.KindLBFGS, opt)
//	optim.LoadState("run.optc", optim.KindLBFGS, opt)
package optim
