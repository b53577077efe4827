package optim

import (
	"fmt"

	"github.com/KGrewal1/optimisers/internal/serialization"
)

// Checkpoint labels identifying which optimizer produced a state file.
const (
	KindLBFGS  = "lbfgs"
	KindAdamax = "adamax"
)

// SaveState writes an optimizer's state to path in the .optc checkpoint
// format. The kind label is stored in the header and checked on load.
func SaveState(path, kind string, opt Stateful) error {
	if err := serialization.WriteStateFile(path, opt.StateDict(), kind, nil); err != nil {
		return fmt.Errorf("optim: save state: %w", err)
	}
	return nil
}

// LoadState restores an optimizer's state from a checkpoint written by
// SaveState. A checkpoint carrying a different kind label is rejected;
// pass an empty kind to skip the check.
func LoadState(path, kind string, opt Stateful) error {
	state, label, err := serialization.ReadStateFile(path)
	if err != nil {
		return fmt.Errorf("optim: load state: %w", err)
	}
	if kind != "" && label != "" && label != kind {
		return fmt.Errorf("optim: checkpoint holds %q state, want %q", label, kind)
	}
	return opt.LoadStateDict(state)
}
