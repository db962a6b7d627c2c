package wall

import (
	"context"
	"fmt"

	"github.com/akmonengine/rig"
	"github.com/akmonengine/rig/chain"
)

// Limb solver defaults: short, loose solves, one per limb
const (
	LIMB_STEP_SCALE        = 0.1
	LIMB_TOLERANCE_SQUARED = 0.05
	LIMB_MAX_ITERATIONS    = 10

	// REACH_TOLERANCE_SQUARED is the squared distance under which a limb holds on
	REACH_TOLERANCE_SQUARED = 0.1
)

// Limbs are the effectors placed by Hang, in order
var Limbs = []string{"Effector_Back_L", "Effector_Back_R", "Effector_Front_L", "Effector_Front_R"}

// Grip is the outcome of placing one limb
type Grip struct {
	Effector string
	Hold     Hold
	// Result.Configuration is the whole rig after this limb moved
	Result  rig.Result
	Reached bool
}

// LimbSolver returns a solver for d tuned for Hang
func LimbSolver(d *chain.Descriptor) *rig.Solver {
	s := rig.NewSolver(d)
	s.StepScale = LIMB_STEP_SCALE
	s.ToleranceSquared = LIMB_TOLERANCE_SQUARED
	s.MaxIterations = LIMB_MAX_ITERATIONS
	return s
}

// Hang moves every limb in turn toward the closest legal hold from its current
// position. Legality is judged against the root link's world position. Each
// solve starts from the configuration the previous limb left behind.
//
// Limbs with no legal hold are skipped. The context is checked between limbs.
func Hang(ctx context.Context, s *rig.Solver, cfg chain.Configuration, holds []Hold) ([]Grip, error) {
	if s == nil || s.Chain == nil {
		return nil, fmt.Errorf("%w: no solver", rig.ErrInvalidParameter)
	}
	if len(holds) == 0 {
		return nil, ErrNoHolds
	}

	grid := NewHoldGrid(holds, HOLD_CELL_SIZE)
	grips := make([]Grip, 0, len(Limbs))
	current := cfg.Clone()
	for _, limb := range Limbs {
		if err := ctx.Err(); err != nil {
			return grips, err
		}

		poses, err := rig.Evaluate(s.Chain, current, s.Base)
		if err != nil {
			return grips, err
		}
		pos, ok := poses.Position(limb)
		if !ok {
			return grips, fmt.Errorf("%w: limb %q", chain.ErrUnknownLink, limb)
		}
		com, _ := poses.Position(s.Chain.Root().Name)

		hold, ok := grid.Closest(pos, com)
		if !ok {
			if s.Logger != nil {
				s.Logger.Debug("no legal hold", "limb", limb)
			}
			continue
		}

		res, err := s.Solve(current, limb, hold.Position)
		if err != nil {
			return grips, err
		}
		current = res.Configuration

		grip := Grip{
			Effector: limb,
			Hold:     hold,
			Result:   res,
			Reached:  res.Residual.LenSqr() <= REACH_TOLERANCE_SQUARED,
		}
		if s.Logger != nil {
			s.Logger.Debug("limb placed", "limb", limb, "hold", hold.Name, "reached", grip.Reached, "iterations", res.Iterations)
		}
		grips = append(grips, grip)
	}

	return grips, nil
}
