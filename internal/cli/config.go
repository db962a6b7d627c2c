package cli

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/akmonengine/rig"
)

// solverFile is the TOML solver configuration:
//
//	[solver]
//	step_scale = 0.5
//	tolerance_squared = 1e-4
//	max_iterations = 100
//	perturbation = 1e-3
//	workers = 4
//	damping = 0.1
//
// Keys left out keep the solver's current value.
type solverFile struct {
	Solver struct {
		StepScale        float64 `toml:"step_scale"`
		ToleranceSquared float64 `toml:"tolerance_squared"`
		MaxIterations    int     `toml:"max_iterations"`
		Perturbation     float64 `toml:"perturbation"`
		Workers          int     `toml:"workers"`
		Damping          float64 `toml:"damping"`
	} `toml:"solver"`
}

// loadSolverConfig applies the keys set in the file at path onto s.
func loadSolverConfig(path string, s *rig.Solver) error {
	var f solverFile
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return fmt.Errorf("solver config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("solver config %s: unknown key %q", path, undecoded[0].String())
	}

	if md.IsDefined("solver", "step_scale") {
		s.StepScale = f.Solver.StepScale
	}
	if md.IsDefined("solver", "tolerance_squared") {
		s.ToleranceSquared = f.Solver.ToleranceSquared
	}
	if md.IsDefined("solver", "max_iterations") {
		s.MaxIterations = f.Solver.MaxIterations
	}
	if md.IsDefined("solver", "perturbation") {
		s.Perturbation = f.Solver.Perturbation
	}
	if md.IsDefined("solver", "workers") {
		s.Workers = f.Solver.Workers
	}
	if md.IsDefined("solver", "damping") {
		s.Damping = f.Solver.Damping
	}
	return nil
}

// solverFlags are the command line overrides of a solver, applied after the
// config file.
type solverFlags struct {
	config           string
	stepScale        float64
	toleranceSquared float64
	maxIterations    int
	perturbation     float64
	workers          int
	damping          float64
}

func (f *solverFlags) register(cmd *cobra.Command, defaults *rig.Solver) {
	cmd.Flags().StringVar(&f.config, "config", "", "solver config file (TOML, [solver] table)")
	cmd.Flags().Float64Var(&f.stepScale, "step", defaults.StepScale, "step scale")
	cmd.Flags().Float64Var(&f.toleranceSquared, "tolerance", defaults.ToleranceSquared, "squared residual tolerance")
	cmd.Flags().IntVar(&f.maxIterations, "iterations", defaults.MaxIterations, "maximum iterations")
	cmd.Flags().Float64Var(&f.perturbation, "perturbation", defaults.Perturbation, "finite difference step (radians)")
	cmd.Flags().IntVar(&f.workers, "workers", defaults.Workers, "goroutines per Jacobian")
	cmd.Flags().Float64Var(&f.damping, "damping", defaults.Damping, "damped least squares factor (0: Jacobian transpose)")
}

// apply loads the config file, then the flags the user set explicitly.
func (f *solverFlags) apply(cmd *cobra.Command, s *rig.Solver) error {
	if f.config != "" {
		if err := loadSolverConfig(f.config, s); err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("step") {
		s.StepScale = f.stepScale
	}
	if flags.Changed("tolerance") {
		s.ToleranceSquared = f.toleranceSquared
	}
	if flags.Changed("iterations") {
		s.MaxIterations = f.maxIterations
	}
	if flags.Changed("perturbation") {
		s.Perturbation = f.perturbation
	}
	if flags.Changed("workers") {
		s.Workers = f.workers
	}
	if flags.Changed("damping") {
		s.Damping = f.damping
	}
	return nil
}
