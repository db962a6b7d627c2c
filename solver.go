package rig

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/akmonengine/rig/chain"
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

// Solver defaults
const (
	DEFAULT_STEP_SCALE        = 0.5
	DEFAULT_TOLERANCE_SQUARED = 1e-4
	DEFAULT_MAX_ITERATIONS    = 100
)

var ErrInvalidParameter = errors.New("invalid solver parameter")

var discard = log.New(io.Discard)

// State is the terminal state of a solve
type State uint8

const (
	// Converged means the squared residual fell below the tolerance
	Converged State = iota
	// Exhausted means the iteration cap was reached first. It is not an error.
	Exhausted
)

func (s State) String() string {
	if s == Converged {
		return "converged"
	}
	return "exhausted"
}

// Result is the outcome of a solve. Configuration, Residual and Poses all
// belong to the same iterate.
type Result struct {
	Configuration chain.Configuration
	// Residual is target minus the final effector position
	Residual mgl64.Vec3
	// ResidualError is the length of Residual
	ResidualError float64
	Iterations    int
	Poses         Poses
	State         State
}

func (r Result) Converged() bool {
	return r.State == Converged
}

// Solver drives an effector toward a target position by iterating
//
//	q ← q + StepScale · Δq
//
// where Δq = Jᵀe (Jacobian transpose) by default, or, when Damping > 0,
// the damped least squares step Δq = Jᵀ(JJᵀ + Damping²·I)⁻¹e.
type Solver struct {
	Chain            *chain.Descriptor
	Base             mgl64.Mat4
	StepScale        float64
	ToleranceSquared float64
	MaxIterations    int
	Perturbation     float64
	Workers          int
	Damping          float64

	// Logger receives one debug entry per iteration; nil is silent
	Logger *log.Logger
}

// NewSolver returns a solver for d with an identity base and default parameters
func NewSolver(d *chain.Descriptor) *Solver {
	return &Solver{
		Chain:            d,
		Base:             mgl64.Ident4(),
		StepScale:        DEFAULT_STEP_SCALE,
		ToleranceSquared: DEFAULT_TOLERANCE_SQUARED,
		MaxIterations:    DEFAULT_MAX_ITERATIONS,
		Perturbation:     DefaultPerturbation,
		Workers:          DEFAULT_WORKERS,
	}
}

// Solve searches a configuration, starting from initial, that brings the
// effector link to target.
//
// Non-convergence is reported through Result.State, never as an error.
// Errors are returned for an unknown effector, a configuration that does not
// fit the chain, or invalid solver parameters.
func (s *Solver) Solve(initial chain.Configuration, effector string, target mgl64.Vec3) (Result, error) {
	if err := s.validate(); err != nil {
		return Result{}, err
	}
	link, ok := s.Chain.Lookup(effector)
	if !ok {
		return Result{}, fmt.Errorf("%w: effector %q", chain.ErrUnknownLink, effector)
	}
	ix := s.Chain.DOFs()
	vec, err := ix.ToVector(initial)
	if err != nil {
		return Result{}, err
	}

	logger := s.Logger
	if logger == nil {
		logger = discard
	}
	estimator := Estimator{Chain: s.Chain, Base: s.Base, Perturbation: s.Perturbation, Workers: s.Workers}

	var (
		world      []mgl64.Mat4
		residual   mgl64.Vec3
		state      State
		iterations int
	)
	for {
		world = evaluateVector(s.Chain, vec, s.Base)
		p := Position(world[link])
		residual = target.Sub(p)

		if residual.LenSqr() < s.ToleranceSquared {
			state = Converged
			break
		}
		if iterations >= s.MaxIterations {
			state = Exhausted
			break
		}

		jac := estimator.estimate(vec, link, p)
		step := s.step(jac, residual)
		for i := range vec {
			vec[i] += s.StepScale * step[i]
		}
		iterations++

		logger.Debug("ik iteration", "effector", effector, "iteration", iterations, "residual", residual.Len())
	}

	cfg, err := ix.ToConfiguration(vec)
	if err != nil {
		return Result{}, err
	}
	logger.Debug("ik done", "effector", effector, "state", state, "iterations", iterations, "residual", residual.Len())

	return Result{
		Configuration: cfg,
		Residual:      residual,
		ResidualError: residual.Len(),
		Iterations:    iterations,
		Poses:         posesOf(s.Chain, world, false),
		State:         state,
	}, nil
}

// step returns the unscaled joint update for the residual e
func (s *Solver) step(jac Jacobian, e mgl64.Vec3) []float64 {
	if s.Damping <= 0 {
		return jac.TransposeMul(e)
	}

	// JJᵀ + λ²I is symmetric positive definite for λ > 0
	a := mat.NewSymDense(3, nil)
	for r := 0; r < 3; r++ {
		for c := r; c < 3; c++ {
			var sum float64
			for _, col := range jac {
				sum += col[r] * col[c]
			}
			if r == c {
				sum += s.Damping * s.Damping
			}
			a.SetSym(r, c, sum)
		}
	}

	var chol mat.Cholesky
	if !chol.Factorize(a) {
		return jac.TransposeMul(e)
	}
	var y mat.VecDense
	if err := chol.SolveVecTo(&y, mat.NewVecDense(3, []float64{e[0], e[1], e[2]})); err != nil {
		return jac.TransposeMul(e)
	}

	return jac.TransposeMul(mgl64.Vec3{y.AtVec(0), y.AtVec(1), y.AtVec(2)})
}

func (s *Solver) validate() error {
	switch {
	case s.Chain == nil:
		return fmt.Errorf("%w: no chain", ErrInvalidParameter)
	case math.IsNaN(s.StepScale) || math.IsInf(s.StepScale, 0) || s.StepScale <= 0:
		return fmt.Errorf("%w: step scale %v", ErrInvalidParameter, s.StepScale)
	case math.IsNaN(s.ToleranceSquared) || s.ToleranceSquared < 0:
		return fmt.Errorf("%w: tolerance %v", ErrInvalidParameter, s.ToleranceSquared)
	case s.MaxIterations < 0:
		return fmt.Errorf("%w: max iterations %d", ErrInvalidParameter, s.MaxIterations)
	case !validPerturbation(s.Perturbation):
		return fmt.Errorf("%w: perturbation %v", ErrInvalidParameter, s.Perturbation)
	case math.IsNaN(s.Damping) || math.IsInf(s.Damping, 0) || s.Damping < 0:
		return fmt.Errorf("%w: damping %v", ErrInvalidParameter, s.Damping)
	}
	return nil
}

// Solve runs a Jacobian transpose solve with an explicit parameter list
func Solve(
	d *chain.Descriptor,
	initial chain.Configuration,
	effector string,
	target mgl64.Vec3,
	base mgl64.Mat4,
	stepScale, toleranceSquared float64,
	maxIterations int,
) (Result, error) {
	s := NewSolver(d)
	s.Base = base
	s.StepScale = stepScale
	s.ToleranceSquared = toleranceSquared
	s.MaxIterations = maxIterations
	return s.Solve(initial, effector, target)
}
