package rig

import (
	"fmt"
	"math"

	"github.com/akmonengine/rig/chain"
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultPerturbation is the finite-difference step, in radians, used when none is given
const DefaultPerturbation = 1e-3

// Jacobian holds the sensitivity of an effector position to every DOF.
// Column i is ∂p/∂q[i]; it is a positional 3xN Jacobian without orientation rows.
type Jacobian []mgl64.Vec3

// Dims returns the number of rows and columns
func (j Jacobian) Dims() (rows, cols int) {
	return 3, len(j)
}

func (j Jacobian) Column(i int) mgl64.Vec3 {
	return j[i]
}

// TransposeMul returns Jᵀ·v
func (j Jacobian) TransposeMul(v mgl64.Vec3) []float64 {
	out := make([]float64, len(j))
	for i, col := range j {
		out[i] = col.Dot(v)
	}
	return out
}

// Estimator builds forward-difference Jacobians for one descriptor and base transform.
// Columns are independent and are spread over Workers goroutines.
type Estimator struct {
	Chain        *chain.Descriptor
	Base         mgl64.Mat4
	Perturbation float64
	Workers      int
}

// Estimate returns the Jacobian of the effector position at cfg
func (e *Estimator) Estimate(cfg chain.Configuration, effector string) (Jacobian, error) {
	if !validPerturbation(e.Perturbation) {
		return nil, fmt.Errorf("%w: perturbation %v", ErrInvalidParameter, e.Perturbation)
	}
	link, ok := e.Chain.Lookup(effector)
	if !ok {
		return nil, fmt.Errorf("%w: effector %q", chain.ErrUnknownLink, effector)
	}
	vec, err := e.Chain.DOFs().ToVector(cfg)
	if err != nil {
		return nil, err
	}

	p0 := Position(evaluateVector(e.Chain, vec, e.Base)[link])
	return e.estimate(vec, link, p0), nil
}

// estimate perturbs each component of vec in turn and differences the
// effector position against p0, the position at vec itself
func (e *Estimator) estimate(vec []float64, link int, p0 mgl64.Vec3) Jacobian {
	jac := make(Jacobian, len(vec))
	columns := make([]int, len(vec))
	for i := range columns {
		columns[i] = i
	}

	task(e.Workers, columns, func(i int) {
		perturbed := make([]float64, len(vec))
		copy(perturbed, vec)
		perturbed[i] += e.Perturbation

		pi := Position(evaluateVector(e.Chain, perturbed, e.Base)[link])
		jac[i] = pi.Sub(p0).Mul(1.0 / e.Perturbation)
	})

	return jac
}

// EstimateJacobian is a single-worker Estimator call
func EstimateJacobian(d *chain.Descriptor, cfg chain.Configuration, effector string, base mgl64.Mat4, perturbation float64) (Jacobian, error) {
	e := Estimator{Chain: d, Base: base, Perturbation: perturbation, Workers: DEFAULT_WORKERS}
	return e.Estimate(cfg, effector)
}

func validPerturbation(p float64) bool {
	return p > 0 && !math.IsInf(p, 0)
}
