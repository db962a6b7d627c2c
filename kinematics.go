// Package rig computes the kinematics of an articulated rig described by a
// chain.Descriptor: forward kinematics of every link, finite-difference
// Jacobians of an effector position, and an iterative inverse kinematics
// solver built on them.
//
// Every function here is pure: descriptors and configurations are only read,
// and each call returns freshly allocated results, so concurrent calls on the
// same descriptor need no locking.
package rig

import (
	"fmt"

	"github.com/akmonengine/rig/chain"
	"github.com/go-gl/mathgl/mgl64"
)

// Poses maps link names to world transforms
type Poses map[string]mgl64.Mat4

// Position returns the translation of a homogeneous transform
func Position(m mgl64.Mat4) mgl64.Vec3 {
	return m.Col(3).Vec3()
}

// Position returns the world position of the named link
func (p Poses) Position(name string) (mgl64.Vec3, bool) {
	m, ok := p[name]
	if !ok {
		return mgl64.Vec3{}, false
	}
	return Position(m), true
}

// Filter returns the poses of the given links that are present in p
func (p Poses) Filter(names []string) Poses {
	out := make(Poses, len(names))
	for _, n := range names {
		if m, ok := p[n]; ok {
			out[n] = m
		}
	}
	return out
}

// Evaluate computes the world transform of every link of d for cfg.
//
// Each link accumulates parent · offset · R(joint), the root starting from
// base. Joints missing from cfg keep their rest pose. cfg may only name
// links that own a joint of the matching kind.
func Evaluate(d *chain.Descriptor, cfg chain.Configuration, base mgl64.Mat4) (Poses, error) {
	world, err := evaluateConfiguration(d, cfg, base)
	if err != nil {
		return nil, err
	}
	return posesOf(d, world, false), nil
}

// EvaluateEffectors is Evaluate restricted to the leaf links of d
func EvaluateEffectors(d *chain.Descriptor, cfg chain.Configuration, base mgl64.Mat4) (Poses, error) {
	world, err := evaluateConfiguration(d, cfg, base)
	if err != nil {
		return nil, err
	}
	return posesOf(d, world, true), nil
}

func evaluateConfiguration(d *chain.Descriptor, cfg chain.Configuration, base mgl64.Mat4) ([]mgl64.Mat4, error) {
	ix := d.DOFs()
	for name, v := range cfg {
		_, kind, ok := ix.Offset(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", chain.ErrUnknownJoint, name)
		}
		if kind != v.Kind {
			return nil, fmt.Errorf("%w: %q is %s, got %s", chain.ErrKindMismatch, name, kind, v.Kind)
		}
	}

	return accumulate(d, base, func(i int, l chain.Link, m mgl64.Mat4) mgl64.Mat4 {
		v, ok := cfg[l.Name]
		if !ok {
			return m
		}
		return chain.ApplyRotation(m, l.Joint, l.Axis, d.Order(), v)
	}), nil
}

// evaluateVector is the forward kinematics of a dense configuration vector
// laid out by d.DOFs(); every joint is present. vec must have d.DOFs().Len()
// entries.
func evaluateVector(d *chain.Descriptor, vec []float64, base mgl64.Mat4) []mgl64.Mat4 {
	ix := d.DOFs()
	return accumulate(d, base, func(i int, l chain.Link, m mgl64.Mat4) mgl64.Mat4 {
		off := ix.LinkOffset(i)
		if off < 0 {
			return m
		}
		var v chain.JointValue
		if l.Joint == chain.FreeAxis3 {
			v = chain.Triple(vec[off], vec[off+1], vec[off+2])
		} else {
			v = chain.Scalar(vec[off])
		}
		return chain.ApplyRotation(m, l.Joint, l.Axis, d.Order(), v)
	})
}

// accumulate walks the arena root first, composing each link onto its parent
func accumulate(d *chain.Descriptor, base mgl64.Mat4, rotate func(i int, l chain.Link, m mgl64.Mat4) mgl64.Mat4) []mgl64.Mat4 {
	world := make([]mgl64.Mat4, d.Len())
	for i := range world {
		l := d.Link(i)
		parent := base
		if l.Parent >= 0 {
			parent = world[l.Parent]
		}
		world[i] = rotate(i, l, parent.Mul4(l.Offset))
	}
	return world
}

func posesOf(d *chain.Descriptor, world []mgl64.Mat4, effectorsOnly bool) Poses {
	poses := make(Poses, len(world))
	for i, m := range world {
		l := d.Link(i)
		if effectorsOnly && !l.IsEffector() {
			continue
		}
		poses[l.Name] = m
	}
	return poses
}
