package chain

import (
	"math"
	"sort"
)

// Angle is an optional joint rotation in radians.
// The zero value is absent: it applies no rotation.
type Angle struct {
	value   float64
	present bool
}

// Some returns a present angle
func Some(v float64) Angle {
	return Angle{value: v, present: true}
}

// None returns an absent angle
func None() Angle {
	return Angle{}
}

func (a Angle) Get() (float64, bool) {
	return a.value, a.present
}

// Or returns the angle, or def when absent
func (a Angle) Or(def float64) float64 {
	if a.present {
		return a.value
	}
	return def
}

func (a Angle) IsSet() bool {
	return a.present
}

// JointValue is the configuration of one joint.
// SingleAxis joints use Angles[0]; FreeAxis3 joints use Angles[0..2] as x, y, z.
type JointValue struct {
	Kind   JointKind
	Angles [3]Angle
}

// Scalar returns the value of a SingleAxis joint
func Scalar(angle float64) JointValue {
	return JointValue{Kind: SingleAxis, Angles: [3]Angle{Some(angle)}}
}

// Triple returns the value of a FreeAxis3 joint with every axis set
func Triple(x, y, z float64) JointValue {
	return JointValue{Kind: FreeAxis3, Angles: [3]Angle{Some(x), Some(y), Some(z)}}
}

// PartialTriple returns the value of a FreeAxis3 joint where some axes may be absent
func PartialTriple(x, y, z Angle) JointValue {
	return JointValue{Kind: FreeAxis3, Angles: [3]Angle{x, y, z}}
}

// Scalar returns the angle of a SingleAxis value
func (v JointValue) Scalar() (float64, bool) {
	if v.Kind != SingleAxis {
		return 0, false
	}
	return v.Angles[0].Get()
}

// XYZ returns the three angles of a FreeAxis3 value, absent axes read as zero
func (v JointValue) XYZ() (x, y, z float64) {
	return v.Angles[0].Or(0), v.Angles[1].Or(0), v.Angles[2].Or(0)
}

// Configuration maps joint names to joint values.
// A joint missing from the map keeps its rest pose.
type Configuration map[string]JointValue

// Clone returns a copy that shares no state with c
func (c Configuration) Clone() Configuration {
	out := make(Configuration, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Joints returns the joint names present in c, sorted
func (c Configuration) Joints() []string {
	names := make([]string, 0, len(c))
	for k := range c {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Equal reports whether both configurations hold the same joints with the same
// kinds, presence and values within tol
func (c Configuration) Equal(other Configuration, tol float64) bool {
	if len(c) != len(other) {
		return false
	}
	for name, a := range c {
		b, ok := other[name]
		if !ok || a.Kind != b.Kind {
			return false
		}
		for i := 0; i < a.Kind.DOF(); i++ {
			va, okA := a.Angles[i].Get()
			vb, okB := b.Angles[i].Get()
			if okA != okB {
				return false
			}
			if okA && math.Abs(va-vb) > tol {
				return false
			}
		}
	}
	return true
}
