package chain

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// JointKind represents the rotational degrees of freedom owned by a link
type JointKind uint8

const (
	// JointNone links are rigidly attached to their parent (bodies, effectors)
	JointNone JointKind = iota

	// SingleAxis joints rotate about one fixed local axis, conventionally Z
	SingleAxis

	// FreeAxis3 joints rotate about local X, Y and Z, composed in the
	// descriptor's RotationOrder
	FreeAxis3
)

func (k JointKind) String() string {
	switch k {
	case JointNone:
		return "none"
	case SingleAxis:
		return "single"
	case FreeAxis3:
		return "free3"
	}
	return fmt.Sprintf("JointKind(%d)", uint8(k))
}

// DOF returns the number of scalar angles the joint contributes to a configuration vector
func (k JointKind) DOF() int {
	switch k {
	case SingleAxis:
		return 1
	case FreeAxis3:
		return 3
	}
	return 0
}

// Axis selects the rotation axis of a SingleAxis joint.
// The zero value rotates about Z.
type Axis uint8

const (
	AxisZ Axis = iota
	AxisY
	AxisX
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	}
	return "z"
}

// RotationOrder is the sequence in which the three axis rotations of a
// FreeAxis3 joint are post-multiplied onto the link transform
type RotationOrder uint8

const (
	// OrderZYX applies Rz, then Ry, then Rx: R = Rz·Ry·Rx.
	// This is the order the exported rig offsets were authored against.
	OrderZYX RotationOrder = iota

	// OrderXYZ applies Rx, then Ry, then Rz: R = Rx·Ry·Rz (Euler "XYZ").
	OrderXYZ
)

func (o RotationOrder) String() string {
	if o == OrderXYZ {
		return "xyz"
	}
	return "zyx"
}

// ParseRotationOrder accepts "zyx" or "xyz"; the empty string selects OrderZYX
func ParseRotationOrder(s string) (RotationOrder, error) {
	switch s {
	case "", "zyx", "ZYX":
		return OrderZYX, nil
	case "xyz", "XYZ":
		return OrderXYZ, nil
	}
	return OrderZYX, fmt.Errorf("%w: unknown rotation order %q", ErrInvalidDescriptor, s)
}

// SingleRotation returns the homogeneous rotation of a SingleAxis joint
func SingleRotation(axis Axis, angle float64) mgl64.Mat4 {
	switch axis {
	case AxisX:
		return mgl64.HomogRotate3DX(angle)
	case AxisY:
		return mgl64.HomogRotate3DY(angle)
	}
	return mgl64.HomogRotate3DZ(angle)
}

// ApplyRotation post-multiplies the joint rotation described by value onto m.
// Absent angles contribute no rotation. Returns m unchanged for JointNone.
func ApplyRotation(m mgl64.Mat4, kind JointKind, axis Axis, order RotationOrder, value JointValue) mgl64.Mat4 {
	switch kind {
	case SingleAxis:
		if angle, ok := value.Angles[0].Get(); ok {
			m = m.Mul4(SingleRotation(axis, angle))
		}
	case FreeAxis3:
		x, y, z := value.Angles[0], value.Angles[1], value.Angles[2]
		if order == OrderXYZ {
			m = rotateIfSet(m, AxisX, x)
			m = rotateIfSet(m, AxisY, y)
			m = rotateIfSet(m, AxisZ, z)
		} else {
			m = rotateIfSet(m, AxisZ, z)
			m = rotateIfSet(m, AxisY, y)
			m = rotateIfSet(m, AxisX, x)
		}
	}
	return m
}

func rotateIfSet(m mgl64.Mat4, axis Axis, a Angle) mgl64.Mat4 {
	if angle, ok := a.Get(); ok {
		return m.Mul4(SingleRotation(axis, angle))
	}
	return m
}
