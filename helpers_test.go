package rig

import (
	"math"
	"testing"

	"github.com/akmonengine/rig/chain"
	"github.com/go-gl/mathgl/mgl64"
)

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}

func vec3AlmostEqual(a, b mgl64.Vec3, tolerance float64) bool {
	for i := range a {
		if !almostEqual(a[i], b[i], tolerance) {
			return false
		}
	}
	return true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// planarArm is a two link arm in the XY plane: both joints turn about Z and
// every link is one unit long, so the tip sits at (2, 0, 0) at rest.
func planarArm(t *testing.T) *chain.Descriptor {
	t.Helper()
	d, err := chain.New([]chain.LinkSpec{
		{Name: "shoulder", Offset: mgl64.Ident4(), Joint: chain.SingleAxis},
		{Name: "elbow", Parent: "shoulder", Offset: mgl64.Translate3D(1, 0, 0), Joint: chain.SingleAxis},
		{Name: "tip", Parent: "elbow", Offset: mgl64.Translate3D(1, 0, 0)},
	})
	if err != nil {
		t.Fatalf("chain.New() error = %v", err)
	}
	return d
}

// branchedRig has a torso with a free neck and two single axis legs
func branchedRig(t *testing.T) *chain.Descriptor {
	t.Helper()
	d, err := chain.New([]chain.LinkSpec{
		{Name: "body", Offset: mgl64.Ident4()},
		{Name: "neck", Parent: "body", Offset: mgl64.Translate3D(0, 0, 1), Joint: chain.FreeAxis3},
		{Name: "head", Parent: "neck", Offset: mgl64.Translate3D(1, 0, 0)},
		{Name: "leg_l", Parent: "body", Offset: mgl64.Translate3D(0, 1, 0), Joint: chain.SingleAxis, Axis: chain.AxisX},
		{Name: "foot_l", Parent: "leg_l", Offset: mgl64.Translate3D(0, 0, -1)},
		{Name: "leg_r", Parent: "body", Offset: mgl64.Translate3D(0, -1, 0), Joint: chain.SingleAxis, Axis: chain.AxisY},
		{Name: "foot_r", Parent: "leg_r", Offset: mgl64.Translate3D(0, 0, -1)},
	})
	if err != nil {
		t.Fatalf("chain.New() error = %v", err)
	}
	return d
}

func planarTip(shoulder, elbow float64) mgl64.Vec3 {
	return mgl64.Vec3{
		math.Cos(shoulder) + math.Cos(shoulder+elbow),
		math.Sin(shoulder) + math.Sin(shoulder+elbow),
		0,
	}
}
