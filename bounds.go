package rig

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// Overlaps checks if two AABBs overlap
func (a AABB) Overlaps(other AABB) bool {
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y() &&
		a.Max.Z() >= other.Min.Z() && a.Min.Z() <= other.Max.Z()
}

// Size returns the extent of the box on each axis
func (a AABB) Size() mgl64.Vec3 {
	return a.Max.Sub(a.Min)
}

// Center returns the middle of the box
func (a AABB) Center() mgl64.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

// Bounds returns the box enclosing every link origin in p.
// An empty Poses yields the zero AABB.
func (p Poses) Bounds() AABB {
	if len(p) == 0 {
		return AABB{}
	}

	inf := math.Inf(1)
	box := AABB{
		Min: mgl64.Vec3{inf, inf, inf},
		Max: mgl64.Vec3{-inf, -inf, -inf},
	}
	for _, m := range p {
		pos := Position(m)
		for i := 0; i < 3; i++ {
			box.Min[i] = math.Min(box.Min[i], pos[i])
			box.Max[i] = math.Max(box.Max[i], pos[i])
		}
	}
	return box
}
