package chain

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}

func vec4AlmostEqual(a, b mgl64.Vec4, tolerance float64) bool {
	for i := range a {
		if !almostEqual(a[i], b[i], tolerance) {
			return false
		}
	}
	return true
}

func mat4AlmostEqual(a, b mgl64.Mat4, tolerance float64) bool {
	for i := range a {
		if !almostEqual(a[i], b[i], tolerance) {
			return false
		}
	}
	return true
}
