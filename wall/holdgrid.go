package wall

import (
	"math"

	"github.com/akmonengine/rig"
	"github.com/go-gl/mathgl/mgl64"
)

// HOLD_CELL_SIZE is the grid cell edge used by Hang, one hold spacing
const HOLD_CELL_SIZE = DEFAULT_DX

// CellKey is the integer coordinate of a grid cell
type CellKey struct {
	X, Y, Z int
}

// HoldGrid buckets holds in a hashed uniform grid so that nearest hold queries
// only visit the cells around the query point
type HoldGrid struct {
	cellSize float64
	cells    [][]int
	cellMask int
	holds    []Hold
	bounds   rig.AABB
}

// NewHoldGrid indexes holds; they are referred to by their position in the slice
func NewHoldGrid(holds []Hold, cellSize float64) *HoldGrid {
	numCells := nextPowerOfTwo(2 * len(holds))
	g := &HoldGrid{
		cellSize: cellSize,
		cells:    make([][]int, numCells),
		cellMask: numCells - 1,
		holds:    holds,
	}

	for i, h := range holds {
		idx := g.hashCell(g.worldToCell(h.Position))
		g.cells[idx] = append(g.cells[idx], i)

		if i == 0 {
			g.bounds = rig.AABB{Min: h.Position, Max: h.Position}
			continue
		}
		for a := 0; a < 3; a++ {
			g.bounds.Min[a] = math.Min(g.bounds.Min[a], h.Position[a])
			g.bounds.Max[a] = math.Max(g.bounds.Max[a], h.Position[a])
		}
	}
	return g
}

// nextPowerOfTwo rounds n up to a power of two
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Bounds returns the box enclosing every hold
func (g *HoldGrid) Bounds() rig.AABB {
	return g.bounds
}

// Closest returns the same hold as ClosestHold(pos, holds, com), visiting the
// grid in shells of growing Chebyshev distance around the cell of pos.
//
// A hold in shell r+1 is at least r·cellSize away from pos, so the search stops
// as soon as the best distance found fits within the shells already visited.
func (g *HoldGrid) Closest(pos, com mgl64.Vec3) (Hold, bool) {
	if len(g.holds) == 0 {
		return Hold{}, false
	}

	center := g.worldToCell(pos)
	lo, hi := g.worldToCell(g.bounds.Min), g.worldToCell(g.bounds.Max)
	maxRing := 0
	for _, d := range []int{
		center.X - lo.X, hi.X - center.X,
		center.Y - lo.Y, hi.Y - center.Y,
		center.Z - lo.Z, hi.Z - center.Z,
	} {
		maxRing = max(maxRing, d)
	}

	best, bestDist := -1, 0.0
	visit := func(key CellKey) {
		// a bucket may also hold other cells' holds
		for _, i := range g.cells[g.hashCell(key)] {
			h := g.holds[i]
			if !h.Legal(com) {
				continue
			}
			dist := h.Position.Sub(pos).LenSqr()
			if best < 0 || dist < bestDist || (dist == bestDist && i < best) {
				best, bestDist = i, dist
			}
		}
	}

	for r := 0; r <= maxRing; r++ {
		if g.shell(center, r).Overlaps(g.bounds) {
			// cells outside the hold bounds are empty
			for x := max(center.X-r, lo.X); x <= min(center.X+r, hi.X); x++ {
				for y := max(center.Y-r, lo.Y); y <= min(center.Y+r, hi.Y); y++ {
					for z := max(center.Z-r, lo.Z); z <= min(center.Z+r, hi.Z); z++ {
						if abs(x-center.X) != r && abs(y-center.Y) != r && abs(z-center.Z) != r {
							continue
						}
						visit(CellKey{x, y, z})
					}
				}
			}
		}

		reach := float64(r) * g.cellSize
		if best >= 0 && bestDist < reach*reach {
			break
		}
	}

	if best < 0 {
		return Hold{}, false
	}
	return g.holds[best], true
}

// shell returns the world box covered by the cells within r of center
func (g *HoldGrid) shell(center CellKey, r int) rig.AABB {
	return rig.AABB{
		Min: mgl64.Vec3{
			float64(center.X-r) * g.cellSize,
			float64(center.Y-r) * g.cellSize,
			float64(center.Z-r) * g.cellSize,
		},
		Max: mgl64.Vec3{
			float64(center.X+r+1) * g.cellSize,
			float64(center.Y+r+1) * g.cellSize,
			float64(center.Z+r+1) * g.cellSize,
		},
	}
}

// worldToCell converts a world position to cell coordinates
func (g *HoldGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / g.cellSize)),
		Y: int(math.Floor(pos.Y() / g.cellSize)),
		Z: int(math.Floor(pos.Z() / g.cellSize)),
	}
}

// hashCell maps a cell to its bucket
func (g *HoldGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & g.cellMask
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
