package voxel

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Hit is the first solid voxel found by Raycast.
type Hit struct {
	Voxel Coord
	// Previous is the last empty cell crossed before Voxel, where a placed
	// block would go.
	Previous Coord
	ID       uint16
	Distance float32
}

// Raycast walks the voxel grid from origin along dir, one cell at a time,
// and returns the first solid voxel within maxDist.
func (w *World) Raycast(origin, dir mgl32.Vec3, maxDist float32) (Hit, bool) {
	if dir.Len() == 0 {
		return Hit{}, false
	}
	dir = dir.Normalize()
	// Voxels are centered on integers; shift so cell i spans [i, i+1).
	p := origin.Add(mgl32.Vec3{0.5, 0.5, 0.5})

	var cell, step [3]int
	var tMax, tDelta [3]float32
	for i := 0; i < 3; i++ {
		cell[i] = int(math.Floor(float64(p[i])))
		switch {
		case dir[i] > 0:
			step[i] = 1
			tDelta[i] = 1 / dir[i]
			tMax[i] = (float32(cell[i]+1) - p[i]) * tDelta[i]
		case dir[i] < 0:
			step[i] = -1
			tDelta[i] = -1 / dir[i]
			tMax[i] = (p[i] - float32(cell[i])) * tDelta[i]
		default:
			tDelta[i] = float32(math.Inf(1))
			tMax[i] = tDelta[i]
		}
	}

	prev := cell
	var t float32
	for t <= maxDist {
		if id := w.Voxel(cell[0], cell[1], cell[2]); id != Air {
			return Hit{
				Voxel:    Coord{cell[0], cell[1], cell[2]},
				Previous: Coord{prev[0], prev[1], prev[2]},
				ID:       id,
				Distance: t,
			}, true
		}
		prev = cell
		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}
		t = tMax[axis]
		tMax[axis] += tDelta[axis]
		cell[axis] += step[axis]
	}
	return Hit{}, false
}
