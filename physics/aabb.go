package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type AABB struct {
	Min, Max mgl32.Vec3
}

// Box returns the box of the given size centered on center.
func Box(center, size mgl32.Vec3) AABB {
	half := size.Mul(0.5)
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

// Cell is the box of the voxel at integer coordinate (x, y, z). Voxels are
// centered on their coordinate.
func Cell(x, y, z int) AABB {
	c := mgl32.Vec3{float32(x), float32(y), float32(z)}
	return AABB{Min: c.Sub(mgl32.Vec3{0.5, 0.5, 0.5}), Max: c.Add(mgl32.Vec3{0.5, 0.5, 0.5})}
}

func (a AABB) Intersects(b AABB) bool {
	return (a.Min.X() <= b.Max.X() && a.Max.X() >= b.Min.X()) &&
		(a.Min.Y() <= b.Max.Y() && a.Max.Y() >= b.Min.Y()) &&
		(a.Min.Z() <= b.Max.Z() && a.Max.Z() >= b.Min.Z())
}

// Expand grows a to cover its sweep along d.
func (a AABB) Expand(d mgl32.Vec3) AABB {
	for i := 0; i < 3; i++ {
		if d[i] < 0 {
			a.Min[i] += d[i]
		} else {
			a.Max[i] += d[i]
		}
	}
	return a
}

func getTime(x, y float32) float32 {
	if y == 0 {
		if x > 0 {
			return float32(math.Inf(-1))
		}
		return float32(math.Inf(1))
	}
	return x / y
}

// collide sweeps moving along d against the fixed box. It returns the
// fraction of d travelled before contact and the contact normal, or a nil
// normal when the boxes do not meet within this sweep.
func collide(moving, fixed AABB, d mgl32.Vec3) (float32, []int) {
	var entry, exit [3]float32
	for i := 0; i < 3; i++ {
		if d[i] > 0 {
			entry[i] = getTime(fixed.Min[i]-moving.Max[i], d[i])
			exit[i] = getTime(fixed.Max[i]-moving.Min[i], d[i])
		} else {
			entry[i] = getTime(fixed.Max[i]-moving.Min[i], d[i])
			exit[i] = getTime(fixed.Min[i]-moving.Max[i], d[i])
		}
	}

	if entry[0] < 0 && entry[1] < 0 && entry[2] < 0 {
		return 1, nil
	}
	if entry[0] > 1 || entry[1] > 1 || entry[2] > 1 {
		return 1, nil
	}

	enter := max(entry[0], entry[1], entry[2])
	leave := min(exit[0], exit[1], exit[2])
	if enter > leave {
		return 1, nil
	}

	normal := make([]int, 3)
	for i := 0; i < 3; i++ {
		if enter == entry[i] {
			if d[i] > 0 {
				normal[i] = -1
			} else {
				normal[i] = 1
			}
		}
	}
	return enter, normal
}
