package voxel

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRaycastHit(t *testing.T) {
	w, err := NewWorld(Coord{1, 1, 1}, WorldOptions{})
	require.NoError(t, err)
	require.True(t, w.SetVoxel(8, 8, 8, Stone))

	hit, ok := w.Raycast(mgl32.Vec3{8, 8, 2}, mgl32.Vec3{0, 0, 1}, 10)
	require.True(t, ok)
	assert.Equal(t, Coord{8, 8, 8}, hit.Voxel)
	assert.Equal(t, Coord{8, 8, 7}, hit.Previous)
	assert.Equal(t, Stone, hit.ID)
	assert.InDelta(t, 5.5, hit.Distance, 1e-5)
}

func TestRaycastDiagonalAndNegative(t *testing.T) {
	w, err := NewWorld(Coord{1, 1, 1}, WorldOptions{})
	require.NoError(t, err)
	require.True(t, w.SetVoxel(2, 2, 2, Dirt))

	hit, ok := w.Raycast(mgl32.Vec3{6, 6, 6}, mgl32.Vec3{-1, -1, -1}, 20)
	require.True(t, ok)
	assert.Equal(t, Coord{2, 2, 2}, hit.Voxel)
	assert.NotEqual(t, hit.Voxel, hit.Previous)
	assert.Equal(t, Air, w.Voxel(hit.Previous.X, hit.Previous.Y, hit.Previous.Z))
}

func TestRaycastMiss(t *testing.T) {
	w, err := NewWorld(Coord{1, 1, 1}, WorldOptions{})
	require.NoError(t, err)
	require.True(t, w.SetVoxel(8, 8, 8, Stone))

	_, ok := w.Raycast(mgl32.Vec3{8, 8, 2}, mgl32.Vec3{0, 0, 1}, 4)
	assert.False(t, ok, "out of reach")

	_, ok = w.Raycast(mgl32.Vec3{8, 8, 2}, mgl32.Vec3{0, 1, 0}, 30)
	assert.False(t, ok, "looking away")

	_, ok = w.Raycast(mgl32.Vec3{8, 8, 2}, mgl32.Vec3{}, 30)
	assert.False(t, ok)
}
