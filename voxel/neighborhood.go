package voxel

// CenterSlot is the Neighborhood slot that always holds the chunk being meshed.
const CenterSlot = 13

// NeighborSlot maps an offset in {-1,0,1}^3 to its slot, cx + 3*cz + 9*cy.
// It returns -1 for offsets outside the window.
func NeighborSlot(dx, dy, dz int) int {
	if dx < -1 || dx > 1 || dy < -1 || dy > 1 || dz < -1 || dz > 1 {
		return -1
	}
	return (dx + 1) + 3*(dz+1) + 9*(dy+1)
}

// Neighborhood is the 3x3x3 window of chunks around a target chunk. Slots
// outside the world are nil. The center slot is fixed at construction.
type Neighborhood struct {
	slots [27]*Chunk
}

// NewNeighborhood returns a window around center with every neighbor absent.
func NewNeighborhood(center *Chunk) Neighborhood {
	var n Neighborhood
	n.slots[CenterSlot] = center
	return n
}

// NewNeighborhoodFrom builds a window from the 26 surrounding chunks listed in
// slot order with the center skipped.
func NewNeighborhoodFrom(center *Chunk, neighbors [26]*Chunk) Neighborhood {
	n := NewNeighborhood(center)
	for i, c := range neighbors {
		slot := i
		if i >= CenterSlot {
			slot++
		}
		n.slots[slot] = c
	}
	return n
}

// NewNeighborhood27 builds a window from a full slot array. Slot 13 is the
// center, so the two forms agree on which chunk is meshed.
func NewNeighborhood27(slots [27]*Chunk) Neighborhood {
	return Neighborhood{slots: slots}
}

// Set stores c at offset (dx, dy, dz). The center cannot be replaced and
// offsets outside the window are rejected; both report false.
func (n *Neighborhood) Set(dx, dy, dz int, c *Chunk) bool {
	slot := NeighborSlot(dx, dy, dz)
	if slot < 0 || slot == CenterSlot {
		return false
	}
	n.slots[slot] = c
	return true
}

// At returns the chunk at offset (dx, dy, dz), nil when absent.
func (n Neighborhood) At(dx, dy, dz int) *Chunk {
	slot := NeighborSlot(dx, dy, dz)
	if slot < 0 {
		return nil
	}
	return n.slots[slot]
}

func (n Neighborhood) Center() *Chunk { return n.slots[CenterSlot] }

// Present counts the non-nil slots, center included.
func (n Neighborhood) Present() int {
	count := 0
	for _, c := range n.slots {
		if c != nil {
			count++
		}
	}
	return count
}

// lookup resolves a coordinate relative to the center chunk, which may lie in
// any of the 27 chunks. ok is false when that chunk is absent.
func (n Neighborhood) lookup(x, y, z int) (id uint16, ok bool) {
	cx, lx := split(x)
	cy, ly := split(y)
	cz, lz := split(z)
	c := n.At(cx, cy, cz)
	if c == nil {
		return Air, false
	}
	return c.ID(lx, ly, lz), true
}
