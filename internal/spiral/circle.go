package spiral

// Circle is one packing circle. Intersections are kept sorted clockwise,
// anchored at the point nearest the packing origin, so arc indexing is
// reproducible across circles.
type Circle struct {
	ID            int
	Center        complex128
	Radius        float64
	Visible       bool
	Intersections []IntersectionRef
}

// IntersectionRef is one intersection point together with the arena index of
// the circle it was shared with. Indices instead of pointers keep the
// circle<->neighbor graph cycle-free.
type IntersectionRef struct {
	Point complex128
	Other int
}

// Neighbors returns the neighboring circle ids in intersection order.
// A circle in a full hexagonal cell has exactly six.
func (c *Circle) Neighbors() []int {
	ids := make([]int, len(c.Intersections))
	for i, ref := range c.Intersections {
		ids[i] = ref.Other
	}
	return ids
}

// Arena owns every circle of one render, addressed by integer id.
// It is built fresh per render and discarded afterward.
type Arena struct {
	Circles []Circle
}

// NewArena returns an empty arena with room for n circles.
func NewArena(n int) *Arena {
	return &Arena{Circles: make([]Circle, 0, n)}
}

// Add appends a circle and returns its id.
func (a *Arena) Add(center complex128, radius float64, visible bool) int {
	id := len(a.Circles)
	a.Circles = append(a.Circles, Circle{
		ID:      id,
		Center:  center,
		Radius:  radius,
		Visible: visible,
	})
	return id
}

// At returns the circle with the given id.
func (a *Arena) At(id int) *Circle {
	return &a.Circles[id]
}

// Len returns the number of circles in the arena.
func (a *Arena) Len() int {
	return len(a.Circles)
}
