// Package geometry provides the shared value types for screen-space
// measurement: points, sizes, and rectangles in the host document's
// coordinate space.
package geometry

// Point is a position in document coordinates.
type Point struct {
	X int
	Y int
}

// Size is a width/height pair.
type Size struct {
	Width  int
	Height int
}

// IsZero returns true if the size has no area.
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rect is an axis-aligned rectangle identified by its top-left corner
// and its size, matching how the host reports bounding boxes.
type Rect struct {
	Left   int
	Top    int
	Width  int
	Height int
}

// RectAt creates a rectangle from position and size.
func RectAt(left, top, width, height int) Rect {
	return Rect{Left: left, Top: top, Width: width, Height: height}
}

// Right returns the exclusive right edge.
func (r Rect) Right() int {
	return r.Left + r.Width
}

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int {
	return r.Top + r.Height
}

// Size returns the rectangle's size.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// IsEmpty returns true if the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains returns true if p is within the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X < r.Right() &&
		p.Y >= r.Top && p.Y < r.Bottom()
}

// Intersects returns true if two rectangles overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.Left < other.Right() && r.Right() > other.Left &&
		r.Top < other.Bottom() && r.Bottom() > other.Top
}

// Translate returns a copy of r shifted by dx, dy.
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Width: r.Width, Height: r.Height}
}

// Scroll is a scroll offset pair reported by a scrollable container.
type Scroll struct {
	Left int
	Top  int
}
