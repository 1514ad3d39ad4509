package physics

// Rect represents a rectangular area
type Rect struct {
	Center Vector2D
	Width  float64
	Height float64
}

// Contains reports whether point lies in the half-open rectangle
func (r Rect) Contains(point Vector2D) bool {
	return point.X >= r.Center.X-r.Width/2 &&
		point.X < r.Center.X+r.Width/2 &&
		point.Y >= r.Center.Y-r.Height/2 &&
		point.Y < r.Center.Y+r.Height/2
}

// Grow returns the rectangle extended by margin on every side
func (r Rect) Grow(margin float64) Rect {
	return Rect{Center: r.Center, Width: r.Width + 2*margin, Height: r.Height + 2*margin}
}

func (r Rect) intersects(other Rect) bool {
	return !(other.Center.X-other.Width/2 > r.Center.X+r.Width/2 ||
		other.Center.X+other.Width/2 < r.Center.X-r.Width/2 ||
		other.Center.Y-other.Height/2 > r.Center.Y+r.Height/2 ||
		other.Center.Y+other.Height/2 < r.Center.Y-r.Height/2)
}

// QuadTree indexes values by point for rectangular range queries
type QuadTree[T any] struct {
	Boundary  Rect
	Capacity  int
	Points    []Vector2D
	Objects   []T
	Divided   bool
	NorthWest *QuadTree[T]
	NorthEast *QuadTree[T]
	SouthWest *QuadTree[T]
	SouthEast *QuadTree[T]
}

// NewQuadTree creates a new quad tree with the given boundary and capacity
func NewQuadTree[T any](boundary Rect, capacity int) *QuadTree[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &QuadTree[T]{
		Boundary: boundary,
		Capacity: capacity,
		Points:   make([]Vector2D, 0, capacity),
		Objects:  make([]T, 0, capacity),
	}
}

// Insert adds object at point. It returns false when point is outside
// the tree's boundary.
func (qt *QuadTree[T]) Insert(point Vector2D, object T) bool {
	if !qt.Boundary.Contains(point) {
		return false
	}

	if len(qt.Points) < qt.Capacity && !qt.Divided {
		qt.Points = append(qt.Points, point)
		qt.Objects = append(qt.Objects, object)
		return true
	}

	if !qt.Divided {
		qt.Subdivide()
	}

	return qt.NorthWest.Insert(point, object) ||
		qt.NorthEast.Insert(point, object) ||
		qt.SouthWest.Insert(point, object) ||
		qt.SouthEast.Insert(point, object)
}

// Subdivide splits the quadtree into four quadrants
func (qt *QuadTree[T]) Subdivide() {
	x := qt.Boundary.Center.X
	y := qt.Boundary.Center.Y
	w := qt.Boundary.Width / 2
	h := qt.Boundary.Height / 2

	nw := Rect{Center: Vector2D{X: x - w/2, Y: y + h/2}, Width: w, Height: h}
	ne := Rect{Center: Vector2D{X: x + w/2, Y: y + h/2}, Width: w, Height: h}
	sw := Rect{Center: Vector2D{X: x - w/2, Y: y - h/2}, Width: w, Height: h}
	se := Rect{Center: Vector2D{X: x + w/2, Y: y - h/2}, Width: w, Height: h}

	qt.NorthWest = NewQuadTree[T](nw, qt.Capacity)
	qt.NorthEast = NewQuadTree[T](ne, qt.Capacity)
	qt.SouthWest = NewQuadTree[T](sw, qt.Capacity)
	qt.SouthEast = NewQuadTree[T](se, qt.Capacity)
	qt.Divided = true
}

// Query returns every object whose point lies inside area
func (qt *QuadTree[T]) Query(area Rect) []T {
	var found []T
	qt.query(area, &found)
	return found
}

func (qt *QuadTree[T]) query(area Rect, found *[]T) {
	if !qt.Boundary.intersects(area) {
		return
	}

	for i, point := range qt.Points {
		if area.Contains(point) {
			*found = append(*found, qt.Objects[i])
		}
	}

	if !qt.Divided {
		return
	}

	qt.NorthWest.query(area, found)
	qt.NorthEast.query(area, found)
	qt.SouthWest.query(area, found)
	qt.SouthEast.query(area, found)
}
