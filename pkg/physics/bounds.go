package physics

// Bounds is the square world [-HalfExtent, HalfExtent] on both axes
type Bounds struct {
	HalfExtent float64
}

// Wrap teleports a position that left the world to the opposite edge.
// It is a reset to the edge, not a modulo.
func (b Bounds) Wrap(pos Vector2D) Vector2D {
	return Vector2D{
		X: wrapAxis(pos.X, b.HalfExtent),
		Y: wrapAxis(pos.Y, b.HalfExtent),
	}
}

// Clamp holds a position inside the world and zeroes each velocity
// component whose axis was violated
func (b Bounds) Clamp(pos, vel Vector2D) (Vector2D, Vector2D) {
	e := b.HalfExtent
	if pos.X < -e || pos.X > e {
		pos.X = clamp(pos.X, -e, e)
		vel.X = 0
	}
	if pos.Y < -e || pos.Y > e {
		pos.Y = clamp(pos.Y, -e, e)
		vel.Y = 0
	}
	return pos, vel
}

// Contains reports whether pos lies inside the world
func (b Bounds) Contains(pos Vector2D) bool {
	e := b.HalfExtent
	return pos.X >= -e && pos.X <= e && pos.Y >= -e && pos.Y <= e
}

// Rect returns the world as a Rect
func (b Bounds) Rect() Rect {
	return Rect{Width: 2 * b.HalfExtent, Height: 2 * b.HalfExtent}
}

func wrapAxis(v, e float64) float64 {
	if v < -e {
		return e
	}
	if v > e {
		return -e
	}
	return v
}
