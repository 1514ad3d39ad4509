// pkg/physics/collision.go
package physics

// Circle represents a circular collision shape
type Circle struct {
	Center Vector2D
	Radius float64
}

// Collides reports whether the circles overlap or touch
func (c Circle) Collides(other Circle) bool {
	return c.Center.Distance(other.Center) <= c.Radius+other.Radius
}

// Contains reports whether point lies inside the circle or on its edge
func (c Circle) Contains(point Vector2D) bool {
	return c.Center.Distance(point) <= c.Radius
}

// SurfaceDistance returns the distance from point to the circle's edge,
// negative when point is inside
func (c Circle) SurfaceDistance(point Vector2D) float64 {
	return c.Center.Distance(point) - c.Radius
}

// Response is the shared impulse model used by every mover. Friction
// scales the incoming velocity and ImpulseGain scales the push along the
// contact normal. Friction 1 with gain 2 is a lossless reflection.
type Response struct {
	Friction    float64
	ImpulseGain float64
}

// Reflect is the lossless response
var Reflect = Response{Friction: 1, ImpulseGain: 2}

// Apply returns the post-contact velocity of a mover with the given
// velocity hitting a body moving at other. normal must be a unit vector
// pointing from the struck body towards the mover.
func (r Response) Apply(velocity, other, normal Vector2D) Vector2D {
	relative := velocity.Sub(other)
	impulse := normal.Scale(-r.ImpulseGain * relative.Dot(normal))
	return velocity.Scale(r.Friction).Add(impulse)
}

// CollisionNormal returns the unit vector from struck to self. When the two
// centers coincide it falls back to the normalized fallback vector; ok is
// false when both are degenerate.
func CollisionNormal(self, struck, fallback Vector2D) (normal Vector2D, ok bool) {
	normal = self.Sub(struck).Normalize()
	if !normal.IsZero() {
		return normal, true
	}
	normal = fallback.Normalize()
	return normal, !normal.IsZero()
}
