package physics

import (
	"fmt"
	"math"
)

// GravityPolicy selects how a body's pull is directed
type GravityPolicy int

const (
	// PolicyContinuous points the pull along the normalized displacement
	PolicyContinuous GravityPolicy = iota
	// PolicyAxis reduces each axis of the displacement to its sign,
	// producing Manhattan-like directions
	PolicyAxis
)

// String returns the config name of the policy
func (p GravityPolicy) String() string {
	switch p {
	case PolicyContinuous:
		return "continuous"
	case PolicyAxis:
		return "axis"
	default:
		return fmt.Sprintf("GravityPolicy(%d)", int(p))
	}
}

// ParseGravityPolicy converts a config name into a GravityPolicy
func ParseGravityPolicy(name string) (GravityPolicy, error) {
	switch name {
	case "", "continuous":
		return PolicyContinuous, nil
	case "axis":
		return PolicyAxis, nil
	default:
		return 0, fmt.Errorf("unknown gravity policy %q", name)
	}
}

// Gravity evaluates the pull of point masses. Bodies farther than
// InfluenceRadius contribute nothing.
type Gravity struct {
	Constant        float64
	InfluenceRadius float64
	Policy          GravityPolicy
}

// Magnitude returns G·mass/distance². The caller guarantees distance > 0.
func (g Gravity) Magnitude(mass, distance float64) float64 {
	return (g.Constant * mass) / (distance * distance)
}

// Pull returns the per-unit-time velocity delta that a body of the given
// mass at source exerts on a point at. Coincident points and points
// outside the influence radius receive no pull.
func (g Gravity) Pull(at, source Vector2D, mass float64) Vector2D {
	displacement := source.Sub(at)
	distance := displacement.Length()
	if distance == 0 || distance > g.InfluenceRadius {
		return Vector2D{}
	}

	magnitude := g.Magnitude(mass, distance)

	var direction Vector2D
	switch g.Policy {
	case PolicyAxis:
		direction = displacement.Sign()
	default:
		direction = displacement.Scale(1 / distance)
	}
	return direction.Scale(magnitude)
}

// OrbitVelocity returns the velocity a body at position needs for a
// circular orbit around a mass at center (clockwise in screen space,
// where y grows downward). A body sitting on
// the center gets no velocity.
func (g Gravity) OrbitVelocity(center Vector2D, mass float64, position Vector2D) Vector2D {
	offset := position.Sub(center)
	radius := offset.Length()
	if radius == 0 || mass <= 0 {
		return Vector2D{}
	}
	speed := math.Sqrt(g.Constant * mass / radius)
	return Vector2D{X: -offset.Y, Y: offset.X}.Normalize().Scale(speed)
}
