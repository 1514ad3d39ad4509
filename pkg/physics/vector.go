// pkg/physics/vector.go
package physics

import "math"

// Vector2D represents a 2D vector with x and y components
type Vector2D struct {
	X float64
	Y float64
}

// Zero is the zero vector
var Zero = Vector2D{}

// Add returns the sum of two vectors
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{
		X: v.X + other.X,
		Y: v.Y + other.Y,
	}
}

// Sub returns the difference between two vectors
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{
		X: v.X - other.X,
		Y: v.Y - other.Y,
	}
}

// Scale multiplies the vector by a scalar value
func (v Vector2D) Scale(factor float64) Vector2D {
	return Vector2D{
		X: v.X * factor,
		Y: v.Y * factor,
	}
}

// Equal reports whether both components match exactly
func (v Vector2D) Equal(other Vector2D) bool {
	return v.X == other.X && v.Y == other.Y
}

// IsZero reports whether both components are zero
func (v Vector2D) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Length returns the magnitude of the vector. The squared terms go through
// math.Abs so a sign-corrupted square never reaches math.Sqrt.
func (v Vector2D) Length() float64 {
	return math.Sqrt(math.Abs(v.X*v.X) + math.Abs(v.Y*v.Y))
}

// LengthSquared returns magnitude squared (optimization for comparisons)
func (v Vector2D) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns a unit vector in the same direction.
// The zero vector normalizes to the zero vector.
func (v Vector2D) Normalize() Vector2D {
	length := v.Length()
	if length == 0 {
		return Vector2D{}
	}
	return Vector2D{
		X: v.X / length,
		Y: v.Y / length,
	}
}

// Distance returns the distance between two vectors
func (v Vector2D) Distance(other Vector2D) float64 {
	return v.Sub(other).Length()
}

// Dot returns the dot product of two vectors
func (v Vector2D) Dot(other Vector2D) float64 {
	return v.X*other.X + v.Y*other.Y
}

// ScalarProjection returns the signed length of v projected onto other.
// Projection onto the zero vector is 0.
func (v Vector2D) ScalarProjection(other Vector2D) float64 {
	length := other.Length()
	if length == 0 {
		return 0
	}
	return v.Dot(other) / length
}

// LongerThan reports whether v has a greater magnitude than other
func (v Vector2D) LongerThan(other Vector2D) bool {
	return v.LengthSquared() > other.LengthSquared()
}

// Angle returns the angle of the vector in radians
func (v Vector2D) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// FromAngle creates a vector from an angle and magnitude
func FromAngle(angle float64, magnitude float64) Vector2D {
	return Vector2D{
		X: magnitude * math.Cos(angle),
		Y: magnitude * math.Sin(angle),
	}
}

// Rotate rotates the vector by angle (in radians)
func (v Vector2D) Rotate(angle float64) Vector2D {
	return Rotation(angle).MulVec(v)
}

// Perpendicular returns v rotated a quarter turn counter-clockwise
func (v Vector2D) Perpendicular() Vector2D {
	return Vector2D{X: -v.Y, Y: v.X}
}

// Sign reduces each component to -1, 0 or +1
func (v Vector2D) Sign() Vector2D {
	return Vector2D{X: sign(v.X), Y: sign(v.Y)}
}

// ClampComponents limits each component to [-limit, limit]
func (v Vector2D) ClampComponents(limit float64) Vector2D {
	return Vector2D{
		X: clamp(v.X, -limit, limit),
		Y: clamp(v.Y, -limit, limit),
	}
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
