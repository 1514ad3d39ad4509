package physics

import (
	"errors"
	"math"
)

// ErrSingular is returned when inverting a matrix whose determinant is zero
var ErrSingular = errors.New("matrix is singular")

// Matrix2D is a 2x2 matrix in row-major order:
//
//	| A B |
//	| C D |
type Matrix2D struct {
	A, B float64
	C, D float64
}

// Identity returns the 2x2 identity matrix
func Identity() Matrix2D {
	return Matrix2D{A: 1, D: 1}
}

// Rotation returns the counter-clockwise rotation matrix for angle radians
func Rotation(angle float64) Matrix2D {
	sin, cos := math.Sincos(angle)
	return Matrix2D{
		A: cos, B: -sin,
		C: sin, D: cos,
	}
}

// Add returns the element-wise sum
func (m Matrix2D) Add(o Matrix2D) Matrix2D {
	return Matrix2D{
		A: m.A + o.A, B: m.B + o.B,
		C: m.C + o.C, D: m.D + o.D,
	}
}

// Sub returns the element-wise difference
func (m Matrix2D) Sub(o Matrix2D) Matrix2D {
	return Matrix2D{
		A: m.A - o.A, B: m.B - o.B,
		C: m.C - o.C, D: m.D - o.D,
	}
}

// Mul returns the matrix product m·o
func (m Matrix2D) Mul(o Matrix2D) Matrix2D {
	return Matrix2D{
		A: m.A*o.A + m.B*o.C, B: m.A*o.B + m.B*o.D,
		C: m.C*o.A + m.D*o.C, D: m.C*o.B + m.D*o.D,
	}
}

// MulVec returns the product m·v
func (m Matrix2D) MulVec(v Vector2D) Vector2D {
	return Vector2D{
		X: m.A*v.X + m.B*v.Y,
		Y: m.C*v.X + m.D*v.Y,
	}
}

// Scale multiplies every element by factor
func (m Matrix2D) Scale(factor float64) Matrix2D {
	return Matrix2D{
		A: m.A * factor, B: m.B * factor,
		C: m.C * factor, D: m.D * factor,
	}
}

// Det returns the determinant
func (m Matrix2D) Det() float64 {
	return m.A*m.D - m.B*m.C
}

// Transpose swaps rows and columns
func (m Matrix2D) Transpose() Matrix2D {
	return Matrix2D{
		A: m.A, B: m.C,
		C: m.B, D: m.D,
	}
}

// Inverse returns m⁻¹, or ErrSingular when the determinant is zero
func (m Matrix2D) Inverse() (Matrix2D, error) {
	det := m.Det()
	if det == 0 {
		return Matrix2D{}, ErrSingular
	}
	adj := Matrix2D{
		A: m.D, B: -m.B,
		C: -m.C, D: m.A,
	}
	return adj.Scale(1 / det), nil
}
