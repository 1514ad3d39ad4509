package physics

import (
	"math"
	"testing"
)

func TestGravity_Pull_InverseSquare(t *testing.T) {
	g := Gravity{Constant: 2, InfluenceRadius: 1000, Policy: PolicyContinuous}
	source := Vector2D{X: 0, Y: 0}

	near := g.Pull(Vector2D{X: 10, Y: 0}, source, 100).Length()
	far := g.Pull(Vector2D{X: 20, Y: 0}, source, 100).Length()

	if !approxEqual(near, 2*100/100.0) {
		t.Errorf("pull at d=10 = %v, expected %v", near, 2.0)
	}
	if !approxEqual(near/far, 4) {
		t.Errorf("doubling distance scaled pull by %v, expected 1/4", far/near)
	}
}

func TestGravity_Pull_Direction(t *testing.T) {
	g := Gravity{Constant: 1, InfluenceRadius: 1000}
	pull := g.Pull(Vector2D{X: 3, Y: 4}, Vector2D{}, 25)

	expected := Vector2D{X: -0.6, Y: -0.8}
	if !vectorsApproxEqual(pull, expected) {
		t.Errorf("Pull() = %v, expected %v", pull, expected)
	}
}

func TestGravity_Pull_Skips(t *testing.T) {
	g := Gravity{Constant: 2, InfluenceRadius: 1000}

	tests := []struct {
		name   string
		at     Vector2D
		source Vector2D
		mass   float64
	}{
		{"coincident", Vector2D{X: 5, Y: 5}, Vector2D{X: 5, Y: 5}, 100},
		{"outside_influence", Vector2D{X: 0, Y: 0}, Vector2D{X: 1000.5, Y: 0}, 100},
		{"zero_mass", Vector2D{X: 0, Y: 0}, Vector2D{X: 10, Y: 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if pull := g.Pull(tt.at, tt.source, tt.mass); !pull.IsZero() {
				t.Errorf("Pull() = %v, expected zero", pull)
			}
		})
	}

	edge := g.Pull(Vector2D{}, Vector2D{X: 1000, Y: 0}, 100)
	if edge.IsZero() {
		t.Error("pull exactly at the influence radius should still count")
	}
}

func TestGravity_Pull_AxisPolicy(t *testing.T) {
	g := Gravity{Constant: 1, InfluenceRadius: 1000, Policy: PolicyAxis}
	pull := g.Pull(Vector2D{}, Vector2D{X: 3, Y: -4}, 25)

	// magnitude 1·25/25 = 1 on each signed axis
	expected := Vector2D{X: 1, Y: -1}
	if !vectorsApproxEqual(pull, expected) {
		t.Errorf("Pull() = %v, expected %v", pull, expected)
	}
}

func TestGravity_OrbitVelocity(t *testing.T) {
	g := Gravity{Constant: 2, InfluenceRadius: 1000}
	v := g.OrbitVelocity(Vector2D{}, 800, Vector2D{X: 100, Y: 0})

	if !approxEqual(v.Length(), math.Sqrt(2*800/100.0)) {
		t.Errorf("orbit speed = %v, expected %v", v.Length(), math.Sqrt(16))
	}
	if !approxEqual(v.Dot(Vector2D{X: 100, Y: 0}), 0) {
		t.Errorf("orbit velocity %v is not tangential", v)
	}
	if got := g.OrbitVelocity(Vector2D{}, 800, Vector2D{}); !got.IsZero() {
		t.Errorf("OrbitVelocity() at center = %v, expected zero", got)
	}
}

func TestParseGravityPolicy(t *testing.T) {
	tests := []struct {
		name    string
		want    GravityPolicy
		wantErr bool
	}{
		{"", PolicyContinuous, false},
		{"continuous", PolicyContinuous, false},
		{"axis", PolicyAxis, false},
		{"manhattan", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGravityPolicy(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseGravityPolicy(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseGravityPolicy(%q) = %v, expected %v", tt.name, got, tt.want)
			}
		})
	}
}
