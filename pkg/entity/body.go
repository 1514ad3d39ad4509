package entity

import (
	"fmt"
	"math"

	"github.com/opd-ai/vectorspace/pkg/physics"
)

// DefaultBodySpeedLimit bounds each velocity component of a gravity-driven body
const DefaultBodySpeedLimit = 1000

// MoveMode selects how a dynamic body's velocity evolves
type MoveMode int

const (
	// ModeFixed leaves velocity to external code
	ModeFixed MoveMode = iota
	// ModeOrbit follows a rigid ellipse around a body or point
	ModeOrbit
	// ModeFunction evaluates a power series per axis for velocity
	ModeFunction
	// ModeGravity falls under gravity and bounces off other bodies
	ModeGravity
)

var moveModeNames = map[MoveMode]string{
	ModeFixed:    "fixed",
	ModeOrbit:    "orbit",
	ModeFunction: "function",
	ModeGravity:  "gravity",
}

// String returns the config name of the mode
func (m MoveMode) String() string {
	if name, ok := moveModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("MoveMode(%d)", int(m))
}

// ParseMoveMode converts a config name into a MoveMode
func ParseMoveMode(name string) (MoveMode, error) {
	for mode, n := range moveModeNames {
		if n == name {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("unknown move mode %q", name)
}

// Motion holds the mode-specific parameters of a dynamic body
type Motion struct {
	// OrbitBody is the body orbited in ModeOrbit. When it is NoBody,
	// OrbitCenter is used instead.
	OrbitBody   ID
	OrbitCenter physics.Vector2D

	// Time is the cursor fed to the orbit and function modes. It advances
	// by Δt·Rate and jumps back to TimeStart once it passes TimeEnd.
	Time      float64
	TimeStart float64
	TimeEnd   float64
	Rate      float64
	XMul      float64
	YMul      float64

	// FunctionX and FunctionY are c0 + c1·t + c2·t² + ... coefficients
	FunctionX []float64
	FunctionY []float64

	// SpeedLimit bounds velocity components in ModeGravity; zero means
	// DefaultBodySpeedLimit
	SpeedLimit float64
}

// DefaultMotion returns parameters with unit multipliers and an
// effectively open-ended time window
func DefaultMotion() Motion {
	return Motion{
		OrbitBody: NoBody,
		TimeEnd:   999999,
		Rate:      1,
		XMul:      1,
		YMul:      1,
	}
}

// Body is a gravitating, collidable object. Kind tags it as static or
// dynamic; only dynamic bodies carry a move mode.
type Body struct {
	ID       ID
	Kind     Kind
	Position physics.Vector2D
	Velocity physics.Vector2D
	Radius   float64
	Mass     float64
	Motion   Motion

	// Gravity is the last gravity delta evaluated for a gravity-mode body
	Gravity physics.Vector2D

	mode MoveMode
}

// NewStaticBody creates a body that never moves
func NewStaticBody(id ID, position physics.Vector2D, radius, mass float64) Body {
	return Body{
		ID:       id,
		Kind:     Static,
		Position: position,
		Radius:   radius,
		Mass:     mass,
		Motion:   DefaultMotion(),
	}
}

// NewDynamicBody creates a body driven by mode. The mode cannot change
// afterwards.
func NewDynamicBody(id ID, position physics.Vector2D, radius, mass float64, mode MoveMode, motion Motion) Body {
	motion.Time = motion.TimeStart
	return Body{
		ID:       id,
		Kind:     Dynamic,
		Position: position,
		Radius:   radius,
		Mass:     mass,
		Motion:   motion,
		mode:     mode,
	}
}

// Mode returns the move mode chosen at construction
func (b *Body) Mode() MoveMode {
	return b.mode
}

// Collider returns the body's collision circle
func (b *Body) Collider() physics.Circle {
	return physics.Circle{Center: b.Position, Radius: b.Radius}
}

// Update advances a dynamic body by dt: the time cursor moves, the mode
// sets velocity, then position is integrated and wrapped. Static bodies
// are left untouched. A gravity-mode body reports the body it bounced off,
// NoBody otherwise.
func (b *Body) Update(dt float64, f Field) ID {
	if b.Kind != Dynamic {
		return NoBody
	}

	m := &b.Motion
	m.Time += dt * m.Rate
	if m.Time > m.TimeEnd {
		m.Time = m.TimeStart
	}

	struck := NoBody
	switch b.mode {
	case ModeOrbit:
		b.updateOrbit(dt, f)
	case ModeFunction:
		b.Velocity = physics.Vector2D{
			X: evalSeries(m.FunctionX, m.Time) * m.XMul,
			Y: evalSeries(m.FunctionY, m.Time) * m.YMul,
		}
	case ModeGravity:
		struck = b.updateGravity(dt, f)
	}

	b.Position = b.Position.Add(b.Velocity.Scale(dt))
	b.Position = f.Bounds().Wrap(b.Position)
	return struck
}

// OrbitTarget returns where the orbit mode wants the body to be at the
// current time cursor
func (b *Body) OrbitTarget(f Field) physics.Vector2D {
	m := &b.Motion
	center := m.OrbitCenter
	if m.OrbitBody.Valid() {
		if ref, ok := f.Lookup(m.OrbitBody); ok {
			center = ref.Position
		}
	}
	return center.Add(physics.Vector2D{
		X: math.Cos(m.Time) * m.XMul,
		Y: math.Sin(m.Time) * m.YMul,
	})
}

// updateOrbit sets velocity so the integration step lands exactly on the
// orbit target
func (b *Body) updateOrbit(dt float64, f Field) {
	if dt == 0 {
		return
	}
	target := b.OrbitTarget(f)
	b.Velocity = target.Sub(b.Position).Scale(1 / dt)
}

func (b *Body) updateGravity(dt float64, f Field) ID {
	b.Gravity = f.GravityAt(b.Position)
	velocity := b.Velocity.Add(b.Gravity.Scale(dt))

	struck := NoBody
	predicted := b.Position.Add(velocity.Scale(dt))
	if hit, ok := f.WillCollide(predicted, b.ID); ok {
		if normal, ok := physics.CollisionNormal(b.Position, hit.Position, velocity.Scale(-1)); ok {
			velocity = physics.Reflect.Apply(velocity, hit.Velocity, normal)
			struck = hit.ID
		}
	}

	limit := b.Motion.SpeedLimit
	if limit <= 0 {
		limit = DefaultBodySpeedLimit
	}
	b.Velocity = velocity.ClampComponents(limit)
	return struck
}

// evalSeries evaluates Σ coeffs[i]·tⁱ
func evalSeries(coeffs []float64, t float64) float64 {
	sum, power := 0.0, 1.0
	for _, c := range coeffs {
		sum += c * power
		power *= t
	}
	return sum
}
