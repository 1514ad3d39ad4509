// pkg/entity/ship.go
package entity

import (
	"math"

	"github.com/opd-ai/vectorspace/pkg/physics"
)

// ShipStats contains the tuning of the player controller
type ShipStats struct {
	MaxHealth     int
	SpeedLimit    float64 // per velocity component
	MaxThrust     float64
	ThrustRate    float64 // throttle change per second
	ThrustAccel   float64 // acceleration per unit of thrust
	BrakeAccel    float64 // braking acceleration per unit of thrust
	Response      physics.Response
	DamageSpeed   float64 // impact speed that starts to hurt
	DamageScale   float64 // damage per unit of resulting speed
	ImmunityTime  float64 // seconds of invulnerability after a hit
	ParkMargin    float64
	ParkSpeedBand float64
	ParkPush      float64
}

// DefaultShipStats returns the player tuning used by the game
func DefaultShipStats() ShipStats {
	return ShipStats{
		MaxHealth:     100,
		SpeedLimit:    1000,
		MaxThrust:     10,
		ThrustRate:    8,
		ThrustAccel:   60,
		BrakeAccel:    200,
		Response:      physics.Response{Friction: 0.75, ImpulseGain: 1.5},
		DamageSpeed:   300,
		DamageScale:   0.05,
		ImmunityTime:  1,
		ParkMargin:    10,
		ParkSpeedBand: 100,
		ParkPush:      4,
	}
}

// StepReport describes what happened to a ship during one update
type StepReport struct {
	Collided ID // NoBody when nothing was struck
	Damage   int
	Parked   bool // the ship parked during this update
}

// Ship is the player-controlled mover. It flies under gravity, thrust
// and braking, bounces off bodies and can park on one.
type Ship struct {
	Stats ShipStats

	Position physics.Vector2D
	Velocity physics.Vector2D
	Gravity  physics.Vector2D // last gravity delta
	Intent   physics.Vector2D // last steering direction

	Braking  bool
	Steering bool

	Parked       bool
	ParkedOn     ID
	ParkedOffset physics.Vector2D

	LastCollided ID
	Health       int
	Immunity     float64

	Thrust    float64
	ThrustDir int
}

// NewShip creates a ship at start with full health
func NewShip(stats ShipStats, start physics.Vector2D) *Ship {
	s := &Ship{Stats: stats}
	s.Reset(start)
	return s
}

// Reset restores the ship to its starting state at start
func (s *Ship) Reset(start physics.Vector2D) {
	*s = Ship{
		Stats:        s.Stats,
		Position:     start,
		ParkedOn:     NoBody,
		LastCollided: NoBody,
		Health:       s.Stats.MaxHealth,
		Thrust:       1,
	}
	if s.Thrust > s.Stats.MaxThrust {
		s.Thrust = s.Stats.MaxThrust
	}
}

// Steer sets the steering direction. Any non-zero input leaves the parked
// state immediately.
func (s *Ship) Steer(dir physics.Vector2D) {
	s.Intent = dir
	s.Steering = !dir.IsZero()
	if s.Steering {
		s.unpark()
	}
}

// Brake engages the brake
func (s *Ship) Brake() {
	s.Braking = true
}

// Release disengages the brake
func (s *Ship) Release() {
	s.Braking = false
}

// SetThrustDirection sets the throttle direction: positive raises thrust,
// negative lowers it, zero holds it
func (s *Ship) SetThrustDirection(dir int) {
	switch {
	case dir > 0:
		s.ThrustDir = 1
	case dir < 0:
		s.ThrustDir = -1
	default:
		s.ThrustDir = 0
	}
}

// Movement returns the acceleration requested by the current input
func (s *Ship) Movement() physics.Vector2D {
	return s.Intent.Scale(s.Thrust * s.Stats.ThrustAccel)
}

// Speed returns the magnitude of the ship's velocity
func (s *Ship) Speed() float64 {
	return s.Velocity.Length()
}

// Alive reports whether the ship still has health
func (s *Ship) Alive() bool {
	return s.Health > 0
}

// Update advances the ship by dt. It returns ErrShipDestroyed once the
// ship's health drops to zero.
func (s *Ship) Update(dt float64, f Field) (StepReport, error) {
	report := StepReport{Collided: NoBody}

	s.updateThrust(dt)

	if s.Steering {
		s.unpark()
	}

	if s.Parked {
		s.followParked(f)
		return report, nil
	}

	s.Gravity = f.GravityAt(s.Position)
	velocity := s.Velocity.Add(s.Gravity.Scale(dt))
	if !s.Braking {
		velocity = velocity.Add(s.Movement().Scale(dt))
	}

	if s.Immunity > 0 {
		s.Immunity -= dt
	}

	predicted := s.Position.Add(velocity.Scale(dt))
	if hit, ok := f.WillCollide(predicted, NoBody); ok {
		velocity = s.collide(hit, velocity, &report)
	}

	if !s.Steering && s.tryPark(f) {
		report.Parked = true
		s.followParked(f)
		return report, s.healthError()
	}

	if s.Braking {
		velocity = s.brake(velocity, dt, f)
	}

	s.Velocity = velocity.ClampComponents(s.Stats.SpeedLimit)
	s.Position = s.Position.Add(s.Velocity.Scale(dt))
	s.Position = f.Bounds().Wrap(s.Position)

	return report, s.healthError()
}

func (s *Ship) updateThrust(dt float64) {
	s.Thrust += float64(s.ThrustDir) * s.Stats.ThrustRate * dt
	if s.Thrust < 0 {
		s.Thrust = 0
	}
	if s.Thrust > s.Stats.MaxThrust {
		s.Thrust = s.Stats.MaxThrust
	}
}

// collide applies the contact response against hit and any damage
func (s *Ship) collide(hit *Body, velocity physics.Vector2D, report *StepReport) physics.Vector2D {
	normal, ok := physics.CollisionNormal(s.Position, hit.Position, velocity.Scale(-1))
	if !ok {
		return velocity
	}

	impact := velocity.Sub(hit.Velocity).Length()
	velocity = s.Stats.Response.Apply(velocity, hit.Velocity, normal)

	// already inside: push out to the surface and ride along
	if hit.Collider().Contains(s.Position) {
		s.Position = hit.Position.Add(normal.Scale(hit.Radius))
		velocity = velocity.Add(hit.Velocity)
	}

	s.LastCollided = hit.ID
	report.Collided = hit.ID

	if s.Immunity <= 0 && impact > s.Stats.DamageSpeed {
		damage := int(velocity.Length() * s.Stats.DamageScale)
		if damage < 1 {
			damage = 1
		}
		s.Health -= damage
		s.Immunity = s.Stats.ImmunityTime
		report.Damage = damage
	}
	return velocity
}

// tryPark parks the ship on the last body it struck when it rests close
// to that body at a comparable velocity
func (s *Ship) tryPark(f Field) bool {
	if !s.LastCollided.Valid() {
		return false
	}
	body, ok := f.Lookup(s.LastCollided)
	if !ok {
		s.LastCollided = NoBody
		return false
	}

	diff := body.Position.Sub(s.Position)
	band := s.Stats.ParkSpeedBand
	if diff.Length() > body.Radius+s.Stats.ParkMargin ||
		math.Abs(s.Velocity.X-body.Velocity.X) > band ||
		math.Abs(s.Velocity.Y-body.Velocity.Y) > band {
		s.Parked = false
		return false
	}

	s.ParkedOffset = diff.Add(diff.Normalize().Scale(s.Stats.ParkPush))
	s.ParkedOn = body.ID
	s.Parked = true
	return true
}

// followParked slaves position and velocity to the parked-on body
func (s *Ship) followParked(f Field) {
	body, ok := f.Lookup(s.ParkedOn)
	if !ok {
		s.unpark()
		return
	}
	s.Velocity = body.Velocity
	s.Position = body.Position.Sub(s.ParkedOffset)
}

// brake steers velocity towards the velocity of the nearest body, or
// towards rest when the world is empty
func (s *Ship) brake(velocity physics.Vector2D, dt float64, f Field) physics.Vector2D {
	target := physics.Vector2D{}
	if closest, err := f.ClosestToPoint(s.Position); err == nil {
		target = closest.Velocity
	}

	diff := target.Sub(velocity)
	dist := diff.Length()
	if dist == 0 {
		return velocity
	}
	step := s.Thrust * s.Stats.BrakeAccel * dt
	if step >= dist {
		return target
	}
	return velocity.Add(diff.Scale(step / dist))
}

func (s *Ship) unpark() {
	s.Parked = false
	s.ParkedOn = NoBody
}

func (s *Ship) healthError() error {
	if s.Health <= 0 {
		return ErrShipDestroyed
	}
	return nil
}

