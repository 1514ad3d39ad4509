// pkg/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/opd-ai/vectorspace/pkg/entity"
	"github.com/opd-ai/vectorspace/pkg/logging"
	"github.com/opd-ai/vectorspace/pkg/nav"
	"github.com/opd-ai/vectorspace/pkg/physics"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// ValidationError reports the offending field of an invalid config
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is match ErrInvalidConfig
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

// GameConfig contains configuration for a simulation session
type GameConfig struct {
	World     WorldConfig     `json:"world"`
	Physics   PhysicsConfig   `json:"physics"`
	Ship      ShipConfig      `json:"ship"`
	Agents    AgentConfig     `json:"agents"`
	Generator GeneratorConfig `json:"generator"`
	Bodies    []BodyConfig    `json:"bodies"`
	Server    ServerConfig    `json:"server"`
}

// WorldConfig describes the world extent and the generator seed
type WorldConfig struct {
	HalfExtent float64 `json:"halfExtent"`
	Seed       uint64  `json:"seed"`
	MaxDeltaT  float64 `json:"maxDeltaT"`
}

// PhysicsConfig contains physics-related configuration
type PhysicsConfig struct {
	Gravity         float64 `json:"gravity"`
	InfluenceRadius float64 `json:"influenceRadius"`
	Policy          string  `json:"policy"`
	BodySpeedLimit  float64 `json:"bodySpeedLimit"`
}

// ShipConfig contains the player's start and tuning
type ShipConfig struct {
	StartX        float64 `json:"startX"`
	StartY        float64 `json:"startY"`
	MaxHealth     int     `json:"maxHealth"`
	SpeedLimit    float64 `json:"speedLimit"`
	MaxThrust     float64 `json:"maxThrust"`
	ThrustRate    float64 `json:"thrustRate"`
	ThrustAccel   float64 `json:"thrustAccel"`
	BrakeAccel    float64 `json:"brakeAccel"`
	Friction      float64 `json:"friction"`
	ImpulseGain   float64 `json:"impulseGain"`
	DamageSpeed   float64 `json:"damageSpeed"`
	DamageScale   float64 `json:"damageScale"`
	ImmunityTime  float64 `json:"immunityTime"`
	ParkMargin    float64 `json:"parkMargin"`
	ParkSpeedBand float64 `json:"parkSpeedBand"`
}

// AgentConfig contains the number and tuning of autonomous pilots
type AgentConfig struct {
	Count         int     `json:"count"`
	SpeedLimit    float64 `json:"speedLimit"`
	Friction      float64 `json:"friction"`
	ImpulseGain   float64 `json:"impulseGain"`
	ArrivalRadius float64 `json:"arrivalRadius"`
	Boost         float64 `json:"boost"`
	Damping       float64 `json:"damping"`
	SnapSpeed     float64 `json:"snapSpeed"`
	Margin        float64 `json:"margin"`
}

// GeneratorConfig controls the star-system generator
type GeneratorConfig struct {
	Enabled       bool    `json:"enabled"`
	SystemRadius  float64 `json:"systemRadius"`
	SystemPadding float64 `json:"systemPadding"`
	Asteroids     int     `json:"asteroids"`
}

// BodyConfig describes one explicitly placed body. Orbit is the index of
// another entry of GameConfig.Bodies.
type BodyConfig struct {
	Kind      string    `json:"kind"`
	Mode      string    `json:"mode,omitempty"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	VX        float64   `json:"vx,omitempty"`
	VY        float64   `json:"vy,omitempty"`
	Radius    float64   `json:"radius"`
	Mass      float64   `json:"mass"`
	Orbit     *int      `json:"orbit,omitempty"`
	OrbitX    float64   `json:"orbitX,omitempty"`
	OrbitY    float64   `json:"orbitY,omitempty"`
	TimeStart float64   `json:"timeStart,omitempty"`
	TimeEnd   float64   `json:"timeEnd,omitempty"`
	Rate      float64   `json:"rate,omitempty"`
	XMul      float64   `json:"xMul,omitempty"`
	YMul      float64   `json:"yMul,omitempty"`
	FunctionX []float64 `json:"functionX,omitempty"`
	FunctionY []float64 `json:"functionY,omitempty"`
}

// ServerConfig contains settings of the headless driver
type ServerConfig struct {
	TickRate   int `json:"tickRate"`
	HealthPort int `json:"healthPort"`
}

// LoadConfig loads a configuration from a file and validates it
func LoadConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, logging.WrapError(err, "failed to read config file %s", path)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, logging.WrapError(err, "failed to parse config file %s", path)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *GameConfig, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return logging.WrapError(err, "failed to write config file %s", path)
	}

	return nil
}

// DefaultConfig returns a default game configuration
func DefaultConfig() *GameConfig {
	ship := entity.DefaultShipStats()
	agent := nav.DefaultAgentStats()

	return &GameConfig{
		World: WorldConfig{
			HalfExtent: 2000,
			Seed:       123,
			MaxDeltaT:  0.1,
		},
		Physics: PhysicsConfig{
			Gravity:         120,
			InfluenceRadius: 1000,
			Policy:          physics.PolicyContinuous.String(),
			BodySpeedLimit:  entity.DefaultBodySpeedLimit,
		},
		Ship: ShipConfig{
			StartX:        0,
			StartY:        0,
			MaxHealth:     ship.MaxHealth,
			SpeedLimit:    ship.SpeedLimit,
			MaxThrust:     ship.MaxThrust,
			ThrustRate:    ship.ThrustRate,
			ThrustAccel:   ship.ThrustAccel,
			BrakeAccel:    ship.BrakeAccel,
			Friction:      ship.Response.Friction,
			ImpulseGain:   ship.Response.ImpulseGain,
			DamageSpeed:   ship.DamageSpeed,
			DamageScale:   ship.DamageScale,
			ImmunityTime:  ship.ImmunityTime,
			ParkMargin:    ship.ParkMargin,
			ParkSpeedBand: ship.ParkSpeedBand,
		},
		Agents: AgentConfig{
			Count:         4,
			SpeedLimit:    agent.SpeedLimit,
			Friction:      agent.Response.Friction,
			ImpulseGain:   agent.Response.ImpulseGain,
			ArrivalRadius: agent.ArrivalRadius,
			Boost:         agent.Boost,
			Damping:       agent.Damping,
			SnapSpeed:     agent.SnapSpeed,
			Margin:        agent.Margin,
		},
		Generator: GeneratorConfig{
			Enabled:       true,
			SystemRadius:  1000,
			SystemPadding: 500,
			Asteroids:     6,
		},
		Server: ServerConfig{
			TickRate:   60,
			HealthPort: 8080,
		},
	}
}

// Validate checks the config for values the simulation cannot honor
func (c *GameConfig) Validate() error {
	if c.World.HalfExtent <= 0 {
		return &ValidationError{Field: "world.halfExtent", Message: "must be positive"}
	}
	if c.World.MaxDeltaT < 0 {
		return &ValidationError{Field: "world.maxDeltaT", Message: "must not be negative"}
	}
	if c.Physics.InfluenceRadius < 0 {
		return &ValidationError{Field: "physics.influenceRadius", Message: "must not be negative"}
	}
	if _, err := physics.ParseGravityPolicy(c.Physics.Policy); err != nil {
		return &ValidationError{Field: "physics.policy", Message: err.Error()}
	}
	if c.Ship.MaxThrust < 0 {
		return &ValidationError{Field: "ship.maxThrust", Message: "must not be negative"}
	}
	if c.Ship.MaxHealth <= 0 {
		return &ValidationError{Field: "ship.maxHealth", Message: "must be positive"}
	}
	if err := checkMover("ship", c.Ship.SpeedLimit, c.Ship.Friction, c.Ship.ImpulseGain); err != nil {
		return err
	}
	if c.Physics.BodySpeedLimit <= 0 {
		return &ValidationError{Field: "physics.bodySpeedLimit", Message: "must be positive"}
	}
	if c.Agents.Count < 0 {
		return &ValidationError{Field: "agents.count", Message: "must not be negative"}
	}
	if err := checkMover("agents", c.Agents.SpeedLimit, c.Agents.Friction, c.Agents.ImpulseGain); err != nil {
		return err
	}
	if c.Agents.ArrivalRadius < 0 {
		return &ValidationError{Field: "agents.arrivalRadius", Message: "must not be negative"}
	}
	if c.Generator.Enabled && c.Generator.SystemRadius <= 0 {
		return &ValidationError{Field: "generator.systemRadius", Message: "must be positive"}
	}
	if c.Generator.SystemPadding < 0 {
		return &ValidationError{Field: "generator.systemPadding", Message: "must not be negative"}
	}
	if c.Server.TickRate <= 0 {
		return &ValidationError{Field: "server.tickRate", Message: "must be positive"}
	}

	for i, b := range c.Bodies {
		if err := b.validate(i, len(c.Bodies)); err != nil {
			err.Field = fmt.Sprintf("bodies[%d].%s", i, err.Field)
			return err
		}
	}
	return nil
}

// checkMover validates the clamp and collision response shared by the
// ship and the agents. A negative limit would flip the clamp interval.
func checkMover(section string, speedLimit, friction, gain float64) *ValidationError {
	switch {
	case speedLimit <= 0:
		return &ValidationError{Field: section + ".speedLimit", Message: "must be positive"}
	case friction < 0:
		return &ValidationError{Field: section + ".friction", Message: "must not be negative"}
	case gain < 0:
		return &ValidationError{Field: section + ".impulseGain", Message: "must not be negative"}
	}
	return nil
}

func (b BodyConfig) validate(index, count int) *ValidationError {
	if b.Radius < 0 {
		return &ValidationError{Field: "radius", Message: "must not be negative"}
	}
	if b.Mass < 0 {
		return &ValidationError{Field: "mass", Message: "must not be negative"}
	}
	kind, err := b.EntityKind()
	if err != nil {
		return &ValidationError{Field: "kind", Message: err.Error()}
	}
	if kind == entity.Static && b.Orbit != nil {
		return &ValidationError{Field: "orbit", Message: "static bodies do not move"}
	}
	if b.Kind == "dynamic" {
		if _, err := entity.ParseMoveMode(b.Mode); err != nil {
			return &ValidationError{Field: "mode", Message: err.Error()}
		}
	}
	if b.Orbit != nil && (*b.Orbit < 0 || *b.Orbit >= count || *b.Orbit == index) {
		return &ValidationError{Field: "orbit", Message: "must index another body"}
	}
	return nil
}

// EntityKind converts the kind name
func (b BodyConfig) EntityKind() (entity.Kind, error) {
	switch b.Kind {
	case "", "static":
		return entity.Static, nil
	case "dynamic":
		return entity.Dynamic, nil
	default:
		return 0, fmt.Errorf("unknown body kind %q", b.Kind)
	}
}

// Motion converts the dynamic-body fields. Zero rate and multipliers fall
// back to one; a zero end bound leaves the time window open.
func (b BodyConfig) Motion() entity.Motion {
	m := entity.DefaultMotion()
	m.OrbitCenter = physics.Vector2D{X: b.OrbitX, Y: b.OrbitY}
	m.TimeStart = b.TimeStart
	if b.TimeEnd != 0 {
		m.TimeEnd = b.TimeEnd
	}
	if b.Rate != 0 {
		m.Rate = b.Rate
	}
	if b.XMul != 0 {
		m.XMul = b.XMul
	}
	if b.YMul != 0 {
		m.YMul = b.YMul
	}
	m.FunctionX = b.FunctionX
	m.FunctionY = b.FunctionY
	return m
}

// Gravity returns the gravity evaluator settings
func (c *GameConfig) Gravity() physics.Gravity {
	policy, _ := physics.ParseGravityPolicy(c.Physics.Policy)
	return physics.Gravity{
		Constant:        c.Physics.Gravity,
		InfluenceRadius: c.Physics.InfluenceRadius,
		Policy:          policy,
	}
}

// Bounds returns the world extent
func (c *GameConfig) Bounds() physics.Bounds {
	return physics.Bounds{HalfExtent: c.World.HalfExtent}
}

// ShipStart returns the player's start position
func (c *GameConfig) ShipStart() physics.Vector2D {
	return physics.Vector2D{X: c.Ship.StartX, Y: c.Ship.StartY}
}

// ShipStats converts the ship section into controller tuning
func (c *GameConfig) ShipStats() entity.ShipStats {
	stats := entity.DefaultShipStats()
	s := c.Ship
	stats.MaxHealth = s.MaxHealth
	stats.SpeedLimit = s.SpeedLimit
	stats.MaxThrust = s.MaxThrust
	stats.ThrustRate = s.ThrustRate
	stats.ThrustAccel = s.ThrustAccel
	stats.BrakeAccel = s.BrakeAccel
	stats.Response = physics.Response{Friction: s.Friction, ImpulseGain: s.ImpulseGain}
	stats.DamageSpeed = s.DamageSpeed
	stats.DamageScale = s.DamageScale
	stats.ImmunityTime = s.ImmunityTime
	stats.ParkMargin = s.ParkMargin
	stats.ParkSpeedBand = s.ParkSpeedBand
	return stats
}

// AgentStats converts the agent section into pilot tuning
func (c *GameConfig) AgentStats() nav.AgentStats {
	stats := nav.DefaultAgentStats()
	a := c.Agents
	stats.SpeedLimit = a.SpeedLimit
	stats.Response = physics.Response{Friction: a.Friction, ImpulseGain: a.ImpulseGain}
	stats.ArrivalRadius = a.ArrivalRadius
	stats.Boost = a.Boost
	stats.Damping = a.Damping
	stats.SnapSpeed = a.SnapSpeed
	stats.Margin = a.Margin
	return stats
}
