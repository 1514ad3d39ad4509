// pkg/nav/agent.go
package nav

import (
	"iter"

	"github.com/opd-ai/vectorspace/pkg/entity"
	"github.com/opd-ai/vectorspace/pkg/physics"
)

// Space is the world view an agent flies through
type Space interface {
	entity.Field
	// Bodies yields every body, static ones first
	Bodies() iter.Seq[*entity.Body]
}

// TargetPicker chooses a new destination once an agent has arrived
type TargetPicker interface {
	PickTarget(from physics.Vector2D) (physics.Vector2D, bool)
}

// AgentStats contains the tuning of an autonomous pilot
type AgentStats struct {
	SpeedLimit    float64 // per velocity component
	Response      physics.Response
	ArrivalRadius float64
	Boost         float64 // acceleration of the boosted candidate
	Damping       float64 // factor of the braking candidate
	SnapSpeed     float64 // smaller velocity components are zeroed
	Margin        float64 // clearance kept from obstacles
	ImmunityTime  float64
}

// DefaultAgentStats returns the tuning used by the game
func DefaultAgentStats() AgentStats {
	return AgentStats{
		SpeedLimit:    400,
		Response:      physics.Response{Friction: 0.75, ImpulseGain: 1.5},
		ArrivalRadius: 50,
		Boost:         150,
		Damping:       0.9,
		SnapSpeed:     0.05,
		Margin:        30,
		ImmunityTime:  1,
	}
}

// AgentReport describes what happened to an agent during one update
type AgentReport struct {
	Collided   entity.ID // NoBody unless a new hit was registered
	Retargeted bool
}

// Agent is an autonomous mover. It seeks bodies picked by its TargetPicker,
// avoids whatever lies in between and bounces off what it still hits.
// Agents never take damage.
type Agent struct {
	Nav          Navigator
	Stats        AgentStats
	Picker       TargetPicker
	LastCollided entity.ID
	Immunity     float64
}

// NewAgent creates an agent at rest at position
func NewAgent(stats AgentStats, position physics.Vector2D, picker TargetPicker) *Agent {
	return &Agent{
		Nav:          *NewNavigator(position),
		Stats:        stats,
		Picker:       picker,
		LastCollided: entity.NoBody,
	}
}

// Position returns the agent's position
func (a *Agent) Position() physics.Vector2D {
	return a.Nav.Position
}

// Velocity returns the agent's velocity
func (a *Agent) Velocity() physics.Vector2D {
	return a.Nav.Velocity
}

// Update advances the agent by dt
func (a *Agent) Update(dt float64, space Space) AgentReport {
	report := AgentReport{Collided: entity.NoBody}
	n := &a.Nav

	velocity := n.Velocity.Add(space.GravityAt(n.Position).Scale(dt))

	if n.Arrived(a.Stats.ArrivalRadius) && a.Picker != nil {
		if dest, ok := a.Picker.PickTarget(n.Position); ok {
			n.SetDestination(dest)
			report.Retargeted = true
		}
	}

	n.AvoidBodies(space.Bodies(), a.Stats.Margin)

	velocity = a.steer(velocity, dt)
	velocity = a.snap(velocity)

	if a.Immunity > 0 {
		a.Immunity -= dt
	}

	predicted := n.Position.Add(velocity.Scale(dt))
	if hit, ok := space.WillCollide(predicted, entity.NoBody); ok {
		if normal, ok := physics.CollisionNormal(n.Position, hit.Position, velocity.Scale(-1)); ok {
			velocity = a.Stats.Response.Apply(velocity, hit.Velocity, normal)
			a.LastCollided = hit.ID
			if a.Immunity <= 0 {
				report.Collided = hit.ID
				a.Immunity = a.Stats.ImmunityTime
			}
		}
	}

	velocity = velocity.ClampComponents(a.Stats.SpeedLimit)
	position := n.Position.Add(velocity.Scale(dt))
	n.Position, n.Velocity = space.Bounds().Clamp(position, velocity)

	return report
}

// steer picks the candidate velocity that ends the step nearest to Target:
// unchanged, damped or boosted towards Target
func (a *Agent) steer(velocity physics.Vector2D, dt float64) physics.Vector2D {
	n := &a.Nav
	toward := n.Target.Sub(n.Position).Normalize()
	candidates := [...]physics.Vector2D{
		velocity,
		velocity.Scale(a.Stats.Damping),
		velocity.Add(toward.Scale(a.Stats.Boost * dt)),
	}

	best := candidates[0]
	bestDist := n.Position.Add(best.Scale(dt)).Distance(n.Target)
	for _, c := range candidates[1:] {
		if d := n.Position.Add(c.Scale(dt)).Distance(n.Target); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func (a *Agent) snap(v physics.Vector2D) physics.Vector2D {
	if v.X > -a.Stats.SnapSpeed && v.X < a.Stats.SnapSpeed {
		v.X = 0
	}
	if v.Y > -a.Stats.SnapSpeed && v.Y < a.Stats.SnapSpeed {
		v.Y = 0
	}
	return v
}
