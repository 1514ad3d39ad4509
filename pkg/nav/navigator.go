// pkg/nav/navigator.go
package nav

import (
	"iter"
	"math"

	"github.com/opd-ai/vectorspace/pkg/entity"
	"github.com/opd-ai/vectorspace/pkg/physics"
)

// Navigator seeks a destination and routes around bodies on the way.
// Target is the interim point actually steered at; it equals Destination
// whenever nothing is in the way.
type Navigator struct {
	Position    physics.Vector2D
	Destination physics.Vector2D
	Target      physics.Vector2D
	Velocity    physics.Vector2D
	Obstacle    entity.ID
}

// NewNavigator creates a navigator at rest whose destination is its start
func NewNavigator(position physics.Vector2D) *Navigator {
	return &Navigator{
		Position:    position,
		Destination: position,
		Target:      position,
		Obstacle:    entity.NoBody,
	}
}

// SetDestination stores a new final destination and clears any detour
func (n *Navigator) SetDestination(p physics.Vector2D) {
	n.Destination = p
	n.Target = p
	n.Obstacle = entity.NoBody
}

// AvoidBodies recomputes Target. The nearest body along the travel line
// whose edge comes within margin of the line forces a detour around it.
func (n *Navigator) AvoidBodies(bodies iter.Seq[*entity.Body], margin float64) {
	n.Target = n.Destination
	n.Obstacle = entity.NoBody

	line := n.Destination.Sub(n.Position)
	length := line.Length()
	if length == 0 {
		return
	}
	dir := line.Normalize()
	lineSign := line.Sign()

	var (
		obstacle     *entity.Body
		closestPoint physics.Vector2D
		nearest      = math.Inf(1)
	)
	for b := range bodies {
		// the goal wins over avoidance
		if b.Collider().Contains(n.Destination) {
			continue
		}

		proj := b.Position.Sub(n.Position).ScalarProjection(line)
		closest := n.Position.Add(dir.Scale(proj))

		if !closest.Sub(n.Position).Sign().Equal(lineSign) {
			continue
		}
		if proj > length {
			continue
		}
		if b.Position.Distance(closest) > b.Radius+margin {
			continue
		}
		if proj < nearest {
			nearest = proj
			obstacle = b
			closestPoint = closest
		}
	}
	if obstacle == nil {
		return
	}

	away := closestPoint.Sub(obstacle.Position).Normalize()
	if away.IsZero() {
		away = obstacle.Position.Sub(n.Position).Perpendicular().Normalize()
	}
	if away.IsZero() {
		return
	}

	n.Obstacle = obstacle.ID
	n.Target = obstacle.Position.Add(away.Scale(obstacle.Radius + margin))
}

// Arrived reports whether the navigator is within radius of its final
// destination
func (n *Navigator) Arrived(radius float64) bool {
	return n.Position.Distance(n.Destination) <= radius
}
