package nav

import (
	"iter"
	"math"
	"testing"

	"github.com/opd-ai/vectorspace/pkg/entity"
	"github.com/opd-ai/vectorspace/pkg/physics"
)

func bodies(bs ...entity.Body) iter.Seq[*entity.Body] {
	return func(yield func(*entity.Body) bool) {
		for i := range bs {
			if !yield(&bs[i]) {
				return
			}
		}
	}
}

func TestNavigator_SetDestination(t *testing.T) {
	n := NewNavigator(physics.Vector2D{})
	n.Obstacle = 3
	n.Target = physics.Vector2D{X: 9, Y: 9}

	n.SetDestination(physics.Vector2D{X: 100})

	if !n.Destination.Equal(physics.Vector2D{X: 100}) || !n.Target.Equal(n.Destination) {
		t.Errorf("SetDestination() = dest %v target %v, want both (100,0)", n.Destination, n.Target)
	}
	if n.Obstacle != entity.NoBody {
		t.Errorf("Obstacle = %v, want NoBody", n.Obstacle)
	}
}

func TestNavigator_AvoidsObstacleOnPath(t *testing.T) {
	const margin = 10
	n := NewNavigator(physics.Vector2D{})
	n.SetDestination(physics.Vector2D{X: 100})
	rock := entity.NewStaticBody(4, physics.Vector2D{X: 50}, 20, 100)

	n.AvoidBodies(bodies(rock), margin)

	if n.Obstacle != rock.ID {
		t.Fatalf("Obstacle = %v, want %v", n.Obstacle, rock.ID)
	}
	if off := math.Abs(n.Target.Y); off < 20+margin-1e-9 {
		t.Errorf("Target %v is %v off the path, want at least %v", n.Target, off, 20+margin)
	}
	if math.Abs(n.Target.X-50) > 1e-9 {
		t.Errorf("Target.X = %v, want 50", n.Target.X)
	}
	if !n.Destination.Equal(physics.Vector2D{X: 100}) {
		t.Errorf("AvoidBodies() changed Destination to %v", n.Destination)
	}
}

func TestNavigator_DetourSideFollowsClosestPoint(t *testing.T) {
	n := NewNavigator(physics.Vector2D{})
	n.SetDestination(physics.Vector2D{X: 100})
	// body slightly below the line: the detour goes above it
	rock := entity.NewStaticBody(0, physics.Vector2D{X: 50, Y: -5}, 20, 100)

	n.AvoidBodies(bodies(rock), 10)

	expected := physics.Vector2D{X: 50, Y: -5 + 30}
	if math.Abs(n.Target.X-expected.X) > 1e-9 || math.Abs(n.Target.Y-expected.Y) > 1e-9 {
		t.Errorf("Target = %v, want %v", n.Target, expected)
	}
}

func TestNavigator_IgnoredBodies(t *testing.T) {
	tests := []struct {
		name string
		body entity.Body
	}{
		{"behind", entity.NewStaticBody(0, physics.Vector2D{X: -50}, 20, 1)},
		{"beyond_destination", entity.NewStaticBody(0, physics.Vector2D{X: 150, Y: 5}, 20, 1)},
		{"far_from_line", entity.NewStaticBody(0, physics.Vector2D{X: 50, Y: 80}, 20, 1)},
		{"contains_destination", entity.NewStaticBody(0, physics.Vector2D{X: 90}, 20, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNavigator(physics.Vector2D{})
			n.SetDestination(physics.Vector2D{X: 100})

			n.AvoidBodies(bodies(tt.body), 10)

			if n.Obstacle != entity.NoBody || !n.Target.Equal(n.Destination) {
				t.Errorf("AvoidBodies() detoured around %v to %v", tt.body.Position, n.Target)
			}
		})
	}
}

func TestNavigator_NearestObstacleWins(t *testing.T) {
	n := NewNavigator(physics.Vector2D{})
	n.SetDestination(physics.Vector2D{X: 300})
	far := entity.NewStaticBody(1, physics.Vector2D{X: 200}, 20, 1)
	near := entity.NewStaticBody(2, physics.Vector2D{X: 100}, 20, 1)

	n.AvoidBodies(bodies(far, near), 10)

	if n.Obstacle != near.ID {
		t.Errorf("Obstacle = %v, want %v", n.Obstacle, near.ID)
	}
}

func TestNavigator_DetourClearsWhenPathOpens(t *testing.T) {
	n := NewNavigator(physics.Vector2D{})
	n.SetDestination(physics.Vector2D{X: 100})
	rock := entity.NewStaticBody(0, physics.Vector2D{X: 50}, 20, 1)
	n.AvoidBodies(bodies(rock), 10)

	n.AvoidBodies(bodies(), 10)

	if !n.Target.Equal(n.Destination) || n.Obstacle != entity.NoBody {
		t.Errorf("Target = %v, want %v", n.Target, n.Destination)
	}
}

func TestNavigator_AtDestination(t *testing.T) {
	n := NewNavigator(physics.Vector2D{X: 5, Y: 5})
	rock := entity.NewStaticBody(0, physics.Vector2D{X: 5, Y: 5}, 20, 1)

	n.AvoidBodies(bodies(rock), 10)

	if !n.Target.Equal(n.Destination) {
		t.Errorf("Target = %v, want %v", n.Target, n.Destination)
	}
	if !n.Arrived(0) {
		t.Error("Arrived(0) = false at destination")
	}
}
