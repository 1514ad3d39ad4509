package entity

import (
	"errors"
	"math"

	"github.com/opd-ai/vectorspace/pkg/physics"
)

const epsilon = 1e-6

func near(a, b float64) bool {
	return math.Abs(a-b) <= epsilon
}

func nearVec(a, b physics.Vector2D) bool {
	return near(a.X, b.X) && near(a.Y, b.Y)
}

var errEmpty = errors.New("no bodies")

// fakeField is a minimal Field over a slice of bodies
type fakeField struct {
	bodies  []Body
	gravity physics.Vector2D
	dt      float64
	bounds  physics.Bounds
}

func newFakeField(bodies ...Body) *fakeField {
	return &fakeField{bodies: bodies, bounds: physics.Bounds{HalfExtent: 2000}}
}

func (f *fakeField) GravityAt(pos physics.Vector2D) physics.Vector2D {
	return f.gravity
}

func (f *fakeField) WillCollide(pos physics.Vector2D, self ID) (*Body, bool) {
	for i := range f.bodies {
		b := &f.bodies[i]
		if b.ID == self {
			continue
		}
		predicted := b.Position.Add(b.Velocity.Scale(f.dt))
		if predicted.Distance(pos) <= b.Radius {
			return b, true
		}
	}
	return nil, false
}

func (f *fakeField) ClosestToPoint(pos physics.Vector2D) (*Body, error) {
	var best *Body
	for i := range f.bodies {
		b := &f.bodies[i]
		if best == nil || b.Collider().SurfaceDistance(pos) < best.Collider().SurfaceDistance(pos) {
			best = b
		}
	}
	if best == nil {
		return nil, errEmpty
	}
	return best, nil
}

func (f *fakeField) Lookup(id ID) (*Body, bool) {
	for i := range f.bodies {
		if f.bodies[i].ID == id {
			return &f.bodies[i], true
		}
	}
	return nil, false
}

func (f *fakeField) Bounds() physics.Bounds {
	return f.bounds
}
