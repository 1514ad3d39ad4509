// pkg/engine/world.go
package engine

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"math/rand/v2"

	"github.com/opd-ai/vectorspace/pkg/entity"
	"github.com/opd-ai/vectorspace/pkg/physics"
)

// ErrNoBody is returned by queries that need at least one body
var ErrNoBody = errors.New("no bodies in world")

// targetMargin is the clearance added to a body's radius when picking a
// destination next to it
const targetMargin = 40

type slot struct {
	kind  entity.Kind
	index int
}

// World owns every body of a session. It answers the gravity, collision
// and closest-body queries that movers make during a tick. Pointers handed
// out stay valid until the next Load or Add.
type World struct {
	Static  []entity.Body
	Dynamic []entity.Body

	gravity physics.Gravity
	bounds  physics.Bounds
	dt      float64

	index  map[entity.ID]slot
	nextID entity.ID
	rng    *rand.Rand
}

// NewWorld creates an empty world. seed drives target picking.
func NewWorld(gravity physics.Gravity, bounds physics.Bounds, seed uint64) *World {
	return &World{
		gravity: gravity,
		bounds:  bounds,
		index:   make(map[entity.ID]slot),
		rng:     newTargetRand(seed),
	}
}

func newTargetRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Reseed restarts target picking from seed
func (w *World) Reseed(seed uint64) {
	w.rng = newTargetRand(seed)
}

// Load replaces every body. IDs must be unique and valid.
func (w *World) Load(bodies []entity.Body) error {
	w.Static = w.Static[:0]
	w.Dynamic = w.Dynamic[:0]
	clear(w.index)
	w.nextID = 0

	for _, b := range bodies {
		if !b.ID.Valid() {
			return fmt.Errorf("body with invalid id %d", b.ID)
		}
		if _, dup := w.index[b.ID]; dup {
			return fmt.Errorf("duplicate body id %d", b.ID)
		}
		w.insert(b)
	}
	return nil
}

// Add stores b under a fresh ID and returns it
func (w *World) Add(b entity.Body) entity.ID {
	b.ID = w.nextID
	w.insert(b)
	return b.ID
}

func (w *World) insert(b entity.Body) {
	if b.Kind == entity.Dynamic {
		w.index[b.ID] = slot{kind: entity.Dynamic, index: len(w.Dynamic)}
		w.Dynamic = append(w.Dynamic, b)
	} else {
		w.index[b.ID] = slot{kind: entity.Static, index: len(w.Static)}
		w.Static = append(w.Static, b)
	}
	if b.ID >= w.nextID {
		w.nextID = b.ID + 1
	}
}

// Len returns the number of bodies
func (w *World) Len() int {
	return len(w.Static) + len(w.Dynamic)
}

// SetDeltaT stores the tick length used to predict body positions
func (w *World) SetDeltaT(dt float64) {
	w.dt = dt
}

// DeltaT returns the current tick length
func (w *World) DeltaT() float64 {
	return w.dt
}

// GravitySettings returns the gravity evaluator in use
func (w *World) GravitySettings() physics.Gravity {
	return w.gravity
}

// GravityAt sums the pull of every body on pos, static bodies first
func (w *World) GravityAt(pos physics.Vector2D) physics.Vector2D {
	var total physics.Vector2D
	for i := range w.Static {
		b := &w.Static[i]
		total = total.Add(w.gravity.Pull(pos, b.Position, b.Mass))
	}
	for i := range w.Dynamic {
		b := &w.Dynamic[i]
		total = total.Add(w.gravity.Pull(pos, b.Position, b.Mass))
	}
	return total
}

// WillCollide returns the first body, other than self, whose position
// predicted one tick ahead lies within its radius of pos. A dynamic body
// at exactly pos is skipped.
func (w *World) WillCollide(pos physics.Vector2D, self entity.ID) (*entity.Body, bool) {
	for i := range w.Static {
		b := &w.Static[i]
		if b.ID != self && b.Position.Distance(pos) <= b.Radius {
			return b, true
		}
	}
	for i := range w.Dynamic {
		b := &w.Dynamic[i]
		if b.ID == self {
			continue
		}
		d := b.Position.Add(b.Velocity.Scale(w.dt)).Distance(pos)
		if d != 0 && d <= b.Radius {
			return b, true
		}
	}
	return nil, false
}

// ClosestToPoint returns the body whose surface is nearest to pos
func (w *World) ClosestToPoint(pos physics.Vector2D) (*entity.Body, error) {
	var (
		closest *entity.Body
		best    = math.Inf(1)
	)
	for b := range w.Bodies() {
		if d := b.Collider().SurfaceDistance(pos); d < best {
			closest, best = b, d
		}
	}
	if closest == nil {
		return nil, ErrNoBody
	}
	return closest, nil
}

// Lookup resolves a handle
func (w *World) Lookup(id entity.ID) (*entity.Body, bool) {
	s, ok := w.index[id]
	if !ok {
		return nil, false
	}
	if s.kind == entity.Dynamic {
		return &w.Dynamic[s.index], true
	}
	return &w.Static[s.index], true
}

// Bounds returns the world extent
func (w *World) Bounds() physics.Bounds {
	return w.bounds
}

// Bodies yields every body, static ones first
func (w *World) Bodies() iter.Seq[*entity.Body] {
	return func(yield func(*entity.Body) bool) {
		for i := range w.Static {
			if !yield(&w.Static[i]) {
				return
			}
		}
		for i := range w.Dynamic {
			if !yield(&w.Dynamic[i]) {
				return
			}
		}
	}
}

// PickTarget chooses a random body and returns a point just off its
// surface on the side facing from. It reports false for an empty world.
func (w *World) PickTarget(from physics.Vector2D) (physics.Vector2D, bool) {
	n := w.Len()
	if n == 0 {
		return physics.Vector2D{}, false
	}

	i := w.rng.IntN(n)
	var b *entity.Body
	if i < len(w.Static) {
		b = &w.Static[i]
	} else {
		b = &w.Dynamic[i-len(w.Static)]
	}

	dir := from.Sub(b.Position).Normalize()
	if dir.IsZero() {
		dir = physics.FromAngle(w.rng.Float64()*2*math.Pi, 1)
	}
	target := b.Position.Add(dir.Scale(b.Radius + targetMargin))
	target, _ = w.bounds.Clamp(target, physics.Vector2D{})
	return target, true
}
