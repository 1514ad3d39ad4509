package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/opd-ai/vectorspace/pkg/entity"
	"github.com/opd-ai/vectorspace/pkg/physics"
)

func testWorld() *World {
	return NewWorld(
		physics.Gravity{Constant: 120, InfluenceRadius: 1000},
		physics.Bounds{HalfExtent: 2000},
		1,
	)
}

func TestWorld_GravityAt_TwoStaticBodies(t *testing.T) {
	w := testWorld()
	err := w.Load([]entity.Body{
		entity.NewStaticBody(0, physics.Vector2D{X: 0, Y: 0}, 10, 100),
		entity.NewStaticBody(1, physics.Vector2D{X: 100, Y: 0}, 10, 200),
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	got := w.GravityAt(physics.Vector2D{X: 50, Y: 0})
	want := 120.0 * (200 - 100) / 2500

	if math.Abs(got.X-want) > 1e-9 || got.Y != 0 {
		t.Errorf("GravityAt() = %v, want (%v, 0)", got, want)
	}
}

func TestWorld_Empty(t *testing.T) {
	w := testWorld()

	if g := w.GravityAt(physics.Vector2D{X: 3, Y: 4}); !g.IsZero() {
		t.Errorf("GravityAt() = %v, want zero", g)
	}
	if _, err := w.ClosestToPoint(physics.Vector2D{}); !errors.Is(err, ErrNoBody) {
		t.Errorf("ClosestToPoint() error = %v, want ErrNoBody", err)
	}
	if _, ok := w.WillCollide(physics.Vector2D{}, entity.NoBody); ok {
		t.Error("WillCollide() found a body in an empty world")
	}
	if _, ok := w.PickTarget(physics.Vector2D{}); ok {
		t.Error("PickTarget() succeeded in an empty world")
	}
}

func TestWorld_Load_RejectsBadIDs(t *testing.T) {
	tests := []struct {
		name   string
		bodies []entity.Body
	}{
		{"duplicate", []entity.Body{
			entity.NewStaticBody(3, physics.Vector2D{}, 1, 1),
			entity.NewStaticBody(3, physics.Vector2D{X: 10}, 1, 1),
		}},
		{"invalid", []entity.Body{
			entity.NewStaticBody(entity.NoBody, physics.Vector2D{}, 1, 1),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := testWorld().Load(tt.bodies); err == nil {
				t.Error("Load() error = nil, want error")
			}
		})
	}
}

func TestWorld_Lookup(t *testing.T) {
	w := testWorld()
	w.Load([]entity.Body{
		entity.NewStaticBody(4, physics.Vector2D{X: 1}, 5, 1),
		entity.NewDynamicBody(7, physics.Vector2D{X: 2}, 5, 1, entity.ModeFixed, entity.DefaultMotion()),
	})

	tests := []struct {
		id     entity.ID
		wantOK bool
		wantX  float64
	}{
		{4, true, 1},
		{7, true, 2},
		{5, false, 0},
		{entity.NoBody, false, 0},
	}

	for _, tt := range tests {
		b, ok := w.Lookup(tt.id)
		if ok != tt.wantOK {
			t.Errorf("Lookup(%d) ok = %v, want %v", tt.id, ok, tt.wantOK)
			continue
		}
		if ok && b.Position.X != tt.wantX {
			t.Errorf("Lookup(%d).Position.X = %v, want %v", tt.id, b.Position.X, tt.wantX)
		}
	}

	if id := w.Add(entity.NewStaticBody(0, physics.Vector2D{}, 1, 1)); id != 8 {
		t.Errorf("Add() = %d, want 8", id)
	}
	if w.Len() != 3 {
		t.Errorf("Len() = %d, want 3", w.Len())
	}
}

func TestWorld_WillCollide(t *testing.T) {
	w := testWorld()
	w.SetDeltaT(1)

	mover := entity.NewDynamicBody(1, physics.Vector2D{X: 100, Y: 0}, 10, 1, entity.ModeFixed, entity.DefaultMotion())
	mover.Velocity = physics.Vector2D{X: 50, Y: 0}
	w.Load([]entity.Body{
		entity.NewStaticBody(0, physics.Vector2D{}, 20, 1),
		mover,
	})

	tests := []struct {
		name   string
		pos    physics.Vector2D
		self   entity.ID
		wantID entity.ID
	}{
		{"inside_static", physics.Vector2D{X: 15}, entity.NoBody, 0},
		{"on_static_surface", physics.Vector2D{X: 20}, entity.NoBody, 0},
		{"static_skips_self", physics.Vector2D{X: 15}, 0, entity.NoBody},
		{"predicted_position", physics.Vector2D{X: 155}, entity.NoBody, 1},
		{"current_position_missed", physics.Vector2D{X: 95}, entity.NoBody, entity.NoBody},
		{"dynamic_skips_self", physics.Vector2D{X: 155}, 1, entity.NoBody},
		{"dynamic_exact_center", physics.Vector2D{X: 150}, entity.NoBody, entity.NoBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ok := w.WillCollide(tt.pos, tt.self)
			if tt.wantID == entity.NoBody {
				if ok {
					t.Errorf("WillCollide() = body %d, want none", b.ID)
				}
				return
			}
			if !ok || b.ID != tt.wantID {
				t.Errorf("WillCollide() = %v, %v, want body %d", b, ok, tt.wantID)
			}
		})
	}
}

func TestWorld_ClosestToPoint_UsesSurface(t *testing.T) {
	w := testWorld()
	w.Load([]entity.Body{
		entity.NewStaticBody(0, physics.Vector2D{X: 100}, 5, 1),
		entity.NewStaticBody(1, physics.Vector2D{X: -150}, 100, 1),
	})

	b, err := w.ClosestToPoint(physics.Vector2D{})
	if err != nil {
		t.Fatalf("ClosestToPoint() error = %v", err)
	}
	if b.ID != 1 {
		t.Errorf("ClosestToPoint() = body %d, want 1", b.ID)
	}
}

func TestWorld_PickTarget(t *testing.T) {
	w := testWorld()
	w.Load([]entity.Body{
		entity.NewStaticBody(0, physics.Vector2D{X: 500}, 50, 1),
	})

	target, ok := w.PickTarget(physics.Vector2D{})
	if !ok {
		t.Fatal("PickTarget() ok = false")
	}

	want := physics.Vector2D{X: 500 - 50 - targetMargin}
	if target.Distance(want) > 1e-9 {
		t.Errorf("PickTarget() = %v, want %v", target, want)
	}
}

func TestWorld_Reseed_RepeatsTargets(t *testing.T) {
	w := testWorld()
	w.Load([]entity.Body{
		entity.NewStaticBody(0, physics.Vector2D{X: 500}, 50, 1),
		entity.NewStaticBody(1, physics.Vector2D{X: -500}, 50, 1),
		entity.NewStaticBody(2, physics.Vector2D{Y: 500}, 50, 1),
	})

	pick := func() []physics.Vector2D {
		var out []physics.Vector2D
		for range 10 {
			target, _ := w.PickTarget(physics.Vector2D{})
			out = append(out, target)
		}
		return out
	}

	w.Reseed(42)
	first := pick()
	w.Reseed(42)
	second := pick()

	for i := range first {
		if !first[i].Equal(second[i]) {
			t.Errorf("pick %d = %v after reseeding, want %v", i, second[i], first[i])
		}
	}
}

func TestWorld_Bodies_StaticFirst(t *testing.T) {
	w := testWorld()
	w.Load([]entity.Body{
		entity.NewDynamicBody(0, physics.Vector2D{}, 1, 1, entity.ModeFixed, entity.DefaultMotion()),
		entity.NewStaticBody(1, physics.Vector2D{}, 1, 1),
	})

	var ids []entity.ID
	for b := range w.Bodies() {
		ids = append(ids, b.ID)
	}
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 0 {
		t.Errorf("Bodies() order = %v, want [1 0]", ids)
	}
}
