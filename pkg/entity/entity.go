// pkg/entity/entity.go
package entity

import (
	"errors"
	"fmt"

	"github.com/opd-ai/vectorspace/pkg/physics"
)

// ID is a stable handle to a body inside the world that owns it
type ID int

// NoBody is the handle that refers to no body
const NoBody ID = -1

// Valid reports whether the handle may refer to a body
func (id ID) Valid() bool {
	return id >= 0
}

// ErrShipDestroyed is returned by Ship.Update once health reaches zero.
// The session driver answers it with a full world reset.
var ErrShipDestroyed = errors.New("ship destroyed")

// Kind tags a body as immovable or movable
type Kind int

const (
	Static Kind = iota
	Dynamic
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case Static:
		return "static"
	case Dynamic:
		return "dynamic"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Field is the view of the world that movers query during a tick.
// Pointers it returns are only valid until the body collection changes.
type Field interface {
	// GravityAt returns the per-unit-time velocity delta at pos
	GravityAt(pos physics.Vector2D) physics.Vector2D
	// WillCollide returns the first body, other than self, whose predicted
	// position contains pos
	WillCollide(pos physics.Vector2D, self ID) (*Body, bool)
	// ClosestToPoint returns the body with the nearest surface
	ClosestToPoint(pos physics.Vector2D) (*Body, error)
	// Lookup resolves a handle
	Lookup(id ID) (*Body, bool)
	// Bounds returns the world extent
	Bounds() physics.Bounds
}
