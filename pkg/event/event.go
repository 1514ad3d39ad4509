// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Simulation event types
const (
	GameStarted     Type = "game_started"
	GameEnded       Type = "game_ended"
	WorldReset      Type = "world_reset"
	BodyCollision   Type = "body_collision"
	ShipDamaged     Type = "ship_damaged"
	ShipParked      Type = "ship_parked"
	ShipDestroyed   Type = "ship_destroyed"
	AgentRetargeted Type = "agent_retargeted"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription is returned by Subscribe. Cancel removes the handler and
// may be called more than once.
type Subscription struct {
	ID     uint64
	Cancel func()
}

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching. Handlers run
// synchronously on the publishing goroutine.
type Bus struct {
	handlers map[Type][]subscriber
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscriber),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscriber{id: id, handler: handler})

	return &Subscription{
		ID:     id,
		Cancel: func() { b.unsubscribe(eventType, id) },
	}
}

func (b *Bus) unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	for i, s := range subs {
		if s.id == id {
			b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	subs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// Specific event implementations

// Mover names the kind of object that struck a body
type Mover string

const (
	MoverShip  Mover = "ship"
	MoverAgent Mover = "agent"
	MoverBody  Mover = "body"
)

// CollisionEvent is published when a mover strikes a body
type CollisionEvent struct {
	BaseEvent
	Mover  Mover
	Index  int // agent index or body ID of the mover; 0 for the ship
	BodyID int
	Damage int
}

// NewCollisionEvent creates a new collision event
func NewCollisionEvent(source interface{}, mover Mover, index, bodyID, damage int) *CollisionEvent {
	return &CollisionEvent{
		BaseEvent: BaseEvent{
			EventType: BodyCollision,
			Source:    source,
		},
		Mover:  mover,
		Index:  index,
		BodyID: bodyID,
		Damage: damage,
	}
}

// ShipEvent contains information about player ship state changes
type ShipEvent struct {
	BaseEvent
	Health int
	BodyID int
}

// NewShipEvent creates a new ship event
func NewShipEvent(eventType Type, source interface{}, health, bodyID int) *ShipEvent {
	return &ShipEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		Health: health,
		BodyID: bodyID,
	}
}

// AgentEvent is published when an agent picks a new destination
type AgentEvent struct {
	BaseEvent
	Agent int
	X, Y  float64
}

// NewAgentEvent creates a new agent event
func NewAgentEvent(source interface{}, agent int, x, y float64) *AgentEvent {
	return &AgentEvent{
		BaseEvent: BaseEvent{
			EventType: AgentRetargeted,
			Source:    source,
		},
		Agent: agent,
		X:     x,
		Y:     y,
	}
}
