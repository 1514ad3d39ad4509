package event

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

// recorder collects the order in which handlers see events
type recorder struct {
	mu  sync.Mutex
	log []string
}

func (r *recorder) handler(name string) Handler {
	return func(e Event) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.log = append(r.log, fmt.Sprintf("%s:%s", name, e.GetType()))
	}
}

func (r *recorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return strings.Join(r.log, ",")
}

func TestBus_DeliversInSubscriptionOrder(t *testing.T) {
	bus := NewEventBus()
	var rec recorder

	bus.Subscribe(BodyCollision, rec.handler("audio"))
	bus.Subscribe(ShipDamaged, rec.handler("hud"))
	bus.Subscribe(BodyCollision, rec.handler("log"))
	bus.Subscribe(BodyCollision, rec.handler("stats"))

	bus.Publish(NewCollisionEvent(nil, MoverShip, 0, 3, 15))
	bus.Publish(NewShipEvent(ShipDamaged, nil, 85, 3))

	want := "audio:body_collision,log:body_collision,stats:body_collision,hud:ship_damaged"
	if got := rec.String(); got != want {
		t.Errorf("delivery = %s, want %s", got, want)
	}
}

func TestBus_PublishIsSynchronous(t *testing.T) {
	bus := NewEventBus()
	health := 100

	bus.Subscribe(ShipDamaged, func(e Event) {
		health = e.(*ShipEvent).Health
	})
	bus.Publish(NewShipEvent(ShipDamaged, nil, 60, 2))

	// the handler has already run when Publish returns
	if health != 60 {
		t.Errorf("health = %d right after Publish, want 60", health)
	}
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	bus := NewEventBus()
	var rec recorder
	bus.Subscribe(ShipParked, rec.handler("hud"))

	bus.Publish(&BaseEvent{EventType: WorldReset})
	bus.Publish(NewAgentEvent(nil, 1, 10, 20))

	if got := rec.String(); got != "" {
		t.Errorf("unrelated handlers ran: %s", got)
	}
}

func TestSubscription_IDsAreUnique(t *testing.T) {
	bus := NewEventBus()
	seen := make(map[uint64]bool)

	for _, typ := range []Type{BodyCollision, BodyCollision, ShipParked, WorldReset} {
		sub := bus.Subscribe(typ, func(Event) {})
		if sub.ID == 0 {
			t.Errorf("Subscribe(%s) returned ID 0", typ)
		}
		if seen[sub.ID] {
			t.Errorf("ID %d handed out twice", sub.ID)
		}
		seen[sub.ID] = true
	}
}

func TestSubscription_Cancel(t *testing.T) {
	tests := []struct {
		name   string
		cancel []int // indexes into the three subscriptions, in order
		want   string
	}{
		{"none", nil, "a:ship_destroyed,b:ship_destroyed,c:ship_destroyed"},
		{"middle", []int{1}, "a:ship_destroyed,c:ship_destroyed"},
		{"first and last", []int{0, 2}, "b:ship_destroyed"},
		{"twice", []int{1, 1}, "a:ship_destroyed,c:ship_destroyed"},
		{"all", []int{2, 0, 1, 0}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := NewEventBus()
			var rec recorder
			subs := []*Subscription{
				bus.Subscribe(ShipDestroyed, rec.handler("a")),
				bus.Subscribe(ShipDestroyed, rec.handler("b")),
				bus.Subscribe(ShipDestroyed, rec.handler("c")),
			}

			for _, i := range tt.cancel {
				subs[i].Cancel()
			}
			bus.Publish(NewShipEvent(ShipDestroyed, nil, 0, 4))

			if got := rec.String(); got != tt.want {
				t.Errorf("delivery = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSubscription_CancelLeavesOtherTypes(t *testing.T) {
	bus := NewEventBus()
	var rec recorder

	parked := bus.Subscribe(ShipParked, rec.handler("audio"))
	bus.Subscribe(ShipDamaged, rec.handler("audio"))

	parked.Cancel()
	bus.Publish(NewShipEvent(ShipParked, nil, 100, 1))
	bus.Publish(NewShipEvent(ShipDamaged, nil, 90, 1))

	if got := rec.String(); got != "audio:ship_damaged" {
		t.Errorf("delivery = %s, want audio:ship_damaged", got)
	}
}

func TestSubscription_CancelDuringPublish(t *testing.T) {
	bus := NewEventBus()
	var rec recorder

	var once *Subscription
	once = bus.Subscribe(AgentRetargeted, func(e Event) {
		rec.handler("once")(e)
		once.Cancel()
	})
	bus.Subscribe(AgentRetargeted, rec.handler("log"))

	bus.Publish(NewAgentEvent(nil, 0, 1, 2))
	bus.Publish(NewAgentEvent(nil, 0, 3, 4))

	// the current dispatch still reaches every handler
	want := "once:agent_retargeted,log:agent_retargeted,log:agent_retargeted"
	if got := rec.String(); got != want {
		t.Errorf("delivery = %s, want %s", got, want)
	}
}

func TestBus_ConcurrentSubscribeAndPublish(t *testing.T) {
	bus := NewEventBus()
	var (
		mu    sync.Mutex
		count int
	)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub := bus.Subscribe(BodyCollision, func(Event) {
				mu.Lock()
				count++
				mu.Unlock()
			})
			for range 50 {
				bus.Publish(NewCollisionEvent(nil, MoverAgent, i, 1, 0))
			}
			sub.Cancel()
		}()
	}
	wg.Wait()

	before := count
	bus.Publish(NewCollisionEvent(nil, MoverBody, 9, 1, 0))
	if count != before {
		t.Errorf("handlers still attached after every Cancel")
	}
	if count < 50 {
		t.Errorf("count = %d, want each goroutine to see its own events", count)
	}
}

func TestNewCollisionEvent(t *testing.T) {
	game := &struct{ name string }{"session"}

	tests := []struct {
		name   string
		event  *CollisionEvent
		mover  Mover
		index  int
		bodyID int
		damage int
	}{
		{"ship strikes a planet", NewCollisionEvent(game, MoverShip, 0, 7, 16), MoverShip, 0, 7, 16},
		{"agent bump", NewCollisionEvent(game, MoverAgent, 2, 4, 0), MoverAgent, 2, 4, 0},
		{"asteroid bounce", NewCollisionEvent(game, MoverBody, 12, 0, 0), MoverBody, 12, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := tt.event
			if e.GetType() != BodyCollision {
				t.Errorf("type = %s, want %s", e.GetType(), BodyCollision)
			}
			if e.GetSource() != game {
				t.Errorf("source = %v, want the game", e.GetSource())
			}
			if e.Mover != tt.mover || e.Index != tt.index || e.BodyID != tt.bodyID || e.Damage != tt.damage {
				t.Errorf("event = %+v", e)
			}
		})
	}
}

func TestNewShipEvent_KeepsType(t *testing.T) {
	for _, typ := range []Type{ShipDamaged, ShipParked, ShipDestroyed} {
		e := NewShipEvent(typ, nil, 40, 5)
		if e.GetType() != typ || e.Health != 40 || e.BodyID != 5 {
			t.Errorf("NewShipEvent(%s) = %+v", typ, e)
		}
	}
}

func TestAgentEvent_ThroughBus(t *testing.T) {
	bus := NewEventBus()
	var got *AgentEvent
	bus.Subscribe(AgentRetargeted, func(e Event) {
		got = e.(*AgentEvent)
	})

	bus.Publish(NewAgentEvent(nil, 3, -250.5, 1200))

	if got == nil {
		t.Fatal("handler not called")
	}
	if got.Agent != 3 || got.X != -250.5 || got.Y != 1200 {
		t.Errorf("event = %+v, want agent 3 at (-250.5, 1200)", got)
	}
}
