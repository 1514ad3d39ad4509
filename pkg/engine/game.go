// pkg/engine/game.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/vectorspace/pkg/config"
	"github.com/opd-ai/vectorspace/pkg/entity"
	"github.com/opd-ai/vectorspace/pkg/event"
	"github.com/opd-ai/vectorspace/pkg/logging"
	"github.com/opd-ai/vectorspace/pkg/nav"
	"github.com/opd-ai/vectorspace/pkg/physics"
)

// WorldGenerator produces the bodies of a fresh world. The same seed must
// produce the same bodies.
type WorldGenerator interface {
	Generate(seed uint64) ([]entity.Body, error)
}

// Renderer draws a frame. It receives copies and never mutates the game.
type Renderer interface {
	Clear()
	RenderBody(b entity.Body)
	RenderAgent(a nav.Agent)
	RenderShip(s entity.Ship)
	Present()
}

// Game owns the state of one simulation session and advances it tick by
// tick. It is not safe for concurrent use; only Ticks and LastTick may be
// read from other goroutines.
type Game struct {
	Config      *config.GameConfig
	World       *World
	Ship        *entity.Ship
	Agents      []*nav.Agent
	EventBus    *event.Bus
	Running     bool
	CurrentTick uint64
	LastUpdate  time.Time

	generator    WorldGenerator
	systems      *ecs.World
	dt           float64
	pendingReset bool

	ticks    atomic.Uint64
	lastTick atomic.Int64

	metrics *engineMetrics
	logger  *logging.Logger
	ctx     context.Context
}

// NewGame creates a session from cfg and builds the first world. gen may
// be nil, in which case only the bodies listed in cfg are used. A nil
// logger logs to stdout.
func NewGame(cfg *config.GameConfig, gen WorldGenerator, logger *logging.Logger) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewLogger()
	}

	metrics, err := newEngineMetrics()
	if err != nil {
		return nil, err
	}

	g := &Game{
		Config:     cfg,
		World:      NewWorld(cfg.Gravity(), cfg.Bounds(), cfg.World.Seed),
		Ship:       entity.NewShip(cfg.ShipStats(), cfg.ShipStart()),
		EventBus:   event.NewEventBus(),
		LastUpdate: time.Now(),
		generator:  gen,
		systems:    &ecs.World{},
		metrics:    metrics,
		logger:     logger.Component("engine"),
		ctx:        logging.WithSession(context.Background(), ""),
	}

	g.systems.AddSystem(&PlayerSystem{game: g})
	g.systems.AddSystem(&MotionSystem{game: g})
	g.systems.AddSystem(&NavigationSystem{game: g})

	g.registerEventHandlers()

	if err := g.Reset(); err != nil {
		return nil, err
	}
	return g, nil
}

// Start marks the session as running
func (g *Game) Start() {
	g.Running = true
	g.LastUpdate = time.Now()
	g.EventBus.Publish(&event.BaseEvent{
		EventType: event.GameStarted,
		Source:    g,
	})
}

// Stop marks the session as stopped
func (g *Game) Stop() {
	g.Running = false
	g.EventBus.Publish(&event.BaseEvent{
		EventType: event.GameEnded,
		Source:    g,
	})
}

// Update advances the game by the wall time since the previous call,
// capped at the configured maximum tick length
func (g *Game) Update() error {
	now := time.Now()
	dt := now.Sub(g.LastUpdate).Seconds()
	g.LastUpdate = now

	if limit := g.Config.World.MaxDeltaT; limit > 0 && dt > limit {
		dt = limit
	}
	return g.Step(dt)
}

// Step advances the game by dt seconds: player, then dynamic bodies, then
// agents. A reset requested during the tick runs after it.
func (g *Game) Step(dt float64) error {
	start := time.Now()
	if dt < 0 {
		dt = 0
	}

	g.dt = dt
	g.World.SetDeltaT(dt)
	g.systems.Update(float32(dt))

	g.CurrentTick++
	g.ticks.Store(g.CurrentTick)
	g.lastTick.Store(time.Now().UnixNano())
	g.metrics.tick(time.Since(start))

	if g.pendingReset {
		g.pendingReset = false
		return g.Reset()
	}
	return nil
}

// Session returns the ID tagging this game's log entries
func (g *Game) Session() string {
	return logging.SessionID(g.ctx)
}

// Ticks returns the number of completed ticks
func (g *Game) Ticks() uint64 {
	return g.ticks.Load()
}

// LastTick returns when the latest tick completed. It is the zero time
// before the first tick.
func (g *Game) LastTick() time.Time {
	ns := g.lastTick.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// Reset rebuilds the world from the seed, restores the ship to its start
// and respawns every agent
func (g *Game) Reset() error {
	bodies, err := g.buildBodies()
	if err != nil {
		return err
	}
	if err := g.World.Load(bodies); err != nil {
		return fmt.Errorf("failed to load bodies: %w", err)
	}

	g.World.Reseed(g.Config.World.Seed)
	g.Ship.Reset(g.Config.ShipStart())
	g.spawnAgents()
	g.pendingReset = false

	g.metrics.reset()
	g.logger.Info(g.ctx, "world reset",
		"seed", g.Config.World.Seed,
		"bodies", g.World.Len(),
		"agents", len(g.Agents),
	)
	g.EventBus.Publish(&event.BaseEvent{
		EventType: event.WorldReset,
		Source:    g,
	})
	return nil
}

// Draw hands the current state to r
func (g *Game) Draw(r Renderer) {
	r.Clear()
	for b := range g.World.Bodies() {
		r.RenderBody(*b)
	}
	for _, a := range g.Agents {
		r.RenderAgent(*a)
	}
	r.RenderShip(*g.Ship)
	r.Present()
}

func (g *Game) updatePlayer(dt float64) {
	report, err := g.Ship.Update(dt, g.World)

	if report.Collided.Valid() {
		g.metrics.collision(string(event.MoverShip))
		g.EventBus.Publish(event.NewCollisionEvent(g, event.MoverShip, 0, int(report.Collided), report.Damage))
	}
	if report.Damage > 0 {
		g.EventBus.Publish(event.NewShipEvent(event.ShipDamaged, g, g.Ship.Health, int(report.Collided)))
	}
	if report.Parked {
		g.EventBus.Publish(event.NewShipEvent(event.ShipParked, g, g.Ship.Health, int(g.Ship.ParkedOn)))
	}

	if errors.Is(err, entity.ErrShipDestroyed) {
		g.EventBus.Publish(event.NewShipEvent(event.ShipDestroyed, g, g.Ship.Health, int(g.Ship.LastCollided)))
	}
}

func (g *Game) updateBodies(dt float64) {
	for i := range g.World.Dynamic {
		b := &g.World.Dynamic[i]
		if struck := b.Update(dt, g.World); struck.Valid() {
			g.metrics.collision(string(event.MoverBody))
			g.EventBus.Publish(event.NewCollisionEvent(g, event.MoverBody, int(b.ID), int(struck), 0))
		}
	}
}

func (g *Game) updateAgents(dt float64) {
	for i, a := range g.Agents {
		report := a.Update(dt, g.World)
		if report.Collided.Valid() {
			g.metrics.collision(string(event.MoverAgent))
			g.EventBus.Publish(event.NewCollisionEvent(g, event.MoverAgent, i, int(report.Collided), 0))
		}
		if report.Retargeted {
			dest := a.Nav.Destination
			g.logger.Debug(g.ctx, "agent retargeted", "agent", i, "x", dest.X, "y", dest.Y)
			g.EventBus.Publish(event.NewAgentEvent(g, i, dest.X, dest.Y))
		}
	}
}

// registerEventHandlers sets up handlers for game events
func (g *Game) registerEventHandlers() {
	g.EventBus.Subscribe(event.ShipDestroyed, g.handleShipDestroyedEvent)
}

// handleShipDestroyedEvent schedules a world reset for the end of the tick
func (g *Game) handleShipDestroyedEvent(e event.Event) {
	shipEvent, ok := e.(*event.ShipEvent)
	if !ok {
		return
	}
	g.logger.Info(g.ctx, "ship destroyed",
		"tick", g.CurrentTick,
		"last_body", shipEvent.BodyID,
	)
	g.pendingReset = true
}

func (g *Game) spawnAgents() {
	stats := g.Config.AgentStats()
	start := g.Config.ShipStart()

	g.Agents = g.Agents[:0]
	for range g.Config.Agents.Count {
		pos, ok := g.World.PickTarget(start)
		if !ok {
			pos = start
		}
		g.Agents = append(g.Agents, nav.NewAgent(stats, pos, g.World))
	}
}

// buildBodies collects the generated bodies followed by the ones listed in
// the config. Config bodies are numbered after the generated ones.
func (g *Game) buildBodies() ([]entity.Body, error) {
	var bodies []entity.Body
	if g.generator != nil && g.Config.Generator.Enabled {
		generated, err := g.generator.Generate(g.Config.World.Seed)
		if err != nil {
			return nil, fmt.Errorf("failed to generate world: %w", err)
		}
		bodies = append(bodies, generated...)
	}

	base := entity.ID(0)
	for _, b := range bodies {
		if b.ID >= base {
			base = b.ID + 1
		}
	}

	for i, bc := range g.Config.Bodies {
		b, err := bodyFromConfig(base+entity.ID(i), base, bc)
		if err != nil {
			return nil, fmt.Errorf("bodies[%d]: %w", i, err)
		}
		bodies = append(bodies, b)
	}

	for i := range bodies {
		b := &bodies[i]
		if b.Mode() == entity.ModeGravity && b.Motion.SpeedLimit == 0 {
			b.Motion.SpeedLimit = g.Config.Physics.BodySpeedLimit
		}
	}
	return bodies, nil
}

func bodyFromConfig(id, base entity.ID, bc config.BodyConfig) (entity.Body, error) {
	kind, err := bc.EntityKind()
	if err != nil {
		return entity.Body{}, err
	}

	pos := physics.Vector2D{X: bc.X, Y: bc.Y}
	if kind == entity.Static {
		return entity.NewStaticBody(id, pos, bc.Radius, bc.Mass), nil
	}

	mode, err := entity.ParseMoveMode(bc.Mode)
	if err != nil {
		return entity.Body{}, err
	}
	motion := bc.Motion()
	if bc.Orbit != nil {
		motion.OrbitBody = base + entity.ID(*bc.Orbit)
	}

	b := entity.NewDynamicBody(id, pos, bc.Radius, bc.Mass, mode, motion)
	b.Velocity = physics.Vector2D{X: bc.VX, Y: bc.VY}
	return b, nil
}
