// Package generate builds seeded star systems. The same seed always yields
// the same bodies.
package generate

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/opd-ai/vectorspace/pkg/config"
	"github.com/opd-ai/vectorspace/pkg/entity"
	"github.com/opd-ai/vectorspace/pkg/physics"
)

const (
	minStarRadius = 100
	maxStarRadius = 250
	starClearance = 60 // free space around a star before the first orbit
	orbitSpacing  = 10 // gap added after each planet's orbit
	minPlanetSize = 20
	maxPlanets    = 9

	minAsteroidRadius = 5
	maxAsteroidRadius = 15
	asteroidBand      = 200 // width of the ring asteroids are placed in
	asteroidAttempts  = 20
)

// Generator fills the world with a grid of star systems. Each system has a
// static star and up to nine planets orbiting it; asteroids in gravity
// mode are scattered outside the planet orbits.
type Generator struct {
	Bounds        physics.Bounds
	Gravity       physics.Gravity
	SystemRadius  float64
	SystemPadding float64
	Asteroids     int
}

// New creates a generator from the world, physics and generator sections
// of cfg
func New(cfg *config.GameConfig) *Generator {
	return &Generator{
		Bounds:        cfg.Bounds(),
		Gravity:       cfg.Gravity(),
		SystemRadius:  cfg.Generator.SystemRadius,
		SystemPadding: cfg.Generator.SystemPadding,
		Asteroids:     cfg.Generator.Asteroids,
	}
}

// system records a star and the outer edge of its planet orbits
type system struct {
	star  entity.Body
	outer float64
}

// Generate returns the bodies for seed
func (g *Generator) Generate(seed uint64) ([]entity.Body, error) {
	if g.SystemRadius <= 0 {
		return nil, fmt.Errorf("system radius must be positive, got %v", g.SystemRadius)
	}
	step := 2*g.SystemRadius + g.SystemPadding
	if step <= 0 {
		return nil, fmt.Errorf("system spacing must be positive, got radius %v padding %v", g.SystemRadius, g.SystemPadding)
	}

	var (
		bodies  []entity.Body
		systems []system
	)
	e := g.Bounds.HalfExtent

	for y := -e + g.SystemRadius; y < e; y += step {
		for x := -e + g.SystemRadius; x < e; x += step {
			rng := rand.New(rand.NewPCG(seed, uint64(len(systems))))
			var sys system
			bodies, sys = g.systemAt(physics.Vector2D{X: x, Y: y}, rng, bodies)
			systems = append(systems, sys)
		}
	}

	if len(systems) > 0 {
		rng := rand.New(rand.NewPCG(seed, math.MaxUint64))
		for range g.Asteroids {
			if b, ok := g.asteroid(rng, systems, bodies, entity.ID(len(bodies))); ok {
				bodies = append(bodies, b)
			}
		}
	}
	return bodies, nil
}

// systemAt appends a star at center and its planets
func (g *Generator) systemAt(center physics.Vector2D, rng *rand.Rand, bodies []entity.Body) ([]entity.Body, system) {
	radius := float64(minStarRadius + rng.IntN(maxStarRadius-minStarRadius))
	mass := radius * float64(10+rng.IntN(240))
	star := entity.NewStaticBody(entity.ID(len(bodies)), center, radius, mass)
	bodies = append(bodies, star)

	used := radius + starClearance
	count := rng.IntN(maxPlanets + 1)
	if count == 0 {
		return bodies, system{star: star, outer: used}
	}

	space := (g.SystemRadius - used) / float64(count)
	maxRadius := math.Min(space/2, radius)

	for range count {
		distance := used + space/2
		planet, ok := planetOrbiting(star, entity.ID(len(bodies)), distance, maxRadius, rng)
		if !ok {
			break
		}
		bodies = append(bodies, planet)
		used = distance + 2*planet.Radius + orbitSpacing
	}
	return bodies, system{star: star, outer: used}
}

// planetOrbiting creates a planet on a circular orbit of the given distance
// around star, starting at a random phase
func planetOrbiting(star entity.Body, id entity.ID, distance, maxRadius float64, rng *rand.Rand) (entity.Body, bool) {
	var radius float64
	if n := int(maxRadius - minPlanetSize); n > 0 {
		radius = float64(minPlanetSize + rng.IntN(n))
	} else {
		radius = math.Min(maxRadius, minPlanetSize)
	}
	if radius <= 0 {
		return entity.Body{}, false
	}
	mass := radius * float64(5+rng.IntN(10))

	motion := entity.DefaultMotion()
	motion.OrbitBody = star.ID
	motion.TimeStart = -math.Pi
	motion.TimeEnd = math.Pi
	motion.Rate = float64(1+rng.IntN(9)) / 10
	motion.XMul = distance
	motion.YMul = distance

	phase := -math.Pi + rng.Float64()*2*math.Pi
	position := star.Position.Add(physics.Vector2D{
		X: math.Cos(phase) * distance,
		Y: math.Sin(phase) * distance,
	})

	planet := entity.NewDynamicBody(id, position, radius, mass, entity.ModeOrbit, motion)
	planet.Motion.Time = phase
	return planet, true
}

// asteroid places a gravity-mode body just outside the orbits of a random
// system, moving at that star's circular orbit velocity. It gives up when
// every attempt overlaps an existing body.
func (g *Generator) asteroid(rng *rand.Rand, systems []system, bodies []entity.Body, id entity.ID) (entity.Body, bool) {
	for range asteroidAttempts {
		sys := systems[rng.IntN(len(systems))]
		radius := float64(minAsteroidRadius + rng.IntN(maxAsteroidRadius-minAsteroidRadius))
		distance := sys.outer + radius + rng.Float64()*asteroidBand
		position := sys.star.Position.Add(physics.FromAngle(rng.Float64()*2*math.Pi, distance))
		if !g.Bounds.Contains(position) {
			continue
		}

		candidate := physics.Circle{Center: position, Radius: radius}
		if overlapsAny(candidate, bodies) {
			continue
		}

		b := entity.NewDynamicBody(id, position, radius, radius, entity.ModeGravity, entity.DefaultMotion())
		if distance <= g.Gravity.InfluenceRadius {
			b.Velocity = g.Gravity.OrbitVelocity(sys.star.Position, sys.star.Mass, position)
		}
		return b, true
	}
	return entity.Body{}, false
}

func overlapsAny(c physics.Circle, bodies []entity.Body) bool {
	for i := range bodies {
		if c.Collides(bodies[i].Collider()) {
			return true
		}
	}
	return false
}
