// pkg/engine/systems.go
package engine

import (
	"github.com/EngoEngine/ecs"
)

// System priorities. The ecs world runs higher priorities first, which
// fixes the per-tick order player, dynamic bodies, agents.
const (
	PlayerPriority     = 30
	MotionPriority     = 20
	NavigationPriority = 10
)

// PlayerSystem advances the player's ship
type PlayerSystem struct {
	game *Game
}

// Update ignores the ecs delta and uses the game's tick length
func (s *PlayerSystem) Update(float32) {
	s.game.updatePlayer(s.game.dt)
}

// Remove satisfies the ecs.System interface
func (*PlayerSystem) Remove(ecs.BasicEntity) {}

// Priority satisfies the ecs.Prioritizer interface
func (*PlayerSystem) Priority() int { return PlayerPriority }

// MotionSystem advances every dynamic body
type MotionSystem struct {
	game *Game
}

// Update ignores the ecs delta and uses the game's tick length
func (s *MotionSystem) Update(float32) {
	s.game.updateBodies(s.game.dt)
}

// Remove satisfies the ecs.System interface
func (*MotionSystem) Remove(ecs.BasicEntity) {}

// Priority satisfies the ecs.Prioritizer interface
func (*MotionSystem) Priority() int { return MotionPriority }

// NavigationSystem advances every autonomous agent
type NavigationSystem struct {
	game *Game
}

// Update ignores the ecs delta and uses the game's tick length
func (s *NavigationSystem) Update(float32) {
	s.game.updateAgents(s.game.dt)
}

// Remove satisfies the ecs.System interface
func (*NavigationSystem) Remove(ecs.BasicEntity) {}

// Priority satisfies the ecs.Prioritizer interface
func (*NavigationSystem) Priority() int { return NavigationPriority }
