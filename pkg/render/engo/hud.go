// pkg/render/engo/hud.go
package engo

import (
	"fmt"
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/vectorspace/pkg/entity"
)

const (
	hudMargin    = 10
	barWidth     = 200
	barHeight    = 8
	barSpacing   = 4
	hudLineSpace = 18
	hudZ         = 10
)

var (
	barBackColor = color.RGBA{40, 40, 40, 200}
	healthColor  = color.RGBA{80, 220, 80, 255}
	thrustColor  = color.RGBA{80, 160, 255, 255}
)

// HUDSystem draws health and thrust bars in the top-left corner and,
// when a font is set, the ship status lines below them
type HUDSystem struct {
	sprites SpriteSystem
	font    *common.Font

	ship    entity.Ship
	hasShip bool

	healthBack, healthBar *sprite
	thrustBack, thrustBar *sprite
	text                  []*sprite
}

// NewHUDSystem creates a HUD adding its sprites to sprites. font may be nil.
func NewHUDSystem(sprites SpriteSystem, font *common.Font) *HUDSystem {
	return &HUDSystem{sprites: sprites, font: font}
}

// Remove satisfies the ecs.System interface
func (hud *HUDSystem) Remove(ecs.BasicEntity) {}

// SetShip records the state shown on the next Update
func (hud *HUDSystem) SetShip(s entity.Ship) {
	hud.ship = s
	hud.hasShip = true
}

// Update redraws the bars and status lines
func (hud *HUDSystem) Update(float32) {
	if !hud.hasShip {
		return
	}
	s := hud.ship

	health := 0.0
	if s.Stats.MaxHealth > 0 {
		health = float64(max(s.Health, 0)) / float64(s.Stats.MaxHealth)
	}
	thrust := 0.0
	if s.Stats.MaxThrust > 0 {
		thrust = s.Thrust / s.Stats.MaxThrust
	}

	y := float32(hudMargin)
	hud.healthBack = hud.bar(hud.healthBack, y, 1, barBackColor, hudZ)
	hud.healthBar = hud.bar(hud.healthBar, y, health, healthColor, hudZ+1)
	y += barHeight + barSpacing
	hud.thrustBack = hud.bar(hud.thrustBack, y, 1, barBackColor, hudZ)
	hud.thrustBar = hud.bar(hud.thrustBar, y, thrust, thrustColor, hudZ+1)
	y += barHeight + barSpacing

	if hud.font == nil {
		return
	}
	for i, line := range StatusLines(s) {
		if i == len(hud.text) {
			t := &sprite{BasicEntity: ecs.NewBasic()}
			t.SetZIndex(hudZ)
			hud.sprites.Add(&t.BasicEntity, &t.RenderComponent, &t.SpaceComponent)
			hud.text = append(hud.text, t)
		}
		t := hud.text[i]
		t.Drawable = common.Text{Font: hud.font, Text: line}
		t.Position = engo.Point{X: hudMargin, Y: y}
		y += hudLineSpace
	}
}

// bar sizes a horizontal bar to fraction of the full width, creating it on
// first use
func (hud *HUDSystem) bar(s *sprite, y float32, fraction float64, c color.Color, z float32) *sprite {
	if s == nil {
		s = &sprite{BasicEntity: ecs.NewBasic()}
		s.Drawable = common.Rectangle{}
		s.Color = c
		s.SetZIndex(z)
		hud.sprites.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
	}
	fraction = min(max(fraction, 0), 1)
	s.Position = engo.Point{X: hudMargin, Y: y}
	s.Width = float32(fraction * barWidth)
	s.Height = barHeight
	return s
}

// StatusLines formats the ship state shown by the HUD
func StatusLines(s entity.Ship) []string {
	move := s.Movement()
	parked := "no"
	if s.Parked {
		parked = fmt.Sprintf("on body %d", s.ParkedOn)
	}
	moving := "idle"
	switch {
	case s.Braking:
		moving = "braking"
	case s.Steering:
		moving = "thrusting"
	}
	return []string{
		fmt.Sprintf("Position: %.1f, %.1f", s.Position.X, s.Position.Y),
		fmt.Sprintf("Speed: %.1f", s.Speed()),
		fmt.Sprintf("Gravity: %.2f, %.2f", s.Gravity.X, s.Gravity.Y),
		fmt.Sprintf("Movement: %.1f, %.1f", move.X, move.Y),
		fmt.Sprintf("Thrust: %.1f / %.0f", s.Thrust, s.Stats.MaxThrust),
		fmt.Sprintf("Health: %d / %d", s.Health, s.Stats.MaxHealth),
		fmt.Sprintf("Parked: %s", parked),
		fmt.Sprintf("Moving: %s", moving),
	}
}
