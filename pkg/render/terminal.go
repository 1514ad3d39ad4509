package render

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/vectorspace/pkg/entity"
	"github.com/opd-ai/vectorspace/pkg/nav"
	"github.com/opd-ai/vectorspace/pkg/physics"
)

// hudLines is the number of screen rows reserved for the status display
const hudLines = 2

// cellAspect compensates for terminal cells being about twice as tall as wide
const cellAspect = 2

var (
	staticStyle  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	dynamicStyle = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	agentStyle   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	shipStyle    = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	hudStyle     = tcell.StyleDefault.Reverse(true)
)

// TerminalRenderer draws the world on a tcell screen, centered on the ship.
// Bodies are collected into a quadtree each frame so that only the ones
// near the view are drawn.
type TerminalRenderer struct {
	screen tcell.Screen
	scale  float64 // world units per column
	bounds physics.Bounds
	center physics.Vector2D

	bodies    *physics.QuadTree[entity.Body]
	maxRadius float64
	agents    []physics.Vector2D
	ship      entity.Ship
	hasShip   bool
}

// NewTerminalRenderer creates a renderer drawing onto screen. scale is the
// number of world units per terminal column.
func NewTerminalRenderer(screen tcell.Screen, bounds physics.Bounds, scale float64) *TerminalRenderer {
	if scale <= 0 {
		scale = 1
	}
	r := &TerminalRenderer{
		screen: screen,
		scale:  scale,
		bounds: bounds,
	}
	r.Clear()
	return r
}

// SetCenter moves the camera. RenderShip overrides it every frame.
func (r *TerminalRenderer) SetCenter(pos physics.Vector2D) {
	r.center = pos
}

// Center returns the camera position
func (r *TerminalRenderer) Center() physics.Vector2D {
	return r.center
}

// Clear implements engine.Renderer.
func (r *TerminalRenderer) Clear() {
	r.bodies = physics.NewQuadTree[entity.Body](r.bounds.Rect().Grow(1), 8)
	r.maxRadius = 0
	r.agents = r.agents[:0]
	r.hasShip = false
}

// RenderBody implements engine.Renderer.
func (r *TerminalRenderer) RenderBody(b entity.Body) {
	r.bodies.Insert(b.Position, b)
	r.maxRadius = math.Max(r.maxRadius, b.Radius)
}

// RenderAgent implements engine.Renderer.
func (r *TerminalRenderer) RenderAgent(a nav.Agent) {
	r.agents = append(r.agents, a.Position())
}

// RenderShip implements engine.Renderer.
func (r *TerminalRenderer) RenderShip(s entity.Ship) {
	r.ship = s
	r.hasShip = true
	r.center = s.Position
}

// Present implements engine.Renderer.
func (r *TerminalRenderer) Present() {
	r.screen.Clear()

	for _, b := range r.bodies.Query(r.view().Grow(r.maxRadius)) {
		style, glyph := dynamicStyle, 'o'
		if b.Kind == entity.Static {
			style, glyph = staticStyle, 'O'
		}
		r.drawCircle(b.Position, b.Radius, glyph, style)
	}

	for _, pos := range r.agents {
		r.plot(pos, 'A', agentStyle)
	}

	if r.hasShip {
		r.plot(r.ship.Position, '@', shipStyle)
		r.drawHUD()
	}

	r.screen.Show()
}

// view returns the world area covered by the map part of the screen
func (r *TerminalRenderer) view() physics.Rect {
	w, h := r.mapSize()
	return physics.Rect{
		Center: r.center,
		Width:  float64(w) * r.scale,
		Height: float64(h) * r.scale * cellAspect,
	}
}

func (r *TerminalRenderer) mapSize() (int, int) {
	w, h := r.screen.Size()
	return w, max(h-hudLines, 0)
}

// worldToScreen converts world coordinates to a screen cell
func (r *TerminalRenderer) worldToScreen(pos physics.Vector2D) (int, int) {
	w, h := r.mapSize()
	x := int(math.Floor((pos.X-r.center.X)/r.scale + float64(w)/2))
	y := int(math.Floor((pos.Y-r.center.Y)/(r.scale*cellAspect) + float64(h)/2))
	return x, y
}

func (r *TerminalRenderer) plot(pos physics.Vector2D, glyph rune, style tcell.Style) {
	x, y := r.worldToScreen(pos)
	r.setCell(x, y, glyph, style)
}

func (r *TerminalRenderer) setCell(x, y int, glyph rune, style tcell.Style) {
	w, h := r.mapSize()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	r.screen.SetContent(x, y, glyph, nil, style)
}

// drawCircle fills every cell whose center lies inside the body. Bodies
// smaller than a cell still get their center cell.
func (r *TerminalRenderer) drawCircle(center physics.Vector2D, radius float64, glyph rune, style tcell.Style) {
	cx, cy := r.worldToScreen(center)
	r.setCell(cx, cy, glyph, style)

	rx := int(math.Ceil(radius / r.scale))
	ry := int(math.Ceil(radius / (r.scale * cellAspect)))
	for dy := -ry; dy <= ry; dy++ {
		for dx := -rx; dx <= rx; dx++ {
			cell := physics.Vector2D{
				X: r.center.X + (float64(cx+dx)-r.halfWidth()+0.5)*r.scale,
				Y: r.center.Y + (float64(cy+dy)-r.halfHeight()+0.5)*r.scale*cellAspect,
			}
			if cell.Distance(center) <= radius {
				r.setCell(cx+dx, cy+dy, glyph, style)
			}
		}
	}
}

func (r *TerminalRenderer) halfWidth() float64 {
	w, _ := r.mapSize()
	return float64(w) / 2
}

func (r *TerminalRenderer) halfHeight() float64 {
	_, h := r.mapSize()
	return float64(h) / 2
}

func (r *TerminalRenderer) drawHUD() {
	w, h := r.screen.Size()
	s := r.ship
	move := s.Movement()

	parked := "no"
	if s.Parked {
		parked = fmt.Sprintf("on %d", s.ParkedOn)
	}
	status := "idle"
	switch {
	case s.Braking:
		status = "braking"
	case s.Steering:
		status = "thrusting"
	}

	lines := [hudLines]string{
		fmt.Sprintf(" pos %7.1f,%7.1f  speed %6.1f  gravity %6.2f,%6.2f  movement %6.1f,%6.1f",
			s.Position.X, s.Position.Y, s.Speed(), s.Gravity.X, s.Gravity.Y, move.X, move.Y),
		fmt.Sprintf(" thrust %4.1f  health %3d  parked %s  %s",
			s.Thrust, s.Health, parked, status),
	}
	for i, line := range lines {
		y := h - hudLines + i
		if y < 0 {
			continue
		}
		col := 0
		for _, ch := range line {
			if col >= w {
				break
			}
			r.screen.SetContent(col, y, ch, nil, hudStyle)
			col++
		}
		for ; col < w; col++ {
			r.screen.SetContent(col, y, ' ', nil, hudStyle)
		}
	}
}
