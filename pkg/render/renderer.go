// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/vectorspace/pkg/entity"
	"github.com/opd-ai/vectorspace/pkg/logging"
	"github.com/opd-ai/vectorspace/pkg/nav"
)

// NullRenderer implements engine.Renderer by logging each call at debug
// level. The headless driver uses it.
type NullRenderer struct {
	logger *logging.Logger
	frames int
}

// NewNullRenderer creates a NullRenderer logging to logger
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &NullRenderer{logger: logger}
}

// Frames returns the number of presented frames
func (d *NullRenderer) Frames() int {
	return d.frames
}

// Clear implements engine.Renderer.
func (d *NullRenderer) Clear() {
	d.logger.Debug(context.Background(), "Clear called")
}

// Present implements engine.Renderer.
func (d *NullRenderer) Present() {
	d.frames++
	d.logger.Debug(context.Background(), "Present called", "frame", d.frames)
}

// RenderBody implements engine.Renderer.
func (d *NullRenderer) RenderBody(b entity.Body) {
	d.logger.Debug(context.Background(), "RenderBody called",
		"body_id", b.ID,
		"kind", b.Kind.String(),
		"x", b.Position.X,
		"y", b.Position.Y,
	)
}

// RenderAgent implements engine.Renderer.
func (d *NullRenderer) RenderAgent(a nav.Agent) {
	d.logger.Debug(context.Background(), "RenderAgent called",
		"x", a.Nav.Position.X,
		"y", a.Nav.Position.Y,
		"obstacle", a.Nav.Obstacle,
	)
}

// RenderShip implements engine.Renderer.
func (d *NullRenderer) RenderShip(s entity.Ship) {
	d.logger.Debug(context.Background(), "RenderShip called",
		"x", s.Position.X,
		"y", s.Position.Y,
		"health", s.Health,
		"parked", s.Parked,
	)
}
