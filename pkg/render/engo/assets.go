// pkg/render/engo/assets.go
package engo

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/vectorspace/pkg/entity"
)

// shipPattern is the 16x16 arrow used for the player ship
var shipPattern = [][]int{
	{0, 0, 0, 0, 0, 0, 0, 1, 1, 0, 0, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0},
	{0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0},
	{0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0, 0, 0},
	{0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0, 0, 0},
	{0, 0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0, 0},
	{0, 0, 1, 1, 1, 1, 1, 0, 0, 1, 1, 1, 1, 1, 0, 0},
	{0, 1, 1, 1, 1, 1, 0, 0, 0, 0, 1, 1, 1, 1, 1, 0},
	{0, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 0},
	{1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1},
	{1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1},
	{1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 1},
}

// Palette
var (
	starColor     = color.RGBA{255, 210, 80, 255}
	planetColor   = color.RGBA{90, 150, 255, 255}
	asteroidColor = color.RGBA{150, 140, 130, 255}
	movingColor   = color.RGBA{200, 200, 200, 255}
	agentColor    = color.RGBA{255, 70, 70, 255}
	shipColor     = color.RGBA{80, 255, 220, 255}
	hurtColor     = color.RGBA{255, 120, 40, 255}
)

// AssetManager hands out drawables for bodies, agents and the ship
type AssetManager struct {
	shipSprite common.Drawable
	loaded     bool
}

// NewAssetManager creates a new asset manager
func NewAssetManager() *AssetManager {
	return &AssetManager{}
}

// LoadAssets uploads the ship texture. It needs an OpenGL context, so it
// may only be called from a scene's Setup.
func (am *AssetManager) LoadAssets() error {
	img := createBaseImage(len(shipPattern[0]), len(shipPattern))
	drawPatternOnImage(img, shipPattern)
	am.shipSprite = convertToEngoTexture(img)
	am.loaded = true
	return nil
}

// Loaded reports whether LoadAssets has run
func (am *AssetManager) Loaded() bool {
	return am.loaded
}

// ShipDrawable returns the ship texture, or a triangle before LoadAssets
func (am *AssetManager) ShipDrawable() common.Drawable {
	if am.shipSprite == nil {
		return common.Triangle{}
	}
	return am.shipSprite
}

// BodyDrawable returns the shape used for bodies and agents
func (am *AssetManager) BodyDrawable() common.Drawable {
	return common.Circle{}
}

// BodyColor picks a color by body kind and movement mode
func BodyColor(b entity.Body) color.Color {
	if b.Kind == entity.Static {
		return starColor
	}
	switch b.Mode() {
	case entity.ModeOrbit:
		return planetColor
	case entity.ModeGravity:
		return asteroidColor
	default:
		return movingColor
	}
}

// ShipColor fades from the ship color towards orange as health drops
func ShipColor(s entity.Ship) color.Color {
	if s.Stats.MaxHealth <= 0 || s.Health >= s.Stats.MaxHealth {
		return shipColor
	}
	f := float64(max(s.Health, 0)) / float64(s.Stats.MaxHealth)
	mix := func(a, b uint8) uint8 {
		return uint8(float64(b) + (float64(a)-float64(b))*f)
	}
	return color.RGBA{
		R: mix(shipColor.R, hurtColor.R),
		G: mix(shipColor.G, hurtColor.G),
		B: mix(shipColor.B, hurtColor.B),
		A: 255,
	}
}

// createBaseImage creates a transparent RGBA image with the specified dimensions.
func createBaseImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{0, 0, 0, 0}}, image.Point{}, draw.Src)
	return img
}

// drawPatternOnImage sets a white pixel for every 1 in pattern that falls
// inside img
func drawPatternOnImage(img *image.RGBA, pattern [][]int) {
	b := img.Bounds()
	for y, row := range pattern {
		if y >= b.Dy() {
			break
		}
		for x, pixel := range row {
			if x >= b.Dx() {
				break
			}
			if pixel == 1 {
				img.Set(x, y, color.RGBA{255, 255, 255, 255})
			}
		}
	}
}

// convertToEngoTexture converts an RGBA image to an Engo-compatible texture.
func convertToEngoTexture(img *image.RGBA) common.Drawable {
	bounds := img.Bounds()
	nrgbaImg := image.NewNRGBA(bounds)
	draw.Draw(nrgbaImg, bounds, img, bounds.Min, draw.Src)

	texture := common.NewImageObject(nrgbaImg)
	return common.NewTextureSingle(texture)
}
