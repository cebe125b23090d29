// pkg/render/engo/assets.go
package engo

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"golang.org/x/image/font/gofont/gomono"
)

// Sprite names.
const (
	SpriteBall = "ball"
	SpriteCar  = "car"
)

// fontURL is the virtual path the embedded monospace font is loaded under.
const fontURL = "gomono.ttf"

// AssetManager builds the procedural sprites and the overlay font.
type AssetManager struct {
	sprites map[string]common.Drawable
	font    *common.Font
}

// NewAssetManager creates a new asset manager
func NewAssetManager() *AssetManager {
	return &AssetManager{
		sprites: make(map[string]common.Drawable),
	}
}

// PreloadFont registers the embedded font with engo's file loader. It must
// run from a scene's Preload.
func PreloadFont() error {
	if err := engo.Files.LoadReaderData(fontURL, bytes.NewReader(gomono.TTF)); err != nil {
		return fmt.Errorf("failed to load font: %w", err)
	}
	return nil
}

// LoadAssets creates textures and the font. It needs a GL context.
func (am *AssetManager) LoadAssets() error {
	am.sprites[SpriteBall] = am.createSprite(32, 32, discPattern(32))
	am.sprites[SpriteCar] = am.createSprite(24, 24, arrowPattern(24))

	am.font = &common.Font{
		URL:  fontURL,
		FG:   color.White,
		Size: 14,
	}
	if err := am.font.CreatePreloaded(); err != nil {
		am.font = nil
		return fmt.Errorf("failed to create font: %w", err)
	}
	return nil
}

// discPattern is a filled circle of the given diameter.
func discPattern(size int) [][]int {
	pattern := make([][]int, size)
	r := float64(size) / 2
	for y := range pattern {
		pattern[y] = make([]int, size)
		for x := range pattern[y] {
			dx := float64(x) + 0.5 - r
			dy := float64(y) + 0.5 - r
			if dx*dx+dy*dy <= r*r {
				pattern[y][x] = 1
			}
		}
	}
	return pattern
}

// arrowPattern is a triangle pointing toward +X, so a sprite rotation of
// zero faces screen right.
func arrowPattern(size int) [][]int {
	pattern := make([][]int, size)
	mid := float64(size-1) / 2
	for y := range pattern {
		pattern[y] = make([]int, size)
		// Half-height of the triangle shrinks linearly toward the tip.
		for x := range pattern[y] {
			half := mid * (1 - float64(x)/float64(size-1))
			dy := float64(y) - mid
			if dy >= -half-0.5 && dy <= half+0.5 {
				pattern[y][x] = 1
			}
		}
	}
	return pattern
}

// createSprite creates a sprite from a 2D pattern
func (am *AssetManager) createSprite(width, height int, pattern [][]int) common.Drawable {
	img := am.createBaseImage(width, height)
	am.drawPatternOnImage(img, pattern, width, height)
	return am.convertToEngoTexture(img)
}

// createBaseImage creates a transparent RGBA image with the specified dimensions.
func (am *AssetManager) createBaseImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{0, 0, 0, 0}}, image.Point{}, draw.Src)
	return img
}

// drawPatternOnImage draws a 2D pixel pattern onto the provided RGBA image.
func (am *AssetManager) drawPatternOnImage(img *image.RGBA, pattern [][]int, width, height int) {
	for y, row := range pattern {
		if y >= height {
			break
		}
		for x, pixel := range row {
			if x >= width {
				break
			}
			if pixel == 1 {
				img.Set(x, y, color.RGBA{255, 255, 255, 255})
			}
		}
	}
}

// convertToEngoTexture converts an RGBA image to an Engo-compatible texture.
func (am *AssetManager) convertToEngoTexture(img *image.RGBA) common.Drawable {
	bounds := img.Bounds()
	nrgbaImg := image.NewNRGBA(bounds)
	draw.Draw(nrgbaImg, bounds, img, bounds.Min, draw.Src)

	texture := common.NewImageObject(nrgbaImg)
	return common.NewTextureSingle(texture)
}

// GetSprite returns a loaded sprite, or nil before LoadAssets.
func (am *AssetManager) GetSprite(name string) common.Drawable {
	return am.sprites[name]
}

// GetFont returns the overlay font, or nil before LoadAssets.
func (am *AssetManager) GetFont() *common.Font {
	return am.font
}
