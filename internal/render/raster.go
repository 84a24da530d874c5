package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// RasterCache holds PNG renderings of chart SVGs, keyed by chart id.
// Canvas-backed charts cannot survive a DOM clone (the clone's canvas
// is blank), so exports repaint them from these pixels instead.
type RasterCache struct {
	mu     sync.RWMutex
	images map[string]rasterEntry
}

type rasterEntry struct {
	png  []byte
	w, h int
}

func NewRasterCache() *RasterCache {
	return &RasterCache{images: map[string]rasterEntry{}}
}

// Rasterize renders svgText onto an opaque white background at
// scale times its display size and stores the PNG under id. Display
// width/height are kept so consumers can size the bitmap back down.
func (c *RasterCache) Rasterize(id, svgText string, displayW, displayH int, scale float64) error {
	if displayW <= 0 || displayH <= 0 {
		return fmt.Errorf("raster: invalid display size %dx%d for %q", displayW, displayH, id)
	}
	if scale <= 0 {
		scale = 1
	}

	icon, err := oksvg.ReadIconStream(strings.NewReader(svgText))
	if err != nil {
		return fmt.Errorf("raster: parse svg %q: %w", id, err)
	}

	w := int(float64(displayW) * scale)
	h := int(float64(displayH) * scale)
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("raster: encode %q: %w", id, err)
	}

	c.mu.Lock()
	c.images[id] = rasterEntry{png: buf.Bytes(), w: displayW, h: displayH}
	c.mu.Unlock()
	return nil
}

// ChartPNG returns the cached PNG for a chart id.
func (c *RasterCache) ChartPNG(id string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.images[id]
	return e.png, ok
}

// ChartSize returns the display dimensions recorded for a chart id.
func (c *RasterCache) ChartSize(id string) (w, h int, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.images[id]
	return e.w, e.h, ok
}

// DataURI returns the cached PNG as a data: URI for direct embedding.
func (c *RasterCache) DataURI(id string) (string, bool) {
	b, ok := c.ChartPNG(id)
	if !ok {
		return "", false
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(b), true
}
