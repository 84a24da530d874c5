package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	xdraw "golang.org/x/image/draw"
)

// SliceBand copies the half-open horizontal band [y0,y1) of src into a
// fresh image. y coordinates are relative to the top of src regardless
// of its bounds origin.
func SliceBand(src image.Image, y0, y1 int) (image.Image, error) {
	b := src.Bounds()
	if y0 < 0 || y1 <= y0 || y1 > b.Dy() {
		return nil, fmt.Errorf("export: band [%d,%d) out of range for height %d", y0, y1, b.Dy())
	}
	sr := image.Rect(b.Min.X, b.Min.Y+y0, b.Max.X, b.Min.Y+y1)
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), y1-y0))
	xdraw.Copy(dst, image.Point{}, src, sr, xdraw.Src, nil)
	return dst, nil
}

// EncodePNG serializes a bitmap for embedding into the document.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("export: encode band: %w", err)
	}
	return buf.Bytes(), nil
}
