package export

import "math"

// PageCursor tracks the composition position: the current 1-based page
// and the vertical offset on it, in millimetres from the page top.
type PageCursor struct {
	Page int
	Y    float64
}

// StartPage moves the cursor to the top of the content area of page n.
func (c *PageCursor) StartPage(n int) {
	c.Page = n
	c.Y = contentTop
}

// Remaining reports the vertical budget left on the current page.
func (c *PageCursor) Remaining() float64 {
	return contentBottom - c.Y
}

// Advance moves the cursor past a placed block of height h plus the
// inter-block gap.
func (c *PageCursor) Advance(h float64) {
	c.Y += h + blockGap
}

// Band is one horizontal slice of a section bitmap together with the
// height it occupies on the page once drawn at full content width.
type Band struct {
	// SrcY0 and SrcY1 bound the slice in source pixels, half-open.
	SrcY0, SrcY1 int
	// DrawH is the printed height in millimetres.
	DrawH float64
	// NewPage marks bands that open a fresh page before being drawn.
	NewPage bool
}

// ScaledHeight returns the printed height, in millimetres, of a bitmap
// drawn at full content width with its aspect ratio preserved.
func ScaledHeight(pxW, pxH int) float64 {
	if pxW <= 0 {
		return 0
	}
	return contentW * float64(pxH) / float64(pxW)
}

// PlanSection decides how a captured bitmap is placed given the space
// remaining on the current page.
//
// A bitmap whose scaled height fits the remaining space becomes a single
// band on the current page. Anything that misses the remaining space is
// cut into ceil(scaledH/maxContentH) contiguous horizontal bands whose
// pixel boundaries partition the source height exactly; a bitmap shorter
// than a full page stays whole, so the cut count can be one, meaning the
// bitmap simply moves to the next page. Every band after the first opens
// a new page, and the first does too unless it fits what is left of the
// current one.
func PlanSection(pxW, pxH int, remaining float64) []Band {
	if pxW <= 0 || pxH <= 0 {
		return nil
	}
	scaledH := ScaledHeight(pxW, pxH)
	if scaledH <= remaining+fitSlack {
		return []Band{{SrcY0: 0, SrcY1: pxH, DrawH: scaledH}}
	}

	n := int(math.Ceil(scaledH / maxContentH))
	if n < 1 {
		n = 1
	}
	perPx := contentW / float64(pxW)
	bands := make([]Band, 0, n)
	for i := 0; i < n; i++ {
		y0 := bandBoundary(pxH, n, i)
		y1 := bandBoundary(pxH, n, i+1)
		b := Band{
			SrcY0: y0,
			SrcY1: y1,
			DrawH: float64(y1-y0) * perPx,
		}
		if i == 0 {
			b.NewPage = b.DrawH > remaining+fitSlack
		} else {
			b.NewPage = true
		}
		bands = append(bands, b)
	}
	return bands
}

// bandBoundary computes the i-th cut line for an n-way split of h source
// pixels. Boundaries are rounded, never accumulated, so the bands always
// cover [0,h) exactly and differ in height by at most one pixel.
func bandBoundary(h, n, i int) int {
	return int(math.Round(float64(i) * float64(h) / float64(n)))
}

// PageSpan reports how many pages a plan touches beyond the page the
// cursor was on when it was made.
func PageSpan(bands []Band) int {
	extra := 0
	for _, b := range bands {
		if b.NewPage {
			extra++
		}
	}
	return extra
}
