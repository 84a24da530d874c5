package export

import "time"

// Capture tuning. These values were settled by eyeballing output across
// a range of real reports; change them together with the stylesheet.
const (
	// CaptureWidth is the fixed CSS pixel width sections are laid out at
	// inside the scratch document before screenshotting.
	CaptureWidth = 1000

	// OversampleScale multiplies the device scale factor during capture so
	// bitmaps stay sharp after PDF downscaling.
	OversampleScale = 3.0

	// settleDelay gives webfonts and final paints time to land before the
	// screenshot is taken.
	settleDelay = 500 * time.Millisecond

	// captureTimeout bounds a single section capture end to end.
	captureTimeout = 60 * time.Second

	// minVectorPx: inline vector graphics smaller than this on either
	// axis are decorative and are left alone by the raster pre-pass.
	minVectorPx = 12
)

// Page geometry, A4 portrait, millimetres.
const (
	pageW = 210.0
	pageH = 297.0

	// marginX is the left and right page margin; content spans contentW.
	marginX  = 14.0
	contentW = pageW - 2*marginX

	// contentTop sits below the section header band, contentBottom above
	// the footer band.
	contentTop    = 26.0
	contentBottom = 278.0
	maxContentH   = contentBottom - contentTop

	// blockGap separates stacked blocks on a page.
	blockGap = 6.0

	// footerY is the baseline of the footer rule.
	footerY = 283.0

	// fitSlack absorbs sub-millimetre rounding when deciding whether a
	// band fits the space left on a page. Band heights come from pixel
	// boundaries and can overshoot the exact split by a fraction of a
	// millimetre.
	fitSlack = 0.5
)
