package export

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
)

// ChromeCapturer rasterizes section scratch documents in a headless
// browser. One browser process serves a whole job; each section gets a
// fresh tab and a fresh scratch file. Not safe for concurrent use, which
// matches the strictly sequential capture order.
type ChromeCapturer struct {
	snap       *Snapshot
	allocCtx   context.Context
	allocStop  context.CancelFunc
	scratchDir string
}

// NewChromeCapturer starts the browser allocator and creates the scratch
// directory. Close releases both.
func NewChromeCapturer(ctx context.Context, snap *Snapshot, opts []chromedp.ExecAllocatorOption) (*ChromeCapturer, error) {
	dir, err := os.MkdirTemp("", "career-report-")
	if err != nil {
		return nil, fmt.Errorf("export: create scratch dir: %w", err)
	}
	allocCtx, allocStop := chromedp.NewExecAllocator(ctx, opts...)
	return &ChromeCapturer{
		snap:       snap,
		allocCtx:   allocCtx,
		allocStop:  allocStop,
		scratchDir: dir,
	}, nil
}

// Close shuts the browser down and removes the scratch directory.
func (c *ChromeCapturer) Close() {
	c.allocStop()
	if err := os.RemoveAll(c.scratchDir); err != nil {
		slog.Warn("export: remove scratch dir", "dir", c.scratchDir, "error", err)
	}
}

// NewChromeFactory adapts ChromeCapturer to the factory shape the
// exporter drives, launching the browser with the given allocator
// options.
func NewChromeFactory(opts []chromedp.ExecAllocatorOption) CapturerFactory {
	return func(ctx context.Context, snap *Snapshot) (SectionCapturer, func(), error) {
		c, err := NewChromeCapturer(ctx, snap, opts)
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	}
}

// Capture builds the scratch document for a section, loads it from disk
// and screenshots its capture root at the oversampled device scale. The
// scratch file is deleted whether or not the capture succeeds.
func (c *ChromeCapturer) Capture(ctx context.Context, sec Section) (*CapturedSection, error) {
	doc, err := c.snap.SectionHTML(sec)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(c.scratchDir, sec.Key+".html")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return nil, fmt.Errorf("export: write scratch page: %w", err)
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			slog.Warn("export: remove scratch page", "path", path, "error", err)
		}
	}()

	tabCtx, cancelTab := chromedp.NewContext(c.allocCtx)
	defer cancelTab()
	runCtx, cancelRun := context.WithTimeout(tabCtx, captureTimeout)
	defer cancelRun()

	start := time.Now()
	var shot []byte
	err = chromedp.Run(runCtx,
		chromedp.EmulateViewport(CaptureWidth+40, 1200, chromedp.EmulateScale(OversampleScale)),
		chromedp.ActionFunc(func(ctx context.Context) error {
			// transparent regions must come out white, not black
			return emulation.SetDefaultBackgroundColorOverride().
				WithColor(&cdp.RGBA{R: 255, G: 255, B: 255, A: 1}).
				Do(ctx)
		}),
		chromedp.Navigate("file://"+path),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(settleDelay),
		chromedp.Screenshot("#capture-root", &shot, chromedp.NodeVisible, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("export: capture %s: %w", sec.Key, err)
	}

	img, err := png.Decode(bytes.NewReader(shot))
	if err != nil {
		return nil, fmt.Errorf("export: decode capture %s: %w", sec.Key, err)
	}
	cs := NewCapturedSection(sec, img)
	slog.Debug("export: section captured",
		"section", sec.Key, "w", cs.Width, "h", cs.Height, "took", time.Since(start))
	return cs, nil
}
