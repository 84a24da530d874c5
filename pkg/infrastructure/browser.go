package infrastructure

import (
	"os"

	"github.com/chromedp/chromedp"
)

// AllocatorOptions returns the Chrome flags used for report capture.
// CHROME_PATH overrides binary discovery (containers ship chromium in
// varying locations). Scratch pages are file:// documents that pull
// chart bitmaps and webfonts from other origins, so cross-origin
// loading is left open.
func AllocatorOptions(chromePath string) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("allow-file-access-from-files", true),
		chromedp.Flag("disable-web-security", true),
	)
	if chromePath == "" {
		chromePath = os.Getenv("CHROME_PATH")
	}
	if chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	return opts
}
