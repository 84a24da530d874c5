package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strconv"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Snapshot holds the parsed rendered page from which standalone scratch
// documents are built, one per section. The parsed tree is never handed
// out; sections are deep-cloned so captures cannot disturb each other.
type Snapshot struct {
	doc    *html.Node
	styles string
	charts ChartSource
}

// NewSnapshot parses a rendered report page. charts may be nil, in which
// case chart canvases stay blank in the captures.
func NewSnapshot(pageHTML string, charts ChartSource) (*Snapshot, error) {
	doc, err := html.Parse(strings.NewReader(pageHTML))
	if err != nil {
		return nil, fmt.Errorf("export: parse rendered page: %w", err)
	}
	return &Snapshot{doc: doc, styles: collectStyles(doc), charts: charts}, nil
}

// Resolve filters sections down to the ones whose container exists in the
// page, preserving order.
func (s *Snapshot) Resolve(sections []Section) []Section {
	resolved := make([]Section, 0, len(sections))
	for _, sec := range sections {
		if findByID(s.doc, containerID(sec)) != nil {
			resolved = append(resolved, sec)
		}
	}
	return resolved
}

// SectionHTML builds the scratch document for one section: the section
// subtree deep-cloned into a minimal shell that pins the layout width and
// paints an opaque white background. Inline vector graphics above the
// size threshold are replaced with bitmaps and chart canvases are
// repainted from the chart source before serialization.
func (s *Snapshot) SectionHTML(sec Section) (string, error) {
	node := findByID(s.doc, containerID(sec))
	if node == nil {
		return "", ErrSectionNotFound
	}
	clone := cloneNode(node)
	if err := rasterizeVectors(clone); err != nil {
		return "", fmt.Errorf("export: section %s: %w", sec.Key, err)
	}
	repaintCanvases(clone, s.charts)

	var body bytes.Buffer
	if err := html.Render(&body, clone); err != nil {
		return "", fmt.Errorf("export: serialize section %s: %w", sec.Key, err)
	}
	return scratchShell(s.styles, body.String()), nil
}

func containerID(sec Section) string {
	return "section-" + sec.Key
}

// scratchShell wraps serialized section markup in a self-contained page.
// The capture root pins the width every capture is laid out at; the card
// styling of the live page (outer margins, shadows) is neutralized so the
// bitmap is a tight block.
func scratchShell(styles, body string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString(styles)
	b.WriteString("<style>\n")
	b.WriteString("html, body { margin: 0; padding: 0; background: #ffffff; }\n")
	fmt.Fprintf(&b, "#capture-root { width: %dpx; background: #ffffff; overflow: hidden; }\n", CaptureWidth)
	b.WriteString("#capture-root .report-section { margin: 0; box-shadow: none; border-radius: 0; }\n")
	b.WriteString("</style>\n</head>\n<body>\n<div id=\"capture-root\">")
	b.WriteString(body)
	b.WriteString("</div>\n</body>\n</html>\n")
	return b.String()
}

// findByID walks the tree for the element with the given id attribute.
func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && getAttr(n, "id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// cloneNode deep-copies a subtree. The copy carries no parent or sibling
// links into the original tree.
func cloneNode(n *html.Node) *html.Node {
	clone := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		clone.Attr = make([]html.Attribute, len(n.Attr))
		copy(clone.Attr, n.Attr)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		clone.AppendChild(cloneNode(c))
	}
	return clone
}

// rasterizeVectors replaces inline svg elements with bitmap images so the
// browser never re-rasterizes them at screenshot time. Graphics smaller
// than minVectorPx on either axis are decorative accents and are kept as
// vectors.
func rasterizeVectors(root *html.Node) error {
	var svgs []*html.Node
	walk(root, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "svg" {
			svgs = append(svgs, n)
		}
	})
	for _, svg := range svgs {
		w, h := vectorSize(svg)
		if w < minVectorPx || h < minVectorPx {
			continue
		}
		var markup bytes.Buffer
		if err := html.Render(&markup, svg); err != nil {
			return fmt.Errorf("serialize svg: %w", err)
		}
		pngBytes, err := svgToPNG(markup.String(), w, h, OversampleScale)
		if err != nil {
			return err
		}
		img := imageNode(pngBytes, w, h, getAttr(svg, "class"))
		svg.Parent.InsertBefore(img, svg)
		svg.Parent.RemoveChild(svg)
	}
	return nil
}

// repaintCanvases swaps chart canvases for images built from the raster
// cache. A canvas with no cached pixels is left as the blank box the
// browser would have painted anyway.
func repaintCanvases(root *html.Node, charts ChartSource) {
	if charts == nil {
		return
	}
	var canvases []*html.Node
	walk(root, func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Canvas && getAttr(n, "data-chart-id") != "" {
			canvases = append(canvases, n)
		}
	})
	for _, cv := range canvases {
		id := getAttr(cv, "data-chart-id")
		pngBytes, ok := charts.ChartPNG(id)
		if !ok {
			continue
		}
		w, h, ok := charts.ChartSize(id)
		if !ok {
			w = intAttr(cv, "width")
			h = intAttr(cv, "height")
		}
		img := imageNode(pngBytes, w, h, getAttr(cv, "class"))
		cv.Parent.InsertBefore(img, cv)
		cv.Parent.RemoveChild(cv)
	}
}

func imageNode(pngBytes []byte, w, h int, class string) *html.Node {
	attrs := []html.Attribute{
		{Key: "src", Val: "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)},
		{Key: "width", Val: strconv.Itoa(w)},
		{Key: "height", Val: strconv.Itoa(h)},
	}
	if class != "" {
		attrs = append(attrs, html.Attribute{Key: "class", Val: class})
	}
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Img,
		Data:     "img",
		Attr:     attrs,
	}
}

// svgToPNG rasterizes svg markup at scale times its display size over an
// opaque white background.
func svgToPNG(markup string, w, h int, scale float64) ([]byte, error) {
	icon, err := oksvg.ReadIconStream(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	outW := int(math.Round(float64(w) * scale))
	outH := int(math.Round(float64(h) * scale))
	icon.SetTarget(0, 0, float64(outW), float64(outH))

	img := image.NewRGBA(image.Rect(0, 0, outW, outH))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	scanner := rasterx.NewScannerGV(outW, outH, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(outW, outH, scanner), 1.0)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode svg bitmap: %w", err)
	}
	return buf.Bytes(), nil
}

// vectorSize reads an svg element's display size from width/height
// attributes, falling back to its viewBox.
func vectorSize(n *html.Node) (int, int) {
	w := intAttr(n, "width")
	h := intAttr(n, "height")
	if w > 0 && h > 0 {
		return w, h
	}
	if vb := getAttr(n, "viewBox"); vb != "" {
		f := strings.Fields(vb)
		if len(f) == 4 {
			vw, errW := strconv.ParseFloat(f[2], 64)
			vh, errH := strconv.ParseFloat(f[3], 64)
			if errW == nil && errH == nil {
				if w == 0 {
					w = int(math.Round(vw))
				}
				if h == 0 {
					h = int(math.Round(vh))
				}
			}
		}
	}
	return w, h
}

func collectStyles(doc *html.Node) string {
	var b strings.Builder
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || n.DataAtom != atom.Style {
			return
		}
		b.WriteString("<style>")
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
		}
		b.WriteString("</style>\n")
	})
	return b.String()
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func intAttr(n *html.Node, key string) int {
	v := strings.TrimSuffix(getAttr(n, key), "px")
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0
	}
	return i
}
