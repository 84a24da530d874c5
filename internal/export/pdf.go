package export

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// DocumentMeta carries the report-level fields stamped into the PDF.
type DocumentMeta struct {
	UserName    string
	GeneratedAt time.Time
}

// Manifest records what the builder actually laid out. Callers use it
// for progress reporting and tests assert against it instead of parsing
// PDF bytes.
type Manifest struct {
	Filename     string
	PageCount    int
	TOC          []TOCEntry
	Sections     []SectionLayout
	FooterStamps []int
}

// TOCEntry is one row of the title page contents listing. Page is filled
// during the footer pass, once section start pages are known.
type TOCEntry struct {
	Ordinal int
	Key     string
	Title   string
	Page    int
}

// SectionLayout describes where one section landed in the document.
type SectionLayout struct {
	Key       string
	Title     string
	Ordinal   int
	StartPage int
	Pages     []int
	Bands     int
	Failed    bool
}

// DocumentBuilder composes captured sections into the final A4 document.
// Pages are laid out with a manual cursor; the automatic page break is
// off so band placement stays exact.
type DocumentBuilder struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	meta   DocumentMeta
	cursor PageCursor
	man    Manifest

	tocRowY    []float64
	curIdx     int
	curSec     Section
	curOrdinal int
	imageN     int
}

func NewDocumentBuilder(meta DocumentMeta) *DocumentBuilder {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Skillgenix Career Analysis - "+meta.UserName, true)
	pdf.SetAuthor("Skillgenix", true)
	pdf.SetCreator("Skillgenix Report Engine", true)
	pdf.SetSubject("AI-assisted career analysis report", true)
	pdf.SetKeywords("career, skills, analysis, development plan", true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(marginX, contentTop, marginX)

	return &DocumentBuilder{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		meta:   meta,
		curIdx: -1,
	}
}

// AddTitlePage lays out the cover: product mark, title, generation date,
// recipient and a contents listing of the sections that resolved. Page
// numbers for the listing are stamped later, in Finish.
func (b *DocumentBuilder) AddTitlePage(resolved []Section) {
	pdf := b.pdf
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(37, 99, 235)
	pdf.SetXY(marginX, 26)
	pdf.CellFormat(contentW, 8, b.tr("S K I L L G E N I X"), "", 0, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 30)
	pdf.SetTextColor(15, 23, 42)
	pdf.SetXY(marginX, 96)
	pdf.CellFormat(contentW, 14, "Career Analysis Report", "", 0, "C", false, 0, "")

	pdf.SetDrawColor(37, 99, 235)
	pdf.SetLineWidth(0.8)
	pdf.Line(pageW/2-30, 116, pageW/2+30, 116)
	pdf.SetLineWidth(0.2)

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(71, 85, 105)
	pdf.SetXY(marginX, 126)
	pdf.CellFormat(contentW, 7, b.meta.GeneratedAt.Format("2 January 2006"), "", 0, "C", false, 0, "")
	if b.meta.UserName != "" {
		pdf.SetXY(marginX, 134)
		pdf.CellFormat(contentW, 7, b.tr("Prepared for "+b.meta.UserName), "", 0, "C", false, 0, "")
	}

	if len(resolved) == 0 {
		return
	}
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(15, 23, 42)
	pdf.SetXY(marginX+20, 162)
	pdf.CellFormat(contentW-40, 8, "Contents", "", 0, "L", false, 0, "")

	y := 174.0
	for i, sec := range resolved {
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(51, 65, 85)
		pdf.SetXY(marginX+20, y)
		pdf.CellFormat(10, 7, strconv.Itoa(i+1)+".", "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW-40-10-14, 7, b.tr(sec.Title), "", 0, "L", false, 0, "")
		b.tocRowY = append(b.tocRowY, y)
		b.man.TOC = append(b.man.TOC, TOCEntry{Ordinal: i + 1, Key: sec.Key, Title: sec.Title})
		y += 9
	}
}

// StartSection opens a fresh page with the section's header band and
// points the cursor at the top of its content area.
func (b *DocumentBuilder) StartSection(sec Section, ordinal int) {
	b.man.Sections = append(b.man.Sections, SectionLayout{
		Key:     sec.Key,
		Title:   sec.Title,
		Ordinal: ordinal,
	})
	b.curIdx = len(b.man.Sections) - 1
	b.curSec = sec
	b.curOrdinal = ordinal
	b.addSectionPage(false)
	b.man.Sections[b.curIdx].StartPage = b.cursor.Page
}

func (b *DocumentBuilder) addSectionPage(cont bool) {
	b.pdf.AddPage()
	b.cursor.StartPage(b.pdf.PageNo())
	b.paintHeader(cont)
	if b.curIdx >= 0 {
		cur := &b.man.Sections[b.curIdx]
		cur.Pages = append(cur.Pages, b.cursor.Page)
	}
}

func (b *DocumentBuilder) paintHeader(cont bool) {
	pdf := b.pdf
	title := fmt.Sprintf("%d. %s", b.curOrdinal, b.curSec.Title)
	if cont {
		title += " (continued)"
	}
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(15, 23, 42)
	pdf.SetXY(marginX, 12)
	pdf.CellFormat(contentW-30, 8, b.tr(title), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(148, 163, 184)
	pdf.SetXY(marginX+contentW-30, 12)
	pdf.CellFormat(30, 8, "Skillgenix", "", 0, "R", false, 0, "")

	pdf.SetDrawColor(37, 99, 235)
	pdf.SetLineWidth(0.6)
	pdf.Line(marginX, 21, marginX+contentW, 21)
	pdf.SetLineWidth(0.2)
}

// PlaceSection draws a captured bitmap, splitting it across pages per the
// pagination plan. Continuation pages repeat the section header marked
// "(continued)".
func (b *DocumentBuilder) PlaceSection(cs *CapturedSection) error {
	bands := PlanSection(cs.Width, cs.Height, b.cursor.Remaining())
	cur := &b.man.Sections[b.curIdx]
	cur.Bands = len(bands)

	for _, band := range bands {
		if band.NewPage {
			b.addSectionPage(true)
		}
		slice, err := SliceBand(cs.Image, band.SrcY0, band.SrcY1)
		if err != nil {
			return err
		}
		data, err := EncodePNG(slice)
		if err != nil {
			return err
		}
		b.imageN++
		name := fmt.Sprintf("section-%s-%d", cs.Section.Key, b.imageN)
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		b.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
		b.pdf.ImageOptions(name, marginX, b.cursor.Y, contentW, band.DrawH, false, opts, 0, "")
		b.cursor.Advance(band.DrawH)
	}
	if b.pdf.Err() {
		return fmt.Errorf("export: draw section %s: %w", cs.Section.Key, b.pdf.Error())
	}
	return nil
}

// PlaceFailure draws the placeholder block shown when a section could not
// be captured. The rest of the document is unaffected.
func (b *DocumentBuilder) PlaceFailure(sec Section) {
	pdf := b.pdf
	b.man.Sections[b.curIdx].Failed = true

	y := b.cursor.Y
	pdf.SetDrawColor(220, 38, 38)
	pdf.SetFillColor(254, 242, 242)
	pdf.SetLineWidth(0.3)
	pdf.Rect(marginX, y, contentW, 22, "FD")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(153, 27, 27)
	pdf.SetXY(marginX+6, y+4)
	pdf.CellFormat(contentW-12, 6, b.tr("Unable to capture content for section "+sec.Title), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(71, 85, 105)
	pdf.SetXY(marginX+6, y+12)
	pdf.CellFormat(contentW-12, 5, "The rest of the report was generated normally.", "", 0, "L", false, 0, "")

	pdf.SetLineWidth(0.2)
	b.cursor.Advance(22)
}

// SectionDivider draws the thin rule that separates consecutive sections.
// Skipped silently when the cursor has no room left.
func (b *DocumentBuilder) SectionDivider() {
	y := b.cursor.Y - blockGap/2
	if y > contentBottom {
		return
	}
	b.pdf.SetDrawColor(226, 232, 240)
	b.pdf.SetLineWidth(0.3)
	b.pdf.Line(marginX+20, y, marginX+contentW-20, y)
	b.pdf.SetLineWidth(0.2)
}

// Finish runs the numbering pass: every page, the title page included,
// gets the footer rule and its "Page X of Y" stamp, and the contents
// listing gets its page numbers. Returns the final manifest.
func (b *DocumentBuilder) Finish() (Manifest, error) {
	pdf := b.pdf
	total := pdf.PageCount()
	for p := 1; p <= total; p++ {
		pdf.SetPage(p)
		b.paintFooter(p, total)
		b.man.FooterStamps = append(b.man.FooterStamps, p)
	}

	if len(b.man.TOC) > 0 {
		pdf.SetPage(1)
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(51, 65, 85)
		for i := range b.man.TOC {
			for _, s := range b.man.Sections {
				if s.Key == b.man.TOC[i].Key {
					b.man.TOC[i].Page = s.StartPage
				}
			}
			pdf.SetXY(marginX+contentW-34, b.tocRowY[i])
			pdf.CellFormat(14, 7, strconv.Itoa(b.man.TOC[i].Page), "", 0, "R", false, 0, "")
		}
	}

	b.man.PageCount = total
	if pdf.Err() {
		return b.man, fmt.Errorf("export: compose document: %w", pdf.Error())
	}
	return b.man, nil
}

func (b *DocumentBuilder) paintFooter(page, total int) {
	pdf := b.pdf
	pdf.SetDrawColor(226, 232, 240)
	pdf.SetLineWidth(0.3)
	pdf.Line(marginX, footerY, marginX+contentW, footerY)
	pdf.SetLineWidth(0.2)

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(148, 163, 184)
	pdf.SetXY(marginX, footerY+2)
	pdf.CellFormat(contentW/2, 5, b.tr("Skillgenix · Career Analysis"), "", 0, "L", false, 0, "")
	pdf.SetXY(marginX+contentW/2, footerY+2)
	pdf.CellFormat(contentW/2, 5, fmt.Sprintf("Page %d of %d", page, total), "", 0, "R", false, 0, "")
}

// Output writes the finished document to path.
func (b *DocumentBuilder) Output(path string) error {
	if err := b.pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("export: write pdf: %w", err)
	}
	return nil
}

// Write streams the finished document to w.
func (b *DocumentBuilder) Write(w io.Writer) error {
	if err := b.pdf.Output(w); err != nil {
		return fmt.Errorf("export: write pdf: %w", err)
	}
	return nil
}

// ExportFilename builds the deterministic artifact name for a report:
// the user's name with whitespace collapsed to underscores plus the
// generation date.
func ExportFilename(userName string, t time.Time) string {
	name := sanitizeName(userName)
	if name == "" {
		name = "Report"
	}
	return fmt.Sprintf("Skillgenix_Career_Analysis_%s_%s.pdf", name, t.Format("2006-01-02"))
}

func sanitizeName(s string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		default:
			pendingSep = true
		}
	}
	return b.String()
}
