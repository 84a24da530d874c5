package export

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

var testMeta = DocumentMeta{
	UserName:    "Alex Morgan",
	GeneratedAt: time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
}

func TestExportFilename(t *testing.T) {
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		user string
		want string
	}{
		{"plain name", "Alex Morgan", "Skillgenix_Career_Analysis_Alex_Morgan_2026-03-14.pdf"},
		{"extra whitespace", "  Alex   Morgan ", "Skillgenix_Career_Analysis_Alex_Morgan_2026-03-14.pdf"},
		{"punctuation", "J. J. O'Neil", "Skillgenix_Career_Analysis_J_J_O_Neil_2026-03-14.pdf"},
		{"accents dropped", "José García", "Skillgenix_Career_Analysis_Jos_Garc_a_2026-03-14.pdf"},
		{"empty name", "", "Skillgenix_Career_Analysis_Report_2026-03-14.pdf"},
		{"symbols only", "@#$%", "Skillgenix_Career_Analysis_Report_2026-03-14.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExportFilename(tt.user, day); got != tt.want {
				t.Errorf("ExportFilename(%q) = %q, want %q", tt.user, got, tt.want)
			}
		})
	}
}

// TestDocumentTwoSinglePageSections walks the canonical small document:
// two sections that each fit one page. The result is a title page plus
// two content pages, a two-row contents listing pointing at them, and a
// footer stamp on every page including the title.
func TestDocumentTwoSinglePageSections(t *testing.T) {
	sections := []Section{
		{Key: "executive-summary", Title: "Executive Summary"},
		{Key: "skill-gap-analysis", Title: "Skill Gap Analysis"},
	}

	b := NewDocumentBuilder(testMeta)
	b.AddTitlePage(sections)
	for i, sec := range sections {
		b.StartSection(sec, i+1)
		cs := NewCapturedSection(sec, rowImage(1000, 1000))
		if err := b.PlaceSection(cs); err != nil {
			t.Fatalf("PlaceSection %s: %v", sec.Key, err)
		}
		if i < len(sections)-1 {
			b.SectionDivider()
		}
	}

	man, err := b.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}

	if man.PageCount != 3 {
		t.Errorf("PageCount = %d, want 3 (title + one per section)", man.PageCount)
	}
	if len(man.TOC) != 2 {
		t.Fatalf("TOC has %d rows, want 2", len(man.TOC))
	}
	for i, row := range man.TOC {
		if row.Ordinal != i+1 || row.Title != sections[i].Title {
			t.Errorf("TOC[%d] = %+v, want ordinal %d title %q", i, row, i+1, sections[i].Title)
		}
		if row.Page != i+2 {
			t.Errorf("TOC[%d].Page = %d, want %d", i, row.Page, i+2)
		}
	}
	if len(man.Sections) != 2 {
		t.Fatalf("laid out %d sections, want 2", len(man.Sections))
	}
	for i, sec := range man.Sections {
		if sec.StartPage != i+2 {
			t.Errorf("section %d starts on page %d, want %d", i, sec.StartPage, i+2)
		}
		if len(sec.Pages) != 1 || sec.Bands != 1 {
			t.Errorf("section %d spans pages %v with %d bands, want one page one band", i, sec.Pages, sec.Bands)
		}
		if sec.Failed {
			t.Errorf("section %d marked failed", i)
		}
	}
	if len(man.FooterStamps) != man.PageCount {
		t.Errorf("%d footer stamps for %d pages", len(man.FooterStamps), man.PageCount)
	}
	for i, p := range man.FooterStamps {
		if p != i+1 {
			t.Errorf("FooterStamps[%d] = %d, want %d", i, p, i+1)
		}
	}

	var buf bytes.Buffer
	if err := b.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "%PDF-") {
		t.Error("output does not start with a PDF header")
	}
}

func TestDocumentSplitsTallSection(t *testing.T) {
	sec := Section{Key: "development-plan", Title: "Development Plan"}

	b := NewDocumentBuilder(testMeta)
	b.AddTitlePage([]Section{sec})
	b.StartSection(sec, 1)
	// 364mm scaled: two bands, the second on its own page.
	cs := NewCapturedSection(sec, rowImage(1000, 2000))
	if err := b.PlaceSection(cs); err != nil {
		t.Fatalf("PlaceSection: %v", err)
	}
	man, err := b.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}

	if man.PageCount != 3 {
		t.Errorf("PageCount = %d, want 3", man.PageCount)
	}
	layout := man.Sections[0]
	if layout.Bands != 2 {
		t.Errorf("Bands = %d, want 2", layout.Bands)
	}
	if len(layout.Pages) != 2 || layout.Pages[0] != 2 || layout.Pages[1] != 3 {
		t.Errorf("section pages = %v, want [2 3]", layout.Pages)
	}
	if layout.StartPage != 2 {
		t.Errorf("StartPage = %d, want 2", layout.StartPage)
	}
}

func TestDocumentFailurePlaceholder(t *testing.T) {
	ok := Section{Key: "executive-summary", Title: "Executive Summary"}
	bad := Section{Key: "career-pathways", Title: "Career Pathway Options"}

	b := NewDocumentBuilder(testMeta)
	b.AddTitlePage([]Section{bad, ok})

	b.StartSection(bad, 1)
	b.PlaceFailure(bad)
	b.SectionDivider()

	b.StartSection(ok, 2)
	if err := b.PlaceSection(NewCapturedSection(ok, rowImage(1000, 800))); err != nil {
		t.Fatalf("PlaceSection: %v", err)
	}

	man, err := b.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}

	if !man.Sections[0].Failed {
		t.Error("failed section not flagged in the manifest")
	}
	if man.Sections[1].Failed {
		t.Error("healthy section flagged as failed")
	}
	// The placeholder still occupies a page of its own, so the layout
	// around it is unchanged.
	if man.PageCount != 3 {
		t.Errorf("PageCount = %d, want 3", man.PageCount)
	}
	if man.Sections[1].StartPage != 3 {
		t.Errorf("section after the failure starts on page %d, want 3", man.Sections[1].StartPage)
	}
}

func TestDocumentTitlePageOnly(t *testing.T) {
	b := NewDocumentBuilder(testMeta)
	b.AddTitlePage(nil)
	man, err := b.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if man.PageCount != 1 {
		t.Errorf("PageCount = %d, want 1", man.PageCount)
	}
	if len(man.TOC) != 0 {
		t.Errorf("TOC has %d rows, want none", len(man.TOC))
	}
	if len(man.FooterStamps) != 1 || man.FooterStamps[0] != 1 {
		t.Errorf("FooterStamps = %v, want [1]", man.FooterStamps)
	}
}
