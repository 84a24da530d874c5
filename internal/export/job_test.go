package export

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

// fakeCapturer serves synthetic bitmaps and fails on demand, standing in
// for the headless browser.
type fakeCapturer struct {
	fail map[string]bool
	size map[string][2]int

	mu    sync.Mutex
	order []string
}

func (f *fakeCapturer) Capture(_ context.Context, sec Section) (*CapturedSection, error) {
	f.mu.Lock()
	f.order = append(f.order, sec.Key)
	f.mu.Unlock()
	if f.fail[sec.Key] {
		return nil, errors.New("rasterization failed")
	}
	w, h := 1000, 1000
	if s, ok := f.size[sec.Key]; ok {
		w, h = s[0], s[1]
	}
	return NewCapturedSection(sec, rowImage(w, h)), nil
}

func (f *fakeCapturer) captured() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.order...)
}

func fakeFactory(c SectionCapturer) CapturerFactory {
	return func(context.Context, *Snapshot) (SectionCapturer, func(), error) {
		return c, func() {}, nil
	}
}

// eventRecorder collects progress events for assertion.
type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) Notify(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *eventRecorder) types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func newTestRequest() Request {
	return Request{
		JobID:       uuid.New(),
		AnalysisID:  uuid.New(),
		UserName:    "Alex Morgan",
		PageHTML:    testPage,
		GeneratedAt: time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
	}
}

func TestExportEndToEnd(t *testing.T) {
	capt := &fakeCapturer{}
	rec := &eventRecorder{}
	e := NewExporter(t.TempDir(), fakeFactory(capt), rec)

	req := newTestRequest()
	res, err := e.Export(context.Background(), req)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	// The fixture page resolves two of the six sections.
	if res.Manifest.PageCount != 3 {
		t.Errorf("PageCount = %d, want 3", res.Manifest.PageCount)
	}
	if len(res.Manifest.TOC) != 2 {
		t.Errorf("TOC rows = %d, want 2", len(res.Manifest.TOC))
	}
	want := "Skillgenix_Career_Analysis_Alex_Morgan_2026-03-14.pdf"
	if res.Manifest.Filename != want {
		t.Errorf("Filename = %q, want %q", res.Manifest.Filename, want)
	}
	if got := capt.captured(); len(got) != 2 || got[0] != "executive-summary" || got[1] != "skill-gap-analysis" {
		t.Errorf("captured %v, want the two fixture sections in order", got)
	}

	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF-") {
		t.Error("artifact is not a PDF")
	}

	wantEvents := []EventType{
		EventJobStarted,
		EventSectionStarted, EventSectionCompleted,
		EventSectionStarted, EventSectionCompleted,
		EventJobCompleted,
	}
	got := rec.types()
	if len(got) != len(wantEvents) {
		t.Fatalf("events %v, want %v", got, wantEvents)
	}
	for i := range wantEvents {
		if got[i] != wantEvents[i] {
			t.Errorf("event %d = %s, want %s", i, got[i], wantEvents[i])
		}
	}
}

func TestExportOneFailingSection(t *testing.T) {
	capt := &fakeCapturer{fail: map[string]bool{"executive-summary": true}}
	rec := &eventRecorder{}
	e := NewExporter(t.TempDir(), fakeFactory(capt), rec)

	res, err := e.Export(context.Background(), newTestRequest())
	if err != nil {
		t.Fatalf("a section failure must not fail the job: %v", err)
	}

	secs := res.Manifest.Sections
	if len(secs) != 2 {
		t.Fatalf("laid out %d sections, want 2", len(secs))
	}
	if !secs[0].Failed {
		t.Error("failed capture not recorded in the manifest")
	}
	if secs[1].Failed || secs[1].Bands != 1 {
		t.Errorf("healthy section damaged by the failure: %+v", secs[1])
	}
	// Order is preserved: the placeholder sits at the failed section's
	// position, the other section follows it.
	if secs[0].StartPage >= secs[1].StartPage {
		t.Errorf("section order broken: start pages %d, %d", secs[0].StartPage, secs[1].StartPage)
	}

	var sawFailed, sawCompleted bool
	for _, typ := range rec.types() {
		switch typ {
		case EventSectionFailed:
			sawFailed = true
		case EventSectionCompleted:
			sawCompleted = true
		case EventJobFailed:
			t.Error("job_failed emitted for a section-scoped failure")
		}
	}
	if !sawFailed || !sawCompleted {
		t.Errorf("expected both a failed and a completed section event, got %v", rec.types())
	}
}

func TestExportTallSectionPageCount(t *testing.T) {
	// 1000x5000 px scales to 910mm: four bands, four content pages.
	capt := &fakeCapturer{size: map[string][2]int{
		"executive-summary":  {1000, 5000},
		"skill-gap-analysis": {1000, 400},
	}}
	e := NewExporter(t.TempDir(), fakeFactory(capt), LogNotifier{})

	res, err := e.Export(context.Background(), newTestRequest())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if got := res.Manifest.Sections[0].Bands; got != 4 {
		t.Errorf("tall section split into %d bands, want 4", got)
	}
	// 1 title + 4 band pages + 1 page for the second section.
	if res.Manifest.PageCount != 6 {
		t.Errorf("PageCount = %d, want 6", res.Manifest.PageCount)
	}
	if len(res.Manifest.FooterStamps) != 6 {
		t.Errorf("%d footer stamps, want one per page", len(res.Manifest.FooterStamps))
	}
}

// blockingCapturer parks inside Capture until released, so tests can
// observe a job mid-flight.
type blockingCapturer struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingCapturer) Capture(ctx context.Context, sec Section) (*CapturedSection, error) {
	b.once.Do(func() { close(b.started) })
	select {
	case <-b.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return NewCapturedSection(sec, rowImage(1000, 200)), nil
}

func TestExportBusy(t *testing.T) {
	capt := &blockingCapturer{started: make(chan struct{}), release: make(chan struct{})}
	e := NewExporter(t.TempDir(), fakeFactory(capt), nil)

	req := newTestRequest()
	done := make(chan error, 1)
	go func() {
		_, err := e.Export(context.Background(), req)
		done <- err
	}()
	<-capt.started

	if !e.Busy(req.AnalysisID) {
		t.Error("Busy = false while a job is running")
	}
	if _, err := e.Export(context.Background(), req); !errors.Is(err, ErrExportBusy) {
		t.Errorf("second job got %v, want ErrExportBusy", err)
	}

	// A different analysis is not blocked.
	other := newTestRequest()
	if e.Busy(other.AnalysisID) {
		t.Error("unrelated analysis reported busy")
	}

	close(capt.release)
	if err := <-done; err != nil {
		t.Fatalf("first job: %v", err)
	}
	if e.Busy(req.AnalysisID) {
		t.Error("busy flag not cleared after completion")
	}

	// The analysis can be exported again once the flag clears.
	if _, err := e.Export(context.Background(), req); err != nil {
		t.Errorf("re-export after completion: %v", err)
	}
}

func TestExportFactoryFailure(t *testing.T) {
	rec := &eventRecorder{}
	factory := func(context.Context, *Snapshot) (SectionCapturer, func(), error) {
		return nil, nil, errors.New("chrome did not start")
	}
	e := NewExporter(t.TempDir(), factory, rec)

	req := newTestRequest()
	if _, err := e.Export(context.Background(), req); err == nil {
		t.Fatal("expected the job to fail")
	}
	types := rec.types()
	if len(types) == 0 || types[len(types)-1] != EventJobFailed {
		t.Errorf("events %v, want job_failed last", types)
	}
	if e.Busy(req.AnalysisID) {
		t.Error("busy flag not cleared after a failed job")
	}
}

func TestExportNoResolvableSections(t *testing.T) {
	capt := &fakeCapturer{}
	e := NewExporter(t.TempDir(), fakeFactory(capt), nil)

	req := newTestRequest()
	req.PageHTML = "<html><body><p>no sections here</p></body></html>"
	res, err := e.Export(context.Background(), req)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if res.Manifest.PageCount != 1 {
		t.Errorf("PageCount = %d, want just the title page", res.Manifest.PageCount)
	}
	if len(capt.captured()) != 0 {
		t.Errorf("captured %v for a page with no sections", capt.captured())
	}
}

func TestExportCancelledContext(t *testing.T) {
	capt := &blockingCapturer{started: make(chan struct{}), release: make(chan struct{})}
	e := NewExporter(t.TempDir(), fakeFactory(capt), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := e.Export(ctx, newTestRequest())
		done <- err
	}()
	<-capt.started
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}
