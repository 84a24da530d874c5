package export

import (
	"log/slog"

	"github.com/google/uuid"
)

// EventType enumerates the progress milestones a job emits.
type EventType string

const (
	EventJobStarted       EventType = "job_started"
	EventSectionStarted   EventType = "section_started"
	EventSectionCompleted EventType = "section_completed"
	EventSectionFailed    EventType = "section_failed"
	EventJobCompleted     EventType = "job_completed"
	EventJobFailed        EventType = "job_failed"
)

// Event is one progress notification. Index and Total are 1-based
// section ordinals, so a UI can say "section 3 of 6" directly.
type Event struct {
	Type       EventType
	JobID      uuid.UUID
	AnalysisID uuid.UUID
	Section    string
	Index      int
	Total      int
	Pages      int
	Path       string
	Err        string
}

// Notifier receives progress events. Implementations must return
// quickly; the exporter calls them inline between captures.
type Notifier interface {
	Notify(Event)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Event)

func (f NotifierFunc) Notify(e Event) { f(e) }

// LogNotifier writes events to the structured log.
type LogNotifier struct{}

func (LogNotifier) Notify(e Event) {
	switch e.Type {
	case EventSectionStarted:
		slog.Info("export: section", "job", e.JobID, "section", e.Section, "index", e.Index, "total", e.Total)
	case EventSectionFailed:
		slog.Warn("export: section failed", "job", e.JobID, "section", e.Section, "error", e.Err)
	case EventJobCompleted:
		slog.Info("export: job completed", "job", e.JobID, "pages", e.Pages, "path", e.Path)
	case EventJobFailed:
		slog.Error("export: job failed", "job", e.JobID, "error", e.Err)
	default:
		slog.Debug("export: event", "job", e.JobID, "type", string(e.Type))
	}
}

// MultiNotifier fans an event out to several sinks in order.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(e Event) {
	for _, n := range m {
		if n != nil {
			n.Notify(e)
		}
	}
}
