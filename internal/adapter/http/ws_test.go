package http

import (
	"testing"

	"github.com/sahil-skillgenix/CareerNavigatorAI-sub000/internal/export"

	"github.com/google/uuid"
)

func TestHubDeliversToSubscribers(t *testing.T) {
	h := NewHub()
	jobID := uuid.New()

	ch1, cancel1 := h.Subscribe(jobID)
	defer cancel1()
	ch2, cancel2 := h.Subscribe(jobID)
	defer cancel2()

	sent := export.Event{Type: export.EventSectionStarted, JobID: jobID, Section: "executive-summary", Index: 1, Total: 6}
	h.Notify(sent)

	for i, ch := range []<-chan export.Event{ch1, ch2} {
		select {
		case got := <-ch:
			if got.Section != sent.Section || got.Type != sent.Type {
				t.Errorf("subscriber %d got %+v", i, got)
			}
		default:
			t.Errorf("subscriber %d received nothing", i)
		}
	}
}

func TestHubScopesByJob(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe(uuid.New())
	defer cancel()

	h.Notify(export.Event{Type: export.EventJobStarted, JobID: uuid.New()})

	select {
	case e := <-ch:
		t.Errorf("received another job's event: %+v", e)
	default:
	}
}

func TestHubNotifyWithoutSubscribers(t *testing.T) {
	h := NewHub()
	h.Notify(export.Event{Type: export.EventJobStarted, JobID: uuid.New()})
}

func TestHubCancelRemovesSubscriber(t *testing.T) {
	h := NewHub()
	jobID := uuid.New()

	ch, cancel := h.Subscribe(jobID)
	cancel()

	h.Notify(export.Event{Type: export.EventJobStarted, JobID: jobID})
	select {
	case e := <-ch:
		t.Errorf("cancelled subscriber received %+v", e)
	default:
	}

	h.mu.RLock()
	n := len(h.subs)
	h.mu.RUnlock()
	if n != 0 {
		t.Errorf("subscription map holds %d jobs after last cancel, want 0", n)
	}
}

func TestHubDropsWhenSubscriberFull(t *testing.T) {
	h := NewHub()
	jobID := uuid.New()
	ch, cancel := h.Subscribe(jobID)
	defer cancel()

	// One past the channel capacity. Notify must not block and the
	// overflow event must be dropped, not queued.
	for i := 0; i < 17; i++ {
		h.Notify(export.Event{Type: export.EventSectionCompleted, JobID: jobID, Index: i + 1, Total: 17})
	}

	var got int
drain:
	for {
		select {
		case <-ch:
			got++
		default:
			break drain
		}
	}
	if got != 16 {
		t.Errorf("drained %d events, want 16", got)
	}
}

func TestProgressPayload(t *testing.T) {
	jobID := uuid.New()

	tests := []struct {
		name   string
		event  export.Event
		want   map[string]interface{}
		absent []string
	}{
		{
			name:   "job started carries only the type",
			event:  export.Event{Type: export.EventJobStarted, JobID: jobID},
			want:   map[string]interface{}{"type": "job_started"},
			absent: []string{"section", "index", "total", "pages", "filename", "error"},
		},
		{
			name:  "section progress carries ordinals",
			event: export.Event{Type: export.EventSectionStarted, JobID: jobID, Section: "skill-mapping", Index: 2, Total: 6},
			want:  map[string]interface{}{"type": "section_started", "section": "skill-mapping", "index": 2, "total": 6},
		},
		{
			name:   "completion exposes the artifact basename",
			event:  export.Event{Type: export.EventJobCompleted, JobID: jobID, Pages: 8, Path: "/var/exports/Skillgenix_Career_Analysis_Alex_Morgan_2026-03-14.pdf"},
			want:   map[string]interface{}{"type": "job_completed", "pages": 8, "filename": "Skillgenix_Career_Analysis_Alex_Morgan_2026-03-14.pdf"},
			absent: []string{"section"},
		},
		{
			name:  "failure carries the error",
			event: export.Event{Type: export.EventSectionFailed, JobID: jobID, Section: "career-pathways", Index: 4, Total: 6, Err: "capture timed out"},
			want:  map[string]interface{}{"type": "section_failed", "section": "career-pathways", "error": "capture timed out"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := progressPayload(tt.event)
			for k, want := range tt.want {
				if got, ok := p[k]; !ok {
					t.Errorf("payload missing %q", k)
				} else if got != want {
					t.Errorf("payload[%q] = %v, want %v", k, got, want)
				}
			}
			for _, k := range tt.absent {
				if _, ok := p[k]; ok {
					t.Errorf("payload carries %q for %s", k, tt.event.Type)
				}
			}
		})
	}
}
