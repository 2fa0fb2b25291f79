package audit

import (
	"errors"
	"sync"
	"testing"
)

type recordingWriter struct {
	mu     sync.Mutex
	events []Event
	fail   bool
}

func (w *recordingWriter) Log(ev Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fail {
		return errors.New("write failed")
	}
	w.events = append(w.events, ev)
	return nil
}

func TestDispatcherDeliversInOrder(t *testing.T) {
	w := &recordingWriter{}
	d := NewDispatcher(w)

	for _, action := range []string{"ticket_called", "ticket_completed", "ticket_skipped"} {
		d.Dispatch(Event{Action: action, Entity: "queue_ticket"})
	}
	d.Close()

	if len(w.events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(w.events))
	}
	if w.events[0].Action != "ticket_called" || w.events[2].Action != "ticket_skipped" {
		t.Fatalf("unexpected order: %+v", w.events)
	}
}

func TestDispatcherSurvivesWriterErrors(t *testing.T) {
	w := &recordingWriter{fail: true}
	d := NewDispatcher(w)

	d.Dispatch(Event{Action: "ticket_called"})
	d.Close()

	if len(w.events) != 0 {
		t.Fatal("failed writes must not be recorded")
	}
}

func TestNilDispatcherIsNoop(t *testing.T) {
	var d *Dispatcher
	d.Dispatch(Event{Action: "ticket_called"})
}

func TestDispatchAfterCloseIsDropped(t *testing.T) {
	w := &recordingWriter{}
	d := NewDispatcher(w)

	d.Dispatch(Event{Action: "ticket_called"})
	d.Close()

	d.Dispatch(Event{Action: "ticket_completed"})
	d.Close()

	if len(w.events) != 1 || w.events[0].Action != "ticket_called" {
		t.Fatalf("unexpected events %+v", w.events)
	}
}

func TestConcurrentDispatchDuringClose(t *testing.T) {
	d := NewDispatcher(&recordingWriter{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Dispatch(Event{Action: "ticket_called"})
		}()
	}
	d.Close()
	wg.Wait()
}
