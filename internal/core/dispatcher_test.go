package core

import "testing"

func TestDispatcher_OwnerFiltering(t *testing.T) {
	d := NewDispatcher()

	var podEvents, deployEvents []Event
	_ = d.AddListener("pods", func(ev Event) { podEvents = append(podEvents, ev) })
	_ = d.AddListener("deployments", func(ev Event) { deployEvents = append(deployEvents, ev) })

	n := d.Dispatch("pods", Event{Type: EventAdded, Name: "web-0"})
	if n != 1 {
		t.Fatalf("expected 1 listener reached, got %d", n)
	}
	if len(podEvents) != 1 || podEvents[0].Name != "web-0" {
		t.Fatalf("pods listener received %v", podEvents)
	}
	if len(deployEvents) != 0 {
		t.Fatalf("deployments listener should not receive pod events, got %v", deployEvents)
	}
}

func TestDispatcher_MultipleListenersSameOwner(t *testing.T) {
	d := NewDispatcher()

	var a, b int
	_ = d.AddListener("pods", func(Event) { a++ })
	_ = d.AddListener("pods", func(Event) { b++ })

	if n := d.Dispatch("pods", Event{Type: EventModified}); n != 2 {
		t.Fatalf("expected 2 listeners reached, got %d", n)
	}
	if a != 1 || b != 1 {
		t.Fatalf("expected both listeners invoked once, got %d/%d", a, b)
	}
}

func TestDispatcher_DisposerRemovesListener(t *testing.T) {
	d := NewDispatcher()

	var got int
	remove := d.AddListener("pods", func(Event) { got++ })

	remove()
	remove() // repeated dispose is a no-op

	if n := d.Dispatch("pods", Event{Type: EventAdded}); n != 0 {
		t.Fatalf("expected 0 listeners after dispose, got %d", n)
	}
	if got != 0 {
		t.Fatalf("removed listener was invoked %d times", got)
	}
}

func TestDispatcher_NoListeners(t *testing.T) {
	d := NewDispatcher()
	if n := d.Dispatch("pods", Event{Type: EventAdded}); n != 0 {
		t.Fatalf("expected 0, got %d", n)
	}
}
