package metrics

import "testing"

func TestNew_RegistersAllCollectors(t *testing.T) {
	reg := NewRegistry()
	m := New(reg)

	m.Connects.Inc()
	m.Retries.Inc()
	m.Events.WithLabelValues("ADDED").Inc()
	m.Refreshes.WithLabelValues("ok").Inc()
	m.DecodeErrors.Inc()
	m.ConnectionState.Set(2)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	got := make(map[string]bool, len(families))
	for _, f := range families {
		got[f.GetName()] = true
	}

	want := []string{
		"watchmux_connects_total",
		"watchmux_reconnect_retries_total",
		"watchmux_events_total",
		"watchmux_refreshes_total",
		"watchmux_decode_errors_total",
		"watchmux_connection_state",
	}
	for _, name := range want {
		if !got[name] {
			t.Errorf("metric %q not registered", name)
		}
	}
}

func TestNew_SeparateRegistries(t *testing.T) {
	// Two instances must not collide; each owns its registry.
	a := New(NewRegistry())
	b := New(NewRegistry())

	a.Connects.Inc()
	a.Connects.Inc()
	b.Connects.Inc()
}
