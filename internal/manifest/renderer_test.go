package manifest

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render(Params{
		Namespace: "watchmux-system",
		Image:     "ghcr.io/otterscale/watchmux:v1.0.0",
		ServerURL: "https://hub.example.com",
		Kinds:     []string{"pods", "deployments"},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, want := range []string{
		"kind: Namespace",
		"name: watchmux-system",
		"kind: ClusterRole",
		`verbs: ["list", "watch"]`,
		"image: ghcr.io/otterscale/watchmux:v1.0.0",
		"- --server-url=https://hub.example.com",
		"- --kinds=pods,deployments",
		"path: /healthz",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("manifest missing %q", want)
		}
	}
}

func TestRender_NoKindsOmitsFlag(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render(Params{
		Namespace: "watchmux-system",
		Image:     "ghcr.io/otterscale/watchmux:v1.0.0",
		ServerURL: "https://hub.example.com",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(out, "--kinds=") {
		t.Error("manifest should omit --kinds when no kinds are set")
	}
}

func TestRender_Invalid(t *testing.T) {
	r := NewRenderer()

	tests := []struct {
		name   string
		params Params
	}{
		{"empty namespace", Params{Image: "img"}},
		{"uppercase namespace", Params{Namespace: "WatchMux", Image: "img"}},
		{"namespace with dots", Params{Namespace: "watch.mux", Image: "img"}},
		{"namespace too long", Params{Namespace: strings.Repeat("a", 64), Image: "img"}},
		{"empty image", Params{Namespace: "watchmux-system"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.Render(tt.params); err == nil {
				t.Error("expected error")
			}
		})
	}
}
