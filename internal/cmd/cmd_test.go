package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/otterscale/watchmux/internal/cmd/watch"
	"github.com/otterscale/watchmux/internal/config"
)

func TestNewWatchCommand_Flags(t *testing.T) {
	conf, err := config.New()
	if err != nil {
		t.Fatalf("config.New: %v", err)
	}

	c, err := NewWatchCommand(conf, func() (*watch.Runner, func(), error) {
		t.Fatal("injector must not run during command construction")
		return nil, nil, nil
	})
	if err != nil {
		t.Fatalf("NewWatchCommand: %v", err)
	}

	for _, flag := range []string{
		"server-url", "api-prefix", "debounce", "retry-budget",
		"retry-delay", "refresh-retry-delay", "handshake-timeout",
		"metrics-address", "kinds", "namespaces",
	} {
		if c.Flags().Lookup(flag) == nil {
			t.Errorf("flag --%s not registered", flag)
		}
	}
}

func TestNewManifestCommand_Output(t *testing.T) {
	conf, err := config.New()
	if err != nil {
		t.Fatalf("config.New: %v", err)
	}

	c, err := NewManifestCommand(conf)
	if err != nil {
		t.Fatalf("NewManifestCommand: %v", err)
	}

	var buf bytes.Buffer
	c.SetOut(&buf)
	c.SetArgs([]string{"--kinds=pods,deployments", "--server-url=https://hub.example.com"})

	if err := c.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"kind: Deployment",
		"namespace: watchmux-system",
		"- --server-url=https://hub.example.com",
		"- --kinds=pods,deployments",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("manifest output missing %q", want)
		}
	}
}
