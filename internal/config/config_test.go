package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestNew_Defaults(t *testing.T) {
	conf, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := conf.ClientServerURL(); got != "http://127.0.0.1:8299" {
		t.Errorf("ClientServerURL() = %q", got)
	}
	if got := conf.ClientAPIPrefix(); got != "api/v1" {
		t.Errorf("ClientAPIPrefix() = %q", got)
	}
	if got := conf.ClientDebounce(); got != 500*time.Millisecond {
		t.Errorf("ClientDebounce() = %v", got)
	}
	if got := conf.ClientRetryBudget(); got != 5 {
		t.Errorf("ClientRetryBudget() = %d", got)
	}
	if got := conf.ClientRetryDelay(); got != 2*time.Second {
		t.Errorf("ClientRetryDelay() = %v", got)
	}
	if got := conf.ClientRefreshRetryDelay(); got != time.Second {
		t.Errorf("ClientRefreshRetryDelay() = %v", got)
	}
	if got := conf.ClientHandshakeTimeout(); got != 10*time.Second {
		t.Errorf("ClientHandshakeTimeout() = %v", got)
	}
	if got := conf.ClientMetricsAddress(); got != ":9290" {
		t.Errorf("ClientMetricsAddress() = %q", got)
	}
	if got := conf.ClientKinds(); len(got) != 0 {
		t.Errorf("ClientKinds() = %v, want empty", got)
	}
}

func TestNew_EnvironmentOverride(t *testing.T) {
	t.Setenv("WATCHMUX_CLIENT_SERVER_URL", "https://hub.example.com")
	t.Setenv("WATCHMUX_CLIENT_RETRY_BUDGET", "9")

	conf, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := conf.ClientServerURL(); got != "https://hub.example.com" {
		t.Errorf("ClientServerURL() = %q", got)
	}
	if got := conf.ClientRetryBudget(); got != 9 {
		t.Errorf("ClientRetryBudget() = %d", got)
	}
}

func TestBindFlags_Precedence(t *testing.T) {
	conf, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := conf.BindFlags(fs, ClientOptions); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}

	if err := fs.Parse([]string{"--server-url=https://flagged.example.com", "--kinds=pods,deployments"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got := conf.ClientServerURL(); got != "https://flagged.example.com" {
		t.Errorf("ClientServerURL() = %q, want the flag value", got)
	}
	kinds := conf.ClientKinds()
	if len(kinds) != 2 || kinds[0] != "pods" || kinds[1] != "deployments" {
		t.Errorf("ClientKinds() = %v", kinds)
	}
}

func TestToFlag(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"client.server_url", "server-url"},
		{"client.refresh_retry_delay", "refresh-retry-delay"},
		{"client.kinds", "kinds"},
	}
	for _, tt := range tests {
		if got := toFlag(tt.key); got != tt.want {
			t.Errorf("toFlag(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
