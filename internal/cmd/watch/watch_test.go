package watch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/otterscale/watchmux/internal/config"
	"github.com/otterscale/watchmux/internal/kubernetes"
	"github.com/otterscale/watchmux/internal/metrics"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	conf, err := config.New()
	if err != nil {
		t.Fatalf("config.New: %v", err)
	}
	return conf
}

func TestRun_NoKinds(t *testing.T) {
	r := NewRunner(newTestConfig(t), nil, kubernetes.NewStoreRepo(nil), metrics.NewRegistry())

	err := r.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "no kinds configured") {
		t.Fatalf("Run = %v, want no-kinds error", err)
	}
}

func TestRun_UnknownKind(t *testing.T) {
	t.Setenv("WATCHMUX_CLIENT_KINDS", "gadgets")
	r := NewRunner(newTestConfig(t), nil, kubernetes.NewStoreRepo(nil), metrics.NewRegistry())

	err := r.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), `unknown kind "gadgets"`) {
		t.Fatalf("Run = %v, want unknown-kind error", err)
	}
}

func TestMount(t *testing.T) {
	reg := metrics.NewRegistry()
	_ = metrics.New(reg)
	r := NewRunner(newTestConfig(t), nil, kubernetes.NewStoreRepo(nil), reg)

	mux := http.NewServeMux()
	if err := r.mount(mux); err != nil {
		t.Fatalf("mount: %v", err)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("GET /healthz = %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET /metrics = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "watchmux_connection_state") {
		t.Error("metrics output missing watchmux_connection_state")
	}
}

func TestCheckHubVersion_DoesNotBlockRun(t *testing.T) {
	// The version gate is advisory: an old or unversioned hub only
	// logs a warning.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/version" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"version": "0.9.0"}`))
	}))
	defer srv.Close()

	t.Setenv("WATCHMUX_CLIENT_SERVER_URL", srv.URL)
	r := NewRunner(newTestConfig(t), nil, kubernetes.NewStoreRepo(nil), metrics.NewRegistry())

	r.checkHubVersion(context.Background())
	r.checkHubVersion(context.Background()) // idempotent, still just logs
}
