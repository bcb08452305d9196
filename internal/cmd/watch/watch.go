// Package watch runs the wired watch client as a foreground process:
// it subscribes the configured kinds, prints incoming events, and
// serves metrics until the context is cancelled.
package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/otterscale/watchmux/internal/config"
	"github.com/otterscale/watchmux/internal/core"
	"github.com/otterscale/watchmux/internal/kubernetes"
	"github.com/otterscale/watchmux/internal/transport"
	transporthttp "github.com/otterscale/watchmux/internal/transport/http"
)

// minHubVersion is the first hub release that speaks the multiplexed
// watch protocol (composite endpoint + STREAM_END route events).
var minHubVersion = semver.MustParse("1.2.0")

// versionCheckTimeout bounds the pre-flight hub version request.
const versionCheckTimeout = 5 * time.Second

// Runner owns the foreground watch session.
type Runner struct {
	conf     *config.Config
	client   *core.Client
	stores   *kubernetes.StoreRepo
	registry *prometheus.Registry
	log      *slog.Logger
}

func NewRunner(conf *config.Config, client *core.Client, stores *kubernetes.StoreRepo, registry *prometheus.Registry) *Runner {
	return &Runner{
		conf:     conf,
		client:   client,
		stores:   stores,
		registry: registry,
		log:      slog.Default().With("component", "watch"),
	}
}

// Run subscribes the configured kinds and blocks until ctx is
// cancelled.
func (r *Runner) Run(ctx context.Context) error {
	kinds := r.conf.ClientKinds()
	if len(kinds) == 0 {
		return fmt.Errorf("no kinds configured; set --kinds (e.g. --kinds=pods,deployments)")
	}

	interests := make([]core.Interest, 0, len(kinds))
	for _, kind := range kinds {
		interest, ok := r.stores.Lookup(kind)
		if !ok {
			return fmt.Errorf("unknown kind %q", kind)
		}
		interests = append(interests, interest)
	}

	r.checkHubVersion(ctx)

	dispose := r.client.Subscribe(interests...)
	defer dispose()

	for _, interest := range interests {
		removeListener := r.client.AddListener(interest.Kind, r.printEvent)
		defer removeListener()
	}

	srv, err := transporthttp.NewServer(
		transporthttp.WithAddress(r.conf.ClientMetricsAddress()),
		transporthttp.WithMount(r.mount),
	)
	if err != nil {
		return fmt.Errorf("failed to create metrics server: %w", err)
	}

	return transport.Serve(ctx, srv, r.client)
}

func (r *Runner) printEvent(ev core.Event) {
	r.log.Info("event",
		"type", ev.Type,
		"kind", ev.Kind,
		"namespace", ev.Namespace,
		"name", ev.Name,
		"resourceVersion", ev.ResourceVersion,
	)
}

func (r *Runner) mount(mux *http.ServeMux) error {
	mux.Handle("/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return nil
}

// checkHubVersion warns when the hub predates the multiplexed watch
// protocol. Best effort: an unreachable or unversioned hub only logs,
// the stream dial will surface the real error.
func (r *Runner) checkHubVersion(ctx context.Context) {
	reqCtx, cancel := context.WithTimeout(ctx, versionCheckTimeout)
	defer cancel()

	u, err := url.Parse(r.conf.ClientServerURL())
	if err != nil {
		r.log.Warn("could not determine hub version", "error", err)
		return
	}
	u.Path = path.Join(u.Path, r.conf.ClientAPIPrefix(), "version")

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, u.String(), nil)
	if err != nil {
		r.log.Warn("could not determine hub version", "error", err)
		return
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		r.log.Warn("could not determine hub version", "error", err)
		return
	}
	defer resp.Body.Close()

	var payload struct {
		Version string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		r.log.Warn("could not determine hub version", "error", err)
		return
	}

	hubVersion, err := semver.NewVersion(payload.Version)
	if err != nil {
		r.log.Warn("could not parse hub version", "version", payload.Version, "error", err)
		return
	}

	if hubVersion.LessThan(minHubVersion) {
		r.log.Warn("hub predates the multiplexed watch protocol, streams may not resume correctly",
			"hubVersion", hubVersion.String(),
			"minVersion", minHubVersion.String(),
		)
		return
	}
	r.log.Info("hub version ok", "hubVersion", hubVersion.String())
}
