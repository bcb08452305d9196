package core

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/otterscale/watchmux/internal/config"
	"github.com/otterscale/watchmux/internal/metrics"
)

// Options carries the client tunables.
type Options struct {
	// Debounce is the quiet window applied to interest changes before
	// the query is rebuilt and a connection attempted.
	Debounce time.Duration
	// RetryBudget is the number of automatic reconnect attempts
	// permitted before the client goes dormant.
	RetryBudget int
	// RetryDelay is the fixed delay between automatic reconnect
	// attempts.
	RetryDelay time.Duration
	// RefreshRetryDelay is the fixed delay before retrying a failed
	// resource-version refresh.
	RefreshRetryDelay time.Duration
}

// NewOptions derives Options from the process configuration.
func NewOptions(conf *config.Config) Options {
	return Options{
		Debounce:          conf.ClientDebounce(),
		RetryBudget:       conf.ClientRetryBudget(),
		RetryDelay:        conf.ClientRetryDelay(),
		RefreshRetryDelay: conf.ClientRefreshRetryDelay(),
	}
}

func (o Options) withDefaults() Options {
	if o.Debounce <= 0 {
		o.Debounce = 500 * time.Millisecond
	}
	if o.RetryBudget <= 0 {
		o.RetryBudget = 5
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = 2 * time.Second
	}
	if o.RefreshRetryDelay <= 0 {
		o.RefreshRetryDelay = time.Second
	}
	return o
}

// Client is the watch-stream multiplexer. It keeps the consumer's
// interests multiplexed over a single reconnecting push channel and
// resynchronizes resource versions when the upstream ends a stream.
//
// All connection-state transitions happen under mu; blocking I/O
// (dialing, refreshes, resolver readiness) happens outside it. Timers
// and read loops carry the connection generation current at the time
// they were armed and become no-ops once a newer connection supersedes
// them.
type Client struct {
	opts    Options
	log     *slog.Logger
	metrics *metrics.Metrics

	registry   *Registry
	tracker    *VersionTracker
	dispatcher *Dispatcher
	query      *QueryBuilder
	dialer     StreamDialer
	stores     StoreRegistry
	debounce   *debouncer

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	state   ConnState
	budget  *retryBudget
	conn    Stream
	gen     uint64
}

// NewClient assembles a Client from its collaborators. The client does
// nothing until Start is called.
func NewClient(opts Options, resolver NamespaceResolver, stores StoreRegistry, dialer StreamDialer, m *metrics.Metrics) *Client {
	opts = opts.withDefaults()

	c := &Client{
		opts:       opts,
		log:        slog.Default().With("component", "watchmux"),
		metrics:    m,
		tracker:    NewVersionTracker(),
		dispatcher: NewDispatcher(),
		dialer:     dialer,
		stores:     stores,
		state:      StateIdle,
		budget:     newRetryBudget(opts.RetryBudget),
	}
	c.registry = NewRegistry(c.onRegistryChange)
	c.query = NewQueryBuilder(resolver, c.tracker)
	c.debounce = newDebouncer(opts.Debounce, c.onInterestSettled)
	return c
}

// Subscribe registers the given interests and returns a disposer that
// releases them. The connection is (re)built once the debounce window
// settles.
func (c *Client) Subscribe(interests ...Interest) func() {
	return c.registry.Subscribe(interests...)
}

// AddListener registers an event callback for the given owner key and
// returns a disposer.
func (c *Client) AddListener(owner string, fn func(Event)) func() {
	return c.dispatcher.AddListener(owner, fn)
}

// Reconnect forces an immediate reconnect attempt with the retry
// budget reset, bypassing the debounce window.
func (c *Client) Reconnect() {
	c.rebuild(true)
}

// Reset clears all registrations and disconnects. Outstanding
// disposers become no-ops.
func (c *Client) Reset() {
	c.debounce.Stop()
	c.registry.Clear()
}

// State returns the current connection state so callers can observe
// "disconnected / no active watch" and decide whether to force a
// reconnect.
func (c *Client) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ResourceVersion returns the last-seen version token for the given
// scope. An empty namespace addresses cluster scope.
func (c *Client) ResourceVersion(kind, namespace string) (string, bool) {
	return c.tracker.Get(kind, namespace)
}

// Start activates the client and blocks until ctx is cancelled. It
// implements transport.Listener so it can run alongside the metrics
// server under transport.Serve.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return &ErrAlreadyStarted{}
	}
	cctx, cancel := context.WithCancel(ctx)
	c.ctx, c.cancel, c.started = cctx, cancel, true
	c.mu.Unlock()

	// Interests registered before Start are picked up now.
	if !c.registry.Empty() {
		c.debounce.Signal()
	}

	<-cctx.Done()
	c.shutdown()
	return nil
}

// Stop cancels the run context and tears down any live connection.
func (c *Client) Stop(ctx context.Context) error {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	return nil
}

func (c *Client) shutdown() {
	c.debounce.Stop()

	c.mu.Lock()
	old := c.supersedeLocked()
	c.setState(StateIdle)
	c.started = false
	c.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	c.log.Info("watch client stopped")
}

// supersedeLocked invalidates the live connection generation and
// detaches the current stream, returning it for the caller to close
// outside the lock. Pending timers, read loops and buffered messages
// carrying an older generation become no-ops. Must be called with mu
// held.
func (c *Client) supersedeLocked() Stream {
	c.gen++
	old := c.conn
	c.conn = nil
	return old
}

// superseded reports whether gen is no longer the live connection
// generation.
func (c *Client) superseded(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen != c.gen
}

// onRegistryChange is invoked on every subscribe/unsubscribe. The
// actual rebuild happens once the quiet window elapses, so a burst of
// changes yields a single connect attempt against the settled set.
func (c *Client) onRegistryChange() {
	c.mu.Lock()
	active := c.started
	c.mu.Unlock()

	if active {
		c.debounce.Signal()
	}
}

// onInterestSettled fires when the debounce window elapses.
func (c *Client) onInterestSettled() {
	c.rebuild(true)
}

// rebuild recomputes the query from the current interests and drives
// the connection toward it. fresh resets the retry budget: it marks an
// explicit connect request ("the caller wants this") as opposed to an
// error-driven retry ("the network is flaky").
func (c *Client) rebuild(fresh bool) {
	c.mu.Lock()
	if !c.started || c.ctx.Err() != nil {
		c.mu.Unlock()
		return
	}
	ctx := c.ctx
	if fresh {
		c.budget.Reset()
	}
	c.mu.Unlock()

	interests := c.registry.Active()
	if len(interests) == 0 {
		c.toIdle("no active interests")
		return
	}

	endpoints, err := c.query.Build(ctx, interests)
	if err != nil {
		c.log.Warn("query build failed, staying idle", "error", err)
		c.toIdle("namespace resolver unavailable")
		return
	}
	if len(endpoints) == 0 {
		c.toIdle("empty query")
		return
	}

	c.connect(ctx, endpoints)
}

// toIdle disconnects any live channel and parks the policy.
func (c *Client) toIdle(reason string) {
	c.mu.Lock()
	old := c.supersedeLocked()
	changed := c.state != StateIdle
	c.setState(StateIdle)
	c.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	if changed {
		c.log.Info("watch idle", "reason", reason)
	}
}

// connect opens a new stream for the query, superseding any existing
// connection first so that two channels are never live at once.
func (c *Client) connect(ctx context.Context, endpoints []string) {
	c.mu.Lock()
	old := c.supersedeLocked()
	gen := c.gen
	c.setState(StateConnecting)
	c.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}

	st, err := c.dialer.Dial(ctx, endpoints)

	c.mu.Lock()
	if gen != c.gen || ctx.Err() != nil {
		// Superseded while dialing.
		c.mu.Unlock()
		if err == nil {
			_ = st.Close()
		}
		return
	}
	if err != nil {
		c.mu.Unlock()
		c.log.Warn("watch connect failed", "error", err)
		c.scheduleRetry(gen)
		return
	}
	c.conn = st
	c.setState(StateOpen)
	c.mu.Unlock()

	c.metrics.Connects.Inc()
	c.log.Info("watch stream open", "stream", st.ID(), "endpoints", len(endpoints))
	go c.readLoop(gen, st)
}

// readLoop drains one stream in arrival order, then reports its
// termination.
func (c *Client) readLoop(gen uint64, st Stream) {
	for msg := range st.Messages() {
		c.route(gen, msg)
	}
	err := <-st.Done()
	c.onStreamClosed(gen, err)
}

// onStreamClosed handles a transport-level termination of the current
// stream. Terminations of superseded streams are ignored.
func (c *Client) onStreamClosed(gen uint64, err error) {
	c.mu.Lock()
	if gen != c.gen || !c.started || c.ctx.Err() != nil {
		c.mu.Unlock()
		return
	}
	c.conn = nil
	c.mu.Unlock()

	if err != nil {
		c.log.Warn("watch stream transport error", "error", err)
	} else {
		c.log.Warn("watch stream closed by peer without stream-end")
	}
	c.scheduleRetry(gen)
}

// scheduleRetry spends one attempt from the retry budget and arms the
// fixed-delay reconnect timer. With the budget exhausted the client
// goes dormant until the next explicit trigger.
func (c *Client) scheduleRetry(gen uint64) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	if !c.budget.Spend() {
		c.setState(StateExhausted)
		c.mu.Unlock()
		c.log.Warn("retry budget exhausted, dormant until interest change or manual reconnect")
		return
	}
	c.setState(StateBackoff)
	remaining := c.budget.Remaining()
	c.mu.Unlock()

	c.metrics.Retries.Inc()
	c.log.Info("watch reconnect scheduled", "delay", c.opts.RetryDelay, "remaining", remaining)

	time.AfterFunc(c.opts.RetryDelay, func() {
		c.mu.Lock()
		stale := gen != c.gen || !c.started || c.ctx.Err() != nil
		c.mu.Unlock()
		if stale {
			return
		}
		c.rebuild(false)
	})
}

// setState must be called with mu held.
func (c *Client) setState(s ConnState) {
	c.state = s
	c.metrics.ConnectionState.Set(float64(s))
}

func (c *Client) context() context.Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ctx != nil {
		return c.ctx
	}
	return context.Background()
}
