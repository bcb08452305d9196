package core

import "time"

// route classifies one raw stream message. Domain events flow to the
// dispatcher, stream-end route events drive the resource-version
// refresh protocol. gen identifies the connection the message arrived
// on; messages from superseded connections are not acted upon.
func (c *Client) route(gen uint64, raw []byte) {
	if c.superseded(gen) {
		return
	}

	ev, routeEv, err := decodeMessage(raw)
	if err != nil {
		c.metrics.DecodeErrors.Inc()
		c.log.Warn("dropping undecodable stream message", "error", err)
		return
	}
	if routeEv != nil {
		c.handleStreamEnd(gen, *routeEv)
		return
	}
	c.handleDomainEvent(gen, *ev)
}

// handleDomainEvent updates the version tracker and fans the event out
// to the owner's listeners. ERROR events are dropped unconditionally:
// they signal a stale version, which the stream-end/refresh path
// resolves, and carry nothing deliverable.
func (c *Client) handleDomainEvent(gen uint64, ev Event) {
	c.metrics.Events.WithLabelValues(string(ev.Type)).Inc()

	if ev.Type == EventError {
		c.log.Debug("dropping ERROR event", "kind", ev.Kind)
		return
	}

	owner, ok := c.stores.ResolveOwner(ev.Kind, ev.APIVersion)
	if !ok {
		c.log.Warn("no owner for event kind", "kind", ev.Kind, "apiVersion", ev.APIVersion)
		return
	}

	// Events drained from a superseded channel (a stream-end earlier
	// on the same channel, a reset, or a shutdown) must neither reach
	// listeners nor clobber the refreshed version token.
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.tracker.Set(owner, ev.Namespace, ev.ResourceVersion)
	c.tracker.Set(owner, "", ev.ResourceVersion)
	c.mu.Unlock()

	c.dispatcher.Dispatch(owner, ev)
}

// handleStreamEnd runs the resynchronization protocol: disconnect the
// channel first, refresh the resource version for the scope the
// server named, then reconnect with a fresh budget. Ordering matters:
// the disconnect completes before any refresh or reconnect proceeds,
// so no message from the superseded channel is processed afterwards.
func (c *Client) handleStreamEnd(gen uint64, routeEv RouteEvent) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	old := c.supersedeLocked()
	c.setState(StateConnecting)
	c.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}

	kind, namespace, err := parseEndpoint(routeEv.URL)
	if err != nil {
		// Without a scope there is nothing to refresh; reconnect so
		// the remaining streams come back.
		c.log.Warn("stream-end with unparseable url, reconnecting", "url", routeEv.URL, "error", err)
		c.Reconnect()
		return
	}

	c.log.Info("stream ended by server",
		"kind", kind,
		"namespace", namespace,
		"status", routeEv.Status,
	)
	c.refreshThenReconnect(kind, namespace)
}

// refreshThenReconnect fetches a fresh resource version for the scope
// and, on success, reconnects with the retry budget reset. On failure
// it retries after a fixed delay, but only while at least one
// subscriber for the kind remains; abandoned interests are never
// retried against.
func (c *Client) refreshThenReconnect(kind, namespace string) {
	ctx := c.context()
	if ctx.Err() != nil {
		return
	}

	rv, err := c.stores.RefreshResourceVersion(ctx, kind, namespace)
	if err == nil {
		c.metrics.Refreshes.WithLabelValues("ok").Inc()
		c.tracker.Set(kind, namespace, rv)
		c.log.Info("resource version refreshed", "kind", kind, "namespace", namespace, "resourceVersion", rv)
		c.Reconnect()
		return
	}

	c.metrics.Refreshes.WithLabelValues("error").Inc()
	if !c.registry.HasKind(kind) {
		c.log.Warn("refresh failed and no subscribers remain, dropping", "kind", kind, "error", err)
		return
	}

	c.log.Warn("refresh failed, retrying",
		"kind", kind,
		"namespace", namespace,
		"delay", c.opts.RefreshRetryDelay,
		"error", err,
	)
	time.AfterFunc(c.opts.RefreshRetryDelay, func() {
		// Re-test before retrying: the last subscriber may be gone.
		if !c.registry.HasKind(kind) {
			return
		}
		c.refreshThenReconnect(kind, namespace)
	})
}
