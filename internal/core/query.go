package core

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// NamespaceResolver supplies the namespace scope used to expand
// interests into concrete watch endpoints. Implementations live
// outside the core (see internal/kubernetes).
type NamespaceResolver interface {
	// WhenReady blocks until the resolver has a usable namespace
	// view, or fails when it cannot become ready.
	WhenReady(ctx context.Context) error
	// Namespaces returns the currently selected namespaces.
	Namespaces() []string
	// ClusterWideAccess reports whether the caller may read
	// cluster-scoped collections.
	ClusterWideAccess() bool
}

// QueryBuilder converts the active interest set into the canonical
// list of watch endpoints. Namespaced interests expand to one endpoint
// per selected namespace; cluster-scoped interests contribute a single
// endpoint, and are silently skipped when the caller lacks
// cluster-wide read access.
type QueryBuilder struct {
	resolver NamespaceResolver
	tracker  *VersionTracker
}

func NewQueryBuilder(resolver NamespaceResolver, tracker *VersionTracker) *QueryBuilder {
	return &QueryBuilder{
		resolver: resolver,
		tracker:  tracker,
	}
}

// Build waits for the namespace resolver and returns the endpoint
// list for the given interests. An empty result means no connection
// should be attempted.
func (b *QueryBuilder) Build(ctx context.Context, interests []Interest) ([]string, error) {
	if len(interests) == 0 {
		return nil, nil
	}

	if err := b.resolver.WhenReady(ctx); err != nil {
		return nil, fmt.Errorf("namespace resolver: %w", err)
	}

	var endpoints []string
	for _, in := range interests {
		if !in.Namespaced {
			if !b.resolver.ClusterWideAccess() {
				continue
			}
			endpoints = append(endpoints, b.endpoint(in.Kind, ""))
			continue
		}
		for _, ns := range b.resolver.Namespaces() {
			endpoints = append(endpoints, b.endpoint(in.Kind, ns))
		}
	}
	return endpoints, nil
}

// endpoint renders one watch endpoint. The last-seen resource version
// for the scope is attached so the server can resume the stream
// instead of replaying history.
func (b *QueryBuilder) endpoint(kind, namespace string) string {
	v := url.Values{}
	if namespace != "" {
		v.Set("namespace", namespace)
	}
	if rv, ok := b.tracker.Get(kind, namespace); ok {
		v.Set("resourceVersion", rv)
	}
	if len(v) == 0 {
		return kind
	}
	return kind + "?" + v.Encode()
}

// parseEndpoint recovers the (kind, namespace) scope from a watch
// endpoint, as echoed back in stream-end route events.
func parseEndpoint(endpoint string) (kind, namespace string, err error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", "", fmt.Errorf("parse watch endpoint %q: %w", endpoint, err)
	}

	path := strings.Trim(u.Path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		path = path[i+1:]
	}
	if path == "" {
		return "", "", fmt.Errorf("watch endpoint %q has no resource kind", endpoint)
	}
	return path, u.Query().Get("namespace"), nil
}
