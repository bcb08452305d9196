package core

import "context"

// Stream is one live push channel delivering raw stream messages.
// This keeps the core free of websocket dependencies; the adapter
// lives in internal/stream.
type Stream interface {
	// ID identifies this channel instance for logging.
	ID() string
	// Messages returns the channel of raw text messages, closed when
	// the stream terminates.
	Messages() <-chan []byte
	// Done yields the terminal transport error after Messages is
	// closed; nil means the peer closed the stream cleanly.
	Done() <-chan error
	// Close tears the channel down. Idempotent.
	Close() error
}

// StreamDialer opens a push channel for a composite watch query.
type StreamDialer interface {
	Dial(ctx context.Context, endpoints []string) (Stream, error)
}

// StoreRegistry is the collaborator owning the decoded domain objects.
// It resolves which owner is responsible for a resource kind and
// fetches fresh resource versions after a stream-end event.
type StoreRegistry interface {
	// ResolveOwner maps an object's kind and apiVersion (e.g. "Pod",
	// "v1") to the canonical owner key (e.g. "pods").
	ResolveOwner(kind, apiVersion string) (string, bool)
	// RefreshResourceVersion fetches the current version token for
	// the (kind, namespace) scope. kind is the canonical owner key.
	RefreshResourceVersion(ctx context.Context, kind, namespace string) (string, error)
}
