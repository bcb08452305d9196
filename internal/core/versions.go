package core

import "sync"

// versionKey scopes a resource version to a kind and a namespace. An
// empty namespace denotes cluster scope.
type versionKey struct {
	Kind      string
	Namespace string
}

// VersionTracker maps (kind, namespace) to the last-seen resource
// version token. Versions are opaque strings issued upstream; they are
// only overwritten, never rolled back, and persist across reconnects.
type VersionTracker struct {
	mu       sync.RWMutex
	versions map[versionKey]string
}

func NewVersionTracker() *VersionTracker {
	return &VersionTracker{
		versions: make(map[versionKey]string),
	}
}

// Set records the version for the given scope. Empty versions are
// ignored so that a malformed event cannot erase a known token.
func (t *VersionTracker) Set(kind, namespace, version string) {
	if version == "" {
		return
	}
	t.mu.Lock()
	t.versions[versionKey{Kind: kind, Namespace: namespace}] = version
	t.mu.Unlock()
}

// Get returns the last-seen version for the given scope.
func (t *VersionTracker) Get(kind, namespace string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.versions[versionKey{Kind: kind, Namespace: namespace}]
	return v, ok
}
