package kubernetes

import (
	"context"
	"fmt"
	"log/slog"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/otterscale/watchmux/internal/core"
)

// storeEntry describes one watchable resource collection: the group/
// version/resource used against the API server, the object kind and
// apiVersion seen on the wire, and whether it is namespace-scoped.
type storeEntry struct {
	gvr        schema.GroupVersionResource
	kind       string
	apiVersion string
	namespaced bool
}

// builtinStores is the registry's kind table, keyed by the canonical
// owner key (lowercase plural resource name).
var builtinStores = map[string]storeEntry{
	"namespaces": {
		gvr:        schema.GroupVersionResource{Version: "v1", Resource: "namespaces"},
		kind:       "Namespace",
		apiVersion: "v1",
	},
	"nodes": {
		gvr:        schema.GroupVersionResource{Version: "v1", Resource: "nodes"},
		kind:       "Node",
		apiVersion: "v1",
	},
	"persistentvolumes": {
		gvr:        schema.GroupVersionResource{Version: "v1", Resource: "persistentvolumes"},
		kind:       "PersistentVolume",
		apiVersion: "v1",
	},
	"pods": {
		gvr:        schema.GroupVersionResource{Version: "v1", Resource: "pods"},
		kind:       "Pod",
		apiVersion: "v1",
		namespaced: true,
	},
	"services": {
		gvr:        schema.GroupVersionResource{Version: "v1", Resource: "services"},
		kind:       "Service",
		apiVersion: "v1",
		namespaced: true,
	},
	"configmaps": {
		gvr:        schema.GroupVersionResource{Version: "v1", Resource: "configmaps"},
		kind:       "ConfigMap",
		apiVersion: "v1",
		namespaced: true,
	},
	"secrets": {
		gvr:        schema.GroupVersionResource{Version: "v1", Resource: "secrets"},
		kind:       "Secret",
		apiVersion: "v1",
		namespaced: true,
	},
	"serviceaccounts": {
		gvr:        schema.GroupVersionResource{Version: "v1", Resource: "serviceaccounts"},
		kind:       "ServiceAccount",
		apiVersion: "v1",
		namespaced: true,
	},
	"persistentvolumeclaims": {
		gvr:        schema.GroupVersionResource{Version: "v1", Resource: "persistentvolumeclaims"},
		kind:       "PersistentVolumeClaim",
		apiVersion: "v1",
		namespaced: true,
	},
	"events": {
		gvr:        schema.GroupVersionResource{Version: "v1", Resource: "events"},
		kind:       "Event",
		apiVersion: "v1",
		namespaced: true,
	},
	"deployments": {
		gvr:        schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "deployments"},
		kind:       "Deployment",
		apiVersion: "apps/v1",
		namespaced: true,
	},
	"daemonsets": {
		gvr:        schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "daemonsets"},
		kind:       "DaemonSet",
		apiVersion: "apps/v1",
		namespaced: true,
	},
	"statefulsets": {
		gvr:        schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "statefulsets"},
		kind:       "StatefulSet",
		apiVersion: "apps/v1",
		namespaced: true,
	},
	"replicasets": {
		gvr:        schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "replicasets"},
		kind:       "ReplicaSet",
		apiVersion: "apps/v1",
		namespaced: true,
	},
	"jobs": {
		gvr:        schema.GroupVersionResource{Group: "batch", Version: "v1", Resource: "jobs"},
		kind:       "Job",
		apiVersion: "batch/v1",
		namespaced: true,
	},
	"cronjobs": {
		gvr:        schema.GroupVersionResource{Group: "batch", Version: "v1", Resource: "cronjobs"},
		kind:       "CronJob",
		apiVersion: "batch/v1",
		namespaced: true,
	},
	"ingresses": {
		gvr:        schema.GroupVersionResource{Group: "networking.k8s.io", Version: "v1", Resource: "ingresses"},
		kind:       "Ingress",
		apiVersion: "networking.k8s.io/v1",
		namespaced: true,
	},
}

// StoreRepo implements core.StoreRegistry over the builtin kind table
// and a dynamic client for resource-version refreshes.
type StoreRepo struct {
	kubernetes *Kubernetes
	entries    map[string]storeEntry
	byKind     map[string]string
	log        *slog.Logger
}

func NewStoreRepo(kubernetes *Kubernetes) *StoreRepo {
	byKind := make(map[string]string, len(builtinStores))
	for owner, e := range builtinStores {
		byKind[e.apiVersion+"/"+e.kind] = owner
	}

	return &StoreRepo{
		kubernetes: kubernetes,
		entries:    builtinStores,
		byKind:     byKind,
		log:        slog.Default().With("component", "store-registry"),
	}
}

var _ core.StoreRegistry = (*StoreRepo)(nil)

// ResolveOwner maps an event object's kind and apiVersion to the
// canonical owner key.
func (r *StoreRepo) ResolveOwner(kind, apiVersion string) (string, bool) {
	owner, ok := r.byKind[apiVersion+"/"+kind]
	return owner, ok
}

// Lookup returns the interest for a canonical owner key, for callers
// that subscribe by resource name.
func (r *StoreRepo) Lookup(kind string) (core.Interest, bool) {
	e, ok := r.entries[kind]
	if !ok {
		return core.Interest{}, false
	}
	return core.Interest{Kind: kind, Namespaced: e.namespaced}, true
}

// RefreshResourceVersion fetches the current list resource version for
// the scope with a minimal one-item list request.
func (r *StoreRepo) RefreshResourceVersion(ctx context.Context, kind, namespace string) (string, error) {
	e, ok := r.entries[kind]
	if !ok {
		return "", &core.ErrUnknownKind{Kind: kind}
	}

	client, err := r.kubernetes.dynamic()
	if err != nil {
		return "", fmt.Errorf("kubernetes client: %w", err)
	}

	list, err := client.Resource(e.gvr).Namespace(namespace).List(ctx, metav1.ListOptions{Limit: 1})
	if err != nil {
		return "", fmt.Errorf("refresh %s/%s: %w", kind, namespace, err)
	}

	rv := list.GetResourceVersion()
	if rv == "" {
		return "", fmt.Errorf("refresh %s/%s: empty resource version", kind, namespace)
	}
	return rv, nil
}
