package kubernetes

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	authorizationv1 "k8s.io/api/authorization/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/otterscale/watchmux/internal/config"
	"github.com/otterscale/watchmux/internal/core"
)

// namespaceRepo implements core.NamespaceResolver. With a static
// namespace list configured it is ready immediately and reports no
// cluster-wide access; otherwise readiness means one successful sync
// of the cluster's namespace list plus a capability probe.
type namespaceRepo struct {
	kubernetes *Kubernetes
	static     []string
	log        *slog.Logger

	mu          sync.Mutex
	ready       bool
	namespaces  []string
	clusterWide bool
}

func NewNamespaceRepo(conf *config.Config, kubernetes *Kubernetes) core.NamespaceResolver {
	return &namespaceRepo{
		kubernetes: kubernetes,
		static:     conf.ClientNamespaces(),
		log:        slog.Default().With("component", "namespace-resolver"),
	}
}

var _ core.NamespaceResolver = (*namespaceRepo)(nil)

// WhenReady blocks the caller until the first successful sync. The
// lock is held across the sync so concurrent query builds serialize on
// a single round-trip.
func (r *namespaceRepo) WhenReady(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ready {
		return nil
	}

	if len(r.static) > 0 {
		r.namespaces = slices.Clone(r.static)
		r.clusterWide = false
		r.ready = true
		r.log.Info("using static namespace list", "namespaces", r.namespaces)
		return nil
	}

	return r.sync(ctx)
}

func (r *namespaceRepo) Namespaces() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.namespaces)
}

func (r *namespaceRepo) ClusterWideAccess() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clusterWide
}

// sync lists the cluster's namespaces and probes for cluster-wide
// read capability. Must be called with mu held.
func (r *namespaceRepo) sync(ctx context.Context) error {
	clientset, err := r.kubernetes.typed()
	if err != nil {
		return fmt.Errorf("kubernetes client: %w", err)
	}

	list, err := clientset.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	if err != nil {
		return fmt.Errorf("list namespaces: %w", err)
	}

	names := make([]string, 0, len(list.Items))
	for i := range list.Items {
		names = append(names, list.Items[i].Name)
	}

	r.namespaces = names
	r.clusterWide = r.probeClusterWide(ctx)
	r.ready = true
	r.log.Info("namespace scope resolved", "count", len(names), "clusterWide", r.clusterWide)
	return nil
}

// probeClusterWide asks the API server whether the current identity
// may list namespaces, the conventional proxy for cluster-wide read
// visibility. A failed probe means no cluster-wide access, not an
// error: cluster-scoped interests are then silently omitted from the
// query.
func (r *namespaceRepo) probeClusterWide(ctx context.Context) bool {
	clientset, err := r.kubernetes.typed()
	if err != nil {
		return false
	}

	review := &authorizationv1.SelfSubjectAccessReview{
		Spec: authorizationv1.SelfSubjectAccessReviewSpec{
			ResourceAttributes: &authorizationv1.ResourceAttributes{
				Verb:     "list",
				Resource: "namespaces",
			},
		},
	}

	resp, err := clientset.AuthorizationV1().SelfSubjectAccessReviews().Create(ctx, review, metav1.CreateOptions{})
	if err != nil {
		r.log.Warn("cluster-wide access probe failed", "error", err)
		return false
	}
	return resp.Status.Allowed
}
