// Package kubernetes implements the cluster-facing collaborators of
// the watch client: the namespace-scope resolver and the store
// registry that refreshes resource versions.
package kubernetes

import (
	"fmt"
	"os"
	"sync"

	"k8s.io/client-go/dynamic"
	k8s "k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/otterscale/watchmux/internal/config"
)

// Kubernetes lazily builds and caches the client-go clients shared by
// the repos in this package.
type Kubernetes struct {
	conf *config.Config

	mu        sync.Mutex
	rest      *rest.Config
	clientset *k8s.Clientset
	dyn       *dynamic.DynamicClient
}

func New(conf *config.Config) *Kubernetes {
	return &Kubernetes{
		conf: conf,
	}
}

// restConfig prefers the in-cluster service account and falls back to
// KUBECONFIG or the default kubeconfig path for local development.
func (m *Kubernetes) restConfig() (*rest.Config, error) {
	if m.rest != nil {
		return m.rest, nil
	}

	if cfg, err := rest.InClusterConfig(); err == nil {
		m.rest = cfg
		return cfg, nil
	}

	kubeconfig := os.Getenv("KUBECONFIG")
	if kubeconfig == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			kubeconfig = home + "/.kube/config"
		}
	}

	cfg, err := clientcmd.BuildConfigFromFlags("", kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to build kube config: %w", err)
	}
	m.rest = cfg
	return cfg, nil
}

func (m *Kubernetes) typed() (*k8s.Clientset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.clientset != nil {
		return m.clientset, nil
	}
	cfg, err := m.restConfig()
	if err != nil {
		return nil, err
	}
	clientset, err := k8s.NewForConfig(cfg)
	if err != nil {
		return nil, err
	}
	m.clientset = clientset
	return clientset, nil
}

func (m *Kubernetes) dynamic() (*dynamic.DynamicClient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dyn != nil {
		return m.dyn, nil
	}
	cfg, err := m.restConfig()
	if err != nil {
		return nil, err
	}
	dyn, err := dynamic.NewForConfig(cfg)
	if err != nil {
		return nil, err
	}
	m.dyn = dyn
	return dyn, nil
}
