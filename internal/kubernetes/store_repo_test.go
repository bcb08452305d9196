package kubernetes

import "testing"

func TestStoreRepo_ResolveOwner(t *testing.T) {
	repo := NewStoreRepo(nil)

	tests := []struct {
		name       string
		kind       string
		apiVersion string
		wantOwner  string
		wantOK     bool
	}{
		{"core pod", "Pod", "v1", "pods", true},
		{"core namespace", "Namespace", "v1", "namespaces", true},
		{"apps deployment", "Deployment", "apps/v1", "deployments", true},
		{"batch cronjob", "CronJob", "batch/v1", "cronjobs", true},
		{"networking ingress", "Ingress", "networking.k8s.io/v1", "ingresses", true},
		{"wrong group", "Deployment", "v1", "", false},
		{"unknown kind", "Gadget", "widgets/v1", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, ok := repo.ResolveOwner(tt.kind, tt.apiVersion)
			if ok != tt.wantOK || owner != tt.wantOwner {
				t.Errorf("ResolveOwner(%q, %q) = %q, %v; want %q, %v",
					tt.kind, tt.apiVersion, owner, ok, tt.wantOwner, tt.wantOK)
			}
		})
	}
}

func TestStoreRepo_Lookup(t *testing.T) {
	repo := NewStoreRepo(nil)

	if in, ok := repo.Lookup("pods"); !ok || !in.Namespaced || in.Kind != "pods" {
		t.Errorf("Lookup(pods) = %+v, %v; want namespaced pods", in, ok)
	}
	if in, ok := repo.Lookup("nodes"); !ok || in.Namespaced {
		t.Errorf("Lookup(nodes) = %+v, %v; want cluster-scoped nodes", in, ok)
	}
	if _, ok := repo.Lookup("Pod"); ok {
		t.Error("Lookup must only accept canonical lowercase plural names")
	}
	if _, ok := repo.Lookup("gadgets"); ok {
		t.Error("Lookup(gadgets) should miss")
	}
}

func TestStoreRepo_TableConsistency(t *testing.T) {
	repo := NewStoreRepo(nil)

	// Every entry must resolve back to its own owner key via the
	// kind/apiVersion it puts on the wire.
	for owner, e := range repo.entries {
		got, ok := repo.ResolveOwner(e.kind, e.apiVersion)
		if !ok || got != owner {
			t.Errorf("entry %q does not round-trip: ResolveOwner(%q, %q) = %q, %v",
				owner, e.kind, e.apiVersion, got, ok)
		}
		if e.gvr.Resource != owner {
			t.Errorf("entry %q names resource %q", owner, e.gvr.Resource)
		}
	}
}
