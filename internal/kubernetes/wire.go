package kubernetes

import (
	"github.com/google/wire"
)

// ProviderSet is the Wire provider set for the cluster collaborators.
var ProviderSet = wire.NewSet(
	New,
	NewNamespaceRepo,
	NewStoreRepo,
)
