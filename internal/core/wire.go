package core

import (
	"github.com/google/wire"
)

// ProviderSet is the Wire provider set for the watch client core.
var ProviderSet = wire.NewSet(
	NewOptions,
	NewClient,
)
