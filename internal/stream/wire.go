package stream

import "github.com/google/wire"

// ProviderSet is the Wire provider set for the stream transport.
var ProviderSet = wire.NewSet(NewDialer)
