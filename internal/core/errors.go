package core

import "fmt"

// ErrUnknownKind indicates that a resource kind has no registered
// store and therefore no owner or refresh path.
type ErrUnknownKind struct {
	Kind string
}

func (e *ErrUnknownKind) Error() string {
	return fmt.Sprintf("no store registered for kind %q", e.Kind)
}

// ErrAlreadyStarted indicates that Start was called on a client that
// is already running.
type ErrAlreadyStarted struct{}

func (e *ErrAlreadyStarted) Error() string {
	return "watch client already started"
}
