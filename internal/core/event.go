package core

import (
	"encoding/json"
	"fmt"
)

// EventType represents the type of a domain event carried on the watch
// stream. This is a domain-level type; adapters translate whatever the
// wire uses into these values.
type EventType string

const (
	EventAdded    EventType = "ADDED"
	EventModified EventType = "MODIFIED"
	EventDeleted  EventType = "DELETED"
	EventError    EventType = "ERROR"
)

// streamEndType marks a route-control message: the server terminated
// one of the multiplexed streams and the client must resynchronize.
const streamEndType = "STREAM_END"

// Event is a single object mutation received from the stream. Object
// carries the raw resource as a generic map so that consumers do not
// depend on client-go types.
type Event struct {
	Type            EventType
	Kind            string
	APIVersion      string
	Namespace       string
	Name            string
	ResourceVersion string
	Object          map[string]any
}

// RouteEvent is a stream-end control message. URL names the watch
// endpoint whose stream the server closed; Status carries the upstream
// HTTP status (e.g. 410 for an expired resource version).
type RouteEvent struct {
	URL    string
	Status int
}

// envelope is the wire shape of every stream message.
type envelope struct {
	Type   string         `json:"type"`
	Object map[string]any `json:"object,omitempty"`
	URL    string         `json:"url,omitempty"`
	Status int            `json:"status,omitempty"`
}

// decodeMessage classifies a raw stream message as either a domain
// event or a route event. Exactly one of the returns is non-nil on
// success.
func decodeMessage(raw []byte) (*Event, *RouteEvent, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, nil, fmt.Errorf("decode stream message: %w", err)
	}

	if env.Type == streamEndType {
		if env.URL == "" {
			return nil, nil, fmt.Errorf("stream-end message without url")
		}
		return nil, &RouteEvent{URL: env.URL, Status: env.Status}, nil
	}

	switch EventType(env.Type) {
	case EventAdded, EventModified, EventDeleted:
		if env.Object == nil {
			return nil, nil, fmt.Errorf("%s event without object payload", env.Type)
		}
	case EventError:
		// ERROR events may omit the object; they are dropped by the
		// router either way.
	default:
		return nil, nil, fmt.Errorf("unknown stream message type %q", env.Type)
	}

	ev := &Event{
		Type:   EventType(env.Type),
		Object: env.Object,
	}
	ev.Kind, ev.APIVersion = objectGroupKind(env.Object)
	ev.Namespace, ev.Name, ev.ResourceVersion = objectMeta(env.Object)
	return ev, nil, nil
}

// objectGroupKind extracts kind and apiVersion from a raw object map.
func objectGroupKind(obj map[string]any) (kind, apiVersion string) {
	kind, _ = obj["kind"].(string)
	apiVersion, _ = obj["apiVersion"].(string)
	return kind, apiVersion
}

// objectMeta extracts namespace, name and resourceVersion from a raw
// object's metadata.
func objectMeta(obj map[string]any) (namespace, name, resourceVersion string) {
	md, _ := obj["metadata"].(map[string]any)
	if md == nil {
		return "", "", ""
	}
	namespace, _ = md["namespace"].(string)
	name, _ = md["name"].(string)
	resourceVersion, _ = md["resourceVersion"].(string)
	return namespace, name, resourceVersion
}
