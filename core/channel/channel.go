// Package channel defines the event transport contract shared by every
// binding. The coordinator, courier and client processes are written once
// against this interface and instantiated with a broadcast pub/sub adapter
// (Redis, MQTT, in-process) or a change-feed adapter (MongoDB).
package channel

import (
	"context"
	"errors"
)

// ErrConnection marks a transport that could not be reached at startup.
// It is fatal: callers abort with a diagnostic instead of degrading.
var ErrConnection = errors.New("event channel: connection failed")

// Message is one payload observed on a topic. Concurrently open auctions
// share topics, so consumers filter on the payload, never on the topic.
type Message struct {
	Topic   string
	Payload []byte
}

// Predicate filters messages on a Watch stream.
type Predicate func(Message) bool

// Channel is the pluggable event transport.
//
// Subscribe delivers every message published on the topic after the call,
// until ctx is done or the channel closes; the returned stream is then
// closed. Watch behaves like Subscribe but only delivers messages matching
// the predicate. Both are lazy: no traffic is consumed before the first
// receive.
type Channel interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	Subscribe(ctx context.Context, topic string) (<-chan Message, error)
	Watch(ctx context.Context, topic string, pred Predicate) (<-chan Message, error)
	Close() error
}

// Topics names the logical channels (or collections, depending on the
// binding) connecting the parties. The defaults keep the original wire
// names so mixed deployments stay compatible.
type Topics struct {
	Requests      string `json:"requests"`
	Decisions     string `json:"decisions"`
	Announcements string `json:"announcements"`
	Candidatures  string `json:"candidatures"`
	Assignments   string `json:"assignments"`
}

// SetDefaults fills empty topic names.
func (t *Topics) SetDefaults() {
	if t.Requests == "" {
		t.Requests = "commandes"
	}
	if t.Decisions == "" {
		t.Decisions = "commandes.decisions"
	}
	if t.Announcements == "" {
		t.Announcements = "annonces"
	}
	if t.Candidatures == "" {
		t.Candidatures = "candidatures"
	}
	if t.Assignments == "" {
		t.Assignments = "affectations"
	}
}
