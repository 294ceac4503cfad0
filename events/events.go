// Package events carries entity change notifications from the services to
// out-of-band consumers: the message bus, live dashboards and caches.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/egor/backoffice/logger"
)

type Action string

const (
	Created Action = "created"
	Updated Action = "updated"
	Deleted Action = "deleted"
)

// Event describes a committed write.
type Event struct {
	Entity  string    `json:"entity"`
	Action  Action    `json:"action"`
	ID      uuid.UUID `json:"id"`
	OwnerID uuid.UUID `json:"ownerId"`
	At      time.Time `json:"at"`
}

// Subject is the bus subject: backoffice.<entity>.<action>.
func (e Event) Subject() string {
	return "backoffice." + e.Entity + "." + string(e.Action)
}

// Sink receives events.
type Sink interface {
	Publish(ctx context.Context, e Event) error
}

// Dispatcher fans an event out to every sink. A failing sink is logged and
// does not stop the others.
type Dispatcher struct {
	sinks []Sink
	log   logger.Logger
}

func NewDispatcher(log logger.Logger, sinks ...Sink) *Dispatcher {
	return &Dispatcher{sinks: sinks, log: log}
}

// Add registers another sink. Not safe for use once events are flowing.
func (d *Dispatcher) Add(s Sink) {
	d.sinks = append(d.sinks, s)
}

func (d *Dispatcher) Notify(ctx context.Context, e Event) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	for _, s := range d.sinks {
		if err := s.Publish(ctx, e); err != nil {
			d.log.Warnf("publish %s %s: %v", e.Subject(), e.ID, err)
		}
	}
}
