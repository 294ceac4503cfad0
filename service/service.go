// Package service holds the resource services: scoped list, read, create,
// update, delete and stats for clients, properties, transactions and users.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/egor/backoffice/database"
	"github.com/egor/backoffice/events"
	"github.com/egor/backoffice/logger"
	"github.com/egor/backoffice/query"
)

const (
	entityClient      = "client"
	entityProperty    = "property"
	entityTransaction = "transaction"
	entityUser        = "user"
)

// Store is the persistence port: plain reads go through DB, multi-step
// writes through WithTx.
type Store interface {
	DB() database.DBTX
	WithTx(ctx context.Context, fn func(tx database.DBTX) error) error
}

// Notifier receives change events after a write commits.
type Notifier interface {
	Notify(ctx context.Context, e events.Event)
}

// Recorder is the metrics surface the services report to.
type Recorder interface {
	ObserveWrite(entity, action string, err error)
	DegradedRead(entity, operation string)
	CacheLookup(hit bool)
}

// Deps are shared by every service. Notifier and Metrics are optional.
type Deps struct {
	Store    Store
	Log      logger.Logger
	Notifier Notifier
	Metrics  Recorder
}

// Page is one page of a list. Failure is set when the list degraded to an
// empty page; it is never serialized.
type Page[T any] struct {
	Items      []T              `json:"items"`
	Pagination query.Pagination `json:"pagination"`
	Failure    error            `json:"-"`
}

// Deleted is returned by successful deletes.
type Deleted struct {
	Message string `json:"message"`
}

type base struct {
	store    Store
	log      logger.Logger
	notifier Notifier
	metrics  Recorder
	now      func() time.Time
}

func newBase(d Deps) base {
	b := base{store: d.Store, log: d.Log, notifier: d.Notifier, metrics: d.Metrics, now: func() time.Time { return time.Now().UTC() }}
	if b.log == nil {
		b.log = logger.NewNop()
	}
	if b.notifier == nil {
		b.notifier = nopNotifier{}
	}
	if b.metrics == nil {
		b.metrics = nopRecorder{}
	}
	return b
}

// degraded logs a read failure that is answered with an empty result.
func (b base) degraded(entity, operation string, err error) {
	b.log.Errorf("%s %s degraded to empty result: %v", entity, operation, err)
	b.metrics.DegradedRead(entity, operation)
}

// written records the outcome of a write and, on success, emits the event.
// The write has committed, so sinks run even if the caller has gone away.
func (b base) written(ctx context.Context, entity string, action events.Action, id, owner uuid.UUID, err error) {
	b.metrics.ObserveWrite(entity, string(action), err)
	if err != nil {
		return
	}
	b.notifier.Notify(context.WithoutCancel(ctx), events.Event{Entity: entity, Action: action, ID: id, OwnerID: owner, At: b.now()})
}

func emptyPage[T any](filters query.Filters, err error) Page[T] {
	return Page[T]{Items: []T{}, Pagination: query.ParsePagination(filters), Failure: err}
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, events.Event) {}

type nopRecorder struct{}

func (nopRecorder) ObserveWrite(string, string, error) {}
func (nopRecorder) DegradedRead(string, string)        {}
func (nopRecorder) CacheLookup(bool)                   {}
