// Package feed maintains a live subscription over the accident report
// collection. Every remote change rematerializes the full document set and
// delivers it wholesale to all subscribers; there is no incremental diffing.
package feed

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/roadwatch/accident-tracker-api/databases"
	"github.com/roadwatch/accident-tracker-api/models"
)

// Snapshot is the complete current set of accident reports at one point in
// time, in backend iteration order. Order is not contractually sorted.
type Snapshot []models.AccidentReport

// Feed fans snapshots out to subscribers. Watch or query errors are
// terminal for the feed: the run loop logs, closes every subscriber
// channel and returns, rather than stalling silently.
type Feed struct {
	reports databases.AccidentReportDatabase

	mu          sync.RWMutex
	subscribers map[uint64]chan Snapshot
	current     Snapshot
	closed      bool
	nextID      atomic.Uint64
}

// New returns a feed over the given report database. Run must be called
// for snapshots to flow.
func New(reports databases.AccidentReportDatabase) *Feed {
	return &Feed{
		reports:     reports,
		subscribers: make(map[uint64]chan Snapshot),
	}
}

// Run opens the change stream, delivers the initial snapshot, then
// rebuilds and redelivers the full snapshot on every change event until
// ctx is cancelled or the stream fails. It always closes the feed before
// returning.
func (f *Feed) Run(ctx context.Context) error {
	defer f.Close()

	stream, err := f.reports.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		zap.S().With(err).Error("failed to open report change stream")
		return err
	}
	defer stream.Close(context.Background())

	if err := f.refresh(ctx); err != nil {
		zap.S().With(err).Error("failed to materialize initial snapshot")
		return err
	}

	for stream.Next(ctx) {
		// the event itself is not inspected: the contract is a wholesale
		// rebuild of the current document set per change
		var event bson.M
		if err := stream.Decode(&event); err != nil {
			zap.S().With(err).Warn("failed to decode change event")
		}
		if err := f.refresh(ctx); err != nil {
			zap.S().With(err).Error("failed to rematerialize snapshot")
			return err
		}
	}

	if err := stream.Err(); err != nil && !errors.Is(err, context.Canceled) {
		zap.S().With(err).Error("report change stream terminated")
		return err
	}
	return nil
}

// refresh queries the full collection and broadcasts the result
func (f *Feed) refresh(ctx context.Context) error {
	reports, err := f.reports.Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	if reports == nil {
		reports = []models.AccidentReport{}
	}

	f.mu.Lock()
	f.current = reports
	for _, ch := range f.subscribers {
		select {
		case ch <- reports:
		default:
			// drop on slow subscribers; the next snapshot supersedes this
			// one anyway since deliveries are wholesale
		}
	}
	f.mu.Unlock()
	return nil
}

// Subscribe registers a new subscriber and returns its id and channel. The
// current snapshot, if any, is delivered immediately. The channel is closed
// on Unsubscribe or when the feed shuts down.
func (f *Feed) Subscribe() (uint64, <-chan Snapshot) {
	id := f.nextID.Add(1)
	ch := make(chan Snapshot, 8)

	f.mu.Lock()
	if f.closed {
		close(ch)
	} else {
		f.subscribers[id] = ch
		if f.current != nil {
			ch <- f.current
		}
	}
	f.mu.Unlock()

	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel. It is safe to
// call after the feed is closed, more than once, and with an unknown id; no
// snapshot is delivered after it returns.
func (f *Feed) Unsubscribe(id uint64) {
	f.mu.Lock()
	if ch, ok := f.subscribers[id]; ok {
		close(ch)
		delete(f.subscribers, id)
	}
	f.mu.Unlock()
}

// Current returns the most recently materialized snapshot
func (f *Feed) Current() Snapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.current
}

// SubscriberCount returns the number of live subscribers
func (f *Feed) SubscriberCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subscribers)
}

// Close closes every subscriber channel and rejects future subscriptions
func (f *Feed) Close() {
	f.mu.Lock()
	if !f.closed {
		f.closed = true
		for id, ch := range f.subscribers {
			close(ch)
			delete(f.subscribers, id)
		}
	}
	f.mu.Unlock()
}
