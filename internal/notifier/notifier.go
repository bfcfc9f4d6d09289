// Package notifier fans auction events out to connected subscribers.
package notifier

import (
	"sync"

	"auction-engine/internal/metrics"
	"auction-engine/internal/models"
	"auction-engine/utils"
)

// DefaultBuffer is the per-subscriber event buffer
const DefaultBuffer = 64

// Sink receives every published event, regardless of auction. It must not block.
type Sink interface {
	Accept(ev models.Event)
}

// Subscription is one connected client's event stream
type Subscription struct {
	ID        uint64
	AuctionID string

	ch     chan models.Event
	n      *Notifier
	closed bool // guarded by n.mu
}

// Events is closed when the subscription ends, either by Close, by auction
// deletion or because the subscriber fell too far behind.
func (s *Subscription) Events() <-chan models.Event {
	return s.ch
}

// Close unsubscribes; safe to call more than once
func (s *Subscription) Close() {
	s.n.unsubscribe(s)
}

// Notifier is a concurrency-safe per-auction pub/sub
type Notifier struct {
	mu     sync.Mutex
	subs   map[string]map[uint64]*Subscription
	nextID uint64
	buffer int
	sinks  []Sink
}

// New creates a notifier; buffer <= 0 uses DefaultBuffer
func New(buffer int, sinks ...Sink) *Notifier {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Notifier{
		subs:   make(map[string]map[uint64]*Subscription),
		buffer: buffer,
		sinks:  sinks,
	}
}

// AddSink registers an additional sink
func (n *Notifier) AddSink(s Sink) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sinks = append(n.sinks, s)
}

// Subscribe opens a stream of events for auctionID
func (n *Notifier) Subscribe(auctionID string) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	sub := &Subscription{
		ID:        n.nextID,
		AuctionID: auctionID,
		ch:        make(chan models.Event, n.buffer),
		n:         n,
	}
	if n.subs[auctionID] == nil {
		n.subs[auctionID] = make(map[uint64]*Subscription)
	}
	n.subs[auctionID][sub.ID] = sub
	metrics.Subscribers.Inc()
	return sub
}

// Publish delivers ev to every subscriber of its auction without blocking.
// A subscriber whose buffer is full is disconnected; it must re-fetch state.
func (n *Notifier) Publish(ev models.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, sink := range n.sinks {
		sink.Accept(ev)
	}

	for _, sub := range n.subs[ev.AuctionID] {
		select {
		case sub.ch <- ev:
		default:
			utils.Warn("notifier: dropping slow subscriber", map[string]any{
				"auction_id":      ev.AuctionID,
				"subscription_id": sub.ID,
			})
			metrics.SubscribersDropped.Inc()
			n.removeLocked(sub)
		}
	}
}

// CloseAuction ends every subscription of auctionID
func (n *Notifier) CloseAuction(auctionID string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, sub := range n.subs[auctionID] {
		n.removeLocked(sub)
	}
}

// Count returns the number of live subscriptions for auctionID
func (n *Notifier) Count(auctionID string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs[auctionID])
}

func (n *Notifier) unsubscribe(sub *Subscription) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.removeLocked(sub)
}

func (n *Notifier) removeLocked(sub *Subscription) {
	if sub.closed {
		return
	}
	sub.closed = true
	close(sub.ch)
	metrics.Subscribers.Dec()

	subs := n.subs[sub.AuctionID]
	delete(subs, sub.ID)
	if len(subs) == 0 {
		delete(n.subs, sub.AuctionID)
	}
}
