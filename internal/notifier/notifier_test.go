package notifier

import (
	"sync"
	"testing"
	"time"

	"auction-engine/internal/models"

	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	events []models.Event
}

func (r *recordingSink) Accept(ev models.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func event(auctionID string, typ models.EventType) models.Event {
	return models.Event{Type: typ, AuctionID: auctionID, Timestamp: time.Now()}
}

func TestNotifier_PublishReachesOnlyThatAuction(t *testing.T) {
	t.Parallel()

	n := New(4)
	a1 := n.Subscribe("a1")
	a1b := n.Subscribe("a1")
	a2 := n.Subscribe("a2")
	defer a1.Close()
	defer a1b.Close()
	defer a2.Close()

	n.Publish(event("a1", models.EventBidAccepted))

	require.Equal(t, models.EventBidAccepted, (<-a1.Events()).Type)
	require.Equal(t, models.EventBidAccepted, (<-a1b.Events()).Type)
	require.Len(t, a2.Events(), 0)
}

func TestNotifier_PreservesOrder(t *testing.T) {
	t.Parallel()

	n := New(8)
	sub := n.Subscribe("a1")
	defer sub.Close()

	types := []models.EventType{
		models.EventAuctionStarted,
		models.EventBidAccepted,
		models.EventTimerReset,
		models.EventLotFinalized,
		models.EventLotAdvanced,
		models.EventAuctionEnded,
	}
	for _, typ := range types {
		n.Publish(event("a1", typ))
	}
	for _, typ := range types {
		require.Equal(t, typ, (<-sub.Events()).Type)
	}
}

func TestNotifier_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	n := New(1)
	sub := n.Subscribe("a1")
	require.Equal(t, 1, n.Count("a1"))

	sub.Close()
	sub.Close()
	require.Equal(t, 0, n.Count("a1"))

	_, ok := <-sub.Events()
	require.False(t, ok)

	// publishing to an auction without subscribers is fine
	n.Publish(event("a1", models.EventBidAccepted))
}

func TestNotifier_SlowSubscriberIsDropped(t *testing.T) {
	t.Parallel()

	n := New(1)
	slow := n.Subscribe("a1")
	fast := n.Subscribe("a1")
	defer fast.Close()

	n.Publish(event("a1", models.EventBidAccepted))
	<-fast.Events()
	n.Publish(event("a1", models.EventTimerReset))

	require.Equal(t, 1, n.Count("a1"))

	ev, ok := <-slow.Events()
	require.True(t, ok, "buffered event is still delivered")
	require.Equal(t, models.EventBidAccepted, ev.Type)
	_, ok = <-slow.Events()
	require.False(t, ok)

	require.Equal(t, models.EventTimerReset, (<-fast.Events()).Type)
}

func TestNotifier_CloseAuction(t *testing.T) {
	t.Parallel()

	n := New(1)
	s1 := n.Subscribe("a1")
	s2 := n.Subscribe("a1")

	n.CloseAuction("a1")

	_, ok := <-s1.Events()
	require.False(t, ok)
	_, ok = <-s2.Events()
	require.False(t, ok)
	require.Equal(t, 0, n.Count("a1"))
	s1.Close()
}

func TestNotifier_Sinks(t *testing.T) {
	t.Parallel()

	first := &recordingSink{}
	second := &recordingSink{}
	n := New(1, first)
	n.AddSink(second)

	n.Publish(event("a1", models.EventLotFinalized))
	n.Publish(event("a2", models.EventLotFinalized))

	require.Len(t, first.events, 2)
	require.Len(t, second.events, 2)
}

func TestNotifier_ConcurrentSubscribers(t *testing.T) {
	t.Parallel()

	n := New(256)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub := n.Subscribe("a1")
			n.Publish(event("a1", models.EventBidAccepted))
			sub.Close()
		}()
	}
	wg.Wait()
	require.Equal(t, 0, n.Count("a1"))
}
