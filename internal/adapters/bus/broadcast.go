package bus

import (
	"sync"
	"time"

	"github.com/liveballot/elect/internal/core/domain"
	"github.com/liveballot/elect/internal/core/ports"
)

const minBuffer = 8

// Broadcast is an in-process fan-out of committed change events. Publish
// never blocks: every registered observer has a bounded buffer, and when an
// observer falls behind the oldest buffered event is dropped and a single
// Resync event is injected so the observer knows to refetch state.
//
// All subscribers connected at publish time see events in the same order,
// because publication to every buffer happens under one mutex.
type Broadcast struct {
	mu     sync.Mutex
	subs   map[*subscription]struct{}
	buffer int
}

func NewBroadcast(buffer int) *Broadcast {
	if buffer < minBuffer {
		buffer = minBuffer
	}
	return &Broadcast{
		subs:   make(map[*subscription]struct{}),
		buffer: buffer,
	}
}

func (b *Broadcast) Subscribe() ports.Subscription {
	sub := &subscription{
		bus:    b,
		events: make(chan domain.ChangeEvent, b.buffer),
	}
	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

func (b *Broadcast) Publish(event domain.ChangeEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs {
		sub.offer(event)
	}
}

func (b *Broadcast) remove(sub *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[sub]; !ok {
		return
	}
	delete(b.subs, sub)
	// Publishers send only while holding b.mu and only to registered
	// subscribers, so closing here cannot race a send.
	close(sub.events)
}

type subscription struct {
	bus    *Broadcast
	events chan domain.ChangeEvent
	closed sync.Once

	// lagged is set while the observer is behind; guarded by bus.mu.
	lagged bool
}

func (s *subscription) Events() <-chan domain.ChangeEvent {
	return s.events
}

func (s *subscription) Close() {
	s.closed.Do(func() {
		s.bus.remove(s)
	})
}

// offer enqueues without ever blocking the publisher. Called under bus.mu.
func (s *subscription) offer(event domain.ChangeEvent) {
	for {
		select {
		case s.events <- event:
			// The lag episode ends only once the observer has drained the
			// buffer; until then further overflows add no extra resyncs.
			if s.lagged && len(s.events) <= 1 {
				s.lagged = false
			}
			return
		default:
		}

		needResync := !s.lagged
		s.lagged = true

		// Buffer full: drop the oldest event. The consumer may race this
		// receive; either way one slot frees up. A dropped resync marker is
		// re-queued so the observer never misses the signal.
		select {
		case dropped := <-s.events:
			if dropped.Kind == domain.EventResync {
				needResync = true
			}
		default:
		}

		if needResync {
			select {
			case s.events <- domain.ChangeEvent{Kind: domain.EventResync, OccurredAt: time.Now()}:
			default:
			}
		}
	}
}
