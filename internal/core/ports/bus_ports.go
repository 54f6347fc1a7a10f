package ports

import "github.com/liveballot/elect/internal/core/domain"

// EventBus fans committed change events out to live observers. Publish is
// fire-and-forget: it must never block on slow observers. Subscribers see
// events in global publish order and only those published after they
// subscribed.
type EventBus interface {
	Publish(event domain.ChangeEvent)
	Subscribe() Subscription
}

type Subscription interface {
	Events() <-chan domain.ChangeEvent

	// Close unregisters the observer. Safe to call concurrently with Publish
	// and more than once.
	Close()
}
