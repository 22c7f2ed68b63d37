package observer

import (
	"sync"

	"github.com/cuemby/warren/pkg/types"
)

// Subscriber is a channel that receives observer events.
type Subscriber chan *types.ObserverEvent

// Broker fans committed transaction events out to subscribers. Events are
// delivered asynchronously relative to the mutation call site (spec §5)
// but a single internal queue drained by one goroutine guarantees commit
// order is preserved end to end, across however many subscribers attach.
type Broker struct {
	subscribers map[Subscriber]bool
	mu          sync.RWMutex
	eventCh     chan *types.ObserverEvent
	stopCh      chan struct{}
}

// NewBroker creates a broker with a 100-event internal queue.
func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[Subscriber]bool),
		eventCh:     make(chan *types.ObserverEvent, 100),
		stopCh:      make(chan struct{}),
	}
}

// Start begins the broker's delivery loop in its own goroutine.
func (b *Broker) Start() {
	go b.run()
}

// Stop halts delivery. Subscribers are not individually closed; callers
// that want a clean shutdown should Unsubscribe first.
func (b *Broker) Stop() {
	close(b.stopCh)
}

// Subscribe registers a new subscriber with a 50-event buffer and returns
// its channel.
func (b *Broker) Subscribe() Subscriber {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := make(Subscriber, 50)
	b.subscribers[sub] = true
	return sub
}

// Unsubscribe removes and closes sub.
func (b *Broker) Unsubscribe(sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.subscribers, sub)
	close(sub)
}

// Publish queues event for asynchronous delivery. The store calls this
// exactly once per committed transaction whose change set is non-empty,
// per spec §4.9.
func (b *Broker) Publish(event *types.ObserverEvent) {
	select {
	case b.eventCh <- event:
	case <-b.stopCh:
	}
}

func (b *Broker) run() {
	for {
		select {
		case event := <-b.eventCh:
			b.broadcast(event)
		case <-b.stopCh:
			return
		}
	}
}

func (b *Broker) broadcast(event *types.ObserverEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber buffer full; drop rather than block the
			// broker's single delivery loop and stall every other
			// subscriber's commit order behind a slow reader.
		}
	}
}

// SubscriberCount returns the number of currently attached subscribers.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
