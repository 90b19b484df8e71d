// Package api exposes a running translator.Translator's activity over
// HTTP and WebSocket: a REST endpoint to submit one REIL instruction for
// translation, and a WebSocket feed that broadcasts every assertion and
// memory-version bump as it happens, fanned out to however many clients
// are subscribed.
package api

import "sync"

// EventType identifies what kind of translation event a BroadcastEvent
// carries.
type EventType string

const (
	// EventAssertion: one instruction was translated; Data carries its
	// rendered assertions.
	EventAssertion EventType = "assertion"
	// EventMemoryVersion: a STM bumped the memory array to a new named
	// version.
	EventMemoryVersion EventType = "memory_version"
	// EventReset: the translator was reset to a fresh state.
	EventReset EventType = "reset"
)

// BroadcastEvent is one message sent to every matching subscriber.
type BroadcastEvent struct {
	Type      EventType              `json:"type"`
	SessionID string                 `json:"sessionId"`
	Data      map[string]interface{} `json:"data"`
}

// Subscription is a client's live feed of events, optionally filtered to
// one session ID and a set of event types.
type Subscription struct {
	SessionID  string
	EventTypes map[EventType]bool
	Channel    chan BroadcastEvent
}

// Broadcaster fans out BroadcastEvents to every matching Subscription. A
// single goroutine owns the subscription set so register/unregister/
// broadcast never race.
type Broadcaster struct {
	mu            sync.RWMutex
	subscriptions map[*Subscription]bool
	broadcast     chan BroadcastEvent
	register      chan *Subscription
	unregister    chan *Subscription
	done          chan struct{}
}

// NewBroadcaster starts a Broadcaster's event loop and returns it ready
// to accept subscriptions.
func NewBroadcaster() *Broadcaster {
	b := &Broadcaster{
		subscriptions: make(map[*Subscription]bool),
		broadcast:     make(chan BroadcastEvent, 256),
		register:      make(chan *Subscription),
		unregister:    make(chan *Subscription),
		done:          make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *Broadcaster) run() {
	for {
		select {
		case sub := <-b.register:
			b.mu.Lock()
			b.subscriptions[sub] = true
			b.mu.Unlock()

		case sub := <-b.unregister:
			b.mu.Lock()
			if b.subscriptions[sub] {
				delete(b.subscriptions, sub)
				close(sub.Channel)
			}
			b.mu.Unlock()

		case event := <-b.broadcast:
			b.mu.RLock()
			for sub := range b.subscriptions {
				if sub.SessionID != "" && sub.SessionID != event.SessionID {
					continue
				}
				if len(sub.EventTypes) > 0 && !sub.EventTypes[event.Type] {
					continue
				}
				select {
				case sub.Channel <- event:
				default:
					// Slow client: drop rather than block the broadcaster.
				}
			}
			b.mu.RUnlock()

		case <-b.done:
			b.mu.Lock()
			for sub := range b.subscriptions {
				close(sub.Channel)
			}
			b.subscriptions = make(map[*Subscription]bool)
			b.mu.Unlock()
			return
		}
	}
}

// Subscribe registers a new Subscription, optionally filtered by session
// and event type (empty filters match everything).
func (b *Broadcaster) Subscribe(sessionID string, eventTypes []EventType) *Subscription {
	set := make(map[EventType]bool, len(eventTypes))
	for _, et := range eventTypes {
		set[et] = true
	}
	sub := &Subscription{
		SessionID:  sessionID,
		EventTypes: set,
		Channel:    make(chan BroadcastEvent, 64),
	}
	b.register <- sub
	return sub
}

// Unsubscribe removes sub and closes its channel.
func (b *Broadcaster) Unsubscribe(sub *Subscription) {
	b.unregister <- sub
}

// Broadcast publishes event to every matching subscription. It never
// blocks: a full internal queue just drops the event.
func (b *Broadcaster) Broadcast(event BroadcastEvent) {
	select {
	case b.broadcast <- event:
	default:
	}
}

// BroadcastAssertions publishes the assertions produced by translating
// one instruction.
func (b *Broadcaster) BroadcastAssertions(sessionID string, index int, instruction string, assertions []string) {
	b.Broadcast(BroadcastEvent{
		Type:      EventAssertion,
		SessionID: sessionID,
		Data: map[string]interface{}{
			"index":       index,
			"instruction": instruction,
			"assertions":  assertions,
		},
	})
}

// BroadcastMemoryVersion publishes a memory-version bump from an STM.
func (b *Broadcaster) BroadcastMemoryVersion(sessionID, memoryName string) {
	b.Broadcast(BroadcastEvent{
		Type:      EventMemoryVersion,
		SessionID: sessionID,
		Data:      map[string]interface{}{"memory": memoryName},
	})
}

// BroadcastReset publishes a translator reset.
func (b *Broadcaster) BroadcastReset(sessionID string) {
	b.Broadcast(BroadcastEvent{Type: EventReset, SessionID: sessionID, Data: map[string]interface{}{}})
}

// Close stops the Broadcaster's event loop and closes every live
// subscription channel.
func (b *Broadcaster) Close() {
	close(b.done)
}

// SubscriptionCount reports the number of live subscriptions, mainly for
// tests and a /health endpoint.
func (b *Broadcaster) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscriptions)
}
