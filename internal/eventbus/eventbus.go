// Package eventbus implements the in-process typed publish/subscribe bus
// events travel over between tick dispatch, subsystems, and the command
// pipeline. Events within one subsystem fire in the order their source
// commands applied, and subscribers for a given event type are invoked
// in registration order, synchronously, on the publisher's goroutine.
// There is no background delivery queue, since the simulation is
// single-threaded at the publication level.
package eventbus

import "sync"

// Topic identifies an event type. Subsystems define their own Topic
// constants (e.g. province.OwnershipChangedEvent gets its own topic);
// the bus itself is payload-agnostic.
type Topic string

// Handler receives a published event payload.
type Handler func(event interface{})

// Token identifies a single subscription, returned by Subscribe so the
// caller can Unsubscribe it later.
type Token uint64

// Bus is the typed publish/subscribe event bus.
type Bus struct {
	mu          sync.Mutex
	subscribers map[Topic][]subscription
	nextToken   Token
}

type subscription struct {
	token   Token
	handler Handler
}

// New constructs an empty event bus.
func New() *Bus {
	return &Bus{subscribers: make(map[Topic][]subscription)}
}

// Subscribe registers handler for topic, invoked in registration order
// relative to other subscribers of the same topic. Returns a Token for
// later Unsubscribe.
func (b *Bus) Subscribe(topic Topic, handler Handler) Token {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextToken++
	token := b.nextToken
	b.subscribers[topic] = append(b.subscribers[topic], subscription{token: token, handler: handler})
	return token
}

// Unsubscribe removes a single subscription by token.
func (b *Bus) Unsubscribe(topic Topic, token Token) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subscribers[topic]
	for i, s := range subs {
		if s.token == token {
			b.subscribers[topic] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Publish synchronously invokes every subscriber of topic, in
// registration order, on the caller's goroutine.
func (b *Bus) Publish(topic Topic, event interface{}) {
	b.mu.Lock()
	subs := append([]subscription(nil), b.subscribers[topic]...)
	b.mu.Unlock()
	for _, s := range subs {
		s.handler(event)
	}
}

// Disposable is anything that can unregister itself.
type Disposable interface {
	Dispose()
}

type tokenDisposable struct {
	bus   *Bus
	topic Topic
	token Token
}

func (d tokenDisposable) Dispose() { d.bus.Unsubscribe(d.topic, d.token) }

// SubscribeDisposable is Subscribe, returning a Disposable instead of a
// raw Token, for callers that want to compose subscriptions into a
// CompositeDisposable.
func (b *Bus) SubscribeDisposable(topic Topic, handler Handler) Disposable {
	token := b.Subscribe(topic, handler)
	return tokenDisposable{bus: b, topic: topic, token: token}
}

// CompositeDisposable groups multiple subscriptions so a subsystem can
// tear all of them down with a single call, e.g. when a scenario
// reloads and re-subscribes fresh handlers.
type CompositeDisposable struct {
	items []Disposable
}

// Add appends a Disposable to the group.
func (c *CompositeDisposable) Add(d Disposable) {
	c.items = append(c.items, d)
}

// Dispose tears down every grouped subscription, in addition order.
func (c *CompositeDisposable) Dispose() {
	for _, d := range c.items {
		d.Dispose()
	}
	c.items = nil
}
