// Package bus is the CEL engine's topic plumbing: upstream producers
// publish typed Messages to their own Topic, a forwarder aggregates every
// topic CEL cares about into one, and a Router dispatches each aggregated
// message to exactly one handler by Kind. It is a much smaller stand-in
// for Asterisk's stasis message bus, sized to what CEL actually needs:
// synchronous, in-process fan-out with no queueing.
package bus

import "sync"

// Handler processes one Message. Handlers are expected to be fast and
// non-blocking (spec.md §5) — they run inline on the publisher's
// goroutine.
type Handler func(Message)

// Unsubscribe removes a previously registered subscription. Calling it
// more than once is a no-op.
type Unsubscribe func()

// Topic is a single publish point with zero or more subscribers.
type Topic struct {
	mu   sync.RWMutex
	subs map[int]Handler
	next int
}

// NewTopic creates an empty Topic.
func NewTopic() *Topic {
	return &Topic{subs: make(map[int]Handler)}
}

// Subscribe registers fn to be called for every Message subsequently
// published on t.
func (t *Topic) Subscribe(fn Handler) Unsubscribe {
	t.mu.Lock()
	id := t.next
	t.next++
	t.subs[id] = fn
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.subs, id)
			t.mu.Unlock()
		})
	}
}

// Publish delivers msg to every current subscriber, synchronously, on
// the calling goroutine. A snapshot of the subscriber set is taken under
// lock so a subscriber added or removed mid-publish cannot race the
// delivery loop.
func (t *Topic) Publish(msg Message) {
	t.mu.RLock()
	handlers := make([]Handler, 0, len(t.subs))
	for _, fn := range t.subs {
		handlers = append(handlers, fn)
	}
	t.mu.RUnlock()

	for _, fn := range handlers {
		fn(msg)
	}
}

// ForwardAll subscribes to src and republishes every message it sees on
// dst, unchanged. This is how the engine aggregates the channel, bridge,
// parking, and CEL-owned topics into a single topic the router consumes
// (spec.md §2's "a forwarder subscribes each upstream topic to a single
// aggregation topic").
func ForwardAll(src, dst *Topic) Unsubscribe {
	return src.Subscribe(func(msg Message) {
		dst.Publish(msg)
	})
}

// Router dispatches each message it receives to the handler registered
// for that message's Kind. It is meant to be wired as a single
// subscriber on the aggregation topic.
type Router struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRouter creates an empty Router.
func NewRouter() *Router {
	return &Router{handlers: make(map[string]Handler)}
}

// Add registers fn as the handler for the given message kind. Adding a
// second handler for the same kind replaces the first.
func (r *Router) Add(kind string, fn Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[kind] = fn
}

// Dispatch routes msg to its registered handler, if any. Messages whose
// kind has no registered handler are silently dropped — this is how the
// router behaves when a producer publishes a message type CEL does not
// care about.
func (r *Router) Dispatch(msg Message) {
	r.mu.RLock()
	fn, ok := r.handlers[msg.Kind()]
	r.mu.RUnlock()
	if ok {
		fn(msg)
	}
}
