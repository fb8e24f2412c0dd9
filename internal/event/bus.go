package event

// Bus delivers events synchronously to subscribers in registration order.
// It is not safe for concurrent use; the battle core is driven from one goroutine.
type Bus struct {
	nextToken int
	handlers  []subscription
}

type subscription struct {
	token   int
	handler Handler
}

// Subscribe registers h and returns a function that removes it again.
// Calling the returned function more than once is harmless.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	if h == nil {
		return func() {}
	}
	b.nextToken++
	token := b.nextToken
	b.handlers = append(b.handlers, subscription{token: token, handler: h})

	return func() {
		for i, s := range b.handlers {
			if s.token == token {
				b.handlers = append(b.handlers[:i:i], b.handlers[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers e to every current subscriber before returning.
// Handlers added or removed during delivery take effect on the next Publish.
func (b *Bus) Publish(e Event) {
	handlers := b.handlers
	for _, s := range handlers {
		s.handler(e)
	}
}

// Recorder collects every event it sees. Useful for hosts that poll
// instead of reacting, and for tests.
type Recorder struct {
	Events []Event
}

// Record appends e. Pass r.Record to Subscribe.
func (r *Recorder) Record(e Event) {
	r.Events = append(r.Events, e)
}

// Count returns how many recorded events have the given kind.
func (r *Recorder) Count(k Kind) int {
	n := 0
	for _, e := range r.Events {
		if e.Kind == k {
			n++
		}
	}
	return n
}

// Kinds returns the kinds of all recorded events in order.
func (r *Recorder) Kinds() []Kind {
	kinds := make([]Kind, len(r.Events))
	for i, e := range r.Events {
		kinds[i] = e.Kind
	}
	return kinds
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.Events = r.Events[:0]
}
