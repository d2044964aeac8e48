package display

// EventKind identifies a window lifecycle notification.
type EventKind int

const (
	EventCreated EventKind = iota
	EventMapped
	EventUnmapped
	EventDestroyed
	EventFocused
)

// String returns the string representation of the event kind
func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "created"
	case EventMapped:
		return "mapped"
	case EventUnmapped:
		return "unmapped"
	case EventDestroyed:
		return "destroyed"
	case EventFocused:
		return "focused"
	default:
		return "unknown"
	}
}

// Event is a lifecycle notification. Window stays valid after destruction
// for reading id, name and title.
type Event struct {
	Kind   EventKind
	Window *Window
}

type subscriber struct {
	id int
	fn func(Event)
}

// bus is an observer list with deferred delivery: events raised while a
// handler runs are queued and delivered after it returns.
type bus struct {
	subs        []subscriber
	nextSubID   int
	queue       []Event
	dispatching bool
}

func (b *bus) subscribe(fn func(Event)) func() {
	b.nextSubID++
	id := b.nextSubID
	b.subs = append(b.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

func (b *bus) publish(ev Event) {
	b.queue = append(b.queue, ev)
	if b.dispatching {
		return
	}
	b.dispatching = true
	defer func() { b.dispatching = false }()

	for len(b.queue) > 0 {
		next := b.queue[0]
		b.queue = b.queue[1:]
		// Snapshot so handlers may unsubscribe while being called.
		subs := append([]subscriber(nil), b.subs...)
		for _, s := range subs {
			s.fn(next)
		}
	}
}
