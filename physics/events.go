package physics

// ContactKind identifies what a body hit.
type ContactKind uint8

const (
	ContactBody ContactKind = iota
	ContactWall
)

// CollisionEvent is emitted for body-body and body-wall impacts above the
// event threshold.
type CollisionEvent struct {
	Kind     ContactKind
	Radius   float64
	Strength float64
	// X is the horizontal contact position normalized to 0..1 over the canvas.
	X   float64
	Key uint64
}

// EventSink consumes collision events, typically to trigger sounds.
type EventSink interface {
	OnCollision(ev CollisionEvent)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(ev CollisionEvent)

func (f EventSinkFunc) OnCollision(ev CollisionEvent) {
	f(ev)
}

// PairKey builds a debounce key that is identical for (a,b) and (b,a).
func PairKey(a, b BodyID) uint64 {
	if a > b {
		a, b = b, a
	}
	return uint64(a)<<32 | uint64(b)
}

// WallKey builds the debounce key for a body hitting an edge.
func WallKey(id BodyID, edge Edge) uint64 {
	return 1<<63 | uint64(edge)<<32 | uint64(id)
}

// EventQueue collects one tick's events, dropping duplicate keys, and hands
// them to a sink on Flush.
type EventQueue struct {
	items []CollisionEvent
	seen  map[uint64]struct{}
}

// Push adds an event unless its key was already pushed this tick.
func (q *EventQueue) Push(ev CollisionEvent) bool {
	if q == nil {
		return false
	}
	if q.seen == nil {
		q.seen = make(map[uint64]struct{})
	}
	if _, dup := q.seen[ev.Key]; dup {
		return false
	}
	q.seen[ev.Key] = struct{}{}
	q.items = append(q.items, ev)
	return true
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Flush delivers queued events to sink (which may be nil) and resets the queue.
func (q *EventQueue) Flush(sink EventSink) {
	if q == nil {
		return
	}
	if sink != nil {
		for _, ev := range q.items {
			sink.OnCollision(ev)
		}
	}
	q.Discard()
}

// Discard drops queued events without delivering them.
func (q *EventQueue) Discard() {
	if q == nil {
		return
	}
	q.items = q.items[:0]
	clear(q.seen)
}
