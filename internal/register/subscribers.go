package register

import "sync"

// Listener receives a CheckEvent for every accepted operation.
type Listener func(CheckEvent)

type subscription struct {
	id SubscriptionID
	fn Listener
}

// listeners is the registered-listener collection. Order is registration
// order and survives removals.
type listeners struct {
	mu   sync.Mutex
	subs []subscription
}

func (l *listeners) add(id SubscriptionID, fn Listener) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subs = append(l.subs, subscription{id: id, fn: fn})
}

// remove drops id and reports whether it was registered.
func (l *listeners) remove(id SubscriptionID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, s := range l.subs {
		if s.id == id {
			l.subs = append(l.subs[:i:i], l.subs[i+1:]...)
			return true
		}
	}
	return false
}

func (l *listeners) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.subs)
}

// notify calls every listener registered when notify starts. A listener
// removed after that still receives this event; it receives no later ones.
func (l *listeners) notify(ev CheckEvent) {
	l.mu.Lock()
	snapshot := make([]subscription, len(l.subs))
	copy(snapshot, l.subs)
	l.mu.Unlock()

	for _, s := range snapshot {
		s.fn(ev)
	}
}
