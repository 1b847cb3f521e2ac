// Package events provides the typed change-notification bus. The workflow
// publishes row-change events after durable writes; presentation layers
// subscribe and re-query full lists on any event. Delivery is best-effort and
// carries no correctness weight.
package events

import "sync"

type Op string

const (
	OpInsert Op = "INSERT"
	OpUpdate Op = "UPDATE"
)

const (
	TableRegistrations = "registration_requests"
	TableUsers         = "users"
	TableProfiles      = "user_profiles"
	TableApprovalLogs  = "approval_logs"
)

// Event describes a single row change.
type Event struct {
	Table string `json:"table"`
	Op    Op     `json:"op"`
	Row   any    `json:"row"`
}

type subscriber struct {
	ch    chan Event
	table string
	ops   map[Op]bool
}

func (s *subscriber) wants(e Event) bool {
	if s.table != "" && s.table != e.Table {
		return false
	}
	if len(s.ops) > 0 && !s.ops[e.Op] {
		return false
	}
	return true
}

// Bus fans events out to subscribers. Publish never blocks: a subscriber
// whose buffer is full misses the event, which is acceptable under the
// push-then-refetch model.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]*subscriber
	nextID int
	buffer int
}

func NewBus() *Bus {
	return &Bus{
		subs:   make(map[int]*subscriber),
		buffer: 16,
	}
}

// Subscribe registers interest in a table (empty string for all tables) and
// a set of operations (none for all operations). The returned cancel func
// must be called to release the subscription.
func (b *Bus) Subscribe(table string, ops ...Op) (<-chan Event, func()) {
	sub := &subscriber{
		ch:    make(chan Event, b.buffer),
		table: table,
		ops:   make(map[Op]bool, len(ops)),
	}
	for _, op := range ops {
		sub.ops[op] = true
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = sub
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if s, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(s.ch)
		}
		b.mu.Unlock()
	}
	return sub.ch, cancel
}

func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs {
		if !sub.wants(e) {
			continue
		}
		select {
		case sub.ch <- e:
		default:
		}
	}
}
