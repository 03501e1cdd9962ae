// Package notify carries fire-and-forget broadcasts between dashboard widgets.
package notify

import (
	"sync"
)

// Topics published by the dashboard.
const (
	// TopicDashboardUpdate tells widgets to re-read the store. It has no payload.
	TopicDashboardUpdate = "dashboard-update"

	// TopicTimerSet reconfigures the pomodoro countdown. Payload is TimerSet.
	TopicTimerSet = "timer-set"
)

// TimerSet is the payload of TopicTimerSet.
type TimerSet struct {
	Minutes int `json:"minutes"`
}

// Notifier publishes a broadcast. Publishing never fails and never waits for
// an acknowledgment.
type Notifier interface {
	Publish(topic string, payload any)
}

// Handler receives a broadcast.
type Handler func(topic string, payload any)

type subscription struct {
	id      uint64
	topic   string
	handler Handler
}

// Bus delivers each broadcast synchronously, inside Publish, to every
// handler subscribed to its topic in subscription order. An empty topic
// subscribes to every topic.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscription
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers handler for topic and returns a function that removes it.
func (b *Bus) Subscribe(topic string, handler Handler) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, topic: topic, handler: handler})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish implements Notifier.
func (b *Bus) Publish(topic string, payload any) {
	b.mu.RLock()
	targets := make([]Handler, 0, len(b.subs))
	for _, s := range b.subs {
		if s.topic == "" || s.topic == topic {
			targets = append(targets, s.handler)
		}
	}
	b.mu.RUnlock()

	// Handlers run outside the lock so they may subscribe or publish.
	for _, h := range targets {
		h(topic, payload)
	}
}

// Nop discards every broadcast.
type Nop struct{}

func (Nop) Publish(string, any) {}
