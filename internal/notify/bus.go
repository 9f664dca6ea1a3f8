// Package notify carries change signals between the write path and anything
// holding derived state. Delivery is best-effort and in-process: a slow
// subscriber drops signals rather than blocking a write.
package notify

import (
	"sync"
)

type Topic string

const (
	TopicRoundsChanged   Topic = "rounds.changed"
	TopicPracticeChanged Topic = "practice.changed"
)

type subscriber struct {
	topic Topic
	ch    chan Topic
}

type Bus struct {
	mu          sync.Mutex
	subscribers map[*subscriber]bool
}

func NewBus() *Bus {
	return &Bus{
		subscribers: map[*subscriber]bool{},
	}
}

// Subscribe returns a channel receiving the topic on every publish, and a
// cancel func releasing the subscription. The channel is buffered: a
// subscriber that has not drained a pending signal coalesces further ones.
func (b *Bus) Subscribe(topic Topic) (<-chan Topic, func()) {
	sub := &subscriber{
		topic: topic,
		ch:    make(chan Topic, 1),
	}

	b.mu.Lock()
	b.subscribers[sub] = true
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		delete(b.subscribers, sub)
		b.mu.Unlock()
	}
	return sub.ch, cancel
}

// Publish signals every subscriber of the topic without blocking.
func (b *Bus) Publish(topic Topic) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subscribers {
		if sub.topic != topic {
			continue
		}
		select {
		case sub.ch <- topic:
		default:
			// Subscriber already has a pending signal
		}
	}
}
