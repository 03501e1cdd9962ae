package server

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// frame is one server-sent event.
type frame struct {
	topic string
	data  []byte
}

// updateBroker fans bus broadcasts out to connected stream clients. Slow
// clients drop frames rather than block the publisher.
type updateBroker struct {
	logger *zap.Logger

	mu   sync.Mutex
	subs map[chan frame]struct{}
}

func newUpdateBroker(logger *zap.Logger) *updateBroker {
	return &updateBroker{logger: logger, subs: make(map[chan frame]struct{})}
}

func (b *updateBroker) subscribe() chan frame {
	ch := make(chan frame, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *updateBroker) unsubscribe(ch chan frame) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
}

func (b *updateBroker) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// publish is a notify.Handler.
func (b *updateBroker) publish(topic string, payload any) {
	data := []byte("{}")
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			b.logger.Warn("dropping unencodable broadcast", zap.String("topic", topic), zap.Error(err))
			return
		}
		data = encoded
	}

	f := frame{topic: topic, data: data}
	b.mu.Lock()
	for ch := range b.subs {
		select {
		case ch <- f:
		default:
		}
	}
	b.mu.Unlock()
}
