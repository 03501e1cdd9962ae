package notify

import "sync"

// Published is one broadcast captured by a Recorder.
type Published struct {
	Topic   string
	Payload any
}

// Recorder is a Notifier that remembers every broadcast. Tests use it to
// assert on what a component published.
type Recorder struct {
	mu     sync.Mutex
	events []Published
}

func (r *Recorder) Publish(topic string, payload any) {
	r.mu.Lock()
	r.events = append(r.events, Published{Topic: topic, Payload: payload})
	r.mu.Unlock()
}

// Events returns a copy of the recorded broadcasts.
func (r *Recorder) Events() []Published {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Published(nil), r.events...)
}

// Count returns how many broadcasts were published on topic.
func (r *Recorder) Count(topic string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Topic == topic {
			n++
		}
	}
	return n
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
