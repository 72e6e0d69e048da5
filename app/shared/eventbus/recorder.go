package eventbus

import (
	"context"
	"sync"
)

// Recorded is one call captured by Recorder.
type Recorded struct {
	Topic   string
	Payload any
}

// Recorder is a Publisher that keeps every publication in memory. PublishErr,
// when set, is returned instead of recording.
type Recorder struct {
	mu         sync.Mutex
	events     []Recorded
	PublishErr error
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(_ context.Context, topic string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.PublishErr != nil {
		return r.PublishErr
	}
	r.events = append(r.events, Recorded{Topic: topic, Payload: payload})
	return nil
}

// Events returns a copy of the recorded publications.
func (r *Recorder) Events() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Recorded, len(r.events))
	copy(out, r.events)
	return out
}

// Topics returns the recorded topics in publication order.
func (r *Recorder) Topics() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Topic
	}
	return out
}

var _ Publisher = (*Recorder)(nil)
