package main

import (
	"encoding/json"
	"sync"
	"testing"
)

type testEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func decodeEvent(t *testing.T, msg []byte) testEvent {
	t.Helper()
	var event testEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		t.Fatalf("incorrect json sent: %v", err)
	}
	return event
}

func decodeData[T any](t *testing.T, event testEvent) T {
	t.Helper()
	var data T
	if err := json.Unmarshal(event.Data, &data); err != nil {
		t.Fatalf("incorrect %v payload: %v", event.Type, err)
	}
	return data
}

// recorder is a Sender that keeps everything it is asked to deliver.
type recorder struct {
	lock sync.Mutex
	sent map[string][][]byte
}

func newRecorder() *recorder {
	return &recorder{sent: make(map[string][][]byte)}
}

func (r *recorder) Send(sessionID string, msg []byte) bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.sent[sessionID] = append(r.sent[sessionID], msg)
	return true
}

func (r *recorder) types(sessionID string) []string {
	r.lock.Lock()
	defer r.lock.Unlock()
	var types []string
	for _, msg := range r.sent[sessionID] {
		var event testEvent
		json.Unmarshal(msg, &event)
		types = append(types, event.Type)
	}
	return types
}

// drain returns every event already queued on out.
func drain(t *testing.T, out chan []byte) []testEvent {
	t.Helper()
	var events []testEvent
	for {
		select {
		case msg, more := <-out:
			if !more {
				return events
			}
			events = append(events, decodeEvent(t, msg))
		default:
			return events
		}
	}
}

func findEvent(events []testEvent, eventType string) (testEvent, bool) {
	for _, event := range events {
		if event.Type == eventType {
			return event, true
		}
	}
	return testEvent{}, false
}

func sequence(codes ...string) func() string {
	i := 0
	return func() string {
		code := codes[i%len(codes)]
		i++
		return code
	}
}
