package testing

import (
	"fmt"
	"strings"
	"sync"

	"github.com/imamik/orgbaseline/internal/provisioning"
)

// RecordingObserver is a provisioning.Observer that records all output.
type RecordingObserver struct {
	mu       sync.Mutex
	events   []provisioning.Event
	messages []string
}

// NewRecordingObserver creates an empty RecordingObserver.
func NewRecordingObserver() *RecordingObserver {
	return &RecordingObserver{}
}

// Printf records the formatted message.
func (o *RecordingObserver) Printf(format string, v ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = append(o.messages, fmt.Sprintf(format, v...))
}

// Event records the event.
func (o *RecordingObserver) Event(event provisioning.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

// WithFields returns the same observer so that scoped output is recorded together.
func (o *RecordingObserver) WithFields(_ map[string]string) provisioning.Observer {
	return o
}

// Events returns all recorded events.
func (o *RecordingObserver) Events() []provisioning.Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]provisioning.Event(nil), o.events...)
}

// EventsOfType returns the recorded events of the given type.
func (o *RecordingObserver) EventsOfType(eventType provisioning.EventType) []provisioning.Event {
	var matched []provisioning.Event
	for _, e := range o.Events() {
		if e.Type == eventType {
			matched = append(matched, e)
		}
	}
	return matched
}

// HasMessage reports whether any event message or Printf line contains substr.
func (o *RecordingObserver) HasMessage(substr string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, e := range o.events {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	for _, m := range o.messages {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}
