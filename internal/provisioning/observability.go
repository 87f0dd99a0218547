package provisioning

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

// Observer defines the interface for structured observability during provisioning.
type Observer interface {
	// Printf logs a free-form progress line.
	Printf(format string, v ...interface{})

	// Event emits a structured event
	Event(event Event)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType         // Type of event
	Phase     string            // Phase name (e.g., "organization", "stack")
	Message   string            // Human-readable message
	Resource  string            // Resource name/ID if applicable
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventPhaseStarted indicates a provisioning phase has started.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted indicates a provisioning phase completed successfully.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseFailed indicates a provisioning phase failed.
	EventPhaseFailed EventType = "phase.failed"

	// EventResourceCreating indicates a resource is being created.
	EventResourceCreating EventType = "resource.creating"
	// EventResourceCreated indicates a resource was created successfully.
	EventResourceCreated EventType = "resource.created"
	// EventResourceExists indicates a resource already exists and is adopted.
	EventResourceExists EventType = "resource.exists"
	// EventResourceFailed indicates a tolerated resource failure.
	EventResourceFailed EventType = "resource.failed"
	// EventResourceStatus indicates an observed resource status change.
	EventResourceStatus EventType = "resource.status"

	// EventWaiting indicates a poll or retry is waiting before the next attempt.
	EventWaiting EventType = "waiting"

	// EventValidationWarning indicates a validation warning.
	EventValidationWarning EventType = "validation.warning"
	// EventValidationError indicates a validation error.
	EventValidationError EventType = "validation.error"
)

// ConsoleObserver implements Observer on top of a logr.Logger.
type ConsoleObserver struct {
	logger        logr.Logger
	contextFields map[string]string
}

// NewConsoleObserver creates an observer that writes through the standard log package.
func NewConsoleObserver() *ConsoleObserver {
	return NewLogrObserver(funcr.New(func(prefix, args string) {
		if prefix != "" {
			log.Printf("%s: %s", prefix, args)
			return
		}
		log.Print(args)
	}, funcr.Options{}))
}

// NewLogrObserver creates an observer backed by logger.
func NewLogrObserver(logger logr.Logger) *ConsoleObserver {
	return &ConsoleObserver{
		logger:        logger,
		contextFields: make(map[string]string),
	}
}

// Printf implements Observer.
func (o *ConsoleObserver) Printf(format string, v ...interface{}) {
	o.logger.Info(fmt.Sprintf(format, v...))
}

// Event implements Observer interface.
func (o *ConsoleObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	// Merge context fields
	if event.Fields == nil {
		event.Fields = make(map[string]string)
	}
	for k, v := range o.contextFields {
		if _, exists := event.Fields[k]; !exists {
			event.Fields[k] = v
		}
	}

	msg, kv := o.formatEvent(event)
	if event.Type == EventPhaseFailed || event.Type == EventValidationError {
		o.logger.Error(nil, msg, kv...)
		return
	}
	o.logger.Info(msg, kv...)
}

// WithFields implements Observer interface.
func (o *ConsoleObserver) WithFields(fields map[string]string) Observer {
	newFields := make(map[string]string)
	// Copy existing fields
	for k, v := range o.contextFields {
		newFields[k] = v
	}
	// Add new fields
	for k, v := range fields {
		newFields[k] = v
	}

	return &ConsoleObserver{
		logger:        o.logger,
		contextFields: newFields,
	}
}

// formatEvent splits an event into a log message and sorted key/value pairs.
func (o *ConsoleObserver) formatEvent(event Event) (string, []interface{}) {
	msg := event.Message
	if event.Phase != "" {
		msg = fmt.Sprintf("[%s] %s", event.Phase, msg)
	}

	kv := []interface{}{"event", string(event.Type)}
	if event.Resource != "" {
		kv = append(kv, "resource", event.Resource)
	}

	keys := make([]string, 0, len(event.Fields))
	for k := range event.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		kv = append(kv, k, event.Fields[k])
	}

	return msg, kv
}

// Helper functions for common events

// LogPhaseStart logs a phase start event.
func LogPhaseStart(observer Observer, phase string) {
	observer.Event(Event{
		Type:    EventPhaseStarted,
		Phase:   phase,
		Message: "starting",
	})
}

// LogPhaseComplete logs a phase completion event.
func LogPhaseComplete(observer Observer, phase string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventPhaseCompleted,
		Phase:   phase,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogPhaseFailed logs a phase failure event.
func LogPhaseFailed(observer Observer, phase string, err error) {
	observer.Event(Event{
		Type:    EventPhaseFailed,
		Phase:   phase,
		Message: fmt.Sprintf("failed: %v", err),
	})
}

// LogResourceCreating logs a resource creation start event.
func LogResourceCreating(observer Observer, phase, resourceType, resourceName string) {
	observer.Event(Event{
		Type:     EventResourceCreating,
		Phase:    phase,
		Resource: resourceName,
		Message:  fmt.Sprintf("creating %s", resourceType),
		Fields: map[string]string{
			"type": resourceType,
		},
	})
}

// LogResourceCreated logs a successful resource creation event.
func LogResourceCreated(observer Observer, phase, resourceType, resourceName, resourceID string) {
	observer.Event(Event{
		Type:     EventResourceCreated,
		Phase:    phase,
		Resource: resourceName,
		Message:  fmt.Sprintf("%s created", resourceType),
		Fields: map[string]string{
			"type": resourceType,
			"id":   resourceID,
		},
	})
}

// LogResourceExists logs when a resource already exists.
func LogResourceExists(observer Observer, phase, resourceType, resourceName, resourceID string) {
	fields := map[string]string{"type": resourceType}
	if resourceID != "" {
		fields["id"] = resourceID
	}
	observer.Event(Event{
		Type:     EventResourceExists,
		Phase:    phase,
		Resource: resourceName,
		Message:  fmt.Sprintf("%s already exists", resourceType),
		Fields:   fields,
	})
}

// LogResourceFailed logs a tolerated resource failure. The workflow continues.
func LogResourceFailed(observer Observer, phase, resourceType, resourceName string, err error) {
	observer.Event(Event{
		Type:     EventResourceFailed,
		Phase:    phase,
		Resource: resourceName,
		Message:  fmt.Sprintf("%s: %v", resourceType, err),
		Fields: map[string]string{
			"type": resourceType,
		},
	})
}

// LogResourceStatus logs an observed resource status.
func LogResourceStatus(observer Observer, phase, resourceName, status, reason string) {
	fields := map[string]string{"status": status}
	if reason != "" {
		fields["reason"] = reason
	}
	observer.Event(Event{
		Type:     EventResourceStatus,
		Phase:    phase,
		Resource: resourceName,
		Message:  status,
		Fields:   fields,
	})
}

// LogWaiting logs a wait before the next attempt of an operation.
func LogWaiting(observer Observer, phase, operation string, attempt int, d time.Duration) {
	observer.Event(Event{
		Type:    EventWaiting,
		Phase:   phase,
		Message: fmt.Sprintf("waiting %v for %s", d, operation),
		Fields: map[string]string{
			"attempt": fmt.Sprintf("%d", attempt),
		},
	})
}

// LogWarning logs a validation warning.
func LogWarning(observer Observer, phase, message string) {
	observer.Event(Event{
		Type:    EventValidationWarning,
		Phase:   phase,
		Message: message,
	})
}
