package stack

import (
	"fmt"
	"strings"

	"github.com/imamik/orgbaseline/internal/platform/aws"
	"github.com/imamik/orgbaseline/internal/provisioning"
	"github.com/imamik/orgbaseline/internal/util/poll"
)

// isStackLevel reports whether ev describes the stack itself. Nested stacks
// share the stack resource type but carry their own logical ID.
func isStackLevel(ev aws.StackEvent) bool {
	return ev.ResourceType == aws.ResourceTypeStack && ev.LogicalResourceID == ev.StackName
}

// classifyEvents classifies the stack by its most recent event. Only events
// for the stack resource itself are terminal.
func classifyEvents(events []aws.StackEvent) poll.Status {
	if len(events) == 0 {
		return poll.Pending
	}
	latest := events[0]
	if !isStackLevel(latest) {
		return poll.Pending
	}
	switch latest.ResourceStatus {
	case aws.StatusCreateComplete:
		return poll.Succeeded
	case aws.StatusRollbackComplete, aws.StatusCreateFailed, aws.StatusRollbackFailed:
		return poll.Failed
	default:
		return poll.Pending
	}
}

// eventNarrator reports each stack event once, oldest first.
type eventNarrator struct {
	observer provisioning.Observer
	seen     map[string]bool
	failure  string
}

func newEventNarrator(observer provisioning.Observer) *eventNarrator {
	return &eventNarrator{observer: observer, seen: make(map[string]bool)}
}

func (n *eventNarrator) narrate(events []aws.StackEvent) {
	for i := len(events) - 1; i >= 0; i-- {
		ev := events[i]
		key := eventKey(ev)
		if n.seen[key] {
			continue
		}
		n.seen[key] = true

		provisioning.LogResourceStatus(n.observer, phase, ev.LogicalResourceID, ev.ResourceStatus, ev.StatusReason)
		if n.failure == "" && !isStackLevel(ev) && strings.HasSuffix(ev.ResourceStatus, "_FAILED") {
			n.failure = fmt.Sprintf("%s %s", ev.LogicalResourceID, ev.ResourceStatus)
			if ev.StatusReason != "" {
				n.failure += ": " + ev.StatusReason
			}
		}
	}
}

// firstFailure returns the first failed resource event seen, or "".
func (n *eventNarrator) firstFailure() string {
	return n.failure
}

func eventKey(ev aws.StackEvent) string {
	if ev.EventID != "" {
		return ev.EventID
	}
	return fmt.Sprintf("%s/%s/%s", ev.LogicalResourceID, ev.ResourceStatus, ev.Timestamp.Format("20060102T150405.000"))
}
