package models

import "fmt"

type EventStatus string

const (
	StatusPending  EventStatus = "Pending"
	StatusApproved EventStatus = "Approved"
	StatusRejected EventStatus = "Rejected"
)

// eventTransitions lists the moderation moves an admin may make.
// Approved and Rejected have no outgoing edges.
var eventTransitions = map[EventStatus][]EventStatus{
	StatusPending: {StatusApproved, StatusRejected},
}

func ParseEventStatus(s string) (EventStatus, error) {
	switch status := EventStatus(s); status {
	case StatusPending, StatusApproved, StatusRejected:
		return status, nil
	}
	return "", fmt.Errorf("unknown event status %q", s)
}

// CanTransition reports whether an event in status from may be moved to to.
// Re-applying the current status is allowed so moderation calls are idempotent.
func (from EventStatus) CanTransition(to EventStatus) bool {
	if from == to {
		return true
	}
	for _, next := range eventTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
