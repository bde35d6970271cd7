package events

import (
	"time"

	"github.com/spec-kit/it-helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketResolved      EventType = "ticket_resolved"
)

// Event represents a domain event emitted by the lifecycle engine. The
// embedded ticket snapshot is what notification templates render from.
type Event struct {
	ID        string        `json:"id"`
	Type      EventType     `json:"type"`
	Ticket    domain.Ticket `json:"ticket"`
	Actor     string        `json:"actor,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}
