package events

import (
	"time"

	"github.com/DavidK2709/dcbot/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated   EventType = "ticket_created"
	EventTicketAssigned  EventType = "ticket_assigned"
	EventTicketScheduled EventType = "ticket_scheduled"
	EventAppointmentDone EventType = "appointment_completed"
	EventTicketClosed    EventType = "ticket_closed"
	EventTicketReopened  EventType = "ticket_reopened"
	EventTicketReset     EventType = "ticket_reset"
	EventTicketDeleted   EventType = "ticket_deleted"
)

// Event represents a domain event emitted by ticket handlers.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	ChannelID string         `json:"channel_id"`
	Actor     string         `json:"actor"`
	Timestamp time.Time      `json:"timestamp"`
	Ticket    *domain.Ticket `json:"ticket,omitempty"`
	Detail    string         `json:"detail,omitempty"`
}
