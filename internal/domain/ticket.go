package domain

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen   TicketStatus = "OPEN"
	TicketStatusClosed TicketStatus = "CLOSED"
)

// Unspecified is the user-facing placeholder for missing values.
const Unspecified = "Nicht angegeben"

// Appointment is one completed {date, time} pair in a ticket's history.
type Appointment struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// Ticket is the aggregate for one treatment request, bound 1:1 to a
// platform channel. The channel id is the registry key and is not part
// of the persisted data payload.
type Ticket struct {
	Department        string  `json:"department"`
	DepartmentMention string  `json:"departmentMention"`
	Reason            string  `json:"reason"`
	Subject           string  `json:"subject"`
	Phone             string  `json:"phone"`
	Notes             string  `json:"notes"`
	CreatedBy         *string `json:"createdBy,omitempty"`

	AssignedTo    *string `json:"assignedTo,omitempty"`
	AssigneeNames *string `json:"assigneeNames,omitempty"`
	CallAttempted bool    `json:"callAttempted"`

	AppointmentDate       *string       `json:"appointmentDate,omitempty"`
	AppointmentTime       *string       `json:"appointmentTime,omitempty"`
	AppointmentCompleted  bool          `json:"appointmentCompleted"`
	CompletedAppointments []Appointment `json:"completedAppointments"`

	CaseFileLink *string `json:"caseFileLink,omitempty"`
	FileIssued   bool    `json:"fileIssued"`
	Price        *int    `json:"price,omitempty"`

	Status            TicketStatus `json:"status"`
	JustReset         bool         `json:"justReset"`
	RenderedMessageID string       `json:"renderedMessageId,omitempty"`
}

// NewTicket creates an open ticket with the given identity fields.
func NewTicket(department, mention, reason, subject, phone, notes string) *Ticket {
	return &Ticket{
		Department:            department,
		DepartmentMention:     mention,
		Reason:                reason,
		Subject:               subject,
		Phone:                 phone,
		Notes:                 notes,
		Status:                TicketStatusOpen,
		CompletedAppointments: []Appointment{},
	}
}

// IsAutomatic reports whether the ticket's reason is a catalog key.
func (t *Ticket) IsAutomatic(catalog ReasonCatalog) bool {
	_, ok := catalog[t.Reason]
	return ok
}

// IsClosed reports whether the ticket is soft-terminated.
func (t *Ticket) IsClosed() bool {
	return t.Status == TicketStatusClosed
}

// HasPendingAppointment reports whether a not-yet-completed appointment is set.
func (t *Ticket) HasPendingAppointment() bool {
	return t.AppointmentDate != nil && t.AppointmentTime != nil && !t.AppointmentCompleted
}

// HasInteraction reports whether any agent interaction has touched the
// ticket. Gates the reset action: a fresh ticket has nothing to reset.
func (t *Ticket) HasInteraction() bool {
	return t.AssignedTo != nil ||
		t.AppointmentDate != nil ||
		t.AppointmentTime != nil ||
		len(t.CompletedAppointments) > 0 ||
		t.CaseFileLink != nil ||
		t.Price != nil
}

// Touch marks the ticket as interacted with since the last reset.
func (t *Ticket) Touch() {
	t.JustReset = false
}

// ScheduleAppointment sets the pending appointment slot, replacing any
// previous pending values.
func (t *Ticket) ScheduleAppointment(date, timeOfDay string) {
	t.AppointmentDate = &date
	t.AppointmentTime = &timeOfDay
	t.AppointmentCompleted = false
	t.Touch()
}

// ClearAppointment drops the pending appointment without recording it.
func (t *Ticket) ClearAppointment() {
	t.AppointmentDate = nil
	t.AppointmentTime = nil
	t.AppointmentCompleted = false
}

// CompleteAppointment moves the pending appointment into the append-only
// history. Returns false (no-op) when no appointment is pending.
func (t *Ticket) CompleteAppointment() bool {
	if t.AppointmentDate == nil || t.AppointmentTime == nil {
		return false
	}
	t.CompletedAppointments = append(t.CompletedAppointments, Appointment{
		Date: *t.AppointmentDate,
		Time: *t.AppointmentTime,
	})
	t.AppointmentDate = nil
	t.AppointmentTime = nil
	t.AppointmentCompleted = true
	t.Touch()
	return true
}

// Reset clears all agent interaction state. Identity fields, status and
// the rendered message reference are untouched.
func (t *Ticket) Reset() {
	t.AssignedTo = nil
	t.AssigneeNames = nil
	t.CallAttempted = false
	t.AppointmentDate = nil
	t.AppointmentTime = nil
	t.AppointmentCompleted = false
	t.CompletedAppointments = []Appointment{}
	t.CaseFileLink = nil
	t.FileIssued = false
	t.Price = nil
	t.JustReset = true
}

// Loggable reports whether the ticket carries enough data for a
// department summary log entry on close/delete.
func (t *Ticket) Loggable(dept Department) bool {
	if t.AssignedTo == nil || t.Reason == "" || t.CaseFileLink == nil {
		return false
	}
	if dept.RequiresPrice && t.Price == nil {
		return false
	}
	return true
}

// EffectivePrice returns the ticket price, falling back to the catalog
// default for automatic tickets.
func (t *Ticket) EffectivePrice(catalog ReasonCatalog) *int {
	if t.Price != nil {
		return t.Price
	}
	if info, ok := catalog[t.Reason]; ok {
		price := info.Price
		return &price
	}
	return nil
}

// Clone returns a deep copy, safe to hand out of the registry.
func (t *Ticket) Clone() *Ticket {
	clone := *t
	clone.CreatedBy = cloneString(t.CreatedBy)
	clone.AssignedTo = cloneString(t.AssignedTo)
	clone.AssigneeNames = cloneString(t.AssigneeNames)
	clone.AppointmentDate = cloneString(t.AppointmentDate)
	clone.AppointmentTime = cloneString(t.AppointmentTime)
	clone.CaseFileLink = cloneString(t.CaseFileLink)
	if t.Price != nil {
		price := *t.Price
		clone.Price = &price
	}
	clone.CompletedAppointments = append([]Appointment{}, t.CompletedAppointments...)
	return &clone
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
