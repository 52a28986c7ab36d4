package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() ReasonCatalog {
	return ReasonCatalog{
		"ticket_arbeitsmedizinisches_pol": {
			InternalKey: "gutachten-polizei-patient",
			DisplayName: "Arbeitsmedizinisches Gutachten Polizeibewerber",
			Price:       5000,
		},
	}
}

func TestNewTicketDefaults(t *testing.T) {
	ticket := NewTicket("Station", "<@&1>", "Husten", "Jane Doe", "0152", "")

	assert.Equal(t, TicketStatusOpen, ticket.Status)
	assert.False(t, ticket.IsClosed())
	assert.False(t, ticket.HasInteraction())
	assert.NotNil(t, ticket.CompletedAppointments)
	assert.Empty(t, ticket.CompletedAppointments)
}

func TestIsAutomatic(t *testing.T) {
	catalog := testCatalog()

	auto := NewTicket("Arbeitsmedizin", "<@&1>", "ticket_arbeitsmedizinisches_pol", "Jane", "", "")
	manual := NewTicket("Station", "<@&1>", "Husten", "Jane", "", "")

	assert.True(t, auto.IsAutomatic(catalog))
	assert.False(t, manual.IsAutomatic(catalog))
}

func TestAppointmentLifecycle(t *testing.T) {
	ticket := NewTicket("Station", "<@&1>", "Husten", "Jane", "", "")

	assert.False(t, ticket.CompleteAppointment(), "no pending appointment to complete")

	ticket.ScheduleAppointment("31.05.2025", "18:00")
	require.True(t, ticket.HasPendingAppointment())

	require.True(t, ticket.CompleteAppointment())
	assert.False(t, ticket.HasPendingAppointment())
	assert.True(t, ticket.AppointmentCompleted)
	require.Len(t, ticket.CompletedAppointments, 1)
	assert.Equal(t, Appointment{Date: "31.05.2025", Time: "18:00"}, ticket.CompletedAppointments[0])

	// A new appointment reopens the pending slot without touching history.
	ticket.ScheduleAppointment("01.06.2025", "10:00")
	assert.True(t, ticket.HasPendingAppointment())
	assert.False(t, ticket.AppointmentCompleted)
	require.True(t, ticket.CompleteAppointment())
	assert.Len(t, ticket.CompletedAppointments, 2)
}

func TestResetClearsInteractionState(t *testing.T) {
	ticket := NewTicket("Station", "<@&1>", "Husten", "Jane", "0152", "Notiz")
	assigned := "<@42>"
	link := "https://avps.example/akte/1"
	price := 300
	ticket.AssignedTo = &assigned
	ticket.AssigneeNames = &assigned
	ticket.CallAttempted = true
	ticket.ScheduleAppointment("31.05.2025", "18:00")
	ticket.CompleteAppointment()
	ticket.CaseFileLink = &link
	ticket.FileIssued = true
	ticket.Price = &price
	ticket.RenderedMessageID = "msg-1"

	ticket.Reset()

	assert.Nil(t, ticket.AssignedTo)
	assert.Nil(t, ticket.AssigneeNames)
	assert.False(t, ticket.CallAttempted)
	assert.Nil(t, ticket.AppointmentDate)
	assert.Nil(t, ticket.AppointmentTime)
	assert.False(t, ticket.AppointmentCompleted)
	assert.Empty(t, ticket.CompletedAppointments)
	assert.Nil(t, ticket.CaseFileLink)
	assert.False(t, ticket.FileIssued)
	assert.Nil(t, ticket.Price)
	assert.True(t, ticket.JustReset)

	// Identity and render reference survive.
	assert.Equal(t, "Jane", ticket.Subject)
	assert.Equal(t, "msg-1", ticket.RenderedMessageID)
	assert.False(t, ticket.HasInteraction())

	ticket.ScheduleAppointment("01.06.2025", "10:00")
	assert.False(t, ticket.JustReset, "any mutation clears the just-reset marker")
}

func TestLoggable(t *testing.T) {
	dept := Department{Name: "Station", RequiresPrice: true}
	assigned := "<@42>"
	link := "https://avps.example/akte/1"
	price := 300

	ticket := NewTicket("Station", "<@&1>", "Husten", "Jane", "", "")
	assert.False(t, ticket.Loggable(dept))

	ticket.AssignedTo = &assigned
	ticket.CaseFileLink = &link
	assert.False(t, ticket.Loggable(dept), "price still missing")

	ticket.Price = &price
	assert.True(t, ticket.Loggable(dept))

	noPriceDept := Department{Name: "Psychologie"}
	ticket.Price = nil
	assert.True(t, ticket.Loggable(noPriceDept))
}

func TestEffectivePrice(t *testing.T) {
	catalog := testCatalog()

	auto := NewTicket("Arbeitsmedizin", "<@&1>", "ticket_arbeitsmedizinisches_pol", "Jane", "", "")
	require.NotNil(t, auto.EffectivePrice(catalog))
	assert.Equal(t, 5000, *auto.EffectivePrice(catalog))

	override := 750
	auto.Price = &override
	assert.Equal(t, 750, *auto.EffectivePrice(catalog))

	manual := NewTicket("Station", "<@&1>", "Husten", "Jane", "", "")
	assert.Nil(t, manual.EffectivePrice(catalog))
}

func TestCloneIsDeep(t *testing.T) {
	ticket := NewTicket("Station", "<@&1>", "Husten", "Jane", "", "")
	assigned := "<@42>"
	ticket.AssignedTo = &assigned
	ticket.ScheduleAppointment("31.05.2025", "18:00")

	clone := ticket.Clone()
	*clone.AssignedTo = "<@99>"
	clone.CompletedAppointments = append(clone.CompletedAppointments, Appointment{Date: "x", Time: "y"})

	assert.Equal(t, "<@42>", *ticket.AssignedTo)
	assert.Empty(t, ticket.CompletedAppointments)
}

func TestAllowedWhenClosed(t *testing.T) {
	assert.True(t, ActionReopen.AllowedWhenClosed())
	assert.True(t, ActionDelete.AllowedWhenClosed())
	assert.True(t, ActionConfirmDelete.AllowedWhenClosed())
	assert.False(t, ActionClose.AllowedWhenClosed())
	assert.False(t, ActionAssignSubmit.AllowedWhenClosed())
	assert.False(t, ActionReset.AllowedWhenClosed())
}
