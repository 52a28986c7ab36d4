package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/DavidK2709/dcbot/internal/domain"
	"github.com/DavidK2709/dcbot/internal/events"
	"github.com/DavidK2709/dcbot/internal/platform"
	"github.com/DavidK2709/dcbot/pkg/util"
)

const dateLayout = "02.01.2006"

func handleScheduleSubmit(ctx context.Context, env *Env, inter *platform.Interaction, ticket *domain.Ticket) error {
	now := env.Now().In(env.Location)

	date := strings.TrimSpace(inter.Values["datum"])
	if date == "" {
		date = now.Format(dateLayout)
	} else if _, err := time.ParseInLocation(dateLayout, date, env.Location); err != nil {
		return util.NewValidationError("Ungültiges Datum, bitte TT.MM.JJJJ verwenden.",
			map[string]any{"datum": date})
	}

	timeOfDay := strings.TrimSpace(inter.Values["uhrzeit"])
	if timeOfDay == "" {
		timeOfDay = now.Add(env.DefaultOffset).Format("15:04")
	}

	ticket.ScheduleAppointment(date, timeOfDay)
	env.applied(ctx, inter, ticket, "hat einen Termin am "+date+" um "+timeOfDay+" festgelegt.")
	env.publish(ctx, events.EventTicketScheduled, inter, ticket, date+" "+timeOfDay)
	return env.ack(ctx, inter, "Termin festgelegt: "+date+" um "+timeOfDay)
}

func handleNoShow(ctx context.Context, env *Env, inter *platform.Interaction, ticket *domain.Ticket) error {
	if !ticket.HasPendingAppointment() {
		return util.NewValidationError("Kein offener Termin vorhanden.", nil)
	}
	ticket.ClearAppointment()
	ticket.Touch()
	env.applied(ctx, inter, ticket, "hat vermerkt, dass der Patient nicht erschienen ist.")
	return env.ack(ctx, inter, "Termin entfernt.")
}

func handleAppointmentDone(ctx context.Context, env *Env, inter *platform.Interaction, ticket *domain.Ticket) error {
	if !ticket.CompleteAppointment() {
		return env.ack(ctx, inter, "Kein offener Termin vorhanden.")
	}
	env.applied(ctx, inter, ticket, "hat den Termin als erledigt markiert.")
	env.publish(ctx, events.EventAppointmentDone, inter, ticket, "")
	return env.ack(ctx, inter, "Termin erledigt.")
}
