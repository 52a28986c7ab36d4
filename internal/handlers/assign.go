package handlers

import (
	"context"
	"strings"

	"github.com/DavidK2709/dcbot/internal/domain"
	"github.com/DavidK2709/dcbot/internal/events"
	"github.com/DavidK2709/dcbot/internal/platform"
	"github.com/DavidK2709/dcbot/pkg/util"
)

func handleCallAttempt(ctx context.Context, env *Env, inter *platform.Interaction, ticket *domain.Ticket) error {
	ticket.CallAttempted = true
	ticket.Touch()
	env.applied(ctx, inter, ticket, "hat versucht den Patienten anzurufen.")
	return env.ack(ctx, inter, "Anrufversuch vermerkt.")
}

func handleAssignSubmit(ctx context.Context, env *Env, inter *platform.Interaction, ticket *domain.Ticket) error {
	raw := strings.TrimSpace(inter.Values["mitarbeiter"])
	if raw == "" {
		return util.NewValidationError("Kein Mitarbeiter angegeben.", nil)
	}

	resolved := env.Directory.ResolveAll(ctx, raw)
	mentions := make([]string, 0, len(resolved))
	nicknames := make([]string, 0, len(resolved))
	for _, r := range resolved {
		mentions = append(mentions, r.Mention)
		nicknames = append(nicknames, r.Nickname)
	}

	assigned := strings.Join(mentions, "\n")
	names := strings.Join(nicknames, "\n")
	ticket.AssignedTo = &assigned
	ticket.AssigneeNames = &names
	ticket.Touch()

	env.applied(ctx, inter, ticket, "hat das Ticket an "+strings.Join(nicknames, ", ")+" vergeben.")
	env.publish(ctx, events.EventTicketAssigned, inter, ticket, names)
	return env.ack(ctx, inter, "Ticket vergeben.")
}
