package handlers

import (
	"context"
	"strings"

	"github.com/DavidK2709/dcbot/internal/domain"
	"github.com/DavidK2709/dcbot/internal/platform"
	"github.com/DavidK2709/dcbot/pkg/util"
)

func handleCaseFileSubmit(ctx context.Context, env *Env, inter *platform.Interaction, ticket *domain.Ticket) error {
	link := strings.TrimSpace(inter.Values["link"])
	if link == "" {
		return util.NewValidationError("Kein Link angegeben.", nil)
	}
	ticket.CaseFileLink = &link
	ticket.Touch()
	env.applied(ctx, inter, ticket, "hat die AVPS-Akte hinterlegt.")
	return env.ack(ctx, inter, "Akte hinterlegt.")
}

func handleCaseFileDelete(ctx context.Context, env *Env, inter *platform.Interaction, ticket *domain.Ticket) error {
	if ticket.CaseFileLink == nil {
		return util.NewValidationError("Keine Akte hinterlegt.", nil)
	}
	ticket.CaseFileLink = nil
	ticket.FileIssued = false
	ticket.Touch()
	env.applied(ctx, inter, ticket, "hat die AVPS-Akte entfernt.")
	return env.ack(ctx, inter, "Akte entfernt.")
}

func handleFileIssued(ctx context.Context, env *Env, inter *platform.Interaction, ticket *domain.Ticket) error {
	if ticket.CaseFileLink == nil {
		return util.NewValidationError("Keine Akte hinterlegt.", nil)
	}
	ticket.FileIssued = true
	ticket.Touch()
	env.applied(ctx, inter, ticket, "hat die Akte herausgegeben.")
	return env.ack(ctx, inter, "Akte als herausgegeben markiert.")
}
