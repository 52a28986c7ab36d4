package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/DavidK2709/dcbot/internal/domain"
	"github.com/DavidK2709/dcbot/internal/platform"
	"github.com/DavidK2709/dcbot/internal/render"
	"github.com/DavidK2709/dcbot/pkg/util"
)

func handlePriceSubmit(ctx context.Context, env *Env, inter *platform.Interaction, ticket *domain.Ticket) error {
	raw := strings.TrimSpace(inter.Values["preis"])
	if raw == "" {
		ticket.Price = nil
		ticket.Touch()
		env.applied(ctx, inter, ticket, "hat den Preis entfernt.")
		return env.ack(ctx, inter, "Preis entfernt.")
	}

	price, err := strconv.Atoi(raw)
	if err != nil || price < 0 {
		return util.NewValidationError("Ungültiger Preis, bitte eine Zahl eingeben.",
			map[string]any{"preis": raw})
	}

	ticket.Price = &price
	ticket.Touch()
	env.applied(ctx, inter, ticket, "hat den Preis auf "+render.FormatPrice(&price)+" festgelegt.")
	return env.ack(ctx, inter, "Preis festgelegt: "+render.FormatPrice(&price))
}
