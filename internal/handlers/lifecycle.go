package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/DavidK2709/dcbot/internal/domain"
	"github.com/DavidK2709/dcbot/internal/events"
	"github.com/DavidK2709/dcbot/internal/platform"
	"github.com/DavidK2709/dcbot/internal/render"
	"github.com/DavidK2709/dcbot/pkg/util"
)

func handleClose(ctx context.Context, env *Env, inter *platform.Interaction, ticket *domain.Ticket) error {
	ticket.Status = domain.TicketStatusClosed
	ticket.Touch()

	env.setChannelWriteAccess(ctx, ticket, inter.ChannelID, false)
	env.logSummary(ctx, ticket, "Behandlung abgeschlossen")
	env.applied(ctx, inter, ticket, "hat das Ticket geschlossen.")
	env.publish(ctx, events.EventTicketClosed, inter, ticket, "")
	return env.ack(ctx, inter, "Ticket geschlossen.")
}

func handleReopen(ctx context.Context, env *Env, inter *platform.Interaction, ticket *domain.Ticket) error {
	ticket.Status = domain.TicketStatusOpen
	ticket.Touch()

	env.setChannelWriteAccess(ctx, ticket, inter.ChannelID, true)
	env.applied(ctx, inter, ticket, "hat das Ticket wieder geöffnet.")
	env.publish(ctx, events.EventTicketReopened, inter, ticket, "")
	return env.ack(ctx, inter, "Ticket wieder geöffnet.")
}

func handleReset(ctx context.Context, env *Env, inter *platform.Interaction, ticket *domain.Ticket) error {
	if !ticket.HasInteraction() || ticket.JustReset {
		return util.NewValidationError("Nichts zum Zurücksetzen vorhanden.", nil)
	}
	ticket.Reset()
	env.applied(ctx, inter, ticket, "hat das Ticket zurückgesetzt.")
	env.publish(ctx, events.EventTicketReset, inter, ticket, "")
	return env.ack(ctx, inter, "Ticket zurückgesetzt.")
}

// handleDelete starts the two-step deletion: permission check, then a
// confirmation prompt in the channel.
func handleDelete(ctx context.Context, env *Env, inter *platform.Interaction, ticket *domain.Ticket) error {
	if err := env.checkDeletePermission(inter, ticket); err != nil {
		return err
	}
	msg, err := env.Client.SendMessage(ctx, inter.ChannelID, platform.Outgoing{
		Content: "Soll dieses Ticket wirklich gelöscht werden?",
		Buttons: []platform.ButtonRow{{Buttons: []platform.Button{
			{ActionID: string(domain.ActionConfirmDelete), Label: "Endgültig löschen", Style: platform.ButtonDanger},
			{ActionID: string(domain.ActionCancelDelete), Label: "Abbrechen", Style: platform.ButtonSecondary},
		}}},
	})
	if err != nil {
		return err
	}
	env.rememberConfirm(inter.ChannelID, msg.ID)
	return env.ack(ctx, inter, "Bitte bestätigen.")
}

func handleConfirmDelete(ctx context.Context, env *Env, inter *platform.Interaction, ticket *domain.Ticket) error {
	if err := env.checkDeletePermission(inter, ticket); err != nil {
		return err
	}

	env.logSummary(ctx, ticket, "Ticket gelöscht")
	env.publish(ctx, events.EventTicketDeleted, inter, ticket, "")

	env.Renames.Cancel(inter.ChannelID)
	env.forgetConfirm(inter.ChannelID)
	env.Registry.Archive(inter.ChannelID, ticket)
	env.Registry.Delete(inter.ChannelID)

	if err := env.Client.DeleteChannel(ctx, inter.ChannelID); err != nil {
		env.Logger.Error("channel deletion failed",
			zap.String("channelId", inter.ChannelID), zap.Error(err))
		return err
	}
	return nil
}

func handleCancelDelete(ctx context.Context, env *Env, inter *platform.Interaction, ticket *domain.Ticket) error {
	if msgID, ok := env.takeConfirm(inter.ChannelID); ok {
		if err := env.Client.DeleteMessage(ctx, inter.ChannelID, msgID); err != nil {
			env.Logger.Warn("confirm prompt cleanup failed",
				zap.String("channelId", inter.ChannelID), zap.Error(err))
		}
	}
	return env.ack(ctx, inter, "Löschung abgebrochen.")
}

// setChannelWriteAccess flips send access for the roles that work in
// the channel: the department members, plus the rescue roles on manual
// tickets. Leaders and admins keep their own overwrites untouched. A
// failed flip is logged and the status change stands.
func (e *Env) setChannelWriteAccess(ctx context.Context, ticket *domain.Ticket, channelID string, writable bool) {
	roles := make([]string, 0, 1+len(e.RescueRoles))
	if dept, ok := e.department(ticket); ok {
		roles = append(roles, dept.MemberRoleID)
	}
	if !ticket.IsAutomatic(e.Catalog) {
		roles = append(roles, e.RescueRoles...)
	}
	for _, role := range roles {
		over := platform.PermissionOverwrite{
			RoleID: role,
			Allow:  []platform.Permission{platform.PermissionView},
		}
		if writable {
			over.Allow = append(over.Allow, platform.PermissionSend)
		} else {
			over.Deny = []platform.Permission{platform.PermissionSend}
		}
		if err := e.Client.SetPermission(ctx, channelID, over); err != nil {
			e.Logger.Warn("channel permission update failed",
				zap.String("channelId", channelID),
				zap.String("roleId", role),
				zap.Error(err))
		}
	}
}

// checkDeletePermission allows admins always; department leaders may
// delete only once the ticket is closed.
func (e *Env) checkDeletePermission(inter *platform.Interaction, ticket *domain.Ticket) error {
	if e.isAdmin(inter) {
		return nil
	}
	if dept, ok := e.department(ticket); ok && ticket.IsClosed() {
		if hasAnyRole(inter.ActorRoles, []string{dept.LeaderRoleID}) {
			return nil
		}
	}
	return util.NewForbidden("Keine Berechtigung dieses Ticket zu löschen.")
}

// logSummary posts the department summary embed for a finished ticket.
// Skipped when the ticket misses the data the summary needs.
func (e *Env) logSummary(ctx context.Context, ticket *domain.Ticket, title string) {
	dept, ok := e.department(ticket)
	if !ok || !ticket.Loggable(dept) {
		return
	}
	price := ticket.EffectivePrice(e.Catalog)
	destination := dept.LogDestination(price)
	if destination == "" {
		return
	}

	assignees := domain.Unspecified
	if ticket.AssigneeNames != nil {
		assignees = *ticket.AssigneeNames
	}
	embed := &platform.Embed{
		Title: title,
		Color: render.EmbedColor,
		Fields: []platform.EmbedField{
			{Name: "Patient", Value: ticket.Subject},
			{Name: "Behandelt von", Value: assignees},
			{Name: "Grund", Value: e.Catalog.DisplayName(ticket.Reason)},
			{Name: "Preis", Value: render.FormatPrice(price)},
			{Name: "AVPS-Akte", Value: *ticket.CaseFileLink},
		},
	}
	if _, err := e.Client.SendMessage(ctx, destination, platform.Outgoing{Embed: embed}); err != nil {
		e.Logger.Warn("summary log failed",
			zap.String("channelId", destination), zap.Error(err))
	}
}
