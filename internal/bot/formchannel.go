package bot

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/DavidK2709/dcbot/internal/domain"
	"github.com/DavidK2709/dcbot/internal/platform"
	"github.com/DavidK2709/dcbot/internal/render"
)

const formMessageTitle = "Behandlungsanfrage erstellen"

// ensureFormMessage makes the form channel converge on exactly one
// department-picker message: duplicates and stale bot messages are
// removed, and a fresh one is posted if none survives. Idempotent across
// restarts.
func (b *Bot) ensureFormMessage(ctx context.Context) {
	if b.cfg.FormChannelID == "" {
		return
	}

	messages, err := b.client.FetchMessages(ctx, b.cfg.FormChannelID, 50)
	if err != nil {
		b.logger.Warn("form channel scan failed",
			zap.String("channelId", b.cfg.FormChannelID), zap.Error(err))
		return
	}

	keep := ""
	for _, msg := range messages {
		isPicker := msg.Embed != nil && msg.Embed.Title == formMessageTitle && msg.HasButtons
		if isPicker && keep == "" {
			keep = msg.ID
			continue
		}
		if !isPicker && !msg.HasButtons {
			continue
		}
		if err := b.client.DeleteMessage(ctx, b.cfg.FormChannelID, msg.ID); err != nil {
			b.logger.Warn("stale form message cleanup failed",
				zap.String("messageId", msg.ID), zap.Error(err))
		}
	}
	if keep != "" {
		return
	}

	if _, err := b.client.SendMessage(ctx, b.cfg.FormChannelID, b.formMessage()); err != nil {
		b.logger.Error("form message post failed",
			zap.String("channelId", b.cfg.FormChannelID), zap.Error(err))
	}
}

func (b *Bot) formMessage() platform.Outgoing {
	names := make([]string, 0, len(b.env.Departments))
	for name := range b.env.Departments {
		names = append(names, name)
	}
	sort.Strings(names)

	buttons := make([]platform.Button, 0, len(names))
	for _, name := range names {
		buttons = append(buttons, platform.Button{
			ActionID: string(domain.ActionCreateTicket) + ":" + name,
			Label:    name,
			Style:    platform.ButtonPrimary,
		})
	}

	return platform.Outgoing{
		Embed: &platform.Embed{
			Title: formMessageTitle,
			Color: render.EmbedColor,
			Fields: []platform.EmbedField{{
				Name:  "Abteilung wählen",
				Value: "Wähle die Abteilung, für die eine Behandlungsanfrage erstellt werden soll.",
			}},
		},
		Buttons: []platform.ButtonRow{{Buttons: buttons}},
	}
}
