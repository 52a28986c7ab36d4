// Package render derives the visible representation of a ticket (channel
// name, embed, action buttons) purely from its state. No I/O lives here.
package render

import (
	"strings"

	"github.com/DavidK2709/dcbot/internal/domain"
)

const (
	maxChannelNameLength = 100
	maxManualReasonChars = 25
)

// ChannelName derives the display name of a ticket channel: status glyph
// plus a slug from reason and subject, clipped to the platform limit.
func ChannelName(t *domain.Ticket, catalog domain.ReasonCatalog) string {
	var base string
	if t.IsAutomatic(catalog) {
		base = catalog.ShortName(t.Reason) + "-" + slug(t.Subject)
	} else {
		base = slug(t.Subject) + "-" + slug(clipRunes(t.Reason, maxManualReasonChars))
	}
	return clipRunes(StatusGlyph(t)+"-"+base, maxChannelNameLength)
}

// clipRunes shortens s to at most max characters. Limits count runes,
// not bytes, so umlauts and the glyph prefix are never split.
func clipRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// StatusGlyph picks the channel-name prefix for the ticket state.
// Priority: closed > just-reset > pending appointment > call attempted >
// assigned > new; appointment and call glyphs carry an assigned marker.
func StatusGlyph(t *domain.Ticket) string {
	assigned := t.AssignedTo != nil
	switch {
	case t.IsClosed():
		return "🔒"
	case t.JustReset:
		return "🔄"
	case t.HasPendingAppointment():
		if assigned {
			return "📅✅"
		}
		return "📅"
	case t.CallAttempted:
		if assigned {
			return "📞✅"
		}
		return "📞"
	case assigned:
		return "✅"
	default:
		return "🕓"
	}
}

func slug(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "-")
}
