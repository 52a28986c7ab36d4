package render

import (
	"fmt"
	"strconv"

	"github.com/DavidK2709/dcbot/internal/domain"
	"github.com/DavidK2709/dcbot/internal/platform"
)

// EmbedColor is the accent color shared by every ticket embed.
const EmbedColor = 0x480007

// Embed builds the ticket's rich-message view. Field order is fixed:
// department, creator (manual tickets only), reason, subject, phone,
// notes, appointment history, pending appointment, assignee, price,
// case-file link.
func Embed(t *domain.Ticket, catalog domain.ReasonCatalog) *platform.Embed {
	automatic := t.IsAutomatic(catalog)

	title := "Behandlungsanfrage für " + t.Department
	if automatic {
		title = "Behandlungsanfrage für " + catalog.DisplayName(t.Reason)
	}

	fields := []platform.EmbedField{
		{Name: "Abteilung", Value: orUnspecified(t.DepartmentMention)},
	}

	if !automatic && t.CreatedBy != nil {
		fields = append(fields, platform.EmbedField{Name: "Erstellt von", Value: *t.CreatedBy})
	}

	fields = append(fields,
		platform.EmbedField{Name: "Grund", Value: orUnspecified(catalog.DisplayName(t.Reason))},
		platform.EmbedField{Name: "Patient", Value: orUnspecified(t.Subject)},
		platform.EmbedField{Name: "Telefon", Value: orUnspecified(t.Phone)},
		platform.EmbedField{Name: "Sonstiges", Value: orUnspecified(t.Notes)},
	)

	index := 0
	for _, appt := range t.CompletedAppointments {
		index++
		fields = append(fields, platform.EmbedField{
			Name:  appointmentLabel(index),
			Value: appt.Date + " - " + appt.Time,
		})
	}
	if t.HasPendingAppointment() {
		index++
		fields = append(fields, platform.EmbedField{
			Name:  appointmentLabel(index),
			Value: *t.AppointmentDate + " - " + *t.AppointmentTime,
		})
	}

	if t.AssignedTo != nil {
		fields = append(fields, platform.EmbedField{Name: "Übernommen von", Value: *t.AssignedTo})
	}

	if price := t.EffectivePrice(catalog); price != nil {
		fields = append(fields, platform.EmbedField{Name: "Preis", Value: FormatPrice(price)})
	}

	if t.CaseFileLink != nil {
		fields = append(fields, platform.EmbedField{Name: "AVPS-Akte", Value: *t.CaseFileLink})
	}

	return &platform.Embed{Title: title, Color: EmbedColor, Fields: fields}
}

// Message assembles the full rendered view: embed plus action buttons.
func Message(t *domain.Ticket, catalog domain.ReasonCatalog) platform.Outgoing {
	return platform.Outgoing{
		Embed:   Embed(t, catalog),
		Buttons: Buttons(t),
	}
}

// FormatPrice renders a whole-unit price for display.
func FormatPrice(price *int) string {
	if price == nil {
		return domain.Unspecified
	}
	return "€" + groupThousands(*price)
}

func groupThousands(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		return s
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "." + s[i:]
	}
	return s
}

func appointmentLabel(index int) string {
	if index <= 1 {
		return "Termin"
	}
	return fmt.Sprintf("Termin %d", index)
}

func orUnspecified(s string) string {
	if s == "" {
		return domain.Unspecified
	}
	return s
}
