package render

import (
	"github.com/DavidK2709/dcbot/internal/domain"
	"github.com/DavidK2709/dcbot/internal/platform"
)

const maxButtonRows = 5

// Buttons derives the action layout for the ticket's current state.
func Buttons(t *domain.Ticket) []platform.ButtonRow {
	if t.IsClosed() {
		return []platform.ButtonRow{{Buttons: []platform.Button{
			button(domain.ActionReopen, "Ticket wieder öffnen", platform.ButtonSuccess),
			button(domain.ActionDelete, "Ticket löschen", platform.ButtonDanger),
		}}}
	}

	var rows []platform.ButtonRow

	assignButton := button(domain.ActionAssign, "Ticket vergeben", platform.ButtonDanger)
	if t.AssignedTo != nil {
		assignButton = button(domain.ActionAssign, "Ticket neuvergeben", platform.ButtonSecondary)
	}

	firstRow := []platform.Button{
		button(domain.ActionCallAttempt, "Versucht anzurufen", platform.ButtonDanger),
		assignButton,
	}
	if t.AssignedTo != nil && t.AppointmentDate == nil && t.AppointmentTime == nil {
		firstRow = append(firstRow, button(domain.ActionSchedule, "Termin festlegen", platform.ButtonDanger))
	}
	if t.Price != nil {
		firstRow = append(firstRow, button(domain.ActionPriceEdit, "Preis bearbeiten", platform.ButtonSecondary))
	} else {
		firstRow = append(firstRow, button(domain.ActionPriceSet, "Preis festlegen", platform.ButtonDanger))
	}
	rows = append(rows, platform.ButtonRow{Buttons: firstRow})

	if t.HasPendingAppointment() {
		rows = append(rows, platform.ButtonRow{Buttons: []platform.Button{
			button(domain.ActionNoShow, "Nicht erschienen", platform.ButtonDanger),
			button(domain.ActionReschedule, "Termin umlegen", platform.ButtonSecondary),
			button(domain.ActionCompleteAppointed, "Termin erledigt", platform.ButtonSuccess),
		}})
	}

	if t.CaseFileLink == nil && t.AppointmentCompleted {
		rows = append(rows, platform.ButtonRow{Buttons: []platform.Button{
			button(domain.ActionCaseFile, "AVPS Akte hinterlegen", platform.ButtonDanger),
		}})
	} else if t.CaseFileLink != nil {
		rows = append(rows, platform.ButtonRow{Buttons: []platform.Button{
			button(domain.ActionCaseFileEdit, "AVPS Akte bearbeiten", platform.ButtonDanger),
			button(domain.ActionCaseFileDelete, "Akte löschen", platform.ButtonDanger),
			button(domain.ActionFileIssued, "Akte herausgegeben", platform.ButtonSuccess),
		}})
	}

	resetDisabled := !t.HasInteraction() || t.JustReset
	resetButton := button(domain.ActionReset, "Zurücksetzen", platform.ButtonSecondary)
	resetButton.Disabled = resetDisabled
	rows = append(rows, platform.ButtonRow{Buttons: []platform.Button{
		button(domain.ActionClose, "Schließen", platform.ButtonDanger),
		resetButton,
	}})

	if len(rows) > maxButtonRows {
		rows = rows[:maxButtonRows]
	}
	return rows
}

func button(action domain.Action, label string, style platform.ButtonStyle) platform.Button {
	return platform.Button{ActionID: string(action), Label: label, Style: style}
}
