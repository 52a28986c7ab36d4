package handlers

import (
	"context"
	"strconv"

	"github.com/DavidK2709/dcbot/internal/domain"
	"github.com/DavidK2709/dcbot/internal/platform"
	"github.com/DavidK2709/dcbot/pkg/util"
)

// submitID derives the form id from the triggering button: the submit
// action of every form-opening action is its name plus "_submit".
func submitID(inter *platform.Interaction) string {
	action, suffix := splitAction(inter.ActionID)
	id := string(action) + "_submit"
	if suffix != "" {
		id += ":" + suffix
	}
	return id
}

func openAssignForm(ctx context.Context, env *Env, inter *platform.Interaction, ticket *domain.Ticket) error {
	value := ""
	if ticket.AssignedTo != nil {
		value = *ticket.AssignedTo
	}
	return env.Client.OpenForm(ctx, inter.ID, platform.Form{
		ID:    submitID(inter),
		Title: "Ticket vergeben",
		Inputs: []platform.FormInput{{
			ID:          "mitarbeiter",
			Label:       "Mitarbeiter",
			Required:    true,
			Value:       value,
			Placeholder: "Dienstnummer oder Name, mehrere mit ; trennen",
		}},
	})
}

func openScheduleForm(ctx context.Context, env *Env, inter *platform.Interaction, ticket *domain.Ticket) error {
	date, timeOfDay := "", ""
	if ticket.AppointmentDate != nil {
		date = *ticket.AppointmentDate
	}
	if ticket.AppointmentTime != nil {
		timeOfDay = *ticket.AppointmentTime
	}
	return env.Client.OpenForm(ctx, inter.ID, platform.Form{
		ID:    submitID(inter),
		Title: "Termin festlegen",
		Inputs: []platform.FormInput{
			{ID: "datum", Label: "Datum", Value: date, Placeholder: "TT.MM.JJJJ, leer = heute"},
			{ID: "uhrzeit", Label: "Uhrzeit", Value: timeOfDay, Placeholder: "leer = demnächst"},
		},
	})
}

func openCaseFileForm(ctx context.Context, env *Env, inter *platform.Interaction, ticket *domain.Ticket) error {
	link := ""
	if ticket.CaseFileLink != nil {
		link = *ticket.CaseFileLink
	}
	return env.Client.OpenForm(ctx, inter.ID, platform.Form{
		ID:    submitID(inter),
		Title: "AVPS Akte",
		Inputs: []platform.FormInput{{
			ID:       "link",
			Label:    "Link zur Akte",
			Required: true,
			Value:    link,
		}},
	})
}

func openPriceForm(ctx context.Context, env *Env, inter *platform.Interaction, ticket *domain.Ticket) error {
	price := ""
	if ticket.Price != nil {
		price = strconv.Itoa(*ticket.Price)
	}
	return env.Client.OpenForm(ctx, inter.ID, platform.Form{
		ID:    submitID(inter),
		Title: "Preis festlegen",
		Inputs: []platform.FormInput{{
			ID:          "preis",
			Label:       "Preis in $",
			Value:       price,
			Placeholder: "Nur Zahlen, leer = entfernen",
		}},
	})
}

// openCreateForm shows the manual intake form for one department. The
// department travels in the form id suffix.
func openCreateForm(ctx context.Context, env *Env, inter *platform.Interaction, departmentName string) error {
	if _, ok := env.Departments[departmentName]; !ok {
		return util.NewValidationError("Unbekannte Abteilung: "+departmentName, nil)
	}
	return env.Client.OpenForm(ctx, inter.ID, platform.Form{
		ID:    string(domain.ActionCreateTicketSubmit) + ":" + departmentName,
		Title: "Behandlungsanfrage: " + departmentName,
		Inputs: []platform.FormInput{
			{ID: "grund", Label: "Grund", Required: true},
			{ID: "patient", Label: "Patient", Required: true},
			{ID: "telefon", Label: "Telefon", Required: true},
			{ID: "sonstiges", Label: "Sonstiges", Paragraph: true},
		},
	})
}
