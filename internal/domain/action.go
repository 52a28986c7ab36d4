package domain

// Action identifies one user-initiated ticket operation. The string
// value doubles as the interactive component id on the wire.
type Action string

const (
	ActionCallAttempt Action = "call_attempt"

	ActionAssign       Action = "assign"
	ActionAssignSubmit Action = "assign_submit"

	ActionSchedule          Action = "schedule"
	ActionScheduleSubmit    Action = "schedule_submit"
	ActionReschedule        Action = "reschedule"
	ActionRescheduleSubmit  Action = "reschedule_submit"
	ActionNoShow            Action = "no_show"
	ActionCompleteAppointed Action = "appointment_completed"

	ActionCaseFile           Action = "casefile"
	ActionCaseFileSubmit     Action = "casefile_submit"
	ActionCaseFileEdit       Action = "casefile_edit"
	ActionCaseFileEditSubmit Action = "casefile_edit_submit"
	ActionCaseFileDelete     Action = "casefile_delete"
	ActionFileIssued         Action = "file_issued"

	ActionPriceSet        Action = "price_set"
	ActionPriceSetSubmit  Action = "price_set_submit"
	ActionPriceEdit       Action = "price_edit"
	ActionPriceEditSubmit Action = "price_edit_submit"

	ActionClose         Action = "close"
	ActionReopen        Action = "reopen"
	ActionReset         Action = "reset"
	ActionDelete        Action = "delete"
	ActionConfirmDelete Action = "confirm_delete"
	ActionCancelDelete  Action = "cancel_delete"

	// Intake actions carry a department suffix after a colon.
	ActionCreateTicket       Action = "create_ticket"
	ActionCreateTicketSubmit Action = "create_ticket_submit"
)

// AllowedWhenClosed reports whether the action may run on a closed ticket.
func (a Action) AllowedWhenClosed() bool {
	switch a {
	case ActionReopen, ActionDelete, ActionConfirmDelete, ActionCancelDelete:
		return true
	}
	return false
}
