// Package handlers maps interactive component actions onto ticket
// mutations. Every handler follows the same shape: guard, mutate,
// persist, re-render, audit.
package handlers

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DavidK2709/dcbot/internal/directory"
	"github.com/DavidK2709/dcbot/internal/domain"
	"github.com/DavidK2709/dcbot/internal/events"
	"github.com/DavidK2709/dcbot/internal/intake"
	"github.com/DavidK2709/dcbot/internal/platform"
	"github.com/DavidK2709/dcbot/internal/registry"
	"github.com/DavidK2709/dcbot/internal/worker"
	"github.com/DavidK2709/dcbot/pkg/util"
)

// Env bundles the dependencies shared by all handlers.
type Env struct {
	Registry    *registry.Registry
	Client      platform.Client
	Directory   *directory.Directory
	Catalog     domain.ReasonCatalog
	Departments map[string]domain.Department
	AdminRoles  []string
	RescueRoles []string
	Intake      *intake.Service
	Dispatcher  events.Dispatcher
	Renames     *worker.RenameScheduler
	Logger      *zap.Logger
	Now         func() time.Time
	Location    *time.Location

	// DefaultOffset is the lead time used when an appointment is
	// scheduled without an explicit time of day.
	DefaultOffset time.Duration

	confirmMu sync.Mutex
	confirms  map[string]string
}

// rememberConfirm tracks the pending delete-confirmation prompt for a
// channel so it can be cleaned up later.
func (e *Env) rememberConfirm(channelID, messageID string) {
	e.confirmMu.Lock()
	defer e.confirmMu.Unlock()
	if e.confirms == nil {
		e.confirms = make(map[string]string)
	}
	e.confirms[channelID] = messageID
}

func (e *Env) takeConfirm(channelID string) (string, bool) {
	e.confirmMu.Lock()
	defer e.confirmMu.Unlock()
	msgID, ok := e.confirms[channelID]
	if ok {
		delete(e.confirms, channelID)
	}
	return msgID, ok
}

func (e *Env) forgetConfirm(channelID string) {
	e.confirmMu.Lock()
	defer e.confirmMu.Unlock()
	delete(e.confirms, channelID)
}

// HandlerFunc mutates one ticket in response to one interaction.
type HandlerFunc func(ctx context.Context, env *Env, inter *platform.Interaction, ticket *domain.Ticket) error

var table = map[domain.Action]HandlerFunc{
	domain.ActionCallAttempt: handleCallAttempt,

	domain.ActionAssign:       openAssignForm,
	domain.ActionAssignSubmit: handleAssignSubmit,

	domain.ActionSchedule:          openScheduleForm,
	domain.ActionScheduleSubmit:    handleScheduleSubmit,
	domain.ActionReschedule:        openScheduleForm,
	domain.ActionRescheduleSubmit:  handleScheduleSubmit,
	domain.ActionNoShow:            handleNoShow,
	domain.ActionCompleteAppointed: handleAppointmentDone,

	domain.ActionCaseFile:           openCaseFileForm,
	domain.ActionCaseFileSubmit:     handleCaseFileSubmit,
	domain.ActionCaseFileEdit:       openCaseFileForm,
	domain.ActionCaseFileEditSubmit: handleCaseFileSubmit,
	domain.ActionCaseFileDelete:     handleCaseFileDelete,
	domain.ActionFileIssued:         handleFileIssued,

	domain.ActionPriceSet:        openPriceForm,
	domain.ActionPriceSetSubmit:  handlePriceSubmit,
	domain.ActionPriceEdit:       openPriceForm,
	domain.ActionPriceEditSubmit: handlePriceSubmit,

	domain.ActionClose:         handleClose,
	domain.ActionReopen:        handleReopen,
	domain.ActionReset:         handleReset,
	domain.ActionDelete:        handleDelete,
	domain.ActionConfirmDelete: handleConfirmDelete,
	domain.ActionCancelDelete:  handleCancelDelete,
}

// Dispatch routes one interaction. Errors surfaced to the user stay in
// the channel scope; everything else is logged and answered generically
// so one bad interaction never takes the loop down.
func (e *Env) Dispatch(ctx context.Context, inter *platform.Interaction) {
	action, suffix := splitAction(inter.ActionID)

	var err error
	switch action {
	case domain.ActionCreateTicket:
		err = openCreateForm(ctx, e, inter, suffix)
	case domain.ActionCreateTicketSubmit:
		err = e.Intake.CreateFromForm(ctx, inter, suffix)
	default:
		err = e.dispatchTicket(ctx, action, inter)
	}
	if err == nil {
		return
	}

	if util.IsValidation(err) || util.IsForbidden(err) {
		_ = e.Client.Respond(ctx, inter.ID, util.ToDomainError(err).Message)
		return
	}
	e.Logger.Error("interaction failed",
		zap.String("actionId", inter.ActionID),
		zap.String("channelId", inter.ChannelID),
		zap.Error(err))
	_ = e.Client.Respond(ctx, inter.ID, "Aktion fehlgeschlagen, bitte erneut versuchen.")
}

func (e *Env) dispatchTicket(ctx context.Context, action domain.Action, inter *platform.Interaction) error {
	handler, ok := table[action]
	if !ok {
		return util.NewValidationError("Unbekannte Aktion.", map[string]any{"action": string(action)})
	}
	ticket := e.Registry.Get(inter.ChannelID)
	if ticket == nil {
		return util.NewValidationError("Dieser Kanal gehört zu keinem Ticket.", nil)
	}
	if ticket.IsClosed() && !action.AllowedWhenClosed() {
		return util.NewValidationError("Das Ticket ist geschlossen.", nil)
	}
	return handler(ctx, e, inter, ticket)
}

func splitAction(actionID string) (domain.Action, string) {
	if idx := strings.Index(actionID, ":"); idx >= 0 {
		return domain.Action(actionID[:idx]), actionID[idx+1:]
	}
	return domain.Action(actionID), ""
}

// applied persists a mutated ticket, refreshes the rendered message,
// defers the channel rename and drops the audit line into the channel.
func (e *Env) applied(ctx context.Context, inter *platform.Interaction, ticket *domain.Ticket, audit string) {
	e.Registry.Set(inter.ChannelID, ticket)

	if err := e.Registry.UpdateRenderedMessage(ctx, e.Client, inter.ChannelID, ticket); err != nil {
		e.Logger.Warn("ticket render refresh failed",
			zap.String("channelId", inter.ChannelID),
			zap.Error(err))
	}

	channelID := inter.ChannelID
	e.Renames.Schedule(channelID, func(ctx context.Context) {
		current := e.Registry.Get(channelID)
		if current == nil {
			return
		}
		e.Registry.UpdateChannelName(ctx, e.Client, channelID, current)
	})

	if audit != "" {
		line := "[" + e.Now().In(e.Location).Format("02.01.2006 - 15:04:05") + "] " +
			inter.ActorMention + " " + audit
		if _, err := e.Client.SendMessage(ctx, channelID, platform.Outgoing{Content: line}); err != nil {
			e.Logger.Warn("audit line failed",
				zap.String("channelId", channelID),
				zap.Error(err))
		}
	}
}

func (e *Env) publish(ctx context.Context, eventType events.EventType, inter *platform.Interaction, ticket *domain.Ticket, detail string) {
	var snapshot *domain.Ticket
	if ticket != nil {
		snapshot = ticket.Clone()
	}
	_ = e.Dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ChannelID: inter.ChannelID,
		Actor:     inter.ActorMention,
		Timestamp: e.Now(),
		Ticket:    snapshot,
		Detail:    detail,
	})
}

func (e *Env) ack(ctx context.Context, inter *platform.Interaction, text string) error {
	return e.Client.Respond(ctx, inter.ID, text)
}

func (e *Env) isAdmin(inter *platform.Interaction) bool {
	return hasAnyRole(inter.ActorRoles, e.AdminRoles)
}

func hasAnyRole(actorRoles, wanted []string) bool {
	for _, have := range actorRoles {
		for _, want := range wanted {
			if have == want {
				return true
			}
		}
	}
	return false
}

// department looks up the ticket's department; the zero value is
// returned for tickets whose department was never resolved.
func (e *Env) department(ticket *domain.Ticket) (domain.Department, bool) {
	dept, ok := e.Departments[ticket.Department]
	return dept, ok
}
